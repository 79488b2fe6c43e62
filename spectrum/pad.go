package spectrum

// ReflectPad pads x by pad samples on both sides, mirroring around the end
// samples without repeating them. pad must be smaller than len(x).
func ReflectPad(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)
	copy(out[pad:], x)
	for i := 1; i <= pad; i++ {
		out[pad-i] = x[i]
		out[pad+n-1+i] = x[n-1-i]
	}
	return out
}
