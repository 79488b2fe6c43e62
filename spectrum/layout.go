package spectrum

import "github.com/neurlang/gofeat/tensor"

// Layout identifies how a complex spectrogram is laid out in memory.
type Layout int

const (
	// Paired is (..., freq_bins, frames, 2) with (real, imag) innermost.
	Paired Layout = iota + 1
	// Interleaved is (..., frames, freq_bins*2) with bins as re,im,re,im...
	Interleaved
)

func (l Layout) String() string {
	switch l {
	case Paired:
		return "paired"
	case Interleaved:
		return "interleaved"
	default:
		return "unknown"
	}
}

// ResolveLayout inspects shape and decides which layout it carries.
func ResolveLayout(shape []int, freqBins int) (Layout, error) {
	n := len(shape)
	if n >= 3 && shape[n-1] == 2 && shape[n-3] == freqBins {
		return Paired, nil
	}
	if n >= 2 && shape[n-1] == 2*freqBins {
		return Interleaved, nil
	}
	return 0, tensor.NewShapeError("spectrum.ResolveLayout", shape,
		"want (..., %d, frames, 2) or (..., frames, %d)", freqBins, 2*freqBins)
}

// ToPaired converts an Interleaved tensor (..., frames, freq_bins*2) into
// the Paired layout (..., freq_bins, frames, 2).
func ToPaired(x *tensor.Tensor, freqBins int) (*tensor.Tensor, error) {
	if x.Dims() < 2 || x.Dim(-1) != 2*freqBins {
		return nil, tensor.NewShapeError("spectrum.ToPaired", x.Shape, "last axis must be %d", 2*freqBins)
	}
	frames := x.Dim(-2)
	shape := append(append([]int(nil), x.Shape[:x.Dims()-2]...), freqBins, frames, 2)
	out := tensor.New(shape...)
	plane := frames * freqBins * 2
	for b := 0; b < tensor.Leading(x.Shape, 2); b++ {
		src := x.Data[b*plane : (b+1)*plane]
		dst := out.Data[b*plane : (b+1)*plane]
		for t := 0; t < frames; t++ {
			for f := 0; f < freqBins; f++ {
				s := t*freqBins*2 + f*2
				d := (f*frames + t) * 2
				dst[d] = src[s]
				dst[d+1] = src[s+1]
			}
		}
	}
	return out, nil
}

// Interleave flattens a Paired tensor (..., freq_bins, frames, 2) into feature
// rows (..., freq_bins*2, frames); row 2f holds the real part of bin f and
// row 2f+1 its imaginary part. Transposing the result gives the Interleaved layout.
func Interleave(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Dims() < 3 || x.Dim(-1) != 2 {
		return nil, tensor.NewShapeError("spectrum.Interleave", x.Shape, "need (..., freq_bins, frames, 2)")
	}
	bins, frames := x.Dim(-3), x.Dim(-2)
	shape := append(append([]int(nil), x.Shape[:x.Dims()-3]...), bins*2, frames)
	out := tensor.New(shape...)
	plane := bins * frames * 2
	for b := 0; b < tensor.Leading(x.Shape, 3); b++ {
		src := x.Data[b*plane : (b+1)*plane]
		dst := out.Data[b*plane : (b+1)*plane]
		for f := 0; f < bins; f++ {
			for t := 0; t < frames; t++ {
				s := (f*frames + t) * 2
				dst[(2*f)*frames+t] = src[s]
				dst[(2*f+1)*frames+t] = src[s+1]
			}
		}
	}
	return out, nil
}
