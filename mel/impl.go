package mel

import "math"

const (
	melBreakFrequencyHertz = 700.0
	melHighFrequencyQ      = 2595.0

	// AminPower is the floor applied before taking decibels of a power value.
	AminPower = 1e-10
	// DefaultTopDB bounds the dynamic range of decibel spectra below their peak.
	DefaultTopDB = 80.0
)

func hzToMel(hz float64) float64 {
	return melHighFrequencyQ * math.Log10(1.0+hz/melBreakFrequencyHertz)
}

func melToHz(mel float64) float64 {
	return melBreakFrequencyHertz * (math.Pow(10, mel/melHighFrequencyQ) - 1.0)
}

// PowerToDB converts power values to decibels in place. Values are floored at
// AminPower, and when topDB is positive everything below max-topDB is raised to it.
func PowerToDB(buf []float64, topDB float64) {
	peak := math.Inf(-1)
	for i, v := range buf {
		if v < AminPower {
			v = AminPower
		}
		buf[i] = 10 * math.Log10(v)
		if buf[i] > peak {
			peak = buf[i]
		}
	}
	if topDB <= 0 {
		return
	}
	floor := peak - topDB
	for i, v := range buf {
		if v < floor {
			buf[i] = floor
		}
	}
}
