package spectrum

import (
	"github.com/pkg/errors"
	"github.com/r9y9/gossp/window"
)

// Kind names a window function.
type Kind string

const (
	Hann     Kind = "hann"
	Hamming  Kind = "hamming"
	Blackman Kind = "blackman"
)

// Window is a periodic analysis/synthesis window of WinLen samples, centered in a
// zero-padded buffer of NFFT samples. It is never modified after construction.
type Window struct {
	kind   Kind
	winLen int
	coeffs []float64
}

// NewWindow builds a periodic window of the given kind. winLen must not exceed nFFT.
func NewWindow(kind Kind, winLen, nFFT int) (*Window, error) {
	if winLen <= 0 || winLen > nFFT {
		return nil, errors.Errorf("window length %d must be in [1, %d]", winLen, nFFT)
	}

	// periodic windows are the first winLen points of the symmetric winLen+1 window
	var sym []float64
	switch kind {
	case Hann, "":
		kind = Hann
		sym = window.CreateHanning(winLen + 1)
	case Hamming:
		sym = window.CreateHamming(winLen + 1)
	case Blackman:
		sym = window.CreateBlackman(winLen + 1)
	default:
		return nil, errors.Errorf("unknown window kind %q", kind)
	}

	coeffs := make([]float64, nFFT)
	offset := (nFFT - winLen) / 2
	copy(coeffs[offset:offset+winLen], sym[:winLen])

	return &Window{kind: kind, winLen: winLen, coeffs: coeffs}, nil
}

// Kind returns the window function name.
func (w *Window) Kind() Kind { return w.kind }

// WinLen returns the non-padded window length.
func (w *Window) WinLen() int { return w.winLen }

// Len returns the padded length, equal to the FFT size.
func (w *Window) Len() int { return len(w.coeffs) }

// Coefficients returns a copy of the padded window.
func (w *Window) Coefficients() []float64 {
	return append([]float64(nil), w.coeffs...)
}

// checkNOLA verifies that the overlap-added squared window never vanishes,
// which is required for the synthesis division to be well defined.
func checkNOLA(coeffs []float64, hop int) error {
	if hop <= 0 {
		return errors.Errorf("hop length %d must be positive", hop)
	}
	if hop > len(coeffs) {
		return errors.Errorf("hop length %d exceeds FFT size %d", hop, len(coeffs))
	}
	for p := 0; p < hop; p++ {
		sum := 0.0
		for i := p; i < len(coeffs); i += hop {
			sum += coeffs[i] * coeffs[i]
		}
		if sum < nolaFloor {
			return errors.Errorf("window overlap-add envelope vanishes at offset %d with hop %d", p, hop)
		}
	}
	return nil
}
