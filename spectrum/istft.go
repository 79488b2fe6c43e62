package spectrum

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/sirupsen/logrus"

	"github.com/neurlang/gofeat/tensor"
)

// Synthesize inverts Analyze. spec is either Paired (..., freq_bins, frames, 2)
// or Interleaved (..., frames, freq_bins*2). The output holds length samples per
// row, or hop_len*(frames-1) when length is not positive.
func (t *Transform) Synthesize(spec *tensor.Tensor, length int) (*tensor.Tensor, error) {
	if spec == nil {
		return nil, tensor.NewShapeError("spectrum.Synthesize", nil, "nil spectrogram")
	}
	bins := t.params.FreqBins()
	layout, err := ResolveLayout(spec.Shape, bins)
	if err != nil {
		return nil, err
	}
	if layout == Interleaved {
		if spec, err = ToPaired(spec, bins); err != nil {
			return nil, err
		}
	}

	frames := spec.Dim(-2)
	if frames < 1 {
		return nil, tensor.NewShapeError("spectrum.Synthesize", spec.Shape, "no frames")
	}
	if length <= 0 {
		length = t.params.HopLen * (frames - 1)
	}

	rows := tensor.Leading(spec.Shape, 3)
	shape := append(append([]int(nil), spec.Shape[:spec.Dims()-3]...), length)
	out := tensor.New(shape...)
	plane := bins * frames * 2

	t.logger.WithFields(logrus.Fields{
		"rows":   rows,
		"frames": frames,
		"layout": layout,
		"length": length,
	}).Debug("Synthesizing waveform")

	err = t.forRows(rows, func(r int) error {
		t.synthesizeRow(spec.Data[r*plane:(r+1)*plane], out.Data[r*length:(r+1)*length], frames)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Transform) synthesizeRow(src, dst []float64, frames int) {
	n := t.params.NFFT
	hop := t.params.HopLen
	bins := t.params.FreqBins()
	w := t.window.coeffs

	signal := make([]float64, n+hop*(frames-1))
	windowSum := make([]float64, len(signal))
	full := make([]complex128, n)

	for i := 0; i < frames; i++ {
		for f := 0; f < bins; f++ {
			k := (f*frames + i) * 2
			full[f] = complex(src[k], src[k+1])
		}
		// the inverse of a real transform ignores the imaginary DC and Nyquist parts
		full[0] = complex(real(full[0]), 0)
		full[n/2] = complex(real(full[n/2]), 0)
		for f := 1; f < n/2; f++ {
			full[n-f] = cmplx.Conj(full[f])
		}

		buf := fft.IFFT(full)
		offset := i * hop
		for j := 0; j < n; j++ {
			signal[offset+j] += real(buf[j]) * w[j]
			windowSum[offset+j] += w[j] * w[j]
		}
	}

	start := n / 2
	for i := range dst {
		p := start + i
		if p >= len(signal) {
			break
		}
		if windowSum[p] > nolaFloor {
			dst[i] = signal[p] / windowSum[p]
		}
	}
}
