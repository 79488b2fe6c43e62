package mel

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/gofeat/tensor"
)

// FilterBank is a fixed (n_mels, freq_bins) matrix of triangular mel filters.
type FilterBank struct {
	NumMels    int
	NumFreqs   int
	SampleRate int
	FMin       float64
	FMax       float64

	weights *mat.Dense
}

// NewFilterBank builds triangular filters with edges equally spaced on the mel
// scale between fMin and fMax, evaluated on nFreq bins spanning [0, sampleRate/2].
// A non-positive fMax selects the Nyquist frequency.
func NewFilterBank(nMels, nFreq, sampleRate int, fMin, fMax float64) (*FilterBank, error) {
	if nMels <= 0 {
		return nil, errors.Errorf("mel band count %d must be positive", nMels)
	}
	if nFreq < 2 {
		return nil, errors.Errorf("frequency bin count %d must be at least 2", nFreq)
	}
	if sampleRate <= 0 {
		return nil, errors.Errorf("sample rate %d must be positive", sampleRate)
	}
	if fMax <= 0 {
		fMax = float64(sampleRate / 2)
	}
	if fMin < 0 || fMin >= fMax {
		return nil, errors.Errorf("mel range [%g, %g] is empty", fMin, fMax)
	}

	freqs := floats.Span(make([]float64, nFreq), 0, float64(sampleRate/2))
	points := floats.Span(make([]float64, nMels+2), hzToMel(fMin), hzToMel(fMax))
	for i, m := range points {
		points[i] = melToHz(m)
	}

	weights := mat.NewDense(nMels, nFreq, nil)
	for m := 0; m < nMels; m++ {
		left, center, right := points[m], points[m+1], points[m+2]
		for k, f := range freqs {
			down := (f - left) / (center - left)
			up := (right - f) / (right - center)
			weights.Set(m, k, math.Max(0, math.Min(down, up)))
		}
	}

	return &FilterBank{
		NumMels:    nMels,
		NumFreqs:   nFreq,
		SampleRate: sampleRate,
		FMin:       fMin,
		FMax:       fMax,
		weights:    weights,
	}, nil
}

// Weights returns a copy of the filter matrix.
func (fb *FilterBank) Weights() *mat.Dense {
	return mat.DenseCopyOf(fb.weights)
}

// Project applies the filter bank to spec shaped (..., freq_bins, frames) and
// returns (..., n_mels, frames).
func (fb *FilterBank) Project(spec *tensor.Tensor) (*tensor.Tensor, error) {
	if spec == nil || spec.Dims() < 2 || spec.Dim(-2) != fb.NumFreqs {
		var shape []int
		if spec != nil {
			shape = spec.Shape
		}
		return nil, tensor.NewShapeError("mel.Project", shape, "need (..., %d, frames)", fb.NumFreqs)
	}
	frames := spec.Dim(-1)
	shape := append(append([]int(nil), spec.Shape[:spec.Dims()-2]...), fb.NumMels, frames)
	out := tensor.New(shape...)
	if frames == 0 {
		return out, nil
	}

	in := fb.NumFreqs * frames
	plane := fb.NumMels * frames
	for b := 0; b < tensor.Leading(spec.Shape, 2); b++ {
		fb.projectInto(spec.Data[b*in:(b+1)*in], out.Data[b*plane:(b+1)*plane], frames)
	}
	return out, nil
}

// projectInto writes weights·src into dst, both row-major with frames columns.
func (fb *FilterBank) projectInto(src, dst []float64, frames int) {
	s := mat.NewDense(fb.NumFreqs, frames, src)
	d := mat.NewDense(fb.NumMels, frames, dst)
	d.Mul(fb.weights, s)
}
