package mel

import (
	"math"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/gofeat/spectrum"
	"github.com/neurlang/gofeat/tensor"
)

// MFCC computes cepstral coefficients straight from waveforms. It frames the
// signal with its own window instance and FFT, so it does not depend on a
// spectrogram computed elsewhere.
type MFCC struct {
	NumCoeffs int
	TopDB     float64

	params  spectrum.Params
	window  []float64
	bank    *FilterBank
	dct     *mat.Dense
	workers int
	logger  *logrus.Entry
}

// NewMFCC prepares an MFCC transform over bank using the framing of params and a
// freshly built window of the given kind.
func NewMFCC(nCoeffs int, bank *FilterBank, params spectrum.Params, kind spectrum.Kind, workers int, logger *logrus.Entry) (*MFCC, error) {
	if bank == nil {
		return nil, errors.New("nil filter bank")
	}
	if nCoeffs <= 0 || nCoeffs > bank.NumMels {
		return nil, errors.Errorf("cepstral coefficient count %d must be in [1, %d]", nCoeffs, bank.NumMels)
	}
	if params.FreqBins() != bank.NumFreqs {
		return nil, errors.Errorf("filter bank expects %d bins, FFT size %d gives %d", bank.NumFreqs, params.NFFT, params.FreqBins())
	}
	w, err := spectrum.NewWindow(kind, params.WinLen, params.NFFT)
	if err != nil {
		return nil, errors.Wrap(err, "mfcc window")
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &MFCC{
		NumCoeffs: nCoeffs,
		TopDB:     DefaultTopDB,
		params:    params,
		window:    w.Coefficients(),
		bank:      bank,
		dct:       NewDCT(nCoeffs, bank.NumMels),
		workers:   workers,
		logger: logger.WithFields(logrus.Fields{
			"component": "mfcc",
			"n_mfcc":    nCoeffs,
			"n_mels":    bank.NumMels,
		}),
	}, nil
}

// NewDCT returns the orthonormal DCT-II matrix truncated to its first n rows.
func NewDCT(n, size int) *mat.Dense {
	d := mat.NewDense(n, size, nil)
	scale := math.Sqrt(2 / float64(size))
	for k := 0; k < n; k++ {
		norm := scale
		if k == 0 {
			norm /= math.Sqrt2
		}
		for j := 0; j < size; j++ {
			d.Set(k, j, norm*math.Cos(math.Pi/float64(size)*(float64(j)+0.5)*float64(k)))
		}
	}
	return d
}

// Transform maps wav shaped (batch..., channel, time) to (batch..., channel, n_mfcc, frames).
func (m *MFCC) Transform(wav *tensor.Tensor) (*tensor.Tensor, error) {
	if wav == nil || wav.Dims() < 3 {
		var shape []int
		if wav != nil {
			shape = wav.Shape
		}
		return nil, tensor.NewShapeError("mel.MFCC", shape, "need (batch, channel, time)")
	}
	samples := wav.Dim(-1)
	if samples <= m.params.NFFT/2 {
		return nil, tensor.NewShapeError("mel.MFCC", wav.Shape, "%d samples cannot be reflect padded by %d", samples, m.params.NFFT/2)
	}
	frames := m.params.NumFrames(samples)
	rows := tensor.Leading(wav.Shape, 1)
	shape := append(append([]int(nil), wav.Shape[:wav.Dims()-1]...), m.NumCoeffs, frames)
	out := tensor.New(shape...)
	plane := m.NumCoeffs * frames

	m.logger.WithFields(logrus.Fields{
		"rows":   rows,
		"frames": frames,
	}).Debug("Computing MFCC")

	var g errgroup.Group
	g.SetLimit(m.workers)
	for r := 0; r < rows; r++ {
		r := r
		g.Go(func() error {
			m.row(wav.Data[r*samples:(r+1)*samples], out.Data[r*plane:(r+1)*plane], frames)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MFCC) row(row, dst []float64, frames int) {
	n := m.params.NFFT
	hop := m.params.HopLen
	bins := m.params.FreqBins()

	padded := spectrum.ReflectPad(row, n/2)
	fft := fourier.NewFFT(n)
	frame := make([]float64, n)
	coeffs := make([]complex128, bins)
	power := mat.NewDense(bins, frames, nil)

	for t := 0; t < frames; t++ {
		seg := padded[t*hop : t*hop+n]
		for j := range frame {
			frame[j] = seg[j] * m.window[j]
		}
		coeffs = fft.Coefficients(coeffs, frame)
		for f, c := range coeffs {
			power.Set(f, t, real(c)*real(c)+imag(c)*imag(c))
		}
	}

	melPower := mat.NewDense(m.bank.NumMels, frames, nil)
	melPower.Mul(m.bank.weights, power)
	PowerToDB(melPower.RawMatrix().Data, m.TopDB)

	out := mat.NewDense(m.NumCoeffs, frames, dst)
	out.Mul(m.dct, melPower)
}
