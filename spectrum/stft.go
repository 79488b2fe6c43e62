package spectrum

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/r9y9/gossp/stft"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/neurlang/gofeat/tensor"
)

const nolaFloor = 1e-11

// Params holds the framing parameters shared by analysis and synthesis.
type Params struct {
	NFFT   int
	HopLen int
	WinLen int
}

// FreqBins returns the number of one-sided frequency bins.
func (p Params) FreqBins() int {
	return p.NFFT/2 + 1
}

// NumFrames returns the number of centered frames for a signal of n samples.
func (p Params) NumFrames(n int) int {
	return n/p.HopLen + 1
}

// Option configures a Transform.
type Option func(*Transform)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *logrus.Entry) Option {
	return func(t *Transform) {
		t.logger = logger
	}
}

// WithWorkers bounds the number of rows transformed concurrently.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(t *Transform) {
		t.workers = n
	}
}

// Transform is the analysis/synthesis pair for one parameter set. It is safe
// for concurrent use.
type Transform struct {
	params  Params
	window  *Window
	stft    *stft.STFT
	workers int
	logger  *logrus.Entry
}

// New validates params against w and returns a Transform using w for both directions.
func New(params Params, w *Window, opts ...Option) (*Transform, error) {
	if params.NFFT <= 0 || params.NFFT%2 != 0 {
		return nil, errors.Errorf("FFT size %d must be positive and even", params.NFFT)
	}
	if w == nil {
		return nil, errors.New("nil window")
	}
	if w.Len() != params.NFFT {
		return nil, errors.Errorf("window length %d does not match FFT size %d", w.Len(), params.NFFT)
	}
	if w.WinLen() != params.WinLen {
		return nil, errors.Errorf("window built for %d samples, params ask for %d", w.WinLen(), params.WinLen)
	}
	if err := checkNOLA(w.coeffs, params.HopLen); err != nil {
		return nil, err
	}

	s := stft.New(params.HopLen, params.NFFT)
	s.Window = w.coeffs

	t := &Transform{
		params: params,
		window: w,
		stft:   s,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.workers < 1 {
		t.workers = runtime.GOMAXPROCS(0)
	}
	if t.logger == nil {
		t.logger = logrus.WithField("component", "spectrum")
	}
	t.logger = t.logger.WithFields(logrus.Fields{
		"n_fft":   params.NFFT,
		"hop_len": params.HopLen,
		"win_len": params.WinLen,
		"window":  w.Kind(),
	})
	return t, nil
}

// Params returns the framing parameters.
func (t *Transform) Params() Params { return t.params }

// Window returns the shared window.
func (t *Transform) Window() *Window { return t.window }

// Analyze computes the centered one-sided STFT of wav, shaped
// (batch..., channel, time), into (batch..., channel, freq_bins, frames, 2).
func (t *Transform) Analyze(wav *tensor.Tensor) (*tensor.Tensor, error) {
	if wav == nil || wav.Dims() < 3 {
		var shape []int
		if wav != nil {
			shape = wav.Shape
		}
		return nil, tensor.NewShapeError("spectrum.Analyze", shape, "need (batch, channel, time), got %d dims", len(shape))
	}
	samples := wav.Dim(-1)
	pad := t.params.NFFT / 2
	if samples <= pad {
		return nil, tensor.NewShapeError("spectrum.Analyze", wav.Shape, "%d samples cannot be reflect padded by %d", samples, pad)
	}

	rows := tensor.Leading(wav.Shape, 1)
	bins := t.params.FreqBins()
	frames := t.params.NumFrames(samples)

	shape := append(append([]int(nil), wav.Shape[:wav.Dims()-1]...), bins, frames, 2)
	out := tensor.New(shape...)
	plane := bins * frames * 2

	t.logger.WithFields(logrus.Fields{
		"rows":   rows,
		"frames": frames,
	}).Debug("Analyzing waveform")

	err := t.forRows(rows, func(r int) error {
		return t.analyzeRow(wav.Data[r*samples:(r+1)*samples], out.Data[r*plane:(r+1)*plane], frames)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Transform) analyzeRow(row, dst []float64, frames int) error {
	padded := ReflectPad(row, t.params.NFFT/2)
	spectra := t.stft.STFT(padded)
	if len(spectra) != frames {
		return errors.Errorf("stft produced %d frames, expected %d", len(spectra), frames)
	}
	bins := t.params.FreqBins()
	for i, spectrum := range spectra {
		for f := 0; f < bins; f++ {
			k := (f*frames + i) * 2
			dst[k] = real(spectrum[f])
			dst[k+1] = imag(spectrum[f])
		}
	}
	return nil
}

// forRows runs fn for every row with bounded concurrency. Rows write disjoint
// output ranges, so the result does not depend on scheduling.
func (t *Transform) forRows(n int, fn func(r int) error) error {
	var g errgroup.Group
	g.SetLimit(t.workers)
	for r := 0; r < n; r++ {
		r := r
		g.Go(func() error {
			return fn(r)
		})
	}
	return g.Wait()
}
