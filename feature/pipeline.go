package feature

import (
	"math"
	"math/rand"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/neurlang/gofeat/mel"
	"github.com/neurlang/gofeat/phase"
	"github.com/neurlang/gofeat/spectrum"
	"github.com/neurlang/gofeat/tensor"
)

// selfTestSeed fixes the pseudo waveform used by SelfTest.
const selfTestSeed = 1

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the parent logger. The pipeline and its transforms add a
// component field to it.
func WithLogger(logger *logrus.Entry) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// Pipeline extracts feature tensors from waveforms and inverts spectral
// features back to waveforms. The window, filter bank and DCT matrix are built
// once; a Pipeline is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	transform *spectrum.Transform
	bank      *mel.FilterBank
	mfcc      *mel.MFCC
	workers   int
	logger    *logrus.Entry
}

// NewPipeline validates cfg and prepares the transforms.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if cfg.Window == "" {
		cfg.Window = spectrum.Hann
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg, workers: cfg.Workers}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	if p.logger == nil {
		p.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	parent := p.logger

	var err error
	p.transform, err = cfg.transform(
		spectrum.WithLogger(parent.WithField("component", "spectrum")),
		spectrum.WithWorkers(p.workers),
	)
	if err != nil {
		return nil, err
	}
	p.bank, err = mel.NewFilterBank(cfg.NMels, cfg.NFreq, cfg.SampleRate, cfg.FMin, cfg.FMax)
	if err != nil {
		return nil, &ConfigError{Field: "n_mels", Value: cfg.NMels, Reason: "cannot build filter bank", Err: err}
	}
	p.mfcc, err = mel.NewMFCC(cfg.NMFCC, p.bank, cfg.Params(), cfg.Window, p.workers, parent)
	if err != nil {
		return nil, &ConfigError{Field: "n_mfcc", Value: cfg.NMFCC, Reason: "cannot build MFCC transform", Err: err}
	}

	p.logger = parent.WithField("component", "pipeline")
	p.logger.WithFields(logrus.Fields{
		"sample_rate": cfg.SampleRate,
		"n_fft":       cfg.NFFT(),
		"hop_len":     cfg.HopLen,
		"win_len":     cfg.WinLen,
		"n_mels":      cfg.NMels,
		"n_mfcc":      cfg.NMFCC,
		"workers":     p.workers,
	}).Debug("Pipeline ready")
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// Transform returns the shared analysis/synthesis transform.
func (p *Pipeline) Transform() *spectrum.Transform { return p.transform }

// FilterBank returns the mel filter bank.
func (p *Pipeline) FilterBank() *mel.FilterBank { return p.bank }

// NumFrames returns the frame count for a waveform of n samples.
func (p *Pipeline) NumFrames(n int) int { return p.cfg.Params().NumFrames(n) }

// Dim returns the feature dimension of t before delta stacking.
func (p *Pipeline) Dim(t Type) int {
	switch t {
	case Complex:
		return 2 * p.cfg.NFreq
	case Linear, Phase:
		return p.cfg.NFreq
	case Mel:
		return p.cfg.NMels
	case MFCC:
		return p.cfg.NMFCC
	}
	return 0
}

// OutputDims returns the feature dimension of every spec, including delta
// stacking, without touching any waveform. Nil specs selects Config.FeatList.
func (p *Pipeline) OutputDims(specs []Spec) ([]int, error) {
	if specs == nil {
		specs = p.cfg.FeatList
	}
	dims := make([]int, len(specs))
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		dims[i] = p.Dim(s.Type) * (s.Delta + 1)
	}
	return dims, nil
}

// Extract computes the requested features of wav shaped (batch..., channel, time).
// Nil specs selects Config.FeatList. Every request is validated before any
// transform runs; outputs are shaped (batch..., frames, feature) in request order.
func (p *Pipeline) Extract(wav *tensor.Tensor, specs []Spec) ([]*tensor.Tensor, error) {
	if specs == nil {
		specs = p.cfg.FeatList
	}
	if err := p.checkWaveform(wav); err != nil {
		return nil, err
	}
	channels := wav.Dim(-2)
	var needSpectrum, needMFCC bool
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		if s.Channel >= channels {
			return nil, errors.Wrapf(&ChannelRangeError{Channel: s.Channel, Channels: channels}, "feature %d", i)
		}
		if s.Type == MFCC {
			needMFCC = true
		} else {
			needSpectrum = true
		}
	}

	p.logger.WithFields(logrus.Fields{
		"shape":    wav.Shape,
		"features": len(specs),
		"frames":   p.NumFrames(wav.Dim(-1)),
	}).Debug("Extracting features")

	var f Features
	if needSpectrum {
		if err := p.spectral(wav, &f); err != nil {
			return nil, err
		}
	}
	if needMFCC {
		var err error
		if f.MFCC, err = p.mfcc.Transform(wav); err != nil {
			return nil, errors.Wrap(err, "mfcc")
		}
	}

	out := make([]*tensor.Tensor, len(specs))
	for i, s := range specs {
		x, err := Select(&f, s)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d (%s)", i, s.Type)
		}
		out[i] = x
	}
	return out, nil
}

func (p *Pipeline) spectral(wav *tensor.Tensor, f *Features) error {
	complx, err := p.transform.Analyze(wav)
	if err != nil {
		return errors.Wrap(err, "analyze")
	}
	if f.Linear, f.Phase, err = phase.Decompose(complx, phase.DefaultPower); err != nil {
		return errors.Wrap(err, "decompose")
	}
	if f.Mel, err = p.bank.Project(f.Linear); err != nil {
		return errors.Wrap(err, "mel projection")
	}
	if f.Complex, err = spectrum.Interleave(complx); err != nil {
		return errors.Wrap(err, "interleave")
	}
	return nil
}

func (p *Pipeline) checkWaveform(wav *tensor.Tensor) error {
	if wav == nil || wav.Dims() < 3 {
		var shape []int
		if wav != nil {
			shape = wav.Shape
		}
		return tensor.NewShapeError("feature.Extract", shape, "need (batch, channel, time), got %d dims", len(shape))
	}
	if pad := p.cfg.NFFT() / 2; wav.Dim(-1) <= pad {
		return tensor.NewShapeError("feature.Extract", wav.Shape, "%d samples cannot be reflect padded by %d", wav.Dim(-1), pad)
	}
	return nil
}

// InvertComplex reconstructs waveforms from complex features as returned by
// Extract, (batch..., frames, 2*freq_bins), or from a paired spectrogram
// (batch..., freq_bins, frames, 2). A positive length fixes the output length.
func (p *Pipeline) InvertComplex(complx *tensor.Tensor, length int) (*tensor.Tensor, error) {
	wav, err := p.transform.Synthesize(complx, length)
	if err != nil {
		return nil, errors.Wrap(err, "synthesize")
	}
	return wav, nil
}

// InvertMagPhase reconstructs waveforms from linear and phase features shaped
// (batch..., frames, freq_bins), where linear holds magnitude^power.
func (p *Pipeline) InvertMagPhase(linear, ph *tensor.Tensor, power float64, length int) (*tensor.Tensor, error) {
	if linear == nil || ph == nil {
		return nil, tensor.NewShapeError("feature.InvertMagPhase", nil, "nil linear or phase")
	}
	if !tensor.SameShape(linear.Shape, ph.Shape) {
		return nil, tensor.NewShapeError("feature.InvertMagPhase", linear.Shape, "phase shape %v differs", ph.Shape)
	}
	if linear.Dims() < 2 || linear.Dim(-1) != p.cfg.NFreq {
		return nil, tensor.NewShapeError("feature.InvertMagPhase", linear.Shape, "need (..., frames, %d)", p.cfg.NFreq)
	}
	mag, err := linear.SwapLast()
	if err != nil {
		return nil, err
	}
	angle, err := ph.SwapLast()
	if err != nil {
		return nil, err
	}
	complx, err := phase.Recompose(mag, angle, power)
	if err != nil {
		return nil, errors.Wrap(err, "recompose")
	}
	return p.InvertComplex(complx, length)
}

// SelfTest round trips wav through both inversion paths: the complex features of
// channel 0 and the linear and phase features of channel 1 must reproduce their
// channels within eps. A nil wav selects a seeded Gaussian (2, 2, sample_rate) batch.
func (p *Pipeline) SelfTest(wav *tensor.Tensor, eps float64) error {
	if wav == nil {
		wav = tensor.New(2, 2, p.cfg.SampleRate)
		rng := rand.New(rand.NewSource(selfTestSeed))
		for i := range wav.Data {
			wav.Data[i] = rng.NormFloat64()
		}
	}
	feats, err := p.Extract(wav, []Spec{
		{Type: Complex, Channel: 0},
		{Type: Linear, Channel: 1},
		{Type: Phase, Channel: 1},
	})
	if err != nil {
		return err
	}
	length := wav.Dim(-1)

	rebuilt, err := p.InvertComplex(feats[0], length)
	if err != nil {
		return err
	}
	if err := compareChannel(wav, rebuilt, 0, eps); err != nil {
		return errors.Wrap(err, "complex round trip")
	}

	rebuilt, err = p.InvertMagPhase(feats[1], feats[2], phase.DefaultPower, length)
	if err != nil {
		return err
	}
	if err := compareChannel(wav, rebuilt, 1, eps); err != nil {
		return errors.Wrap(err, "magnitude/phase round trip")
	}

	p.logger.WithField("eps", eps).Info("STFT round trip passed")
	return nil
}

func compareChannel(wav, rebuilt *tensor.Tensor, channel int, eps float64) error {
	want, err := wav.Select(-2, channel)
	if err != nil {
		return err
	}
	if !tensor.SameShape(want.Shape, rebuilt.Shape) {
		return tensor.NewShapeError("feature.SelfTest", rebuilt.Shape, "want %v", want.Shape)
	}
	worst := 0.0
	for i, v := range want.Data {
		worst = math.Max(worst, math.Abs(v-rebuilt.Data[i]))
	}
	if worst > eps {
		return errors.Errorf("channel %d deviates by %g, tolerance %g", channel, worst, eps)
	}
	return nil
}
