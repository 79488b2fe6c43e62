package feature

import "github.com/neurlang/gofeat/spectrum"

// Config holds the pipeline parameters.
type Config struct {
	SampleRate int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	NFreq      int           `mapstructure:"n_freq" yaml:"n_freq"`
	WinLen     int           `mapstructure:"win_len" yaml:"win_len"`
	HopLen     int           `mapstructure:"hop_len" yaml:"hop_len"`
	NMels      int           `mapstructure:"n_mels" yaml:"n_mels"`
	NMFCC      int           `mapstructure:"n_mfcc" yaml:"n_mfcc"`
	FMin       float64       `mapstructure:"f_min" yaml:"f_min"`
	FMax       float64       `mapstructure:"f_max" yaml:"f_max"` // 0 selects sample_rate/2
	Window     spectrum.Kind `mapstructure:"window" yaml:"window"`
	Workers    int           `mapstructure:"workers" yaml:"workers"` // 0 selects GOMAXPROCS

	// FeatList is used by Extract when no specs are passed.
	FeatList []Spec `mapstructure:"-" yaml:"feat_list"`
}

// DefaultConfig returns the 16 kHz configuration with 512-point frames and a 256 sample hop.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		NFreq:      257,
		WinLen:     512,
		HopLen:     256,
		NMels:      40,
		NMFCC:      13,
		Window:     spectrum.Hann,
		FeatList:   []Spec{{Type: Linear, Log: true}},
	}
}

// NFFT returns the FFT size implied by NFreq.
func (c Config) NFFT() int {
	return (c.NFreq - 1) * 2
}

// Params returns the framing parameters.
func (c Config) Params() spectrum.Params {
	return spectrum.Params{NFFT: c.NFFT(), HopLen: c.HopLen, WinLen: c.WinLen}
}

// Validate checks field ranges and that the window overlap-adds to a nonzero
// envelope at the configured hop.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return &ConfigError{Field: "sample_rate", Value: c.SampleRate, Reason: "must be positive"}
	case c.NFreq < 2:
		return &ConfigError{Field: "n_freq", Value: c.NFreq, Reason: "must be at least 2"}
	case c.WinLen <= 0 || c.WinLen > c.NFFT():
		return &ConfigError{Field: "win_len", Value: c.WinLen, Reason: "must be in [1, n_fft]"}
	case c.HopLen <= 0:
		return &ConfigError{Field: "hop_len", Value: c.HopLen, Reason: "must be positive"}
	case c.NMels <= 0:
		return &ConfigError{Field: "n_mels", Value: c.NMels, Reason: "must be positive"}
	case c.NMFCC <= 0 || c.NMFCC > c.NMels:
		return &ConfigError{Field: "n_mfcc", Value: c.NMFCC, Reason: "must be in [1, n_mels]"}
	case c.Workers < 0:
		return &ConfigError{Field: "workers", Value: c.Workers, Reason: "must not be negative"}
	}
	switch c.Window {
	case "", spectrum.Hann, spectrum.Hamming, spectrum.Blackman:
	default:
		return &ConfigError{Field: "window", Value: c.Window, Reason: "unknown window function"}
	}
	for _, s := range c.FeatList {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	if _, err := c.transform(); err != nil {
		return err
	}
	return nil
}

func (c Config) transform(opts ...spectrum.Option) (*spectrum.Transform, error) {
	w, err := spectrum.NewWindow(c.Window, c.WinLen, c.NFFT())
	if err != nil {
		return nil, &ConfigError{Field: "window", Value: c.Window, Reason: "cannot build window", Err: err}
	}
	t, err := spectrum.New(c.Params(), w, opts...)
	if err != nil {
		return nil, &ConfigError{Field: "hop_len", Value: c.HopLen, Reason: "invalid framing", Err: err}
	}
	return t, nil
}
