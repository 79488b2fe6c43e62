// Package featfile stores feature tensors as a YAML manifest next to a half
// precision payload: <base>.yaml describes the tensor and <base>.f16 holds its
// values as little-endian IEEE 754 binary16.
package featfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/neurlang/gofeat/feature"
	"github.com/neurlang/gofeat/spectrum"
	"github.com/neurlang/gofeat/tensor"
)

const (
	manifestExt = ".yaml"
	payloadExt  = ".f16"
	encoding    = "float16le"
)

// Manifest describes a stored feature tensor.
type Manifest struct {
	Shape      []int         `yaml:"shape"`
	Encoding   string        `yaml:"encoding"`
	Spec       *feature.Spec `yaml:"spec,omitempty"`
	SampleRate int           `yaml:"sample_rate"`
	NFreq      int           `yaml:"n_freq"`
	HopLen     int           `yaml:"hop_len"`
	WinLen     int           `yaml:"win_len"`
	Window     spectrum.Kind `yaml:"window,omitempty"`
	// Samples is the waveform length the features were extracted from, used
	// to restore the exact length on inversion.
	Samples int `yaml:"samples"`
}

// NewManifest fills the transform fields from cfg.
func NewManifest(cfg feature.Config, spec *feature.Spec, samples int) Manifest {
	return Manifest{
		Spec:       spec,
		SampleRate: cfg.SampleRate,
		NFreq:      cfg.NFreq,
		HopLen:     cfg.HopLen,
		WinLen:     cfg.WinLen,
		Window:     cfg.Window,
		Samples:    samples,
	}
}

// Config returns cfg with the transform fields recorded in m applied.
func (m Manifest) Config(cfg feature.Config) feature.Config {
	if m.SampleRate > 0 {
		cfg.SampleRate = m.SampleRate
	}
	if m.NFreq > 0 {
		cfg.NFreq = m.NFreq
	}
	if m.HopLen > 0 {
		cfg.HopLen = m.HopLen
	}
	if m.WinLen > 0 {
		cfg.WinLen = m.WinLen
	}
	if m.Window != "" {
		cfg.Window = m.Window
	}
	return cfg
}

// Paths returns the manifest and payload paths for base.
func Paths(base string) (manifest, payload string) {
	return base + manifestExt, base + payloadExt
}

// Write stores x under base. The shape and encoding fields of m are overwritten.
func Write(base string, x *tensor.Tensor, m Manifest) error {
	m.Shape = append([]int(nil), x.Shape...)
	m.Encoding = encoding

	manifestPath, payloadPath := Paths(base)
	raw, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode manifest")
	}
	if err := os.WriteFile(manifestPath, raw, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	f, err := os.Create(payloadPath)
	if err != nil {
		return errors.Wrap(err, "create payload")
	}
	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, x.Half()); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", payloadPath)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", payloadPath)
	}
	return f.Close()
}

// Read loads the tensor stored under base.
func Read(base string) (*tensor.Tensor, Manifest, error) {
	var m Manifest
	manifestPath, payloadPath := Paths(base)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, m, errors.Wrap(err, "read manifest")
	}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, m, errors.Wrapf(err, "decode %s", manifestPath)
	}
	if m.Encoding != encoding {
		return nil, m, errors.Errorf("%s: unsupported encoding %q", manifestPath, m.Encoding)
	}

	f, err := os.Open(payloadPath)
	if err != nil {
		return nil, m, errors.Wrap(err, "open payload")
	}
	defer f.Close()

	bits := make([]uint16, tensor.Volume(m.Shape))
	if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, bits); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, m, errors.Errorf("%s: payload shorter than shape %v", payloadPath, m.Shape)
		}
		return nil, m, errors.Wrapf(err, "read %s", payloadPath)
	}
	x, err := tensor.FromHalf(bits, m.Shape...)
	if err != nil {
		return nil, m, err
	}
	return x, m, nil
}
