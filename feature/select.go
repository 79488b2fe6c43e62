package feature

import (
	"github.com/pkg/errors"

	"github.com/neurlang/gofeat/tensor"
)

// Features holds every representation of one batch, each shaped
// (batch..., channel, feature, frames). Complex carries 2*freq_bins rows with
// the real and imaginary part of every bin interleaved.
type Features struct {
	Complex *tensor.Tensor
	Linear  *tensor.Tensor
	Phase   *tensor.Tensor
	Mel     *tensor.Tensor
	MFCC    *tensor.Tensor
}

// Get returns the representation for t, or nil when it was not computed.
func (f *Features) Get(t Type) *tensor.Tensor {
	switch t {
	case Complex:
		return f.Complex
	case Linear:
		return f.Linear
	case Phase:
		return f.Phase
	case Mel:
		return f.Mel
	case MFCC:
		return f.MFCC
	}
	return nil
}

// Select builds the feature tensor requested by s: channel selection, optional
// log compression, delta stacking and CMVN, in that order. The result is
// shaped (batch..., frames, feature).
func Select(f *Features, s Spec) (*tensor.Tensor, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	src := f.Get(s.Type)
	if src == nil {
		return nil, errors.Errorf("%s features were not computed", s.Type)
	}
	if src.Dims() < 3 {
		return nil, tensor.NewShapeError("feature.Select", src.Shape, "need (batch..., channel, feature, frames)")
	}
	if channels := src.Dim(-3); s.Channel >= channels {
		return nil, &ChannelRangeError{Channel: s.Channel, Channels: channels}
	}

	x, err := src.Select(-3, s.Channel)
	if err != nil {
		return nil, err
	}
	if s.Log {
		x = Log(x)
	}
	if s.Delta > 0 {
		if x, err = AppendDeltas(x, s.Delta); err != nil {
			return nil, err
		}
	}
	if s.CMVN {
		x = CMVN(x)
	}
	return x.SwapLast()
}
