// Package feature turns waveforms into the feature tensors consumed by a model
// and back.
//
// A Pipeline is built once from a Config. Its Extract method computes the
// complex spectrogram, power spectrum, phase, mel power and MFCC of a
// (batch..., channel, time) waveform and, for every requested Spec, selects a
// channel, optionally log-compresses, stacks delta features and applies
// per-utterance mean and variance normalization. Every output is shaped
// (batch..., frames, feature_dim).
//
// Requests are validated before any numeric work; failures are reported as
// *ConfigError, *ChannelRangeError or *tensor.ShapeError.
package feature
