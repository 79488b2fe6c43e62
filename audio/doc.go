// Package audio reads wav and flac files into waveform tensors, writes
// reconstructed waveforms back to wav and mixes noise at a target
// signal-to-noise ratio.
//
// Loaded waveforms are shaped (channel, time), resampled to the requested
// rate and peak normalized to [-1, 1].
package audio
