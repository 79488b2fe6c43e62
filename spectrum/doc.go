// Package spectrum implements the short-time analysis and synthesis transforms.
//
// A Transform owns an immutable Window and the framing parameters. Analyze maps a
// (batch..., channel, time) waveform to a one-sided complex spectrogram shaped
// (batch..., channel, freq_bins, time_frames, 2) using centered, reflect-padded
// frames. Synthesize is its exact inverse by windowed overlap-add, so that
//
//	Synthesize(Analyze(x), len(x)) == x
//
// within floating point tolerance. Rows of the leading axes are independent and
// are processed concurrently.
package spectrum
