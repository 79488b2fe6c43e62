// Package mel provides mel filter-bank projection and mel-frequency cepstral
// coefficients.
//
// It supports:
//   - Triangular filter banks on the HTK mel scale, built once as a dense matrix
//   - Projecting (..., freq_bins, frames) power spectra to (..., n_mels, frames)
//   - An MFCC transform that runs its own short-time analysis of the waveform,
//     converts mel power to decibels and applies an orthonormal DCT-II
//
// The MFCC transform deliberately does not reuse the complex spectrogram of the
// spectrum package; results agree with projecting that spectrogram up to FFT
// rounding error.
package mel
