// Command tophase converts audio files (WAV/FLAC) to linear and phase feature files.
//
// This tool writes the power spectrogram and the phase of one channel as two
// feature file pairs. Together they retain everything needed for exact audio
// reconstruction with fromphase, without iterative phase estimation.
//
// Usage:
//
//	tophase [--channel n] <audio_file>
//
// The outputs are named <audio_file>.linear.{yaml,f16} and <audio_file>.phase.{yaml,f16}
//
// Supported input formats: .wav, .flac
package main
