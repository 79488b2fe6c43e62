// Command fromphase converts linear and phase feature files back to audio files (WAV).
//
// This tool reconstructs the waveform written by tophase. Since phase
// information is preserved, the reconstruction is exact up to the half
// precision rounding of the stored features.
//
// Usage:
//
//	fromphase [--power p] <base>
//
// It reads <base>.linear.{yaml,f16} and <base>.phase.{yaml,f16} and writes <base>.wav.
// The transform parameters and sample rate are taken from the linear manifest.
package main
