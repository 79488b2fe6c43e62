// Command towav converts complex feature files back to audio files (WAV).
//
// This tool inverts the interleaved complex spectrogram written by
// tofeat --feat complex with the same window and hop, so the output matches
// the analyzed channel up to half precision rounding.
//
// Usage:
//
//	towav <feature_base>
//
// It reads <feature_base>.{yaml,f16} and writes <feature_base>.wav.
package main
