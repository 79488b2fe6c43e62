// Command tofeat extracts feature tensors from audio files (WAV/FLAC).
//
// Each requested feature is written as a feature file pair: a YAML manifest
// describing shape, feature request and transform parameters, and a half
// precision payload. Features are requested with repeated --feat flags of the
// form type[:key=value,...]; without any, the configured feat_list is used.
//
// Usage:
//
//	tofeat [flags] <audio_file>...
//
// For input utt.wav and --feat mfcc:delta=2,cmvn the outputs are named
// utt.0.mfcc.yaml and utt.0.mfcc.f16.
//
// Noise can be mixed in before extraction with --noise <audio_file> --snr <dB>.
// --self-test runs the STFT round trip check on a pseudo-random batch first.
//
// Supported input formats: .wav, .flac
package main
