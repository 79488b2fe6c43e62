package spectrum

import "testing"

func BenchmarkAnalyze_1sec(b *testing.B) {
	w, _ := NewWindow(Hann, 512, 512)
	tr, _ := New(Params{NFFT: 512, HopLen: 256, WinLen: 512}, w)
	x := randomWaveform(1, 1, 1, 16000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Analyze(x)
	}
}

func BenchmarkSynthesize_1sec(b *testing.B) {
	w, _ := NewWindow(Hann, 512, 512)
	tr, _ := New(Params{NFFT: 512, HopLen: 256, WinLen: 512}, w)
	spec, _ := tr.Analyze(randomWaveform(1, 1, 1, 16000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Synthesize(spec, 16000)
	}
}
