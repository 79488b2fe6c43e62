package feature

import "testing"

func BenchmarkExtract_1sec(b *testing.B) {
	p, err := NewPipeline(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	wav := randomWaveform(1, 1, 2, 16000)
	specs := []Spec{
		{Type: Linear, Log: true},
		{Type: Mel, Log: true, Delta: 2, CMVN: true},
		{Type: MFCC, Channel: 1, Delta: 2, CMVN: true},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Extract(wav, specs); err != nil {
			b.Fatal(err)
		}
	}
}
