package audio

import (
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/neurlang/gofeat/tensor"
)

func decodeWav(path string) ([][]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "open wav")
	}
	defer file.Close()

	stream, format, err := wav.Decode(file)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "decode wav %s", path)
	}
	defer stream.Close()

	n := format.NumChannels
	if n < 1 || n > 2 {
		return nil, 0, errors.Errorf("wav %s has %d channels", path, n)
	}
	channels := make([][]float64, n)
	buf := make([][2]float64, 1024)
	for {
		got, ok := stream.Stream(buf)
		for _, s := range buf[:got] {
			for c := 0; c < n; c++ {
				channels[c] = append(channels[c], s[c])
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, 0, errors.Wrapf(err, "read wav %s", path)
	}
	return channels, int(format.SampleRate), nil
}

// SaveWav writes wav shaped (time) or (channel, time) with one or two channels
// as 16-bit PCM. Samples outside [-1, 1] are clipped.
func SaveWav(path string, w *tensor.Tensor, sampleRate int) error {
	var channels, n int
	switch w.Dims() {
	case 1:
		channels, n = 1, w.Dim(0)
	case 2:
		channels, n = w.Dim(0), w.Dim(1)
	default:
		return tensor.NewShapeError("audio.SaveWav", w.Shape, "need (time) or (channel, time)")
	}
	if channels < 1 || channels > 2 {
		return tensor.NewShapeError("audio.SaveWav", w.Shape, "wav supports one or two channels")
	}

	pos := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		i := 0
		for i < len(samples) && pos < n {
			l := w.Data[pos]
			r := l
			if channels == 2 {
				r = w.Data[n+pos]
			}
			samples[i] = [2]float64{l, r}
			i++
			pos++
		}
		return i, true
	})

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create wav")
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: channels,
		Precision:   2,
	}
	if err := wav.Encode(f, src, format); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode wav %s", path)
	}
	return f.Close()
}
