package audio

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/pkg/errors"

	"github.com/neurlang/gofeat/tensor"
)

// ErrFileNotLoaded is returned when a file decodes to no samples.
var ErrFileNotLoaded = errors.New("file not loaded")

// resampleQuality is the beep resampler interpolation order.
const resampleQuality = 4

// Load decodes the wav or flac file at path, chosen by extension, resamples it to
// sampleRate when sampleRate is positive and normalizes its peak to 1.
// The waveform is shaped (channel, time).
func Load(path string, sampleRate int) (*tensor.Tensor, error) {
	var (
		channels [][]float64
		rate     int
		err      error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		channels, rate, err = decodeWav(path)
	case ".flac":
		channels, rate, err = decodeFlac(path)
	default:
		return nil, errors.Errorf("unsupported audio file %s", path)
	}
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 || len(channels[0]) == 0 || rate == 0 {
		return nil, errors.Wrap(ErrFileNotLoaded, path)
	}
	if sampleRate > 0 && sampleRate != rate {
		channels = resample(channels, rate, sampleRate)
	}
	wav := stack(channels)
	Normalize(wav)
	return wav, nil
}

// Normalize divides wav by its largest absolute sample. Silent input is left alone.
func Normalize(wav *tensor.Tensor) {
	peak := 0.0
	for _, v := range wav.Data {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return
	}
	for i := range wav.Data {
		wav.Data[i] /= peak
	}
}

// Batch stacks (channel, time) waveforms into (batch, channel, time), zero
// padding shorter ones at the end. All waveforms need the same channel count.
func Batch(wavs ...*tensor.Tensor) (*tensor.Tensor, error) {
	if len(wavs) == 0 {
		return nil, errors.New("no waveforms to batch")
	}
	channels, longest := 0, 0
	for i, w := range wavs {
		if w == nil || w.Dims() != 2 {
			var shape []int
			if w != nil {
				shape = w.Shape
			}
			return nil, tensor.NewShapeError("audio.Batch", shape, "waveform %d must be (channel, time)", i)
		}
		if i == 0 {
			channels = w.Dim(0)
		} else if w.Dim(0) != channels {
			return nil, tensor.NewShapeError("audio.Batch", w.Shape, "waveform %d has %d channels, want %d", i, w.Dim(0), channels)
		}
		if w.Dim(1) > longest {
			longest = w.Dim(1)
		}
	}

	out := tensor.New(len(wavs), channels, longest)
	for b, w := range wavs {
		n := w.Dim(1)
		for c := 0; c < channels; c++ {
			dst := out.Data[(b*channels+c)*longest:]
			copy(dst[:n], w.Data[c*n:(c+1)*n])
		}
	}
	return out, nil
}

func stack(channels [][]float64) *tensor.Tensor {
	n := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	out := tensor.New(len(channels), n)
	for c, ch := range channels {
		copy(out.Data[c*n:(c+1)*n], ch[:n])
	}
	return out
}

// resample converts every channel from one rate to another, two channels per
// beep stream.
func resample(channels [][]float64, from, to int) [][]float64 {
	out := make([][]float64, len(channels))
	for c := 0; c < len(channels); c += 2 {
		left := channels[c]
		right := left
		if c+1 < len(channels) {
			right = channels[c+1]
		}
		l, r := convert(left, right, from, to)
		out[c] = l
		if c+1 < len(channels) {
			out[c+1] = r
		}
	}
	return out
}

func convert(left, right []float64, from, to int) ([]float64, []float64) {
	pos := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(left) {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < len(left) {
			samples[n] = [2]float64{left[pos], right[pos]}
			n++
			pos++
		}
		return n, true
	})

	rs := beep.Resample(resampleQuality, beep.SampleRate(from), beep.SampleRate(to), src)
	want := int(math.Round(float64(len(left)) * float64(to) / float64(from)))
	l := make([]float64, 0, want)
	r := make([]float64, 0, want)
	buf := make([][2]float64, 512)
	for {
		n, ok := rs.Stream(buf)
		for _, s := range buf[:n] {
			l = append(l, s[0])
			r = append(r, s[1])
		}
		if !ok {
			break
		}
	}
	if len(l) > want {
		l, r = l[:want], r[:want]
	}
	return l, r
}
