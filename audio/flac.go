package audio

import (
	"io"

	"github.com/mewkiz/flac"
	"github.com/pkg/errors"
)

func decodeFlac(path string) ([][]float64, int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "parse flac %s", path)
	}
	defer stream.Close()

	n := int(stream.Info.NChannels)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))
	channels := make([][]float64, n)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrapf(err, "read flac %s", path)
		}
		for c := 0; c < n && c < len(frame.Subframes); c++ {
			for _, s := range frame.Subframes[c].Samples {
				channels[c] = append(channels[c], float64(s)/scale)
			}
		}
	}
	return channels, int(stream.Info.SampleRate), nil
}
