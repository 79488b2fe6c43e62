package audio

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// AddNoise mixes noise into speech at snrDB decibels. Noise shorter than speech is
// tiled; a random window of speech length is then cropped from it using rng.
func AddNoise(speech, noise []float64, snrDB float64, rng *rand.Rand) ([]float64, error) {
	if len(noise) == 0 {
		return nil, errors.New("empty noise")
	}
	if len(noise) <= len(speech) {
		reps := (len(speech) + len(noise) - 1) / len(noise)
		tiled := make([]float64, 0, reps*len(noise))
		for i := 0; i < reps; i++ {
			tiled = append(tiled, noise...)
		}
		noise = tiled
	}

	start := 0
	if span := len(noise) - len(speech); span > 0 {
		start = rng.Intn(span)
	}
	noise = noise[start : start+len(speech)]

	speechEnergy := floats.Dot(speech, speech)
	noiseEnergy := floats.Dot(noise, noise)
	if noiseEnergy == 0 {
		return nil, errors.New("noise window is silent")
	}
	scale := math.Sqrt(speechEnergy / (math.Pow(10, snrDB/10) * noiseEnergy))

	out := make([]float64, len(speech))
	floats.AddScaledTo(out, speech, scale, noise)
	return out, nil
}
