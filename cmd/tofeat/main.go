package main

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neurlang/gofeat/audio"
	"github.com/neurlang/gofeat/feature"
	"github.com/neurlang/gofeat/internal/cli"
	"github.com/neurlang/gofeat/internal/featfile"
	"github.com/neurlang/gofeat/tensor"
)

func main() {
	var (
		feats    []string
		noise    string
		snr      float64
		seed     int64
		selfTest bool
	)
	cmd := cli.Command("tofeat <audio_file>...", "Extract feature files from audio",
		cobra.MinimumNArgs(1),
		func(env *cli.Env, args []string) error {
			specs := env.Config.FeatList
			if len(feats) > 0 {
				specs = make([]feature.Spec, len(feats))
				for i, text := range feats {
					s, err := cli.ParseFeature(text)
					if err != nil {
						return errors.Wrapf(err, "--feat %q", text)
					}
					specs[i] = s
				}
			}

			p, err := env.Pipeline(env.Config)
			if err != nil {
				return err
			}
			if selfTest {
				if err := p.SelfTest(nil, 1e-6); err != nil {
					return errors.Wrap(err, "self test")
				}
			}

			var noiseWav *tensor.Tensor
			if noise != "" {
				if noiseWav, err = audio.Load(cli.AudioPath(noise), env.Config.SampleRate); err != nil {
					return err
				}
			}
			rng := rand.New(rand.NewSource(seed))

			for _, name := range args {
				path := cli.AudioPath(name)
				wav, err := audio.Load(path, env.Config.SampleRate)
				if err != nil {
					return err
				}
				if noiseWav != nil {
					if err := mix(wav, noiseWav, snr, rng); err != nil {
						return errors.Wrapf(err, "mix noise into %s", path)
					}
				}
				batch, err := audio.Batch(wav)
				if err != nil {
					return err
				}
				out, err := p.Extract(batch, specs)
				if err != nil {
					return errors.Wrap(err, path)
				}

				base := cli.Base(path)
				for i, x := range out {
					spec := specs[i]
					dst := fmt.Sprintf("%s.%d.%s", base, i, spec.Type)
					m := featfile.NewManifest(env.Config, &spec, wav.Dim(-1))
					if err := featfile.Write(dst, x, m); err != nil {
						return err
					}
					env.Log.WithField("shape", x.Shape).Infof("Wrote %s", dst)
				}
			}
			return nil
		})

	flags := cmd.Flags()
	flags.StringArrayVarP(&feats, "feat", "f", nil, "feature request type[:key=value,...], repeatable")
	flags.StringVar(&noise, "noise", "", "noise file mixed into every input")
	flags.Float64Var(&snr, "snr", 10, "signal-to-noise ratio of the mix in dB")
	flags.Int64Var(&seed, "seed", 1, "seed for noise cropping")
	flags.BoolVar(&selfTest, "self-test", false, "check the STFT round trip before extracting")

	cli.Execute(cmd)
}

// mix adds noise channel by channel; noise channels repeat when there are fewer.
func mix(wav, noise *tensor.Tensor, snr float64, rng *rand.Rand) error {
	n, nn := wav.Dim(-1), noise.Dim(-1)
	for c := 0; c < wav.Dim(0); c++ {
		nc := c % noise.Dim(0)
		mixed, err := audio.AddNoise(wav.Data[c*n:(c+1)*n], noise.Data[nc*nn:(nc+1)*nn], snr, rng)
		if err != nil {
			return err
		}
		copy(wav.Data[c*n:(c+1)*n], mixed)
	}
	audio.Normalize(wav)
	return nil
}
