package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neurlang/gofeat/audio"
	"github.com/neurlang/gofeat/internal/cli"
	"github.com/neurlang/gofeat/internal/featfile"
	"github.com/neurlang/gofeat/phase"
	"github.com/neurlang/gofeat/tensor"
)

func main() {
	var power float64
	cmd := cli.Command("fromphase <base>", "Rebuild audio from linear and phase feature files",
		cobra.ExactArgs(1),
		func(env *cli.Env, args []string) error {
			base := cli.Base(args[0])
			linear, m, err := featfile.Read(base + ".linear")
			if err != nil {
				return err
			}
			ph, _, err := featfile.Read(base + ".phase")
			if err != nil {
				return err
			}

			cfg := m.Config(env.Config)
			p, err := env.Pipeline(cfg)
			if err != nil {
				return err
			}
			wav, err := p.InvertMagPhase(linear, ph, power, m.Samples)
			if err != nil {
				return errors.Wrap(err, base)
			}
			return save(env, base+".wav", wav, cfg.SampleRate)
		})
	cmd.Flags().Float64Var(&power, "power", phase.DefaultPower, "exponent the linear features were raised to")
	cli.Execute(cmd)
}

func save(env *cli.Env, path string, wav *tensor.Tensor, sampleRate int) error {
	// features are stored per utterance as (1, frames, dim)
	mono, err := wav.Reshape(wav.Dim(-1))
	if err != nil {
		return err
	}
	if err := audio.SaveWav(path, mono, sampleRate); err != nil {
		return err
	}
	env.Log.WithField("samples", mono.Len()).Infof("Wrote %s", path)
	return nil
}
