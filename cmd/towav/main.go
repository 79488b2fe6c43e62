package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neurlang/gofeat/audio"
	"github.com/neurlang/gofeat/feature"
	"github.com/neurlang/gofeat/internal/cli"
	"github.com/neurlang/gofeat/internal/featfile"
)

func main() {
	cmd := cli.Command("towav <feature_base>", "Rebuild audio from a complex feature file",
		cobra.ExactArgs(1),
		func(env *cli.Env, args []string) error {
			base := cli.Base(args[0])
			complx, m, err := featfile.Read(base)
			if err != nil {
				return err
			}
			if m.Spec != nil && m.Spec.Type != feature.Complex {
				return errors.Errorf("%s holds %s features, want complex", base, m.Spec.Type)
			}

			cfg := m.Config(env.Config)
			p, err := env.Pipeline(cfg)
			if err != nil {
				return err
			}
			wav, err := p.InvertComplex(complx, m.Samples)
			if err != nil {
				return errors.Wrap(err, base)
			}
			mono, err := wav.Reshape(wav.Dim(-1))
			if err != nil {
				return err
			}
			if err := audio.SaveWav(base+".wav", mono, cfg.SampleRate); err != nil {
				return err
			}
			env.Log.WithField("samples", mono.Len()).Infof("Wrote %s.wav", base)
			return nil
		})
	cli.Execute(cmd)
}
