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
	var channel int
	cmd := cli.Command("tophase <audio_file>", "Split audio into linear and phase feature files",
		cobra.ExactArgs(1),
		func(env *cli.Env, args []string) error {
			path := cli.AudioPath(args[0])
			wav, err := audio.Load(path, env.Config.SampleRate)
			if err != nil {
				return err
			}
			batch, err := audio.Batch(wav)
			if err != nil {
				return err
			}
			p, err := env.Pipeline(env.Config)
			if err != nil {
				return err
			}

			specs := []feature.Spec{
				{Type: feature.Linear, Channel: channel},
				{Type: feature.Phase, Channel: channel},
			}
			out, err := p.Extract(batch, specs)
			if err != nil {
				return errors.Wrap(err, path)
			}
			base := cli.Base(path)
			for i, x := range out {
				spec := specs[i]
				dst := base + "." + spec.Type.String()
				if err := featfile.Write(dst, x, featfile.NewManifest(env.Config, &spec, wav.Dim(-1))); err != nil {
					return err
				}
				env.Log.WithField("shape", x.Shape).Infof("Wrote %s", dst)
			}
			return nil
		})
	cmd.Flags().IntVar(&channel, "channel", 0, "channel to convert")
	cli.Execute(cmd)
}
