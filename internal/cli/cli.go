// Package cli holds the flag, configuration and logging setup shared by the
// command-line tools.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/neurlang/gofeat/config"
	"github.com/neurlang/gofeat/feature"
)

// Env is handed to every tool once flags and configuration are resolved.
type Env struct {
	Config feature.Config
	Log    *logrus.Entry
}

// Pipeline builds a pipeline for cfg, usually Env.Config or a variant of it
// recovered from a feature file.
func (e *Env) Pipeline(cfg feature.Config) (*feature.Pipeline, error) {
	return feature.NewPipeline(cfg, feature.WithLogger(e.Log))
}

// Command wraps run in a cobra command carrying the shared flags.
func Command(use, short string, args cobra.PositionalArgs, run func(env *Env, args []string) error) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          args,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		cfg, err := config.LoadFlags(configPath, cmd.Flags())
		if err != nil {
			return errors.Wrap(err, "load configuration")
		}
		env := &Env{
			Config: cfg,
			Log:    logger.WithField("tool", cmd.Name()),
		}
		return run(env, args)
	}

	d := feature.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.Int("sample-rate", d.SampleRate, "sample rate in Hz")
	flags.Int("n-freq", d.NFreq, "frequency bins; the FFT size is (n-freq - 1) * 2")
	flags.Int("win-len", d.WinLen, "window length in samples")
	flags.Int("hop-len", d.HopLen, "hop length in samples")
	flags.Int("n-mels", d.NMels, "mel bands")
	flags.Int("n-mfcc", d.NMFCC, "cepstral coefficients")
	flags.String("window", string(d.Window), "window function (hann, hamming, blackman)")
	flags.Int("workers", d.Workers, "parallel rows, 0 for GOMAXPROCS")
	return cmd
}

// Execute runs cmd and exits with status 1 on error.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// AudioPath returns name when it has an audio extension, name.wav otherwise.
func AudioPath(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".flac":
		return name
	}
	return name + ".wav"
}

// Base strips the extension of an audio or feature file path.
func Base(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".flac", ".yaml", ".f16":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// ParseFeature parses a feature flag of the form type[:key=value,...], where a
// bare key means true, e.g. "mfcc:delta=2,cmvn" or "linear:channel=1,log".
func ParseFeature(text string) (feature.Spec, error) {
	name, opts, _ := strings.Cut(text, ":")
	raw := map[string]interface{}{"feat_type": name}
	if opts != "" {
		for _, opt := range strings.Split(opts, ",") {
			key, value, found := strings.Cut(strings.TrimSpace(opt), "=")
			if !found {
				raw[key] = true
				continue
			}
			if n, err := strconv.Atoi(value); err == nil {
				raw[key] = n
			} else if b, err := strconv.ParseBool(value); err == nil {
				raw[key] = b
			} else {
				raw[key] = value
			}
		}
	}
	return feature.ParseSpec(raw)
}
