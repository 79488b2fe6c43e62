package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gofeat/feature"
	"github.com/neurlang/gofeat/spectrum"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gofeat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, feature.DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
sample_rate: 8000
n_freq: 201
win_len: 400
hop_len: 160
n_mels: 64
window: hamming
feat_list:
  - feat_type: mfcc
    delta: 2
    cmvn: true
  - feat_type: complx
    channel: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.SampleRate)
	assert.Equal(t, 400, cfg.NFFT())
	assert.Equal(t, 160, cfg.HopLen)
	assert.Equal(t, 64, cfg.NMels)
	assert.Equal(t, 13, cfg.NMFCC)
	assert.Equal(t, spectrum.Hamming, cfg.Window)
	assert.Equal(t, []feature.Spec{
		{Type: feature.MFCC, Delta: 2, CMVN: true},
		{Type: feature.Complex, Channel: 1},
	}, cfg.FeatList)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GOFEAT_HOP_LEN", "128")
	t.Setenv("GOFEAT_FEAT_LIST", "[{feat_type: mel, log: true}]")

	cfg, err := Load(writeConfig(t, "hop_len: 64\n"))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.HopLen)
	assert.Equal(t, []feature.Spec{{Type: feature.Mel, Log: true}}, cfg.FeatList)
}

func TestLoadFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("hop-len", 256, "")
	flags.Int("n-mels", 40, "")
	require.NoError(t, flags.Parse([]string{"--hop-len=160"}))

	cfg, err := LoadFlags(writeConfig(t, "n_mels: 80\n"), flags)
	require.NoError(t, err)
	assert.Equal(t, 160, cfg.HopLen)
	// unchanged flags leave the file value alone
	assert.Equal(t, 80, cfg.NMels)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"channel":   "feat_list:\n  - feat_type: mel\n    channel: 0.5\n",
		"feat_type": "feat_list:\n  - feat_type: chroma\n",
		"feat_list": "feat_list: mel\n",
		"hop_len":   "hop_len: 0\n",
	}
	for field, body := range cases {
		_, err := Load(writeConfig(t, body))
		var cfgErr *feature.ConfigError
		require.ErrorAs(t, err, &cfgErr, field)
		assert.Equal(t, field, cfgErr.Field)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
