package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gofeat/feature"
)

func TestParseFeature(t *testing.T) {
	cases := map[string]feature.Spec{
		"linear":                   {Type: feature.Linear},
		"complx:channel=1":         {Type: feature.Complex, Channel: 1},
		"mfcc:delta=2,cmvn":        {Type: feature.MFCC, Delta: 2, CMVN: true},
		"mel:log=true, cmvn=false": {Type: feature.Mel, Log: true},
		"phase:channel=0,delta=0":  {Type: feature.Phase},
	}
	for text, want := range cases {
		got, err := ParseFeature(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}

	for _, text := range []string{"chroma", "mel:channel=x", "mel:delta=-1", "mel:log=maybe", "mel:stride=2"} {
		_, err := ParseFeature(text)
		var cfgErr *feature.ConfigError
		assert.ErrorAs(t, err, &cfgErr, text)
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "a/b.wav", AudioPath("a/b.wav"))
	assert.Equal(t, "a/b.FLAC", AudioPath("a/b.FLAC"))
	assert.Equal(t, "a/b.wav", AudioPath("a/b"))

	assert.Equal(t, "a/b", Base("a/b.wav"))
	assert.Equal(t, "a/b.mel", Base("a/b.mel.yaml"))
	assert.Equal(t, "a/b.mel", Base("a/b.mel"))
}

func TestCommand_Flags(t *testing.T) {
	var got *Env
	cmd := Command("probe <file>", "probe", cobra.ExactArgs(1), func(env *Env, args []string) error {
		got = env
		assert.Equal(t, []string{"x.wav"}, args)
		return nil
	})
	cmd.SetArgs([]string{"--hop-len", "128", "--window", "hamming", "x.wav"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, got)
	assert.Equal(t, 128, got.Config.HopLen)
	assert.EqualValues(t, "hamming", got.Config.Window)
	assert.Equal(t, 512, got.Config.NFFT())

	p, err := got.Pipeline(got.Config)
	require.NoError(t, err)
	assert.Equal(t, 126, p.NumFrames(16000))
}

func TestCommand_InvalidConfig(t *testing.T) {
	cmd := Command("probe", "probe", cobra.NoArgs, func(*Env, []string) error {
		t.Fatal("run must not be reached")
		return nil
	})
	cmd.SetArgs([]string{"--hop-len", "0"})
	require.Error(t, cmd.Execute())
}
