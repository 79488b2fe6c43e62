package featfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gofeat/feature"
	"github.com/neurlang/gofeat/tensor"
)

func TestWriteRead(t *testing.T) {
	base := filepath.Join(t.TempDir(), "utt")
	x, err := tensor.FromData([]float64{0, 0.5, -1.25, 3, 1024, -0.0625}, 1, 2, 3)
	require.NoError(t, err)

	spec := feature.Spec{Type: feature.Mel, Log: true, Delta: 1}
	cfg := feature.DefaultConfig()
	require.NoError(t, Write(base, x, NewManifest(cfg, &spec, 16000)))

	got, m, err := Read(base)
	require.NoError(t, err)
	assert.Equal(t, x.Shape, got.Shape)
	// all values are exact in half precision
	assert.Equal(t, x.Data, got.Data)
	assert.Equal(t, []int{1, 2, 3}, m.Shape)
	require.NotNil(t, m.Spec)
	assert.Equal(t, spec, *m.Spec)
	assert.Equal(t, 16000, m.Samples)
	assert.Equal(t, cfg, m.Config(cfg))

	manifest, _ := Paths(base)
	raw, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "feat_type: mel")
}

func TestManifest_Config(t *testing.T) {
	m := Manifest{SampleRate: 8000, NFreq: 129, HopLen: 64, WinLen: 256, Window: "hamming"}
	cfg := m.Config(feature.DefaultConfig())
	assert.Equal(t, 8000, cfg.SampleRate)
	assert.Equal(t, 256, cfg.NFFT())
	assert.Equal(t, 64, cfg.HopLen)
	assert.EqualValues(t, "hamming", cfg.Window)
	assert.Equal(t, 40, cfg.NMels)
}

func TestRead_Truncated(t *testing.T) {
	base := filepath.Join(t.TempDir(), "utt")
	require.NoError(t, Write(base, tensor.New(4, 4), Manifest{}))
	_, payload := Paths(base)
	require.NoError(t, os.Truncate(payload, 10))

	_, _, err := Read(base)
	require.Error(t, err)
}

func TestRead_Missing(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
}
