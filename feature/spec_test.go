package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseType(t *testing.T) {
	cases := map[string]Type{
		"complex": Complex,
		"complx":  Complex,
		"linear":  Linear,
		"phase":   Phase,
		"MEL":     Mel,
		" mfcc ":  MFCC,
	}
	for name, want := range cases {
		got, err := ParseType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseType("cqt")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "feat_type", cfgErr.Field)
}

func TestParseSpec(t *testing.T) {
	s, err := ParseSpec(map[string]interface{}{"feat_type": "complx"})
	require.NoError(t, err)
	assert.Equal(t, Spec{Type: Complex}, s)

	s, err = ParseSpec(map[string]interface{}{
		"feat_type": "mfcc",
		"channel":   float64(1),
		"log":       false,
		"delta":     2,
		"cmvn":      true,
	})
	require.NoError(t, err)
	assert.Equal(t, Spec{Type: MFCC, Channel: 1, Delta: 2, CMVN: true}, s)
}

func TestParseSpec_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		raw   map[string]interface{}
		field string
	}{
		{"missing type", map[string]interface{}{"channel": 0}, "feat_type"},
		{"unknown type", map[string]interface{}{"feat_type": "chroma"}, "feat_type"},
		{"non-string type", map[string]interface{}{"feat_type": 3}, "feat_type"},
		{"fractional channel", map[string]interface{}{"feat_type": "mel", "channel": 1.5}, "channel"},
		{"string channel", map[string]interface{}{"feat_type": "mel", "channel": "0"}, "channel"},
		{"negative channel", map[string]interface{}{"feat_type": "mel", "channel": -1}, "channel"},
		{"negative delta", map[string]interface{}{"feat_type": "mel", "delta": -1}, "delta"},
		{"string bool", map[string]interface{}{"feat_type": "mel", "cmvn": "True"}, "cmvn"},
		{"unknown key", map[string]interface{}{"feat_type": "mel", "stride": 2}, "stride"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSpec(tc.raw)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestSpec_YAML(t *testing.T) {
	in := []Spec{{Type: Complex}, {Type: Mel, Channel: 1, Log: true, Delta: 2, CMVN: true}}
	raw, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "feat_type: complex")

	var out []Spec
	require.NoError(t, yaml.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	var alias Spec
	require.NoError(t, yaml.Unmarshal([]byte("feat_type: complx\nchannel: 1\n"), &alias))
	assert.Equal(t, Spec{Type: Complex, Channel: 1}, alias)
}
