package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/neurlang/gofeat/feature"
)

// EnvPrefix prefixes environment overrides, e.g. GOFEAT_HOP_LEN.
const EnvPrefix = "GOFEAT"

const featListKey = "feat_list"

// keys lists the scalar configuration keys; flags are bound only for these.
var keys = []string{
	"sample_rate", "n_freq", "win_len", "hop_len", "n_mels", "n_mfcc",
	"f_min", "f_max", "window", "workers",
}

// Load reads configuration from path, which may be empty to use defaults and
// the environment only.
func Load(path string) (feature.Config, error) {
	return LoadFlags(path, nil)
}

// LoadFlags is Load with command-line overrides. Flags are matched to keys with
// dashes replaced by underscores (--hop-len sets hop_len) and override only when set.
func LoadFlags(path string, flags *pflag.FlagSet) (feature.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return feature.Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}
	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return feature.Config{}, err
		}
	}

	var cfg feature.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return feature.Config{}, errors.Wrap(err, "decode config")
	}
	list, err := parseFeatList(v.Get(featListKey))
	if err != nil {
		return feature.Config{}, err
	}
	cfg.FeatList = list

	if err := cfg.Validate(); err != nil {
		return feature.Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := feature.DefaultConfig()
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("n_freq", d.NFreq)
	v.SetDefault("win_len", d.WinLen)
	v.SetDefault("hop_len", d.HopLen)
	v.SetDefault("n_mels", d.NMels)
	v.SetDefault("n_mfcc", d.NMFCC)
	v.SetDefault("f_min", d.FMin)
	v.SetDefault("f_max", d.FMax)
	v.SetDefault("window", string(d.Window))
	v.SetDefault("workers", d.Workers)

	list := make([]interface{}, len(d.FeatList))
	for i, s := range d.FeatList {
		list[i] = map[string]interface{}{
			"feat_type": s.Type.String(),
			"channel":   s.Channel,
			"log":       s.Log,
			"delta":     s.Delta,
			"cmvn":      s.CMVN,
		}
	}
	v.SetDefault(featListKey, list)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range keys {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag --%s", f.Name)
		}
	}
	return nil
}

// parseFeatList accepts the decoded YAML list or, from the environment, a YAML
// document holding the list.
func parseFeatList(raw interface{}) ([]feature.Spec, error) {
	if text, ok := raw.(string); ok {
		var items []map[string]interface{}
		if err := yaml.Unmarshal([]byte(text), &items); err != nil {
			return nil, &feature.ConfigError{Field: featListKey, Value: text, Reason: "not a YAML list", Err: err}
		}
		raw = items
	}

	var items []interface{}
	switch list := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		items = list
	case []map[string]interface{}:
		for _, m := range list {
			items = append(items, m)
		}
	default:
		return nil, &feature.ConfigError{Field: featListKey, Value: raw, Reason: "must be a list"}
	}

	specs := make([]feature.Spec, 0, len(items))
	for i, item := range items {
		m, err := asMap(item)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", featListKey, i)
		}
		s, err := feature.ParseSpec(m)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", featListKey, i)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

func asMap(item interface{}) (map[string]interface{}, error) {
	switch m := item.(type) {
	case map[string]interface{}:
		return m, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, &feature.ConfigError{Field: featListKey, Value: k, Reason: "keys must be strings"}
			}
			out[key] = val
		}
		return out, nil
	}
	return nil, &feature.ConfigError{Field: featListKey, Value: item, Reason: "entries must be mappings"}
}
