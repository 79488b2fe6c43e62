package feature

import (
	"math"
	"reflect"
	"strings"
)

// Type is the closed set of feature representations.
type Type int

const (
	Complex Type = iota + 1
	Linear
	Phase
	Mel
	MFCC
)

var typeNames = map[Type]string{
	Complex: "complex",
	Linear:  "linear",
	Phase:   "phase",
	Mel:     "mel",
	MFCC:    "mfcc",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether t is one of the defined types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType parses a feature type name. "complx" is accepted for Complex.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "complx" {
		return Complex, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, &ConfigError{Field: "feat_type", Value: name, Reason: "unknown feature type"}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, &ConfigError{Field: "feat_type", Value: int(t), Reason: "unknown feature type"}
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Spec requests one feature tensor.
type Spec struct {
	Type    Type `yaml:"feat_type"`
	Channel int  `yaml:"channel"`
	Log     bool `yaml:"log"`
	Delta   int  `yaml:"delta"`
	CMVN    bool `yaml:"cmvn"`
}

// Validate checks the fields that do not depend on the input waveform.
func (s Spec) Validate() error {
	if !s.Type.Valid() {
		return &ConfigError{Field: "feat_type", Value: int(s.Type), Reason: "unknown feature type"}
	}
	if s.Channel < 0 {
		return &ConfigError{Field: "channel", Value: s.Channel, Reason: "must be non-negative"}
	}
	if s.Delta < 0 {
		return &ConfigError{Field: "delta", Value: s.Delta, Reason: "must be non-negative"}
	}
	return nil
}

// ParseSpec builds a Spec from a generic key/value request as found in YAML or
// JSON configuration. Missing keys take their zero value, so channel defaults to 0.
func ParseSpec(raw map[string]interface{}) (Spec, error) {
	var s Spec
	name, ok := raw["feat_type"]
	if !ok {
		return s, &ConfigError{Field: "feat_type", Value: nil, Reason: "missing"}
	}
	str, ok := name.(string)
	if !ok {
		return s, &ConfigError{Field: "feat_type", Value: name, Reason: "must be a string"}
	}
	t, err := ParseType(str)
	if err != nil {
		return s, err
	}
	s.Type = t

	for key, value := range raw {
		switch key {
		case "feat_type":
		case "channel":
			if s.Channel, err = asInt(key, value); err != nil {
				return s, err
			}
		case "delta":
			if s.Delta, err = asInt(key, value); err != nil {
				return s, err
			}
		case "log":
			if s.Log, err = asBool(key, value); err != nil {
				return s, err
			}
		case "cmvn":
			if s.CMVN, err = asBool(key, value); err != nil {
				return s, err
			}
		default:
			return s, &ConfigError{Field: key, Value: value, Reason: "unknown field"}
		}
	}
	return s, s.Validate()
}

func asInt(field string, value interface{}) (int, error) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		// JSON decoders hand integers over as floats
		if f := v.Float(); f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f), nil
		}
	}
	return 0, &ConfigError{Field: field, Value: value, Reason: "must be an integer"}
}

func asBool(field string, value interface{}) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, &ConfigError{Field: field, Value: value, Reason: "must be a boolean"}
	}
	return b, nil
}
