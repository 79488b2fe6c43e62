package feature

import "fmt"

// ConfigError reports an invalid configuration or feature request field.
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ChannelRangeError reports a channel index beyond the input's channel count.
type ChannelRangeError struct {
	Channel  int
	Channels int
}

func (e *ChannelRangeError) Error() string {
	return fmt.Sprintf("channel %d out of range for %d channels", e.Channel, e.Channels)
}
