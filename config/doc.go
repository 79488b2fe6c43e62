// Package config loads feature.Config from defaults, an optional YAML file,
// GOFEAT_ prefixed environment variables and command-line flags, in increasing
// order of precedence.
package config
