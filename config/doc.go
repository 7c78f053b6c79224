// Package config loads the probe configuration.
//
// Values are layered: built-in defaults, then a TOML file (--config,
// $HEALTHPROBE_CONFIG or ./healthprobe.toml), then the HOST and PORT
// environment variables, then caller overrides such as command-line flags.
// Relative paths are anchored at Root.
package config
