package config

import "errors"

// Sentinel errors for configuration loading.
var (
	// ErrConfigNotFound indicates an explicitly requested config file is missing.
	ErrConfigNotFound = errors.New("config: file not found")

	// ErrParse indicates the config file is not valid TOML for Config.
	ErrParse = errors.New("config: parse error")

	// ErrInvalid indicates a value failed validation.
	ErrInvalid = errors.New("config: invalid value")
)
