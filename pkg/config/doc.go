// Package config loads environment-driven configuration structs.
//
// Structs declare their variables with caarlos0/env tags:
//
//	type DispatcherConfig struct {
//	    MinEmailInterval time.Duration `env:"DISPATCH_MIN_EMAIL_INTERVAL" envDefault:"5m"`
//	}
//
// Load reads a .env file once per process (if present), parses the struct and
// caches the result per type, so every package asking for the same config type
// sees the same values. Parse skips the cache and is what tests use.
//
// A config type that implements Validator is validated right after parsing;
// a validation failure is reported as ErrInvalidConfig.
package config
