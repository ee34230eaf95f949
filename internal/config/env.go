// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	apperrors "github.com/agbru/pydemo/internal/errors"
)

// envConfig mirrors the overridable flags. Pointer fields stay nil when the
// variable is unset, which keeps "unset" distinct from a zero value.
type envConfig struct {
	Overflow         *string        `env:"OVERFLOW"`
	MaxTerms         *int           `env:"MAX_TERMS"`
	Extensions       *bool          `env:"EXTENSIONS"`
	JSON             *bool          `env:"JSON"`
	NoColor          *bool          `env:"NO_COLOR"`
	LogLevel         *string        `env:"LOG_LEVEL"`
	Addr             *string        `env:"ADDR"`
	Timeout          *time.Duration `env:"TIMEOUT"`
	BatchConcurrency *int           `env:"BATCH_CONCURRENCY"`
}

// envOverride declares a single environment variable override.
// Each entry maps a CLI flag to the function that copies the parsed
// environment value into the configuration, if one was provided.
type envOverride struct {
	flag  string
	apply func(*AppConfig, envConfig)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"overflow", func(c *AppConfig, e envConfig) { setIfPresent(&c.Overflow, e.Overflow) }},
	{"max-terms", func(c *AppConfig, e envConfig) { setIfPresent(&c.MaxTerms, e.MaxTerms) }},
	{"extensions", func(c *AppConfig, e envConfig) { setIfPresent(&c.Extensions, e.Extensions) }},
	{"json", func(c *AppConfig, e envConfig) { setIfPresent(&c.JSON, e.JSON) }},
	{"no-color", func(c *AppConfig, e envConfig) { setIfPresent(&c.NoColor, e.NoColor) }},
	{"log-level", func(c *AppConfig, e envConfig) { setIfPresent(&c.LogLevel, e.LogLevel) }},
	{"addr", func(c *AppConfig, e envConfig) { setIfPresent(&c.Addr, e.Addr) }},
	{"timeout", func(c *AppConfig, e envConfig) { setIfPresent(&c.Timeout, e.Timeout) }},
	{"batch-concurrency", func(c *AppConfig, e envConfig) { setIfPresent(&c.BatchConcurrency, e.BatchConcurrency) }},
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
//
// Supported environment variables (all prefixed with PYDEMO_):
//   - OVERFLOW, MAX_TERMS, EXTENSIONS, JSON, NO_COLOR, LOG_LEVEL, ADDR,
//     TIMEOUT, BATCH_CONCURRENCY
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	var parsed envConfig
	if err := env.ParseWithOptions(&parsed, env.Options{Prefix: EnvPrefix}); err != nil {
		return apperrors.NewConfigError("invalid environment: %v", err)
	}
	for _, o := range envOverrides {
		if isFlagSet(fs, o.flag) {
			continue
		}
		o.apply(config, parsed)
	}
	return nil
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// maxTermsExplicit reports whether --max-terms came from the command line or
// the environment rather than from its default.
func maxTermsExplicit(fs *flag.FlagSet) bool {
	if isFlagSet(fs, "max-terms") {
		return true
	}
	_, ok := os.LookupEnv(EnvPrefix + "MAX_TERMS")
	return ok
}
