// Package config provides shared configuration types for strukt.
// It is decoupled from CLI concerns so other frontends can load the
// same analysis configuration.
package config

import "fmt"

// Config holds the analysis settings.
type Config struct {
	// CacheCapacity is the derivative-cache entry limit per function.
	CacheCapacity int `koanf:"cache_capacity"`

	// OnlyReal restricts root output to real values.
	OnlyReal bool `koanf:"only_real"`

	// RoundTo rounds numeric roots to this many decimal places;
	// negative disables rounding.
	RoundTo int `koanf:"round_to"`

	// RootWindow bounds representatives of periodic root families, in
	// radians around zero. Zero selects the default window.
	RootWindow float64 `koanf:"root_window"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// OutputFormat is text or json.
	OutputFormat string `koanf:"output"`

	// Verbose prints configuration provenance on startup.
	Verbose bool `koanf:"verbose"`
}

// Validate checks field values after defaults are applied.
func (c *Config) Validate() error {
	if c.CacheCapacity < 1 {
		return fmt.Errorf("cache_capacity must be at least 1, got %d", c.CacheCapacity)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.OutputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	return nil
}
