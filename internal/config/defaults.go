package config

// Default configuration values.
const (
	DefaultCacheCapacity = 10
	DefaultRoundTo       = -1
	DefaultLogLevel      = "info"
	DefaultOutputFormat  = "text"
)

// ApplyDefaults fills zero-valued fields with defaults. OnlyReal and
// RoundTo are handled by Default() and the loader baseline instead:
// their zero values (keep complex roots; round to integers) are
// meaningful settings that must survive.
func (c *Config) ApplyDefaults() {
	if c.CacheCapacity == 0 {
		c.CacheCapacity = DefaultCacheCapacity
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutputFormat
	}
}

// Default returns a fully-populated default configuration.
func Default() *Config {
	c := &Config{OnlyReal: true, RoundTo: DefaultRoundTo}
	c.ApplyDefaults()
	return c
}
