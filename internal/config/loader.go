package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "strukt.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "strukt.yml"

// envPrefix namespaces environment overrides, e.g. STRUKT_LOG_LEVEL.
const envPrefix = "STRUKT_"

// configFileUsed records the file the last Load call read, for
// provenance output in verbose mode.
var configFileUsed string

// ConfigFileUsed returns the path of the config file used by the last
// Load, or empty when none was found.
func ConfigFileUsed() string { return configFileUsed }

// Load assembles the configuration from, in increasing precedence:
// built-in defaults, strukt.yaml/strukt.yml (or an explicit path),
// STRUKT_* environment variables, and command-line flags.
func Load(explicitPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"cache_capacity": DefaultCacheCapacity,
		"only_real":      true,
		"round_to":       DefaultRoundTo,
		"root_window":    0.0,
		"log_level":      DefaultLogLevel,
		"output":         DefaultOutputFormat,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	configFileUsed = ""
	if path := findConfigFile(explicitPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		configFileUsed = path
	} else if explicitPath != "" {
		return nil, fmt.Errorf("config file not found: %s", explicitPath)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		// Flag names use dashes; config keys use underscores.
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile resolves the config file path: an explicit path wins,
// otherwise strukt.yaml then strukt.yml in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory
// containing a strukt config file. Returns empty when none exists.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
