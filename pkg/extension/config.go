package extension

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds the complete extension configuration.
type Config struct {
	Families map[string]FamilyConfig `yaml:"families"`
}

// FamilyConfig holds configuration for one mission family.
type FamilyConfig struct {
	Enabled bool           `yaml:"enabled"`
	Config  map[string]any `yaml:"config"`
}

// LoadConfig loads configuration from a YAML file. The path is
// expected to come from command line arguments, controlled by the
// administrator.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by admin
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration bytes, expanding ${VAR}
// environment references before unmarshaling.
func ParseConfig(data []byte) (*Config, error) {
	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// applyDefaults applies default values to the config. With no families
// configured, the sentinel2 family is enabled with its defaults.
func applyDefaults(cfg *Config) {
	if len(cfg.Families) == 0 {
		cfg.Families = map[string]FamilyConfig{
			"sentinel2": {Enabled: true},
		}
	}
}
