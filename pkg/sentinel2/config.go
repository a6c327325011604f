package sentinel2

import (
	"fmt"

	"github.com/stcorp/muninn-sentinel2/pkg/extension"
)

// Config holds the Sentinel-2 family configuration.
type Config struct {
	// Zipped marks the archive as storing products in packaged form
	// (.zip or .TGZ) rather than as unpacked directories and files.
	Zipped bool

	// ProductTypes restricts registration to the listed product types.
	// Empty means all known product types.
	ProductTypes []string

	// Naming customizes the canonical naming convention.
	Naming NamingConfig
}

// NamingConfig holds naming convention options.
type NamingConfig struct {
	// MissionPrefix scopes canonical names under the normalized
	// mission identifier (e.g. "S2A/<name>"), for hosts that catalog
	// several missions side by side.
	MissionPrefix bool
}

// ParseConfig parses a Sentinel-2 family configuration from a map.
func ParseConfig(cfg map[string]any) (Config, error) {
	c := Config{}

	c.Zipped = getBool(cfg, "zipped")
	c.ProductTypes = getStringSlice(cfg, "product_types")

	if naming, ok := cfg["naming"].(map[string]any); ok {
		c.Naming.MissionPrefix = getBool(naming, "mission_prefix")
	}

	for _, productType := range c.ProductTypes {
		if !knownProductType(productType) {
			return c, fmt.Errorf("%s: %w", productType, extension.ErrUnknownProductType)
		}
	}

	return c, nil
}

// enabled reports whether a product type passes the configured filter.
func (c Config) enabled(productType string) bool {
	if len(c.ProductTypes) == 0 {
		return true
	}
	for _, pt := range c.ProductTypes {
		if pt == productType {
			return true
		}
	}
	return false
}

// getBool extracts a bool value from a config map.
func getBool(cfg map[string]any, key string) bool {
	if v, ok := cfg[key].(bool); ok {
		return v
	}
	return false
}

// getStringSlice extracts a string slice from a config map. YAML
// decodes sequences as []any, so both forms are accepted.
func getStringSlice(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
