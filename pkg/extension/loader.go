package extension

import (
	"fmt"
	"log/slog"
)

// Family wires every product type of one mission family into a
// registry, configured from a raw config map.
type Family func(r *Registry, cfg map[string]any) error

// Loader builds a registry from configuration, selecting mission
// families by name rather than by code modification.
type Loader struct {
	registry *Registry
	families map[string]Family
	log      *slog.Logger
}

// NewLoader creates a loader for the given registry. A nil logger
// falls back to slog.Default().
func NewLoader(registry *Registry, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		registry: registry,
		families: make(map[string]Family),
		log:      log,
	}
}

// RegisterFamily registers a mission family factory under a name.
func (l *Loader) RegisterFamily(name string, family Family) {
	l.families[name] = family
}

// Load wires all enabled families from the configuration into the
// registry.
func (l *Loader) Load(cfg *Config) error {
	for name, familyCfg := range cfg.Families {
		if !familyCfg.Enabled {
			l.log.Debug("skipping disabled family", "family", name)
			continue
		}

		family, ok := l.families[name]
		if !ok {
			return fmt.Errorf("%s: %w", name, ErrUnknownFamily)
		}

		if err := family(l.registry, familyCfg.Config); err != nil {
			return fmt.Errorf("loading family %s: %w", name, err)
		}
		l.log.Info("loaded mission family",
			"family", name,
			"product_types", len(l.registry.ProductTypes()))
	}

	return nil
}
