// Package main provides a command line harness around the Sentinel-2
// archive extension, for inspecting products outside a host archive.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stcorp/muninn-sentinel2/pkg/extension"
	"github.com/stcorp/muninn-sentinel2/pkg/sentinel2"
)

const toolVersion = "1.0.0"

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:     "muninn-sentinel2",
	Short:   "Sentinel-2 product recognition and metadata extraction",
	Version: toolVersion,
	Long: `muninn-sentinel2 recognizes Sentinel-2 product files, derives canonical
product names, and extracts metadata properties the way the archive
extension reports them to its host.

Product families: user-level SAFE products (MSIL1C, MSIL2A), PDI
datastrips and tiles, auxiliary Earth Explorer files, GIPP parameter
products, and IERS bulletins.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

func setupLogging(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(flagLogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", flagLogLevel)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// newRegistry builds a registry from the configured mission families.
func newRegistry() (*extension.Registry, error) {
	cfg := extension.DefaultConfig()
	if flagConfig != "" {
		loaded, err := extension.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	registry := extension.NewRegistry()
	loader := extension.NewLoader(registry, slog.Default())
	loader.RegisterFamily(sentinel2.Name, sentinel2.Family)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	return registry, nil
}

// productTypeFor resolves the plugin for the given paths, honoring an
// explicit --type override.
func productTypeFor(registry *extension.Registry, productType string, paths []string) (extension.ProductType, error) {
	if productType != "" {
		return registry.Get(productType)
	}
	pt, err := registry.Resolve(paths)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.Join(paths, ", "), err)
	}
	return pt, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
