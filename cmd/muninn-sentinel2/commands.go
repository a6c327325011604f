package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stcorp/muninn-sentinel2/pkg/extension"
	"github.com/stcorp/muninn-sentinel2/pkg/properties"
)

var (
	flagType         string
	flagFilenameOnly bool
	flagOutput       string
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered product types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := newRegistry()
		if err != nil {
			return err
		}
		for _, productType := range registry.ProductTypes() {
			fmt.Fprintln(cmd.OutOrStdout(), productType)
		}
		return nil
	},
}

var identifyCmd = &cobra.Command{
	Use:   "identify <path>...",
	Short: "Report which product type the given paths form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry()
		if err != nil {
			return err
		}
		pt, err := registry.Resolve(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pt.ProductType())
		return nil
	},
}

var nameCmd = &cobra.Command{
	Use:   "name <path>...",
	Short: "Derive the canonical product name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry()
		if err != nil {
			return err
		}
		pt, err := productTypeFor(registry, flagType, args)
		if err != nil {
			return err
		}
		name, err := pt.Name(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>...",
	Short: "Extract metadata properties per namespace",
	Long: `Analyze the product formed by the given paths and print its properties
grouped by namespace. Split products (.HDR/.DBL pairs) take both paths.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry()
		if err != nil {
			return err
		}
		pt, err := productTypeFor(registry, flagType, args)
		if err != nil {
			return err
		}

		log := slog.Default().With("run_id", uuid.NewString(), "product_type", pt.ProductType())
		log.Info("analyzing product", "paths", args, "filename_only", flagFilenameOnly)

		var opts []extension.AnalyzeOption
		if flagFilenameOnly {
			opts = append(opts, extension.FilenameOnly())
		}
		props, err := pt.Analyze(cmd.Context(), args, opts...)
		if err != nil {
			log.Error("analysis failed", "error", err)
			return err
		}

		return writeProperties(cmd, props)
	},
}

func init() {
	nameCmd.Flags().StringVarP(&flagType, "type", "t", "", "Product type (default: resolve from the file name)")
	analyzeCmd.Flags().StringVarP(&flagType, "type", "t", "", "Product type (default: resolve from the file name)")
	analyzeCmd.Flags().BoolVar(&flagFilenameOnly, "filename-only", false, "Skip metadata components, use the file name only")
	analyzeCmd.Flags().StringVarP(&flagOutput, "output", "o", "json", "Output format: json, yaml")

	rootCmd.AddCommand(typesCmd, identifyCmd, nameCmd, analyzeCmd)
}

// renderProperties converts property values into plain serializable
// forms: timestamps as RFC 3339 strings, geometries as WKT.
func renderProperties(props properties.Properties) map[string]map[string]any {
	out := make(map[string]map[string]any, len(props))
	for _, namespace := range props.Namespaces() {
		rendered := make(map[string]any, len(props[namespace]))
		for name, value := range props[namespace] {
			switch v := value.(type) {
			case time.Time:
				rendered[name] = v.UTC().Format(time.RFC3339Nano)
			case fmt.Stringer:
				rendered[name] = v.String()
			default:
				rendered[name] = v
			}
		}
		out[namespace] = rendered
	}
	return out
}

func writeProperties(cmd *cobra.Command, props properties.Properties) error {
	rendered := renderProperties(props)
	switch flagOutput {
	case "yaml":
		data, err := yaml.Marshal(rendered)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rendered)
	default:
		return fmt.Errorf("unknown output format %q", flagOutput)
	}
}
