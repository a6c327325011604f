// Package sentinel2 implements archive product types for the
// Sentinel-2 mission family: user-level SAFE products, PDI datastrips
// and tiles, auxiliary orbit and quality files, GIPP configuration
// products, and IERS bulletins. Each product type knows how to
// recognize its file naming convention, derive a canonical product
// name, and extract properties into the core and sentinel2 namespaces.
package sentinel2

import (
	"fmt"

	"github.com/stcorp/muninn-sentinel2/pkg/extension"
)

// Name is the namespace identifier under which Sentinel-2 specific
// properties are reported.
const Name = "sentinel2"

// Property names within the sentinel2 namespace.
const (
	PropMission            = "mission"
	PropAbsoluteOrbit      = "absolute_orbit"
	PropRelativeOrbit      = "relative_orbit"
	PropOrbitDirection     = "orbit_direction"
	PropTileNumber         = "tile_number"
	PropDatatakeID         = "datatake_id"
	PropProcessingBaseline = "processing_baseline"
	PropProcessingFacility = "processing_facility"
	PropProcessorName      = "processor_name"
	PropProcessorVersion   = "processor_version"
	PropCloudCover         = "cloud_cover"
	PropSnowCover          = "snow_cover"
)

// Namespace returns the schema of the sentinel2 namespace.
func Namespace() extension.Schema {
	return extension.Schema{
		PropMission:            {Type: extension.TypeText, Index: true, Optional: true},
		PropAbsoluteOrbit:      {Type: extension.TypeInteger, Index: true, Optional: true},
		PropRelativeOrbit:      {Type: extension.TypeInteger, Index: true, Optional: true},
		PropOrbitDirection:     {Type: extension.TypeText, Index: true, Optional: true},
		PropTileNumber:         {Type: extension.TypeText, Index: true, Optional: true},
		PropDatatakeID:         {Type: extension.TypeText, Index: true, Optional: true},
		PropProcessingBaseline: {Type: extension.TypeInteger, Index: true, Optional: true},
		PropProcessingFacility: {Type: extension.TypeText, Index: true, Optional: true},
		PropProcessorName:      {Type: extension.TypeText, Index: true, Optional: true},
		PropProcessorVersion:   {Type: extension.TypeText, Index: true, Optional: true},
		PropCloudCover:         {Type: extension.TypeReal, Index: true, Optional: true},
		PropSnowCover:          {Type: extension.TypeReal, Index: true, Optional: true},
	}
}

// Register wires the namespace schema and every enabled Sentinel-2
// product type into the registry.
func Register(reg *extension.Registry, cfg Config) error {
	if err := reg.RegisterNamespace(Name, Namespace()); err != nil {
		return err
	}

	register := func(pt extension.ProductType) error {
		if !cfg.enabled(pt.ProductType()) {
			return nil
		}
		return reg.Register(pt)
	}

	for _, productType := range UserProductTypes {
		if err := register(newSAFEProduct(productType, cfg)); err != nil {
			return err
		}
	}
	for _, productType := range PDIProductTypes {
		if err := register(newPDIProduct(productType, cfg)); err != nil {
			return err
		}
	}
	for _, productType := range AuxEOFProductTypes {
		if err := register(newEOFProduct(productType, cfg, false)); err != nil {
			return err
		}
	}
	for _, productType := range AuxHdrDblProductTypes {
		if err := register(newEOFProduct(productType, cfg, true)); err != nil {
			return err
		}
	}
	for _, productType := range GIPPProductTypes {
		if err := register(newGIPPProduct(productType, cfg)); err != nil {
			return err
		}
	}
	for _, productType := range IERSProductTypes {
		if err := register(newIERSProduct(productType, cfg)); err != nil {
			return err
		}
	}
	return nil
}

// Family adapts Register to the extension loader's family factory
// contract.
func Family(reg *extension.Registry, cfg map[string]any) error {
	c, err := ParseConfig(cfg)
	if err != nil {
		return fmt.Errorf("sentinel2 config: %w", err)
	}
	return Register(reg, c)
}
