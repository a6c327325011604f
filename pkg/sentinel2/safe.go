package sentinel2

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/stcorp/muninn-sentinel2/pkg/extension"
	"github.com/stcorp/muninn-sentinel2/pkg/properties"
)

// safeProduct handles user-level products distributed in SAFE format,
// stored either as a .SAFE directory or a .SAFE.zip file.
type safeProduct struct {
	product
}

func newSAFEProduct(productType string, cfg Config) *safeProduct {
	parts := []string{
		`^` + missionPattern,
		`(?P<product_type>` + productType + `)`,
		`(?P<validity_start>[\dT]{15})`,
		`N(?P<processing_baseline>[\d]{4})`,
		`R(?P<relative_orbit>[\d]{3})`,
		`T(?P<tile_number>.{5})`,
		`(?P<creation_date>[\dT]{15})`,
	}
	pattern := strings.Join(parts, "_")
	if cfg.Zipped {
		pattern += `\.SAFE\.zip$`
	} else {
		pattern += `\.SAFE$`
	}

	return &safeProduct{
		product: product{
			productType:   productType,
			pattern:       regexp.MustCompile(pattern),
			zipped:        cfg.Zipped,
			missionPrefix: cfg.Naming.MissionPrefix,
		},
	}
}

// userProductMTD is the subset of the MTD_MSIL1C/MTD_MSIL2A user
// product metadata that is projected into properties.
type userProductMTD struct {
	ProductStartTime string `xml:"General_Info>Product_Info>PRODUCT_START_TIME"`
	ProductStopTime  string `xml:"General_Info>Product_Info>PRODUCT_STOP_TIME"`
	GenerationTime   string `xml:"General_Info>Product_Info>GENERATION_TIME"`
	Datatake         struct {
		ID             string `xml:"datatakeIdentifier,attr"`
		OrbitDirection string `xml:"SENSING_ORBIT_DIRECTION"`
	} `xml:"General_Info>Product_Info>Datatake"`
	ExtPosList string `xml:"Geometric_Info>Product_Footprint>Product_Footprint>Global_Footprint>EXT_POS_LIST"`
	CloudCover string `xml:"Quality_Indicators_Info>Cloud_Coverage_Assessment"`
	SnowCover  string `xml:"Quality_Indicators_Info>Snow_Coverage_Assessment"`
}

// Analyze extracts properties from the file name and, unless
// FilenameOnly is given, from the product's MTD_<type>.xml component.
func (p *safeProduct) Analyze(ctx context.Context, paths []string, opts ...extension.AnalyzeOption) (properties.Properties, error) {
	o := extension.NewAnalyzeOptions(opts...)

	if len(paths) != 1 {
		return nil, fmt.Errorf("expected a single path: %w", extension.ErrUnrecognizedProduct)
	}
	inpath := paths[0]
	attrs, err := p.parseFilename(inpath)
	if err != nil {
		return nil, err
	}

	props := properties.New()
	core := props.Namespace(properties.CoreNamespace)
	core[properties.ProductName] = p.canonicalName(filepath.Base(inpath), attrs)
	core[properties.PhysicalName] = filepath.Base(inpath)

	start, err := parseCompactTime(attrs["validity_start"])
	if err != nil {
		return nil, metadataErr("validity_start", err)
	}
	core[properties.ValidityStart] = start
	creation, err := parseCompactTime(attrs["creation_date"])
	if err != nil {
		return nil, metadataErr("creation_date", err)
	}
	core[properties.CreationDate] = creation

	s2 := props.Namespace(Name)
	s2[PropMission] = normalizeMission(attrs["mission"])
	s2[PropTileNumber] = attrs["tile_number"]
	baseline, err := strconv.Atoi(attrs["processing_baseline"])
	if err != nil {
		return nil, metadataErr("processing_baseline", err)
	}
	s2[PropProcessingBaseline] = baseline
	relativeOrbit, err := strconv.Atoi(attrs["relative_orbit"])
	if err != nil {
		return nil, metadataErr("relative_orbit", err)
	}
	s2[PropRelativeOrbit] = relativeOrbit

	if o.FilenameOnly {
		return props, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc userProductMTD
	if err := p.readComponent(inpath, "MTD_"+p.productType+".xml", &doc); err != nil {
		return nil, err
	}
	if err := p.analyzeMTD(&doc, props); err != nil {
		return nil, err
	}
	return props, nil
}

// analyzeMTD overlays the filename-derived properties with the richer
// values from the user product metadata.
func (p *safeProduct) analyzeMTD(doc *userProductMTD, props properties.Properties) error {
	core := props.Namespace(properties.CoreNamespace)
	s2 := props.Namespace(Name)

	start, err := parseXMLTime(doc.ProductStartTime)
	if err != nil {
		return metadataErr("PRODUCT_START_TIME", err)
	}
	core[properties.ValidityStart] = start
	stop, err := parseXMLTime(doc.ProductStopTime)
	if err != nil {
		return metadataErr("PRODUCT_STOP_TIME", err)
	}
	core[properties.ValidityStop] = stop
	creation, err := parseXMLTime(doc.GenerationTime)
	if err != nil {
		return metadataErr("GENERATION_TIME", err)
	}
	core[properties.CreationDate] = creation

	orbit, err := absoluteOrbitFromDatatake(doc.Datatake.ID)
	if err != nil {
		return err
	}
	s2[PropDatatakeID] = doc.Datatake.ID
	s2[PropAbsoluteOrbit] = orbit
	if doc.Datatake.OrbitDirection == "" {
		return metadataErr("SENSING_ORBIT_DIRECTION", fmt.Errorf("element missing"))
	}
	s2[PropOrbitDirection] = strings.ToLower(doc.Datatake.OrbitDirection)

	footprint, err := parseFootprint(doc.ExtPosList)
	if err != nil {
		return metadataErr("EXT_POS_LIST", err)
	}
	core[properties.Footprint] = footprint

	cloud, err := strconv.ParseFloat(strings.TrimSpace(doc.CloudCover), 64)
	if err != nil {
		return metadataErr("Cloud_Coverage_Assessment", err)
	}
	s2[PropCloudCover] = cloud
	if doc.SnowCover != "" {
		snow, err := strconv.ParseFloat(strings.TrimSpace(doc.SnowCover), 64)
		if err != nil {
			return metadataErr("Snow_Coverage_Assessment", err)
		}
		s2[PropSnowCover] = snow
	}
	return nil
}

// ArchivePath returns <mission>/<type>/<yyyy>/<mm>/<dd> derived from
// the validity start encoded in the physical name.
func (p *safeProduct) ArchivePath(props properties.Properties) (string, error) {
	physical, ok := props.String(properties.CoreNamespace, properties.PhysicalName)
	if !ok {
		return "", fmt.Errorf("%s: %w", properties.PhysicalName, extension.ErrMetadataMissing)
	}
	attrs, err := p.parseFilename(physical)
	if err != nil {
		return "", err
	}
	start := attrs["validity_start"]
	return filepath.Join(
		normalizeMission(attrs["mission"]),
		attrs["product_type"],
		start[0:4],
		start[4:6],
		start[6:8],
	), nil
}

// absoluteOrbitFromDatatake extracts the absolute orbit number from a
// datatake identifier of the form GS[SS]_[YYYYMMDDTHHMMSS]_[RRRRRR]_N[xx.yy].
func absoluteOrbitFromDatatake(datatakeID string) (int, error) {
	if len(datatakeID) < 27 {
		return 0, metadataErr("datatakeIdentifier", fmt.Errorf("%q too short", datatakeID))
	}
	orbit, err := strconv.Atoi(datatakeID[21:27])
	if err != nil {
		return 0, metadataErr("datatakeIdentifier", err)
	}
	return orbit, nil
}

// baselineFromDatatake extracts the processing baseline from the
// N[xx.yy] suffix of a datatake identifier.
func baselineFromDatatake(datatakeID string) (int, error) {
	if len(datatakeID) < 5 {
		return 0, metadataErr("datatakeIdentifier", fmt.Errorf("%q too short", datatakeID))
	}
	suffix := strings.ReplaceAll(datatakeID[len(datatakeID)-5:], ".", "")
	baseline, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, metadataErr("datatakeIdentifier", err)
	}
	return baseline, nil
}

// parseFootprint converts a whitespace-separated "lat lon lat lon ..."
// position list into a polygon.
func parseFootprint(posList string) (properties.Polygon, error) {
	fields := strings.Fields(posList)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("position list has %d values", len(fields))
	}

	ring := make(properties.LinearRing, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		lat, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("latitude %q: %w", fields[i], err)
		}
		lon, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("longitude %q: %w", fields[i+1], err)
		}
		ring = append(ring, properties.Point{Lon: lon, Lat: lat})
	}
	return properties.Polygon{ring}, nil
}
