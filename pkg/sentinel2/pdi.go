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

// pdiProduct handles Product Data Item datastrips (_DS) and tiles
// (_TL), stored as directories or zip files.
type pdiProduct struct {
	product
}

func newPDIProduct(productType string, cfg Config) *pdiProduct {
	parts := []string{
		`^` + missionPattern,
		`(?P<file_class>.{4})`,
		`(?P<product_type>` + productType + `)`,
		`(?P<site_centre>.{4})`,
		`(?P<creation_date>[\dT]{15})`,
	}
	switch {
	case strings.HasSuffix(productType, "DS"):
		parts = append(parts, `S(?P<validity_start>[\dT]{15})`)
	case strings.HasSuffix(productType, "TL"):
		parts = append(parts,
			`A(?P<absolute_orbit>[\d]{6})`,
			`T(?P<tile_number>.{5})`,
		)
	}
	parts = append(parts, `N(?P<processing_baseline>[\d]{2}\.[\d]{2})`)

	pattern := strings.Join(parts, "_")
	if cfg.Zipped {
		pattern += `\.zip$`
	} else {
		pattern += `$`
	}

	return &pdiProduct{
		product: product{
			productType:   productType,
			pattern:       regexp.MustCompile(pattern),
			zipped:        cfg.Zipped,
			missionPrefix: cfg.Naming.MissionPrefix,
		},
	}
}

// inventoryMetadata is the subset of Inventory_Metadata.xml projected
// into properties for L1C PDI products.
type inventoryMetadata struct {
	ValidityStart   string `xml:"Validity_Start"`
	ValidityStop    string `xml:"Validity_Stop"`
	GenerationTime  string `xml:"Generation_Time"`
	GroupID         string `xml:"Group_ID"`
	AscendingFlag   string `xml:"Ascending_Flag"`
	CloudPercentage string `xml:"CloudPercentage"`
	GeoPoints       []struct {
		Latitude  string `xml:"LATITUDE"`
		Longitude string `xml:"LONGITUDE"`
	} `xml:"Geographic_Localization>List_Of_Geo_Pnt>Geo_Pnt"`
}

// datastripMTD is the subset of MTD_DS.xml projected into properties
// for L2A datastrips.
type datastripMTD struct {
	GeneralInfo struct {
		DatatakeInfo struct {
			ID             string `xml:"datatakeIdentifier,attr"`
			RelativeOrbit  string `xml:"SENSING_ORBIT_NUMBER"`
			OrbitDirection string `xml:"SENSING_ORBIT_DIRECTION"`
		} `xml:"Datatake_Info"`
		TimeInfo struct {
			SensingStart string `xml:"DATASTRIP_SENSING_START"`
			SensingStop  string `xml:"DATASTRIP_SENSING_STOP"`
		} `xml:"Datastrip_Time_Info"`
		ArchivingTime    string `xml:"Archiving_Info>ARCHIVING_TIME"`
		ProcessingCenter string `xml:"Processing_Info>PROCESSING_CENTER"`
	} `xml:"General_Info"`
}

// tileMTD is the subset of MTD_TL.xml projected into properties for
// L2A tiles.
type tileMTD struct {
	TileID                string `xml:"General_Info>TILE_ID"`
	SensingTime           string `xml:"General_Info>SENSING_TIME"`
	ArchivingTime         string `xml:"General_Info>Archiving_Info>ARCHIVING_TIME"`
	CloudyPixelPercentage string `xml:"Quality_Indicators_Info>Image_Content_QI>CLOUDY_PIXEL_PERCENTAGE"`
}

// Analyze extracts properties from the file name and, unless
// FilenameOnly is given, from the PDI's metadata component:
// Inventory_Metadata.xml for L1C, MTD_DS.xml or MTD_TL.xml for L2A.
func (p *pdiProduct) Analyze(ctx context.Context, paths []string, opts ...extension.AnalyzeOption) (properties.Properties, error) {
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

	if start, ok := attrs["validity_start"]; ok {
		t, err := parseCompactTime(start)
		if err != nil {
			return nil, metadataErr("validity_start", err)
		}
		core[properties.ValidityStart] = t
	}
	creation, err := parseCompactTime(attrs["creation_date"])
	if err != nil {
		return nil, metadataErr("creation_date", err)
	}
	core[properties.CreationDate] = creation

	s2 := props.Namespace(Name)
	s2[PropMission] = normalizeMission(attrs["mission"])
	s2[PropProcessingFacility] = attrs["site_centre"]
	baseline, err := strconv.Atoi(strings.ReplaceAll(attrs["processing_baseline"], ".", ""))
	if err != nil {
		return nil, metadataErr("processing_baseline", err)
	}
	s2[PropProcessingBaseline] = baseline
	if orbit, ok := attrs["absolute_orbit"]; ok {
		n, err := strconv.Atoi(orbit)
		if err != nil {
			return nil, metadataErr("absolute_orbit", err)
		}
		s2[PropAbsoluteOrbit] = n
	}
	if tile, ok := attrs["tile_number"]; ok {
		s2[PropTileNumber] = tile
	}

	if o.FilenameOnly {
		return props, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(p.productType, "MSI_L1C"):
		var doc inventoryMetadata
		if err := p.readComponent(inpath, "Inventory_Metadata.xml", &doc); err != nil {
			return nil, err
		}
		if err := p.analyzeInventoryMetadata(&doc, props); err != nil {
			return nil, err
		}
	case p.productType == "MSI_L2A_DS":
		var doc datastripMTD
		if err := p.readComponent(inpath, "MTD_DS.xml", &doc); err != nil {
			return nil, err
		}
		if err := p.analyzeDatastripMTD(&doc, props); err != nil {
			return nil, err
		}
	case p.productType == "MSI_L2A_TL":
		var doc tileMTD
		if err := p.readComponent(inpath, "MTD_TL.xml", &doc); err != nil {
			return nil, err
		}
		if err := p.analyzeTileMTD(&doc, props); err != nil {
			return nil, err
		}
	}
	return props, nil
}

func (p *pdiProduct) analyzeInventoryMetadata(doc *inventoryMetadata, props properties.Properties) error {
	core := props.Namespace(properties.CoreNamespace)
	s2 := props.Namespace(Name)

	start, err := parseUTCTime(doc.ValidityStart)
	if err != nil {
		return metadataErr("Validity_Start", err)
	}
	core[properties.ValidityStart] = start
	stop, err := parseUTCTime(doc.ValidityStop)
	if err != nil {
		return metadataErr("Validity_Stop", err)
	}
	core[properties.ValidityStop] = stop
	creation, err := parseUTCTime(doc.GenerationTime)
	if err != nil {
		return metadataErr("Generation_Time", err)
	}
	core[properties.CreationDate] = creation

	if len(doc.GeoPoints) == 0 {
		return metadataErr("List_Of_Geo_Pnt", fmt.Errorf("no points"))
	}
	ring := make(properties.LinearRing, 0, len(doc.GeoPoints))
	for _, pt := range doc.GeoPoints {
		lat, err := strconv.ParseFloat(strings.TrimSpace(pt.Latitude), 64)
		if err != nil {
			return metadataErr("LATITUDE", err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(pt.Longitude), 64)
		if err != nil {
			return metadataErr("LONGITUDE", err)
		}
		ring = append(ring, properties.Point{Lon: lon, Lat: lat})
	}
	core[properties.Footprint] = properties.Polygon{ring}

	orbit, err := absoluteOrbitFromDatatake(doc.GroupID)
	if err != nil {
		return err
	}
	baseline, err := baselineFromDatatake(doc.GroupID)
	if err != nil {
		return err
	}
	s2[PropDatatakeID] = doc.GroupID
	s2[PropAbsoluteOrbit] = orbit
	s2[PropProcessingBaseline] = baseline
	if doc.AscendingFlag == "true" {
		s2[PropOrbitDirection] = "ascending"
	} else {
		s2[PropOrbitDirection] = "descending"
	}

	cloud, err := strconv.ParseFloat(strings.TrimSpace(doc.CloudPercentage), 64)
	if err != nil {
		return metadataErr("CloudPercentage", err)
	}
	s2[PropCloudCover] = cloud
	return nil
}

func (p *pdiProduct) analyzeDatastripMTD(doc *datastripMTD, props properties.Properties) error {
	core := props.Namespace(properties.CoreNamespace)
	s2 := props.Namespace(Name)
	info := &doc.GeneralInfo

	start, err := parseXMLTime(info.TimeInfo.SensingStart)
	if err != nil {
		return metadataErr("DATASTRIP_SENSING_START", err)
	}
	core[properties.ValidityStart] = start
	stop, err := parseXMLTime(info.TimeInfo.SensingStop)
	if err != nil {
		return metadataErr("DATASTRIP_SENSING_STOP", err)
	}
	core[properties.ValidityStop] = stop
	creation, err := parseXMLTime(info.ArchivingTime)
	if err != nil {
		return metadataErr("ARCHIVING_TIME", err)
	}
	core[properties.CreationDate] = creation

	orbit, err := absoluteOrbitFromDatatake(info.DatatakeInfo.ID)
	if err != nil {
		return err
	}
	baseline, err := baselineFromDatatake(info.DatatakeInfo.ID)
	if err != nil {
		return err
	}
	relativeOrbit, err := strconv.Atoi(strings.TrimSpace(info.DatatakeInfo.RelativeOrbit))
	if err != nil {
		return metadataErr("SENSING_ORBIT_NUMBER", err)
	}
	if info.DatatakeInfo.OrbitDirection == "" {
		return metadataErr("SENSING_ORBIT_DIRECTION", fmt.Errorf("element missing"))
	}
	if info.ProcessingCenter == "" {
		return metadataErr("PROCESSING_CENTER", fmt.Errorf("element missing"))
	}

	s2[PropDatatakeID] = info.DatatakeInfo.ID
	s2[PropAbsoluteOrbit] = orbit
	s2[PropRelativeOrbit] = relativeOrbit
	s2[PropOrbitDirection] = strings.ToLower(info.DatatakeInfo.OrbitDirection)
	s2[PropProcessingBaseline] = baseline
	s2[PropProcessingFacility] = info.ProcessingCenter
	return nil
}

func (p *pdiProduct) analyzeTileMTD(doc *tileMTD, props properties.Properties) error {
	core := props.Namespace(properties.CoreNamespace)
	s2 := props.Namespace(Name)

	start, err := parseXMLTime(doc.SensingTime)
	if err != nil {
		return metadataErr("SENSING_TIME", err)
	}
	core[properties.ValidityStart] = start
	creation, err := parseXMLTime(doc.ArchivingTime)
	if err != nil {
		return metadataErr("ARCHIVING_TIME", err)
	}
	core[properties.CreationDate] = creation

	// TILE_ID: S2?_OPER_MSI_L2A_TL_<site>_<creation>_A<orbit>_T<tile>_N<xx.yy>
	tileID := doc.TileID
	if len(tileID) < 55 {
		return metadataErr("TILE_ID", fmt.Errorf("%q too short", tileID))
	}
	orbit, err := strconv.Atoi(tileID[42:48])
	if err != nil {
		return metadataErr("TILE_ID", err)
	}
	baseline, err := strconv.Atoi(strings.ReplaceAll(tileID[len(tileID)-5:], ".", ""))
	if err != nil {
		return metadataErr("TILE_ID", err)
	}
	s2[PropAbsoluteOrbit] = orbit
	s2[PropTileNumber] = tileID[50:55]
	s2[PropProcessingBaseline] = baseline
	s2[PropProcessingFacility] = tileID[20:24]

	cloud, err := strconv.ParseFloat(strings.TrimSpace(doc.CloudyPixelPercentage), 64)
	if err != nil {
		return metadataErr("CLOUDY_PIXEL_PERCENTAGE", err)
	}
	s2[PropCloudCover] = cloud
	return nil
}

// ArchivePath returns <mission>/<type>/<yyyy>/<mm>/<dd> derived from
// previously extracted properties.
func (p *pdiProduct) ArchivePath(props properties.Properties) (string, error) {
	mission, ok := props.String(Name, PropMission)
	if !ok {
		return "", fmt.Errorf("%s: %w", PropMission, extension.ErrMetadataMissing)
	}
	start, ok := props.Time(properties.CoreNamespace, properties.ValidityStart)
	if !ok {
		return "", fmt.Errorf("%s: %w", properties.ValidityStart, extension.ErrMetadataMissing)
	}
	return filepath.Join(
		mission,
		p.productType,
		start.Format("2006"),
		start.Format("01"),
		start.Format("02"),
	), nil
}
