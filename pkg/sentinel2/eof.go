package sentinel2

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/stcorp/muninn-sentinel2/internal/component"
	"github.com/stcorp/muninn-sentinel2/pkg/extension"
	"github.com/stcorp/muninn-sentinel2/pkg/properties"
)

// eofBasePattern is the Earth Explorer file name grammar shared by
// auxiliary products, without the extension suffix.
func eofBasePattern(productType string) string {
	parts := []string{
		`^` + missionPattern,
		`(?P<file_class>.{4})`,
		`(?P<product_type>` + productType + `)`,
		`(?P<processing_facility>.{4})`,
		`(?P<creation_date>[\dT]{15})`,
		`V(?P<validity_start>[\dT]{15})`,
		`(?P<validity_stop>[\dT]{15})`,
	}
	return strings.Join(parts, "_")
}

// eofProduct handles auxiliary products in Earth Explorer format:
// single .EOF files (optionally zipped), split .HDR/.DBL pairs, and
// .TGZ bundles of a split product.
type eofProduct struct {
	product
	hdrPattern *regexp.Regexp
	dblPattern *regexp.Regexp
}

func newEOFProductBase(productType string, cfg Config, split bool, basePattern, ext string) *eofProduct {
	p := &eofProduct{
		product: product{
			productType:   productType,
			zipped:        cfg.Zipped,
			multiFile:     split,
			missionPrefix: cfg.Naming.MissionPrefix,
		},
	}

	pattern := basePattern
	if split {
		if cfg.Zipped {
			pattern += `\.TGZ$`
		} else {
			// The base pattern is matched as a prefix of the .HDR and
			// .DBL file names.
			p.hdrPattern = regexp.MustCompile(basePattern + `\.HDR$`)
			p.dblPattern = regexp.MustCompile(basePattern + `\.DBL$`)
		}
	} else {
		if cfg.Zipped {
			pattern += `\.` + ext + `\.zip$`
		} else {
			pattern += `\.` + ext + `$`
		}
	}
	p.pattern = regexp.MustCompile(pattern)
	return p
}

func newEOFProduct(productType string, cfg Config, split bool) *eofProduct {
	return newEOFProductBase(productType, cfg, split, eofBasePattern(productType), "EOF")
}

// gippProduct handles Ground Image Processing Parameter products,
// which extend the Earth Explorer grammar with a band suffix and are
// always split into a .HDR/.DBL pair.
func newGIPPProduct(productType string, cfg Config) *eofProduct {
	pattern := eofBasePattern(productType) +
		`_B(?P<band>(00|01|02|03|04|05|06|07|08|8A|09|10|11|12))`
	return newEOFProductBase(productType, cfg, true, pattern, "EOF")
}

// fixedHeader is the Earth Explorer fixed header projected into
// properties.
type fixedHeader struct {
	ValidityStart  string `xml:"Validity_Period>Validity_Start"`
	ValidityStop   string `xml:"Validity_Period>Validity_Stop"`
	CreationDate   string `xml:"Source>Creation_Date"`
	System         string `xml:"Source>System"`
	Creator        string `xml:"Source>Creator"`
	CreatorVersion string `xml:"Source>Creator_Version"`
}

// earthExplorerHeader is the root element of a .HDR file.
type earthExplorerHeader struct {
	Fixed fixedHeader `xml:"Fixed_Header"`
}

// earthExplorerFile is the root element of a .EOF file, which embeds
// the header next to the data block.
type earthExplorerFile struct {
	Header earthExplorerHeader `xml:"Earth_Explorer_Header"`
}

// sortedPaths returns a sorted copy; input slices are never mutated.
func sortedPaths(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)
	return sorted
}

// Identify reports whether the paths form a product of this type. A
// split unzipped product consists of exactly one .DBL and one .HDR
// file with matching names.
func (p *eofProduct) Identify(paths []string) bool {
	if p.multiFile && !p.zipped {
		if len(paths) != 2 {
			return false
		}
		sorted := sortedPaths(paths)
		dbl := filepath.Base(sorted[0])
		hdr := filepath.Base(sorted[1])
		return p.dblPattern.MatchString(dbl) &&
			p.hdrPattern.MatchString(hdr) &&
			strings.TrimSuffix(dbl, ".DBL") == strings.TrimSuffix(hdr, ".HDR")
	}
	return p.product.Identify(paths)
}

// Name returns the canonical product name. For split products the
// name is derived from the header file.
func (p *eofProduct) Name(paths []string) (string, error) {
	if p.multiFile && !p.zipped {
		if !p.Identify(paths) {
			return "", fmt.Errorf("not a %s header/data pair: %w", p.productType, extension.ErrUnrecognizedProduct)
		}
		hdr := filepath.Base(sortedPaths(paths)[1])
		attrs, err := p.parseFilename(hdr)
		if err != nil {
			return "", err
		}
		return p.canonicalName(hdr, attrs), nil
	}
	return p.product.Name(paths)
}

// Analyze extracts properties from the file name and, unless
// FilenameOnly is given, from the Earth Explorer fixed header.
func (p *eofProduct) Analyze(ctx context.Context, paths []string, opts ...extension.AnalyzeOption) (properties.Properties, error) {
	o := extension.NewAnalyzeOptions(opts...)

	var inpath string
	if p.multiFile && !p.zipped {
		if !p.Identify(paths) {
			return nil, fmt.Errorf("not a %s header/data pair: %w", p.productType, extension.ErrUnrecognizedProduct)
		}
		// Metadata comes from the .HDR file.
		inpath = sortedPaths(paths)[1]
	} else {
		if len(paths) != 1 {
			return nil, fmt.Errorf("expected a single path: %w", extension.ErrUnrecognizedProduct)
		}
		inpath = paths[0]
	}
	attrs, err := p.parseFilename(inpath)
	if err != nil {
		return nil, err
	}

	props := properties.New()
	core := props.Namespace(properties.CoreNamespace)
	core[properties.ProductName] = p.canonicalName(filepath.Base(inpath), attrs)
	core[properties.PhysicalName] = filepath.Base(inpath)

	if creation, ok := attrs["creation_date"]; ok {
		t, err := parseCompactTime(creation)
		if err != nil {
			return nil, metadataErr("creation_date", err)
		}
		core[properties.CreationDate] = t
	}
	start, err := parseCompactTime(attrs["validity_start"])
	if err != nil {
		return nil, metadataErr("validity_start", err)
	}
	core[properties.ValidityStart] = start
	if attrs["validity_stop"] == neverCompact {
		core[properties.ValidityStop] = properties.NeverExpires
	} else {
		stop, err := parseCompactTime(attrs["validity_stop"])
		if err != nil {
			return nil, metadataErr("validity_stop", err)
		}
		core[properties.ValidityStop] = stop
	}

	s2 := props.Namespace(Name)
	s2[PropMission] = normalizeMission(attrs["mission"])
	if facility, ok := attrs["processing_facility"]; ok {
		s2[PropProcessingFacility] = facility
	}

	if o.FilenameOnly {
		return props, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header, err := p.readHeader(inpath)
	if err != nil {
		return nil, err
	}
	if err := p.analyzeHeader(header, props); err != nil {
		return nil, err
	}
	return props, nil
}

// readHeader locates and decodes the Earth Explorer fixed header for
// the product's storage form.
func (p *eofProduct) readHeader(inpath string) (*fixedHeader, error) {
	base := filepath.Base(inpath)
	switch {
	case p.multiFile && p.zipped:
		// .TGZ bundle: the header member carries the product name.
		member := strings.TrimSuffix(base, filepath.Ext(base)) + ".HDR"
		var doc earthExplorerHeader
		if err := component.ReadXMLTar(inpath, member, &doc); err != nil {
			return nil, fmt.Errorf("header %s: %w: %w", member, extension.ErrMetadataMissing, err)
		}
		return &doc.Fixed, nil
	case p.multiFile:
		// The .HDR file itself is the header document.
		var doc earthExplorerHeader
		if err := component.ReadXMLFile(inpath, &doc); err != nil {
			return nil, fmt.Errorf("header %s: %w: %w", base, extension.ErrMetadataMissing, err)
		}
		return &doc.Fixed, nil
	case p.zipped:
		// X.<ext>.zip contains X.<ext> at the root of the zip.
		member := strings.TrimSuffix(base, filepath.Ext(base))
		var doc earthExplorerFile
		if err := component.ReadXMLZip(inpath, member, false, &doc); err != nil {
			return nil, fmt.Errorf("header %s: %w: %w", member, extension.ErrMetadataMissing, err)
		}
		return &doc.Header.Fixed, nil
	default:
		var doc earthExplorerFile
		if err := component.ReadXMLFile(inpath, &doc); err != nil {
			return nil, fmt.Errorf("header %s: %w: %w", base, extension.ErrMetadataMissing, err)
		}
		return &doc.Header.Fixed, nil
	}
}

// analyzeHeader overlays the filename-derived properties with the
// fixed header values, which carry no truncation.
func (p *eofProduct) analyzeHeader(header *fixedHeader, props properties.Properties) error {
	core := props.Namespace(properties.CoreNamespace)
	s2 := props.Namespace(Name)

	start, err := parseUTCTime(header.ValidityStart)
	if err != nil {
		return metadataErr("Validity_Start", err)
	}
	core[properties.ValidityStart] = start
	if header.ValidityStop == neverUTC {
		core[properties.ValidityStop] = properties.NeverExpires
	} else {
		stop, err := parseUTCTime(header.ValidityStop)
		if err != nil {
			return metadataErr("Validity_Stop", err)
		}
		core[properties.ValidityStop] = stop
	}
	creation, err := parseUTCTime(header.CreationDate)
	if err != nil {
		return metadataErr("Creation_Date", err)
	}
	core[properties.CreationDate] = creation

	if header.System == "" {
		return metadataErr("System", fmt.Errorf("element missing"))
	}
	if header.Creator == "" {
		return metadataErr("Creator", fmt.Errorf("element missing"))
	}
	s2[PropProcessingFacility] = header.System
	s2[PropProcessorName] = header.Creator
	s2[PropProcessorVersion] = header.CreatorVersion
	return nil
}

// ArchivePath returns <mission>/<type>/<yyyy>/<mm>/<dd> derived from
// the validity start encoded in the physical name.
func (p *eofProduct) ArchivePath(props properties.Properties) (string, error) {
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

// iersProduct handles IERS bulletins, which follow the Earth Explorer
// naming convention but carry a plain-text payload, so analysis never
// goes beyond the file name.
type iersProduct struct {
	*eofProduct
}

func newIERSProduct(productType string, cfg Config) *iersProduct {
	return &iersProduct{
		eofProduct: newEOFProductBase(productType, cfg, false, eofBasePattern(productType), "txt"),
	}
}

// Analyze extracts properties from the file name only.
func (p *iersProduct) Analyze(ctx context.Context, paths []string, opts ...extension.AnalyzeOption) (properties.Properties, error) {
	return p.eofProduct.Analyze(ctx, paths, append(opts, extension.FilenameOnly())...)
}
