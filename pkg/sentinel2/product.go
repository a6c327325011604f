package sentinel2

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/stcorp/muninn-sentinel2/internal/component"
	"github.com/stcorp/muninn-sentinel2/pkg/extension"
	"github.com/stcorp/muninn-sentinel2/pkg/properties"
)

// Filename timestamp and metadata timestamp layouts.
const (
	compactTimeLayout = "20060102T150405"
	xmlTimeLayout     = "2006-01-02T15:04:05.999999999Z07:00"
	utcTimeLayout     = "UTC=2006-01-02T15:04:05.999999999"
)

// Open-ended validity markers.
const (
	neverCompact = "99999999T999999"
	neverUTC     = "UTC=9999-99-99T99:99:99"
)

// missionPattern matches the mission field of every Sentinel-2
// filename: the constellation ("S2_") or a specific unit.
const missionPattern = `(?P<mission>S2(_|A|B|C|D))`

// product carries the state shared by all Sentinel-2 product types.
type product struct {
	productType   string
	pattern       *regexp.Regexp
	zipped        bool
	multiFile     bool
	missionPrefix bool
}

// ProductType returns the product type identifier.
func (p *product) ProductType() string {
	return p.productType
}

// Namespaces returns the namespaces reported in addition to core.
func (p *product) Namespaces() []string {
	return []string{Name}
}

// HashType returns the digest algorithm used for product
// fingerprinting.
func (p *product) HashType() string {
	return "md5"
}

// UseEnclosingDirectory reports whether the product consists of
// multiple sibling files.
func (p *product) UseEnclosingDirectory() bool {
	return p.multiFile && !p.zipped
}

// EnclosingDirectory returns the directory name for multi-file
// products.
func (p *product) EnclosingDirectory(props properties.Properties) string {
	name, _ := props.String(properties.CoreNamespace, properties.ProductName)
	return name
}

// Identify reports whether the paths form a product of this type.
func (p *product) Identify(paths []string) bool {
	if len(paths) != 1 {
		return false
	}
	return p.pattern.MatchString(filepath.Base(paths[0]))
}

// Name returns the canonical product name, failing on paths that do
// not match the product type's naming convention.
func (p *product) Name(paths []string) (string, error) {
	if len(paths) != 1 {
		return "", fmt.Errorf("expected a single path: %w", extension.ErrUnrecognizedProduct)
	}
	attrs, err := p.parseFilename(paths[0])
	if err != nil {
		return "", err
	}
	return p.canonicalName(filepath.Base(paths[0]), attrs), nil
}

// parseFilename matches the base name of path against the product
// type's filename grammar and returns the named capture groups.
func (p *product) parseFilename(path string) (map[string]string, error) {
	base := filepath.Base(path)
	m := p.pattern.FindStringSubmatch(base)
	if m == nil {
		return nil, fmt.Errorf("%s: %w", base, extension.ErrUnrecognizedProduct)
	}

	attrs := make(map[string]string)
	for i, group := range p.pattern.SubexpNames() {
		if group != "" && m[i] != "" {
			attrs[group] = m[i]
		}
	}
	return attrs, nil
}

// canonicalName derives the canonical product name from a physical
// file name by stripping packaging extensions. With the mission-prefix
// convention enabled, names are scoped under the normalized mission.
func (p *product) canonicalName(base string, attrs map[string]string) string {
	name := stripPackaging(base)
	if p.missionPrefix {
		name = normalizeMission(attrs["mission"]) + "/" + name
	}
	return name
}

// readComponent unmarshals an XML component of the product at path,
// honoring the configured storage form.
func (p *product) readComponent(path, name string, v any) error {
	var err error
	if p.zipped {
		err = component.ReadXMLZip(path, name, !p.multiFile, v)
	} else {
		err = component.ReadXMLDir(path, name, v)
	}
	if err != nil {
		return fmt.Errorf("component %s: %w: %w", name, extension.ErrMetadataMissing, err)
	}
	return nil
}

// packagingExts are the extensions that wrap a product's payload and
// never appear in its canonical name.
var packagingExts = []string{".zip", ".TGZ", ".SAFE", ".EOF", ".HDR", ".DBL", ".txt"}

// stripPackaging removes trailing packaging extensions from a file
// name (e.g. "X.SAFE.zip" becomes "X").
func stripPackaging(name string) string {
	for {
		stripped := false
		for _, ext := range packagingExts {
			if strings.HasSuffix(name, ext) {
				name = strings.TrimSuffix(name, ext)
				stripped = true
			}
		}
		if !stripped {
			return name
		}
	}
}

// normalizeMission collapses the padded constellation marker "S2_" to
// "S2" while leaving unit identifiers (S2A..S2D) untouched.
func normalizeMission(mission string) string {
	return strings.TrimSuffix(mission, "_")
}

// metadataErr marks a value as missing or unparseable during
// analysis.
func metadataErr(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, extension.ErrMetadataMissing, err)
}

// parseCompactTime parses a filename timestamp such as
// "20190308T000000". Filename timestamps are UTC.
func parseCompactTime(s string) (time.Time, error) {
	return time.Parse(compactTimeLayout, s)
}

// parseXMLTime parses a metadata timestamp such as
// "2019-03-08T10:00:00.000Z".
func parseXMLTime(s string) (time.Time, error) {
	t, err := time.Parse(xmlTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseUTCTime parses a metadata timestamp in Earth Explorer form such
// as "UTC=2019-03-08T10:00:00" with an optional fractional part.
func parseUTCTime(s string) (time.Time, error) {
	t, err := time.Parse(utcTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
