// Package properties defines the property mappings that product-type
// plugins report to the archive host for indexing.
package properties

import (
	"sort"
	"time"
)

// CoreNamespace groups the properties every product type reports,
// regardless of mission family.
const CoreNamespace = "core"

// Well-known property names within the core namespace.
const (
	ProductName   = "product_name"
	PhysicalName  = "physical_name"
	ValidityStart = "validity_start"
	ValidityStop  = "validity_stop"
	CreationDate  = "creation_date"
	Footprint     = "footprint"
)

// NeverExpires marks an open-ended validity period. Products whose
// metadata declares no end of validity report this as validity_stop.
var NeverExpires = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Properties maps a namespace identifier to a flat mapping of property
// name to value. Values are native Go types: string, int, float64,
// time.Time, or a geometry type from this package.
type Properties map[string]map[string]any

// New returns an empty property mapping.
func New() Properties {
	return make(Properties)
}

// Namespace returns the property map for the given namespace, creating
// it if necessary.
func (p Properties) Namespace(name string) map[string]any {
	ns, ok := p[name]
	if !ok {
		ns = make(map[string]any)
		p[name] = ns
	}
	return ns
}

// Set assigns a property value within a namespace.
func (p Properties) Set(namespace, name string, value any) {
	p.Namespace(namespace)[name] = value
}

// Merge copies all namespaces and properties from other into p,
// overwriting existing values.
func (p Properties) Merge(other Properties) {
	for namespace, props := range other {
		ns := p.Namespace(namespace)
		for name, value := range props {
			ns[name] = value
		}
	}
}

// Namespaces returns the namespace identifiers present in p, sorted.
func (p Properties) Namespaces() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a string property and whether it is present.
func (p Properties) String(namespace, name string) (string, bool) {
	v, ok := p[namespace][name].(string)
	return v, ok
}

// Int returns an integer property and whether it is present.
func (p Properties) Int(namespace, name string) (int, bool) {
	v, ok := p[namespace][name].(int)
	return v, ok
}

// Float returns a floating-point property and whether it is present.
func (p Properties) Float(namespace, name string) (float64, bool) {
	v, ok := p[namespace][name].(float64)
	return v, ok
}

// Time returns a timestamp property and whether it is present.
func (p Properties) Time(namespace, name string) (time.Time, bool) {
	v, ok := p[namespace][name].(time.Time)
	return v, ok
}
