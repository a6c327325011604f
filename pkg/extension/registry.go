package extension

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages product-type plugins and namespace schemas. It is
// safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	// Registered product types by identifier
	productTypes map[string]ProductType

	// Registered namespace schemas by identifier
	namespaces map[string]Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		productTypes: make(map[string]ProductType),
		namespaces:   make(map[string]Schema),
	}
}

// Register adds a product-type plugin to the registry.
func (r *Registry) Register(pt ProductType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := pt.ProductType()
	if _, exists := r.productTypes[name]; exists {
		return fmt.Errorf("%s: %w", name, ErrProductTypeRegistered)
	}
	r.productTypes[name] = pt
	return nil
}

// RegisterNamespace adds a namespace schema to the registry.
func (r *Registry) RegisterNamespace(name string, schema Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.namespaces[name]; exists {
		return fmt.Errorf("%s: %w", name, ErrNamespaceRegistered)
	}
	r.namespaces[name] = schema
	return nil
}

// Get retrieves a product-type plugin by identifier.
func (r *Registry) Get(productType string) (ProductType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pt, ok := r.productTypes[productType]
	if !ok {
		return nil, fmt.Errorf("%s: %w", productType, ErrUnknownProductType)
	}
	return pt, nil
}

// NamespaceSchema retrieves a namespace schema by identifier.
func (r *Registry) NamespaceSchema(name string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.namespaces[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownNamespace)
	}
	return schema, nil
}

// Namespaces returns the registered namespace identifiers, sorted.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProductTypes returns the registered product-type identifiers, sorted.
func (r *Registry) ProductTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.productTypes))
	for name := range r.productTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the product-type plugin whose naming convention the
// given paths match. Product types are probed in sorted identifier
// order so resolution is deterministic.
func (r *Registry) Resolve(paths []string) (ProductType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.productTypes))
	for name := range r.productTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if r.productTypes[name].Identify(paths) {
			return r.productTypes[name], nil
		}
	}
	return nil, ErrUnrecognizedProduct
}
