package extension

import "errors"

var (
	// ErrUnrecognizedProduct is returned when a path does not match any
	// known product naming convention.
	ErrUnrecognizedProduct = errors.New("unrecognized product")

	// ErrMetadataMissing is returned when required product metadata
	// cannot be located or parsed during analysis.
	ErrMetadataMissing = errors.New("product metadata missing or unparseable")

	// ErrUnknownProductType is returned when looking up a product type
	// that is not registered.
	ErrUnknownProductType = errors.New("unknown product type")

	// ErrUnknownNamespace is returned when looking up a namespace
	// schema that is not registered.
	ErrUnknownNamespace = errors.New("unknown namespace")

	// ErrProductTypeRegistered is returned when registering a product
	// type whose identifier is already taken.
	ErrProductTypeRegistered = errors.New("product type already registered")

	// ErrNamespaceRegistered is returned when registering a namespace
	// whose identifier is already taken.
	ErrNamespaceRegistered = errors.New("namespace already registered")

	// ErrUnknownFamily is returned when the configuration enables a
	// mission family no factory is registered for.
	ErrUnknownFamily = errors.New("unknown mission family")
)
