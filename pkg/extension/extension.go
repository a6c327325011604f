// Package extension defines the contract between the archive host and
// product-type plugins. A plugin teaches the host how to recognize the
// products of one mission family, derive canonical product names, and
// extract metadata properties into namespaces for indexing.
package extension

import (
	"context"

	"github.com/stcorp/muninn-sentinel2/pkg/properties"
)

// ProductType is implemented once per product type within a mission
// family. Implementations must be safe for concurrent use and must not
// modify the products they are given.
type ProductType interface {
	// ProductType returns the product type identifier (e.g. "MSIL1C").
	ProductType() string

	// Namespaces returns the namespace identifiers this product type
	// reports properties for, in addition to the core namespace.
	Namespaces() []string

	// HashType returns the digest algorithm the host should use when
	// fingerprinting products of this type.
	HashType() string

	// UseEnclosingDirectory reports whether products of this type
	// consist of multiple sibling files that the host should keep in a
	// dedicated directory.
	UseEnclosingDirectory() bool

	// EnclosingDirectory returns the directory name for a multi-file
	// product, derived from previously extracted properties.
	EnclosingDirectory(props properties.Properties) string

	// Identify reports whether the given paths form a product of this
	// type. Only file names are inspected; no I/O is performed.
	Identify(paths []string) bool

	// Name returns the canonical product name for the given paths. It
	// is a pure function of its input and fails with
	// ErrUnrecognizedProduct for paths that do not match this type.
	Name(paths []string) (string, error)

	// Analyze extracts properties from the product at the given paths,
	// keyed by namespace. The product is only read, never modified.
	// Missing or unparseable required metadata fails with an error
	// wrapping ErrMetadataMissing.
	Analyze(ctx context.Context, paths []string, opts ...AnalyzeOption) (properties.Properties, error)

	// ArchivePath returns the relative directory the host should store
	// the product under, derived from previously extracted properties.
	ArchivePath(props properties.Properties) (string, error)
}

// AnalyzeOptions control a single Analyze invocation.
type AnalyzeOptions struct {
	// FilenameOnly restricts analysis to properties that can be
	// derived from the product file name, skipping metadata I/O.
	FilenameOnly bool
}

// AnalyzeOption mutates AnalyzeOptions.
type AnalyzeOption func(*AnalyzeOptions)

// FilenameOnly restricts analysis to file-name derived properties.
func FilenameOnly() AnalyzeOption {
	return func(o *AnalyzeOptions) {
		o.FilenameOnly = true
	}
}

// NewAnalyzeOptions applies opts to a zero AnalyzeOptions value.
func NewAnalyzeOptions(opts ...AnalyzeOption) AnalyzeOptions {
	var o AnalyzeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
