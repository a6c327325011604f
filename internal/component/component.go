// Package component reads XML metadata components out of archived
// products. Products are stored either as plain directories, as zip
// files, or as gzipped tarballs, depending on host configuration; the
// product bytes are only ever read.
package component

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxComponentSize bounds how much of a metadata component is read.
// Sentinel metadata files are a few MB at most.
const maxComponentSize = 64 << 20

// ErrNotFound is returned when a product does not contain the
// requested component.
var ErrNotFound = errors.New("component not found")

func decode(r io.Reader, v any) error {
	dec := xml.NewDecoder(io.LimitReader(r, maxComponentSize))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding XML: %w", err)
	}
	return nil
}

// ReadXMLFile unmarshals the XML file at path into v.
func ReadXMLFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decode(f, v)
}

// ReadXMLDir unmarshals the named component of an unpacked product
// directory into v.
func ReadXMLDir(productPath, component string, v any) error {
	return ReadXMLFile(filepath.Join(productPath, filepath.FromSlash(component)), v)
}

// ReadXMLZip unmarshals the named component of a zipped product into
// v. When nested is set the component is looked up under the product
// directory name, which single-file products place at the root of the
// zip (e.g. "X.SAFE.zip" contains "X.SAFE/<component>").
func ReadXMLZip(zipPath, component string, nested bool, v any) error {
	member := component
	if nested {
		base := filepath.Base(zipPath)
		member = path.Join(strings.TrimSuffix(base, filepath.Ext(base)), component)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("opening zip %s: %w", zipPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening zip member %s: %w", member, err)
		}
		defer rc.Close()
		return decode(rc, v)
	}
	return fmt.Errorf("%s in %s: %w", member, zipPath, ErrNotFound)
}

// ReadXMLTar unmarshals the named member of a gzipped tar product
// into v. Members are matched on base name, ignoring any leading
// directories inside the tarball.
func ReadXMLTar(tgzPath, member string, v any) error {
	f, err := os.Open(tgzPath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("opening tarball %s: %w", tgzPath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tarball %s: %w", tgzPath, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if path.Base(hdr.Name) == member {
			return decode(tr, v)
		}
	}
	return fmt.Errorf("%s in %s: %w", member, tgzPath, ErrNotFound)
}
