// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
)

// FormatScript is a package script. The declarative formats are the
// pkgdecl formats.
const FormatScript Format = "script"

// File extensions of package documents, in lookup order.
const (
	ExtScript = ".pkg.txt"
	ExtCUE    = ".pkg.cue"
	ExtJSON   = ".pkg.json"
	ExtYAML   = ".pkg.yaml"
)

type (
	// Format is the content format of a package document.
	Format string

	// Document is the raw content of a package as a repository stores it.
	Document struct {
		Name   string
		Format Format
		// Source describes where the document was read from.
		Source string
		Data   []byte
	}

	// Repository is a source of package documents.
	Repository interface {
		// Name identifies the repository in logs and errors.
		Name() string
		// Fetch returns the document of the named package. It returns an
		// error matching ErrNotFound when the repository does not have it.
		Fetch(ctx context.Context, name string) (*Document, error)
	}
)

// extensions maps document file extensions to formats, in lookup order.
var extensions = []struct {
	ext    string
	format Format
}{
	{ExtScript, FormatScript},
	{ExtCUE, Format(pkgdecl.FormatCUE)},
	{ExtJSON, Format(pkgdecl.FormatJSON)},
	{ExtYAML, Format(pkgdecl.FormatYAML)},
}

// IsDeclarative reports whether f is a declarative document format.
func (f Format) IsDeclarative() bool {
	return f != FormatScript
}

// FormatFromPath returns the format of a package file from its extension.
func FormatFromPath(path string) (Format, error) {
	base := strings.ToLower(filepath.Base(path))
	for _, e := range extensions {
		if strings.HasSuffix(base, e.ext) {
			return e.format, nil
		}
	}
	if strings.HasSuffix(base, ".yml") {
		return Format(pkgdecl.FormatYAML), nil
	}
	return "", fmt.Errorf("%s: unknown package file extension (want one of %s, %s, %s, %s)", path, ExtScript, ExtCUE, ExtJSON, ExtYAML)
}

// PackageName returns the package name of a package file path.
func PackageName(path string) string {
	base := filepath.Base(path)
	for _, e := range extensions {
		if strings.HasSuffix(strings.ToLower(base), e.ext) {
			return base[:len(base)-len(e.ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
