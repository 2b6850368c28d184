// SPDX-License-Identifier: MPL-2.0

package pkgdecl

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcpkg/mcpkg/pkg/cueutil"
)

const (
	// FormatCUE is a CUE document.
	FormatCUE Format = "cue"
	// FormatJSON is a JSON document.
	FormatJSON Format = "json"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"
)

var (
	//go:embed package_schema.cue
	packageSchema []byte

	// ErrUnknownFormat is returned when a document format cannot be determined.
	ErrUnknownFormat = errors.New("unknown declarative package format")
	// ErrDuplicateAddon is the sentinel error wrapped by DuplicateAddonError.
	ErrDuplicateAddon = errors.New("duplicate addon id")
)

type (
	// Format is the serialization of a declarative package document.
	Format string

	// DuplicateAddonError is returned when two addons share an id.
	DuplicateAddonError struct {
		ID string
	}
)

// Error implements the error interface.
func (e *DuplicateAddonError) Error() string {
	return fmt.Sprintf("addon %q is declared more than once", e.ID)
}

// Unwrap returns ErrDuplicateAddon for errors.Is() compatibility.
func (e *DuplicateAddonError) Unwrap() error { return ErrDuplicateAddon }

// Schema returns the embedded CUE schema for declarative packages.
func Schema() []byte {
	return packageSchema
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "cue":
		return FormatCUE, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes and validates a document in the given format. filename is
// used in error messages only.
func Parse(data []byte, format Format, filename string) (*Package, error) {
	var (
		pkg *Package
		err error
	)
	switch format {
	case FormatCUE, FormatJSON:
		// JSON is a subset of CUE.
		pkg, err = parseCUE(data, filename)
	case FormatYAML:
		pkg, err = parseYAML(data, filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if err := pkg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(filename), err)
	}
	return pkg, nil
}

// Validate checks constraints the schema cannot express.
func (p *Package) Validate() error {
	seen := make(map[string]bool, len(p.Addons))
	for _, addon := range p.Addons {
		if seen[addon.ID] {
			return &DuplicateAddonError{ID: addon.ID}
		}
		seen[addon.ID] = true
	}
	return nil
}

func parseCUE(data []byte, filename string) (*Package, error) {
	result, err := cueutil.ParseAndDecode[Package](
		packageSchema,
		data,
		"#Package",
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func parseYAML(data []byte, filename string) (*Package, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, displayName(filename)); err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: invalid YAML: %w", displayName(filename), err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	result, err := cueutil.ParseAndDecodeValue[Package](
		packageSchema,
		doc,
		"#Package",
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
