// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"embed"
	"io/fs"
	"slices"
	"strings"
)

//go:embed core/*.pkg.txt
var coreFS embed.FS

// CoreRepository serves the packages built into the binary.
type CoreRepository struct{}

// NewCoreRepository creates the built-in repository.
func NewCoreRepository() *CoreRepository {
	return &CoreRepository{}
}

// Name returns "core".
func (*CoreRepository) Name() string { return "core" }

// Fetch returns a built-in package.
func (*CoreRepository) Fetch(_ context.Context, name string) (*Document, error) {
	path := "core/" + name + ExtScript
	data, err := coreFS.ReadFile(path)
	if err != nil {
		return nil, &NotFoundError{Name: name}
	}
	return &Document{Name: name, Format: FormatScript, Source: "core:" + name, Data: data}, nil
}

// Packages returns the names of every built-in package, sorted.
func (*CoreRepository) Packages() []string {
	entries, err := fs.ReadDir(coreFS, "core")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ExtScript))
	}
	slices.Sort(names)
	return names
}

// IsCorePackage reports whether name is built into the binary.
func IsCorePackage(name string) bool {
	return slices.Contains((&CoreRepository{}).Packages(), name)
}
