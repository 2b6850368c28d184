// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mcpkg/mcpkg/pkg/types"
)

// DirRepository reads packages from <Dir>/<name><ext>, trying the script
// extension first and then the declarative ones.
type DirRepository struct {
	Dir string
}

// NewDirRepository creates a repository rooted at dir.
func NewDirRepository(dir string) *DirRepository {
	return &DirRepository{Dir: dir}
}

// Name returns the directory path.
func (r *DirRepository) Name() string { return r.Dir }

// Fetch reads the first package file that exists for name.
func (r *DirRepository) Fetch(ctx context.Context, name string) (*Document, error) {
	if !types.IsValidIdentifier(name) {
		return nil, &NotFoundError{Name: name}
	}
	for _, e := range extensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(r.Dir, name+e.ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading package %s: %w", name, err)
		}
		return &Document{Name: name, Format: e.format, Source: path, Data: data}, nil
	}
	return nil, &NotFoundError{Name: name}
}
