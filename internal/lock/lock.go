// SPDX-License-Identifier: MPL-2.0

// Package lock reads and writes mcpkg.lock.toml, the record of the last
// resolution of a profile: the resolved packages in install order and the
// addon files of the last plan.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mcpkg/mcpkg/internal/addon"
)

// FileName is the lock file name inside a profile directory.
const FileName = "mcpkg.lock.toml"

// CurrentVersion is the format version written by Save.
const CurrentVersion = "1"

var (
	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid lock file version")
	// ErrInvalidEntry is returned when a locked package or addon is missing its name.
	ErrInvalidEntry = errors.New("invalid lock file entry")
)

type (
	// Lockfile is the content of mcpkg.lock.toml.
	Lockfile struct {
		Version   string    `toml:"version"`
		Generated time.Time `toml:"generated"`
		// Packages are in install order.
		Packages []Package `toml:"packages"`
		Addons   []Addon   `toml:"addons"`
	}

	// Package is a locked package.
	Package struct {
		Name        string `toml:"name"`
		Version     string `toml:"version,omitempty"`
		ContentType string `toml:"content_type"`
	}

	// Addon is an addon file of the last plan. Exactly one of URL and Path is set.
	Addon struct {
		ID       string `toml:"id"`
		Package  string `toml:"package"`
		Kind     string `toml:"kind"`
		FileName string `toml:"file_name"`
		Version  string `toml:"version,omitempty"`
		URL      string `toml:"url,omitempty"`
		Path     string `toml:"path,omitempty"`
		SHA256   string `toml:"sha256,omitempty"`
		SHA512   string `toml:"sha512,omitempty"`
	}

	// InvalidVersionError is returned when a lock file has an unsupported version.
	InvalidVersionError struct {
		Version string
	}
)

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("unsupported lock file version %q (want %q)", e.Version, CurrentVersion)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// New returns an empty lock file.
func New() *Lockfile {
	return &Lockfile{Version: CurrentVersion}
}

// Load reads a lock file. A missing file gives an empty lock file.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates lock file content.
func Parse(data []byte) (*Lockfile, error) {
	var l Lockfile
	if err := toml.Unmarshal(data, &l); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("failed to parse lock file at %d:%d: %w", row, col, err)
		}
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	if l.Version != CurrentVersion {
		return nil, &InvalidVersionError{Version: l.Version}
	}
	for i, p := range l.Packages {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: package %d has no name", ErrInvalidEntry, i+1)
		}
	}
	for i, a := range l.Addons {
		if a.ID == "" || a.Package == "" {
			return nil, fmt.Errorf("%w: addon %d has no id or package", ErrInvalidEntry, i+1)
		}
	}
	return &l, nil
}

// Save stamps the generation time and writes the lock file atomically,
// creating the parent directory.
func (l *Lockfile) Save(path string) error {
	l.Generated = time.Now().UTC().Truncate(time.Second)
	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode lock file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename lock file: %w", err)
	}
	return nil
}

// UpdatePackages replaces the locked packages with order and returns the
// names that were added and removed, each in the order they appear.
func (l *Lockfile) UpdatePackages(order []Package) (added, removed []string) {
	before := make(map[string]bool, len(l.Packages))
	for _, p := range l.Packages {
		before[p.Name] = true
	}
	after := make(map[string]bool, len(order))
	for _, p := range order {
		after[p.Name] = true
		if !before[p.Name] {
			added = append(added, p.Name)
		}
	}
	for _, p := range l.Packages {
		if !after[p.Name] {
			removed = append(removed, p.Name)
		}
	}

	l.Packages = slices.Clone(order)
	return added, removed
}

// SetAddons replaces the locked addons with the given plan requests.
func (l *Lockfile) SetAddons(reqs []addon.Request) {
	l.Addons = make([]Addon, 0, len(reqs))
	for _, r := range reqs {
		a := Addon{
			ID:       r.Addon.ID,
			Package:  r.Addon.Package.Name,
			Kind:     string(r.Addon.Kind),
			FileName: r.Addon.FileName,
			Version:  r.Addon.Version,
			SHA256:   r.Addon.Hashes.SHA256,
			SHA512:   r.Addon.Hashes.SHA512,
		}
		switch r.Location.Kind {
		case addon.LocationRemote:
			a.URL = r.Location.URL
		case addon.LocationLocal:
			a.Path = r.Location.Path
		}
		l.Addons = append(l.Addons, a)
	}
}

// Package returns the locked package with the given name.
func (l *Lockfile) Package(name string) (Package, bool) {
	i := slices.IndexFunc(l.Packages, func(p Package) bool { return p.Name == name })
	if i < 0 {
		return Package{}, false
	}
	return l.Packages[i], true
}
