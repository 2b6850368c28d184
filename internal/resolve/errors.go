// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflict is the sentinel error wrapped by ConflictError.
	ErrConflict = errors.New("package conflict")
	// ErrCycle is the sentinel error wrapped by CycleError.
	ErrCycle = errors.New("dependency cycle")
	// ErrUnsatisfiable is the sentinel error wrapped by UnsatisfiableError.
	ErrUnsatisfiable = errors.New("unsatisfiable dependency")
	// ErrExplicitDependency is the sentinel error wrapped by ExplicitDependencyError.
	ErrExplicitDependency = errors.New("explicit dependency not requested")
	// ErrVersionMismatch is the sentinel error wrapped by VersionMismatchError.
	ErrVersionMismatch = errors.New("version mismatch")
)

type (
	// ConflictError is returned when a package refused by another one is
	// part of the resolution.
	ConflictError struct {
		Package   string
		RefusedBy string
	}

	// CycleError is returned when packages depend on each other. Path starts
	// and ends with the same package.
	CycleError struct {
		Path []string
	}

	// UnsatisfiableError is returned when no alternative of a dependency
	// group can be installed.
	UnsatisfiableError struct {
		Package      string
		Alternatives []string
	}

	// ExplicitDependencyError is returned when a dependency that must be
	// requested by the user is not one of the configured packages.
	ExplicitDependencyError struct {
		Package    string
		RequiredBy string
	}

	// VersionMismatchError is returned when the version a package declares
	// does not satisfy a request for it. RequiredBy is empty when the
	// request is the configured one.
	VersionMismatchError struct {
		Package    string
		Pattern    string
		Version    string
		RequiredBy string
	}

	// PackageError wraps a failure to load or evaluate a package.
	PackageError struct {
		Package string
		Err     error
	}
)

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("package %s conflicts with %s", e.RefusedBy, e.Package)
}

// Unwrap returns ErrConflict for errors.Is() compatibility.
func (e *ConflictError) Unwrap() error { return ErrConflict }

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// Error implements the error interface.
func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("package %s requires one of %s, but none is available", e.Package, strings.Join(e.Alternatives, ", "))
}

// Unwrap returns ErrUnsatisfiable for errors.Is() compatibility.
func (e *UnsatisfiableError) Unwrap() error { return ErrUnsatisfiable }

// Error implements the error interface.
func (e *ExplicitDependencyError) Error() string {
	return fmt.Sprintf("package %s requires %s, which must be added to the profile explicitly", e.RequiredBy, e.Package)
}

// Unwrap returns ErrExplicitDependency for errors.Is() compatibility.
func (e *ExplicitDependencyError) Unwrap() error { return ErrExplicitDependency }

// Error implements the error interface.
func (e *VersionMismatchError) Error() string {
	by := "the profile requires"
	if e.RequiredBy != "" {
		by = "package " + e.RequiredBy + " requires"
	}
	version := "version " + e.Version
	if e.Version == "" {
		version = "no version"
	}
	return fmt.Sprintf("%s %s@%s, but %s declares %s", by, e.Package, e.Pattern, e.Package, version)
}

// Unwrap returns ErrVersionMismatch for errors.Is() compatibility.
func (e *VersionMismatchError) Unwrap() error { return ErrVersionMismatch }

// Error implements the error interface.
func (e *PackageError) Error() string {
	return fmt.Sprintf("package %s: %v", e.Package, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PackageError) Unwrap() error { return e.Err }
