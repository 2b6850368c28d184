// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("package not found")
	// ErrRateLimited is returned when a remote repository rejects requests.
	ErrRateLimited = errors.New("rate limited by repository")
	// ErrUpstreamDown is returned when a remote repository is unavailable.
	ErrUpstreamDown = errors.New("repository unavailable")
	// ErrInvalidPackage is the sentinel error wrapped by InvalidPackageError.
	ErrInvalidPackage = errors.New("invalid package")
)

type (
	// NotFoundError is returned when no repository has a package, or none
	// has a version matching the request.
	NotFoundError struct {
		Name string
		// Version is the requested pattern when the package exists but no
		// version matches.
		Version string
	}

	// InvalidPackageError is returned when a package document does not
	// parse or validate.
	InvalidPackageError struct {
		Name   string
		Source string
		Err    error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("package %s has no version matching %s", e.Name, e.Version)
	}
	return fmt.Sprintf("package %s not found", e.Name)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *InvalidPackageError) Error() string {
	return fmt.Sprintf("invalid package %s from %s: %v", e.Name, e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InvalidPackageError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidPackage.
func (e *InvalidPackageError) Is(target error) bool { return target == ErrInvalidPackage }
