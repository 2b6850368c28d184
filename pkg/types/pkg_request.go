// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"
)

// PURLType is the package-url type used for mcpkg packages.
const PURLType = "mcpkg"

var (
	// ErrInvalidPkgRequest is the sentinel error wrapped by InvalidPkgRequestError.
	ErrInvalidPkgRequest = errors.New("invalid package request")
	// ErrInvalidPURL is returned when a package-url does not describe an mcpkg package.
	ErrInvalidPURL = errors.New("invalid package url")
)

type (
	// PkgRequest asks for a package by name and version pattern.
	PkgRequest struct {
		Name    string         `json:"id" mapstructure:"id"`
		Version VersionPattern `json:"version,omitempty" mapstructure:"version"`
	}

	// PkgIdentifier names a package resolved to a concrete version.
	// Version is empty when the package does not declare one.
	PkgIdentifier struct {
		Name    string
		Version string
	}

	// InvalidPkgRequestError is returned when a package request is malformed.
	InvalidPkgRequestError struct {
		Value  string
		Reason string
	}
)

// NewPkgRequest creates a request matching any version of the named package.
func NewPkgRequest(name string) PkgRequest {
	return PkgRequest{Name: name, Version: VersionAny}
}

// ParsePkgRequest parses "name" or "name@pattern".
func ParsePkgRequest(s string) (PkgRequest, error) {
	name, version, hasVersion := strings.Cut(s, "@")
	if !IsValidIdentifier(name) {
		return PkgRequest{}, &InvalidPkgRequestError{Value: s, Reason: "package id must contain only letters, digits, '_', '-' and '.'"}
	}
	if hasVersion && version == "" {
		return PkgRequest{}, &InvalidPkgRequestError{Value: s, Reason: "version pattern after '@' is empty"}
	}
	req := NewPkgRequest(name)
	if hasVersion {
		req.Version = VersionPattern(version)
	}
	return req, nil
}

// String renders the request as "name" or "name@pattern".
func (r PkgRequest) String() string {
	if r.Version.IsAny() {
		return r.Name
	}
	return r.Name + "@" + string(r.Version)
}

// IsValid validates the request name.
func (r PkgRequest) IsValid() (bool, []error) {
	if !IsValidIdentifier(r.Name) {
		return false, []error{&InvalidPkgRequestError{Value: r.Name, Reason: "package id must contain only letters, digits, '_', '-' and '.'"}}
	}
	return true, nil
}

// String renders the identifier as "name" or "name@version".
func (id PkgIdentifier) String() string {
	if id.Version == "" {
		return id.Name
	}
	return id.Name + "@" + id.Version
}

// PURL renders the identifier as a package-url, e.g. "pkg:mcpkg/sodium@0.5.3".
func (id PkgIdentifier) PURL() string {
	return packageurl.NewPackageURL(PURLType, "", id.Name, id.Version, nil, "").ToString()
}

// ParsePURL parses a package-url of type mcpkg into an identifier.
func ParsePURL(s string) (PkgIdentifier, error) {
	p, err := packageurl.FromString(s)
	if err != nil {
		return PkgIdentifier{}, fmt.Errorf("%w: %w", ErrInvalidPURL, err)
	}
	if p.Type != PURLType {
		return PkgIdentifier{}, fmt.Errorf("%w: type %q is not %q", ErrInvalidPURL, p.Type, PURLType)
	}
	if !IsValidIdentifier(p.Name) {
		return PkgIdentifier{}, fmt.Errorf("%w: invalid package id %q", ErrInvalidPURL, p.Name)
	}
	return PkgIdentifier{Name: p.Name, Version: p.Version}, nil
}

// Error implements the error interface.
func (e *InvalidPkgRequestError) Error() string {
	return fmt.Sprintf("invalid package request %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPkgRequest for errors.Is() compatibility.
func (e *InvalidPkgRequestError) Unwrap() error { return ErrInvalidPkgRequest }
