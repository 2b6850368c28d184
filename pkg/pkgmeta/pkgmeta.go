// SPDX-License-Identifier: MPL-2.0

// Package pkgmeta defines the descriptive metadata and the static properties
// of a package. Both script packages (the meta and properties routines) and
// declarative packages (the meta and properties keys) produce these types.
package pkgmeta

import (
	"errors"
	"fmt"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"

	"github.com/mcpkg/mcpkg/pkg/types"
)

var (
	// ErrInvalidLicense is the sentinel error wrapped by InvalidLicenseError.
	ErrInvalidLicense = errors.New("invalid license")
	// ErrInvalidProperty is the sentinel error wrapped by InvalidPropertyError.
	ErrInvalidProperty = errors.New("invalid package property")
)

type (
	// Metadata describes a package for humans. Empty fields are unset.
	Metadata struct {
		Name               string   `json:"name,omitempty"`
		Description        string   `json:"description,omitempty"`
		LongDescription    string   `json:"long_description,omitempty"`
		Version            string   `json:"version,omitempty"`
		Authors            []string `json:"authors,omitempty"`
		PackageMaintainers []string `json:"package_maintainers,omitempty"`
		Website            string   `json:"website,omitempty"`
		SupportLink        string   `json:"support_link,omitempty"`
		Documentation      string   `json:"documentation,omitempty"`
		Source             string   `json:"source,omitempty"`
		Issues             string   `json:"issues,omitempty"`
		Community          string   `json:"community,omitempty"`
		Icon               string   `json:"icon,omitempty"`
		Banner             string   `json:"banner,omitempty"`
		License            string   `json:"license,omitempty"`
	}

	// Properties are facts about a package that are known before evaluating
	// its routines. A nil Supported* list means no restriction.
	Properties struct {
		Features               []string                  `json:"features,omitempty"`
		DefaultFeatures        []string                  `json:"default_features,omitempty"`
		ModrinthID             string                    `json:"modrinth_id,omitempty"`
		CurseForgeID           string                    `json:"curseforge_id,omitempty"`
		SupportedVersions      []types.VersionPattern    `json:"supported_versions,omitempty"`
		SupportedModloaders    []types.ModloaderMatch    `json:"supported_modloaders,omitempty"`
		SupportedPluginLoaders []types.PluginLoaderMatch `json:"supported_plugin_loaders,omitempty"`
		SupportedSides         []types.Side              `json:"supported_sides,omitempty"`
		Tags                   []string                  `json:"tags,omitempty"`
		OpenSource             *bool                     `json:"open_source,omitempty"`
	}

	// InvalidLicenseError is returned when a license is not a valid SPDX expression.
	InvalidLicenseError struct {
		License string
		Invalid []string
	}

	// InvalidPropertyError is returned when a property value is not recognized.
	InvalidPropertyError struct {
		Field string
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidLicenseError) Error() string {
	if len(e.Invalid) == 0 {
		return fmt.Sprintf("invalid license %q", e.License)
	}
	return fmt.Sprintf("invalid license %q: unknown identifiers %s", e.License, strings.Join(e.Invalid, ", "))
}

// Unwrap returns ErrInvalidLicense for errors.Is() compatibility.
func (e *InvalidLicenseError) Unwrap() error { return ErrInvalidLicense }

// Error implements the error interface.
func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("invalid value %q for property %s", e.Value, e.Field)
}

// Unwrap returns ErrInvalidProperty for errors.Is() compatibility.
func (e *InvalidPropertyError) Unwrap() error { return ErrInvalidProperty }

// Validate checks the license against the SPDX license list. An unset
// license is valid. Free-form values such as "Proprietary" are rejected so
// package authors use LicenseRef- identifiers instead.
func (m *Metadata) Validate() error {
	if m.License == "" {
		return nil
	}
	if ok, invalid := spdxexp.ValidateLicenses([]string{m.License}); !ok {
		return &InvalidLicenseError{License: m.License, Invalid: invalid}
	}
	return nil
}

// DisplayName returns the metadata name, or fallback when it is unset.
func (m *Metadata) DisplayName(fallback string) string {
	if m.Name != "" {
		return m.Name
	}
	return fallback
}

// HasFeature reports whether feature is declared.
func (p *Properties) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Set assigns a single property from its script field name and values.
// List fields take every value; single fields take the first.
func (p *Properties) Set(field string, values []string) error {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}

	switch field {
	case "features":
		p.Features = nonNil(values)
	case "default_features":
		p.DefaultFeatures = nonNil(values)
	case "modrinth_id":
		p.ModrinthID = first
	case "curseforge_id":
		p.CurseForgeID = first
	case "supported_versions":
		p.SupportedVersions = make([]types.VersionPattern, 0, len(values))
		for _, v := range values {
			p.SupportedVersions = append(p.SupportedVersions, types.VersionPattern(v))
		}
	case "supported_modloaders":
		p.SupportedModloaders = make([]types.ModloaderMatch, 0, len(values))
		for _, v := range values {
			m, ok := types.ParseModloaderMatch(v)
			if !ok {
				return &InvalidPropertyError{Field: field, Value: v}
			}
			p.SupportedModloaders = append(p.SupportedModloaders, m)
		}
	case "supported_plugin_loaders":
		p.SupportedPluginLoaders = make([]types.PluginLoaderMatch, 0, len(values))
		for _, v := range values {
			m, ok := types.ParsePluginLoaderMatch(v)
			if !ok {
				return &InvalidPropertyError{Field: field, Value: v}
			}
			p.SupportedPluginLoaders = append(p.SupportedPluginLoaders, m)
		}
	case "supported_sides":
		p.SupportedSides = make([]types.Side, 0, len(values))
		for _, v := range values {
			s, ok := types.ParseSide(v)
			if !ok {
				return &InvalidPropertyError{Field: field, Value: v}
			}
			p.SupportedSides = append(p.SupportedSides, s)
		}
	case "tags":
		p.Tags = nonNil(values)
	case "open_source":
		var b bool
		switch first {
		case "true", "yes":
			b = true
		case "false", "no":
		default:
			return &InvalidPropertyError{Field: field, Value: first}
		}
		p.OpenSource = &b
	default:
		return &InvalidPropertyError{Field: "name", Value: field}
	}
	return nil
}

// Set assigns a single metadata field from its script field name and values.
func (m *Metadata) Set(field string, values []string) error {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}

	switch field {
	case "name":
		m.Name = first
	case "description":
		m.Description = first
	case "long_description":
		m.LongDescription = first
	case "version":
		m.Version = first
	case "authors":
		m.Authors = nonNil(values)
	case "package_maintainers":
		m.PackageMaintainers = nonNil(values)
	case "website":
		m.Website = first
	case "support_link":
		m.SupportLink = first
	case "documentation":
		m.Documentation = first
	case "source":
		m.Source = first
	case "issues":
		m.Issues = first
	case "community":
		m.Community = first
	case "icon":
		m.Icon = first
	case "banner":
		m.Banner = first
	case "license":
		m.License = first
	default:
		return &InvalidPropertyError{Field: "name", Value: field}
	}
	return nil
}

func nonNil(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
