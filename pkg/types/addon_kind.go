// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// AddonMod is a modloader mod.
	AddonMod AddonKind = "mod"
	// AddonResourcePack is a resource pack.
	AddonResourcePack AddonKind = "resource_pack"
	// AddonShader is a shader pack.
	AddonShader AddonKind = "shader"
	// AddonPlugin is a server plugin.
	AddonPlugin AddonKind = "plugin"
	// AddonDatapack is a datapack.
	AddonDatapack AddonKind = "datapack"
)

var (
	// ErrInvalidAddonKind is the sentinel error wrapped by InvalidAddonKindError.
	ErrInvalidAddonKind = errors.New("invalid addon kind")
	// ErrInvalidAddonFileName is the sentinel error wrapped by InvalidAddonFileNameError.
	ErrInvalidAddonFileName = errors.New("invalid addon file name")
)

type (
	// AddonKind is the kind of artifact an addon is.
	AddonKind string

	// InvalidAddonKindError is returned when an AddonKind value is not recognized.
	InvalidAddonKindError struct {
		Value AddonKind
	}

	// InvalidAddonFileNameError is returned when a file name is not acceptable
	// for the addon kind.
	InvalidAddonFileNameError struct {
		Kind     AddonKind
		FileName string
	}
)

// ParseAddonKind parses an addon kind from its script spelling.
func ParseAddonKind(s string) (AddonKind, bool) {
	kind := AddonKind(s)
	if ok, _ := kind.IsValid(); !ok {
		return "", false
	}
	return kind, true
}

// String returns the string representation of the AddonKind.
func (k AddonKind) String() string { return string(k) }

// IsValid returns whether the AddonKind is known.
func (k AddonKind) IsValid() (bool, []error) {
	switch k {
	case AddonMod, AddonResourcePack, AddonShader, AddonPlugin, AddonDatapack:
		return true, nil
	default:
		return false, []error{&InvalidAddonKindError{Value: k}}
	}
}

// Extension returns the file extension, including the dot, of this kind of addon.
func (k AddonKind) Extension() string {
	switch k {
	case AddonMod, AddonPlugin:
		return ".jar"
	default:
		return ".zip"
	}
}

// DefaultFileName returns the file name used for an addon that does not declare one.
func (k AddonKind) DefaultFileName(pkg, addonID string) string {
	return "mcpkg_" + pkg + "_" + addonID + k.Extension()
}

// ValidateFileName checks that a file name is a bare name with this kind's extension.
func (k AddonKind) ValidateFileName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, k.Extension()) ||
		len(name) == len(k.Extension()) {
		return &InvalidAddonFileNameError{Kind: k, FileName: name}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidAddonKindError) Error() string {
	return fmt.Sprintf("invalid addon kind %q (valid: mod, resource_pack, shader, plugin, datapack)", e.Value)
}

// Unwrap returns ErrInvalidAddonKind for errors.Is() compatibility.
func (e *InvalidAddonKindError) Unwrap() error { return ErrInvalidAddonKind }

// Error implements the error interface.
func (e *InvalidAddonFileNameError) Error() string {
	return fmt.Sprintf("invalid file name %q for %s addon: must be a bare file name ending in %s",
		e.FileName, e.Kind, e.Kind.Extension())
}

// Unwrap returns ErrInvalidAddonFileName for errors.Is() compatibility.
func (e *InvalidAddonFileNameError) Unwrap() error { return ErrInvalidAddonFileName }
