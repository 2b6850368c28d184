// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

const (
	// StabilityStable selects released content only.
	StabilityStable Stability = "stable"
	// StabilityLatest allows the newest, possibly unstable, content.
	StabilityLatest Stability = "latest"

	// PermissionsRestricted forbids anything beyond declaring relations and remote addons.
	PermissionsRestricted Permissions = "restricted"
	// PermissionsStandard is the default permission tier.
	PermissionsStandard Permissions = "standard"
	// PermissionsElevated allows commands and local addon paths.
	PermissionsElevated Permissions = "elevated"
)

var (
	// ErrInvalidStability is the sentinel error wrapped by InvalidStabilityError.
	ErrInvalidStability = errors.New("invalid stability")
	// ErrInvalidPermissions is the sentinel error wrapped by InvalidPermissionsError.
	ErrInvalidPermissions = errors.New("invalid permissions")
)

type (
	// Stability is the maturity tier a package is evaluated under.
	Stability string

	// InvalidStabilityError is returned when a Stability value is not recognized.
	InvalidStabilityError struct {
		Value Stability
	}

	// Permissions is the trust tier a package is evaluated under.
	Permissions string

	// InvalidPermissionsError is returned when a Permissions value is not recognized.
	InvalidPermissionsError struct {
		Value Permissions
	}
)

// ParseStability parses a stability tier from its script spelling.
func ParseStability(s string) (Stability, bool) {
	st := Stability(s)
	if ok, _ := st.IsValid(); !ok {
		return "", false
	}
	return st, true
}

// String returns the string representation of the Stability.
func (s Stability) String() string { return string(s) }

// IsValid returns whether the Stability is known.
func (s Stability) IsValid() (bool, []error) {
	switch s {
	case StabilityStable, StabilityLatest:
		return true, nil
	default:
		return false, []error{&InvalidStabilityError{Value: s}}
	}
}

// Error implements the error interface.
func (e *InvalidStabilityError) Error() string {
	return fmt.Sprintf("invalid stability %q (valid: stable, latest)", e.Value)
}

// Unwrap returns ErrInvalidStability for errors.Is() compatibility.
func (e *InvalidStabilityError) Unwrap() error { return ErrInvalidStability }

// String returns the string representation of the Permissions.
func (p Permissions) String() string { return string(p) }

// IsValid returns whether the Permissions value is known.
func (p Permissions) IsValid() (bool, []error) {
	switch p {
	case PermissionsRestricted, PermissionsStandard, PermissionsElevated:
		return true, nil
	default:
		return false, []error{&InvalidPermissionsError{Value: p}}
	}
}

// AtLeast reports whether p grants everything other grants.
func (p Permissions) AtLeast(other Permissions) bool {
	return p.rank() >= other.rank()
}

func (p Permissions) rank() int {
	switch p {
	case PermissionsRestricted:
		return 0
	case PermissionsElevated:
		return 2
	default:
		return 1
	}
}

// Error implements the error interface.
func (e *InvalidPermissionsError) Error() string {
	return fmt.Sprintf("invalid permissions %q (valid: restricted, standard, elevated)", e.Value)
}

// Unwrap returns ErrInvalidPermissions for errors.Is() compatibility.
func (e *InvalidPermissionsError) Unwrap() error { return ErrInvalidPermissions }
