// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

const (
	// SideClient is the game client.
	SideClient Side = "client"
	// SideServer is a dedicated server.
	SideServer Side = "server"
)

// ErrInvalidSide is the sentinel error wrapped by InvalidSideError.
var ErrInvalidSide = errors.New("invalid side")

type (
	// Side is the deployment target of an installation.
	Side string

	// InvalidSideError is returned when a Side value is not recognized.
	InvalidSideError struct {
		Value Side
	}
)

// ParseSide parses a side from its script spelling.
func ParseSide(s string) (Side, bool) {
	side := Side(s)
	if ok, _ := side.IsValid(); !ok {
		return "", false
	}
	return side, true
}

// String returns the string representation of the Side.
func (s Side) String() string { return string(s) }

// IsValid returns whether the Side is one of the known sides.
func (s Side) IsValid() (bool, []error) {
	switch s {
	case SideClient, SideServer:
		return true, nil
	default:
		return false, []error{&InvalidSideError{Value: s}}
	}
}

// Error implements the error interface.
func (e *InvalidSideError) Error() string {
	return fmt.Sprintf("invalid side %q (valid: client, server)", e.Value)
}

// Unwrap returns ErrInvalidSide for errors.Is() compatibility.
func (e *InvalidSideError) Unwrap() error { return ErrInvalidSide }
