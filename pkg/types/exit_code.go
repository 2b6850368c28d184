// SPDX-License-Identifier: MPL-2.0

package types

import "strconv"

// ExitCode is the process exit status of an mcpkg command.
type ExitCode int

const (
	// ExitSuccess is returned when a command completes normally.
	ExitSuccess ExitCode = 0
	// ExitFailure covers I/O, configuration and repository failures.
	ExitFailure ExitCode = 1
	// ExitInvalidPackage is returned when a package fails to lex, parse or evaluate.
	ExitInvalidPackage ExitCode = 2
	// ExitResolution is returned when dependency resolution fails.
	ExitResolution ExitCode = 3
)

// IsSuccess reports whether c is ExitSuccess.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String names the exit code and its number, as in "resolution failure (3)".
func (c ExitCode) String() string {
	var name string
	switch c {
	case ExitSuccess:
		name = "success"
	case ExitFailure:
		name = "failure"
	case ExitInvalidPackage:
		name = "invalid package"
	case ExitResolution:
		name = "resolution failure"
	default:
		name = "exit status"
	}
	return name + " (" + strconv.Itoa(int(c)) + ")"
}
