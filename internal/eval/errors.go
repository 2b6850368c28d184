// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"errors"
	"fmt"

	"github.com/mcpkg/mcpkg/pkg/pkgscript"
)

var (
	// ErrEval matches every evaluation error.
	ErrEval = errors.New("evaluation failed")
	// ErrRoutineNotFound is returned when a script has no routine of the requested name.
	ErrRoutineNotFound = errors.New("routine not found")
	// ErrInstructionNotAllowed is returned for an instruction used outside its routine.
	ErrInstructionNotAllowed = errors.New("instruction is not allowed in this routine")
	// ErrPermissionDenied is returned when the package lacks the permissions an instruction needs.
	ErrPermissionDenied = errors.New("insufficient permissions")
	// ErrInvalidAddon is returned when an addon fails validation.
	ErrInvalidAddon = errors.New("invalid addon")
	// ErrNoticeLimit is returned when a package produces too many or too long notices.
	ErrNoticeLimit = errors.New("notice limit exceeded")
	// ErrUndefinedVariable is returned when a value references a variable that is not set.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrUnsupported is returned when a package does not support the installation context.
	ErrUnsupported = errors.New("package does not support this installation")
	// ErrUnknownFeature is returned when a configured feature is not declared by the package.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrNoContent is returned when a package carries neither a script nor a document.
	ErrNoContent = errors.New("package has no content")
	// ErrExplicitFail is the sentinel error wrapped by FailError.
	ErrExplicitFail = errors.New("package failed explicitly")
)

type (
	// EvalError reports why evaluating a package failed. Pos is the zero
	// value when the failure is not tied to a script instruction.
	EvalError struct {
		Package string
		Pos     pkgscript.TextPos
		Err     error
	}

	// FailError is returned when a script runs a fail instruction.
	FailError struct {
		Package string
		Pos     pkgscript.TextPos
		// Reason is empty when the script gave none.
		Reason string
	}
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("package %s at %s: %v", e.Package, e.Pos, e.Err)
	}
	return fmt.Sprintf("package %s: %v", e.Package, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error { return e.Err }

// Is reports whether target is ErrEval.
func (e *EvalError) Is(target error) bool { return target == ErrEval }

// Error implements the error interface.
func (e *FailError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "no reason given"
	}
	if e.Pos.Line > 0 {
		return fmt.Sprintf("package %s failed at %s: %s", e.Package, e.Pos, reason)
	}
	return fmt.Sprintf("package %s failed: %s", e.Package, reason)
}

// Unwrap returns ErrExplicitFail for errors.Is() compatibility.
func (e *FailError) Unwrap() error { return ErrExplicitFail }

// Is reports whether target is ErrEval.
func (e *FailError) Is(target error) bool { return target == ErrEval }

func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
