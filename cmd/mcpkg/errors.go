// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/internal/issue"
	"github.com/mcpkg/mcpkg/internal/registry"
	"github.com/mcpkg/mcpkg/internal/resolve"
	"github.com/mcpkg/mcpkg/pkg/types"
)

// ExitError ends a command whose failure the App already rendered.
// Execute exits with Code and prints nothing more.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// issueFor returns the catalog entry that explains err, or zero.
// An ActionableError that names an issue wins over the error chain.
func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}

	switch {
	case errors.Is(err, resolve.ErrCycle):
		return issue.DependencyCycleId
	case errors.Is(err, resolve.ErrConflict):
		return issue.DependencyConflictId
	case errors.Is(err, resolve.ErrUnsatisfiable):
		return issue.UnsatisfiableDependencyId
	case errors.Is(err, resolve.ErrExplicitDependency):
		return issue.ExplicitDependencyId
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, resolve.ErrVersionMismatch):
		return issue.PackageNotFoundId
	case errors.Is(err, registry.ErrRateLimited), errors.Is(err, registry.ErrUpstreamDown):
		return issue.RepositoryUnavailableId
	case errors.Is(err, eval.ErrPermissionDenied):
		return issue.PermissionDeniedId
	case errors.Is(err, registry.ErrInvalidPackage):
		return issue.PackageParseErrorId
	case errors.Is(err, eval.ErrEval):
		return issue.PackageFailedId
	default:
		return 0
	}
}

// exitCodeFor maps err to the process exit code.
func exitCodeFor(err error) types.ExitCode {
	switch {
	case err == nil:
		return types.ExitSuccess
	case errors.Is(err, registry.ErrInvalidPackage), errors.Is(err, eval.ErrEval):
		return types.ExitInvalidPackage
	case errors.Is(err, resolve.ErrCycle),
		errors.Is(err, resolve.ErrConflict),
		errors.Is(err, resolve.ErrUnsatisfiable),
		errors.Is(err, resolve.ErrExplicitDependency),
		errors.Is(err, resolve.ErrVersionMismatch),
		errors.Is(err, registry.ErrNotFound):
		return types.ExitResolution
	default:
		return types.ExitFailure
	}
}
