// SPDX-License-Identifier: MPL-2.0

// Package eval runs package routines against an installation context.
//
// Script packages are walked instruction by instruction; declarative
// packages are matched against their condition sets. Both produce the same
// Data, so callers do not care which content type a package uses.
// Evaluation never blocks on I/O: everything it needs is in the Package and
// the Input.
package eval

import (
	"github.com/mcpkg/mcpkg/internal/addon"
	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
	"github.com/mcpkg/mcpkg/pkg/pkgmeta"
	"github.com/mcpkg/mcpkg/pkg/pkgscript"
	"github.com/mcpkg/mcpkg/pkg/types"
)

const (
	// MaxNoticeInstructions is the number of notices one evaluation may produce.
	MaxNoticeInstructions = 10
	// MaxNoticeCharacters is the maximum length of a single notice.
	MaxNoticeCharacters = 128
)

const (
	// LevelResolve collects relations between packages.
	LevelResolve Level = iota
	// LevelInstall collects addons, notices and commands.
	LevelInstall
)

const (
	// RoutineInstall runs the install routine at install level.
	RoutineInstall Routine = iota
	// RoutineInstallResolve runs the install routine at resolve level.
	RoutineInstallResolve
)

const (
	// ContentScript is a package script.
	ContentScript ContentType = "script"
	// ContentDeclarative is a declarative document.
	ContentDeclarative ContentType = "declarative"
)

type (
	// Level selects which instructions take effect.
	Level int

	// Routine is the purpose of an evaluation. It determines the routine
	// name and the level.
	Routine int

	// ContentType is the kind of content a package carries.
	ContentType string

	// Constants are the same for every package of a resolution.
	Constants struct {
		Version string
		// Versions lists every known game version, oldest first.
		Versions      []string
		Modifications types.Modifications
		Language      types.Language
		// OS is the operating system to match conditions against. Empty
		// means the running host.
		OS types.OS
	}

	// Parameters may differ for each package.
	Parameters struct {
		Side        types.Side
		Features    []string
		Permissions types.Permissions
		Stability   types.Stability
	}

	// Input combines the shared constants with per-package parameters.
	Input struct {
		Constants *Constants
		Params    Parameters
		// Queue receives the addon requests of a successful install level
		// evaluation. It may be nil.
		Queue *addon.Queue
	}

	// Package is a loaded package ready for evaluation. Exactly one of
	// Script and Declarative is set.
	Package struct {
		ID          types.PkgIdentifier
		Script      *pkgscript.Parsed
		Declarative *pkgdecl.Package
		Metadata    *pkgmeta.Metadata
		Properties  *pkgmeta.Properties
	}
)

// String returns the level name.
func (l Level) String() string {
	if l == LevelInstall {
		return "install"
	}
	return "resolve"
}

// Name returns the script routine the evaluation runs. Both routines run
// the install routine; only the level differs.
func (r Routine) Name() string {
	return pkgscript.RoutineInstall
}

// Level returns the evaluation level of the routine.
func (r Routine) Level() Level {
	if r == RoutineInstall {
		return LevelInstall
	}
	return LevelResolve
}

// DefaultParameters returns the parameters used when nothing overrides them.
func DefaultParameters(side types.Side) Parameters {
	return Parameters{
		Side:        side,
		Permissions: types.PermissionsStandard,
		Stability:   types.StabilityStable,
	}
}

// HostOS returns the operating system conditions are matched against.
func (c *Constants) HostOS() types.OS {
	if c.OS != "" {
		return c.OS
	}
	return types.CurrentOS()
}

// ContentType returns the kind of content the package carries.
func (p *Package) ContentType() ContentType {
	if p.Declarative != nil {
		return ContentDeclarative
	}
	return ContentScript
}

// Evaluate checks the package properties and runs the routine. A package
// that does not support the evaluated side yields empty Data.
func Evaluate(pkg *Package, routine Routine, in Input) (*Data, error) {
	if pkg.Properties != nil {
		skip, err := CheckProperties(&in, pkg.Properties)
		if err != nil {
			return nil, &EvalError{Package: pkg.ID.Name, Err: err}
		}
		if skip {
			return NewData(), nil
		}
	}

	switch {
	case pkg.Script != nil:
		return EvalScript(pkg.ID, pkg.Script, routine, in)
	case pkg.Declarative != nil:
		return EvalDeclarative(pkg.ID, pkg.Declarative, routine, in)
	default:
		return nil, &EvalError{Package: pkg.ID.Name, Err: ErrNoContent}
	}
}
