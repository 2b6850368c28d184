// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"github.com/mcpkg/mcpkg/pkg/types"
)

// Well-known routine names.
const (
	RoutineMeta       = "meta"
	RoutineProperties = "properties"
	RoutineInstall    = "install"
)

type (
	// BlockID addresses a Block in the arena of a Parsed script.
	BlockID int

	// Block is an ordered sequence of instructions.
	Block struct {
		Instructions []Instruction
	}

	// Parsed is a parsed package script. Blocks are created during parsing
	// only, children after their parents, so block references never form
	// cycles. A Parsed value is never modified after Parse returns and may
	// be shared between goroutines.
	Parsed struct {
		Blocks   []Block
		Routines map[string]BlockID
	}

	// Instruction is a single statement of a script.
	Instruction interface {
		// Position returns where the instruction starts.
		Position() TextPos
	}

	// At carries the source position of an instruction.
	At struct {
		Pos TextPos
	}

	// MetaInstruction sets a metadata field. Single-valued fields have one value.
	MetaInstruction struct {
		At
		Field  string
		Values []Value
	}

	// PropertyInstruction sets a package property. Single-valued fields have one value.
	PropertyInstruction struct {
		At
		Field  string
		Values []Value
	}

	// IfInstruction runs Block when Condition holds.
	IfInstruction struct {
		At
		Condition Condition
		Block     BlockID
	}

	// SetInstruction binds Var to Value.
	SetInstruction struct {
		At
		Var   string
		Value Value
	}

	// FinishInstruction stops the routine successfully.
	FinishInstruction struct {
		At
	}

	// FailInstruction stops the routine with an error. Reason may be absent.
	FailInstruction struct {
		At
		Reason Value
	}

	// RequiredValue is one alternative of a dependency group.
	RequiredValue struct {
		Value Value
		// Explicit requires the package to be installed by the user directly.
		Explicit bool
	}

	// RequireInstruction adds dependency groups. Every group must be
	// satisfied by at least one of its alternatives.
	RequireInstruction struct {
		At
		Groups [][]RequiredValue
	}

	// RefuseInstruction declares a conflict with Package.
	RefuseInstruction struct {
		At
		Package Value
	}

	// RecommendInstruction suggests Package without requiring it.
	RecommendInstruction struct {
		At
		Package Value
	}

	// BundleInstruction always installs Package along with this one.
	BundleInstruction struct {
		At
		Package Value
	}

	// ExtendInstruction declares that this package extends Package.
	ExtendInstruction struct {
		At
		Package Value
	}

	// CompatInstruction declares that CompatPackage makes Package work with this one.
	CompatInstruction struct {
		At
		Package       Value
		CompatPackage Value
	}

	// NoticeInstruction shows Text to the user.
	NoticeInstruction struct {
		At
		Text Value
	}

	// CmdInstruction runs a command at install time.
	CmdInstruction struct {
		At
		Args []Value
	}

	// AddonInstruction requests an addon download at install time.
	AddonInstruction struct {
		At
		ID       Value
		Kind     types.AddonKind
		FileName Value
		URL      Value
		Path     Value
		Version  Value
		SHA256   Value
		SHA512   Value
	}
)

// Position returns where the instruction starts.
func (a At) Position() TextPos { return a.Pos }

// Routine returns the block bound to a routine name.
func (p *Parsed) Routine(name string) (BlockID, bool) {
	id, ok := p.Routines[name]
	return id, ok
}

// Block returns the block with the given id, or nil if it does not exist.
func (p *Parsed) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(p.Blocks) {
		return nil
	}
	return &p.Blocks[id]
}

// metaFields maps metadata field names to whether they take a list.
var metaFields = map[string]bool{
	"name":                false,
	"description":         false,
	"long_description":    false,
	"version":             false,
	"authors":             true,
	"package_maintainers": true,
	"website":             false,
	"support_link":        false,
	"documentation":       false,
	"source":              false,
	"issues":              false,
	"community":           false,
	"icon":                false,
	"banner":              false,
	"license":             false,
}

// propertyFields maps property field names to whether they take a list.
var propertyFields = map[string]bool{
	"features":                 true,
	"default_features":         true,
	"modrinth_id":              false,
	"curseforge_id":            false,
	"supported_versions":       true,
	"supported_modloaders":     true,
	"supported_plugin_loaders": true,
	"supported_sides":          true,
	"tags":                     true,
	"open_source":              false,
}

// addonFields are the keys accepted inside an addon block.
var addonFields = map[string]bool{
	"url":       true,
	"path":      true,
	"version":   true,
	"file_name": true,
	"sha256":    true,
	"sha512":    true,
}
