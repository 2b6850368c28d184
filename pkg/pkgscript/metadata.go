// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"github.com/mcpkg/mcpkg/pkg/pkgmeta"
)

// Metadata collects the fields set by the meta routine. A script without a
// meta routine has empty metadata. Any instruction other than a metadata
// field, or a field set from a variable, is an error.
func Metadata(p *Parsed) (*pkgmeta.Metadata, error) {
	out := &pkgmeta.Metadata{}
	block := p.routineBlock(RoutineMeta)
	if block == nil {
		return out, nil
	}

	for _, instr := range block.Instructions {
		meta, ok := instr.(*MetaInstruction)
		if !ok {
			return nil, notAllowed(instr, RoutineMeta)
		}
		values, err := literals(meta.Pos, meta.Values)
		if err != nil {
			return nil, err
		}
		if err := out.Set(meta.Field, values); err != nil {
			return nil, &ParseError{Pos: meta.Pos, Token: meta.Field, Msg: err.Error()}
		}
	}
	return out, nil
}

// Properties collects the fields set by the properties routine.
func Properties(p *Parsed) (*pkgmeta.Properties, error) {
	out := &pkgmeta.Properties{}
	block := p.routineBlock(RoutineProperties)
	if block == nil {
		return out, nil
	}

	for _, instr := range block.Instructions {
		prop, ok := instr.(*PropertyInstruction)
		if !ok {
			return nil, notAllowed(instr, RoutineProperties)
		}
		values, err := literals(prop.Pos, prop.Values)
		if err != nil {
			return nil, err
		}
		if err := out.Set(prop.Field, values); err != nil {
			return nil, &ParseError{Pos: prop.Pos, Token: prop.Field, Msg: err.Error()}
		}
	}
	return out, nil
}

func (p *Parsed) routineBlock(name string) *Block {
	id, ok := p.Routine(name)
	if !ok {
		return nil
	}
	return p.Block(id)
}

func notAllowed(instr Instruction, routine string) *ParseError {
	return &ParseError{Pos: instr.Position(), Msg: "instruction is not allowed in the " + routine + " routine"}
}

// literals returns the text of values that must not reference variables.
func literals(pos TextPos, values []Value) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Kind == ValueVar {
			return nil, &ParseError{Pos: pos, Token: v.String(), Msg: "variables cannot be used here"}
		}
		out = append(out, v.Text)
	}
	return out, nil
}
