// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"fmt"

	"github.com/mcpkg/mcpkg/pkg/pkgscript"
	"github.com/mcpkg/mcpkg/pkg/types"
)

type scriptEval struct {
	id     types.PkgIdentifier
	parsed *pkgscript.Parsed
	level  Level
	in     *Input
	data   *Data
}

// EvalScript runs a routine of a parsed script. Relation instructions only
// take effect at resolve level; addons and commands only at install level.
func EvalScript(id types.PkgIdentifier, parsed *pkgscript.Parsed, routine Routine, in Input) (*Data, error) {
	name := routine.Name()
	blockID, ok := parsed.Routine(name)
	if !ok || parsed.Block(blockID) == nil {
		return nil, &EvalError{Package: id.Name, Err: errorf(ErrRoutineNotFound, "%q", name)}
	}

	e := &scriptEval{
		id:     id,
		parsed: parsed,
		level:  routine.Level(),
		in:     &in,
		data:   NewData(),
	}
	if _, err := e.block(blockID); err != nil {
		return nil, err
	}

	if e.level == LevelInstall && in.Queue != nil {
		in.Queue.Push(e.data.AddonRequests...)
	}
	return e.data, nil
}

// block runs every instruction of a block. finished is true when a finish
// instruction stopped the routine.
func (e *scriptEval) block(id pkgscript.BlockID) (finished bool, err error) {
	block := e.parsed.Block(id)
	if block == nil {
		return false, e.fail(pkgscript.TextPos{}, fmt.Errorf("internal error: block %d does not exist", id))
	}
	for _, instr := range block.Instructions {
		finished, err := e.instruction(instr)
		if err != nil || finished {
			return finished, err
		}
	}
	return false, nil
}

func (e *scriptEval) fail(pos pkgscript.TextPos, err error) error {
	return &EvalError{Package: e.id.Name, Pos: pos, Err: err}
}

func (e *scriptEval) value(v pkgscript.Value, pos pkgscript.TextPos) (string, error) {
	s, err := resolveValue(v, e.data.Vars)
	if err != nil {
		return "", e.fail(pos, err)
	}
	return s, nil
}

func (e *scriptEval) values(vs []pkgscript.Value, pos pkgscript.TextPos) ([]string, error) {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		s, err := e.value(v, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (e *scriptEval) instruction(instr pkgscript.Instruction) (bool, error) {
	pos := instr.Position()
	resolve := e.level == LevelResolve

	switch in := instr.(type) {
	case *pkgscript.IfInstruction:
		ok, err := evalCondition(in.Condition, e.in, e.data.Vars)
		if err != nil {
			return false, e.fail(pos, err)
		}
		if ok {
			return e.block(in.Block)
		}

	case *pkgscript.SetInstruction:
		v, err := e.value(in.Value, pos)
		if err != nil {
			return false, err
		}
		e.data.Vars[in.Var] = v

	case *pkgscript.FinishInstruction:
		return true, nil

	case *pkgscript.FailInstruction:
		reason, err := e.value(in.Reason, pos)
		if err != nil {
			return false, err
		}
		return true, &FailError{Package: e.id.Name, Pos: pos, Reason: reason}

	case *pkgscript.NoticeInstruction:
		text, err := e.value(in.Text, pos)
		if err != nil {
			return false, err
		}
		if err := e.data.addNotice(text); err != nil {
			return false, e.fail(pos, err)
		}

	case *pkgscript.RequireInstruction:
		if !resolve {
			break
		}
		for _, group := range in.Groups {
			alts := make([]RequiredPackage, 0, len(group))
			for _, alt := range group {
				v, err := e.value(alt.Value, pos)
				if err != nil {
					return false, err
				}
				alts = append(alts, RequiredPackage{Value: v, Explicit: alt.Explicit})
			}
			e.data.Deps = append(e.data.Deps, alts)
		}

	case *pkgscript.RefuseInstruction:
		return false, e.relation(resolve, in.Package, pos, &e.data.Conflicts)

	case *pkgscript.RecommendInstruction:
		return false, e.relation(resolve, in.Package, pos, &e.data.Recommendations)

	case *pkgscript.BundleInstruction:
		return false, e.relation(resolve, in.Package, pos, &e.data.Bundled)

	case *pkgscript.ExtendInstruction:
		return false, e.relation(resolve, in.Package, pos, &e.data.Extensions)

	case *pkgscript.CompatInstruction:
		if !resolve {
			break
		}
		pkg, err := e.value(in.Package, pos)
		if err != nil {
			return false, err
		}
		compat, err := e.value(in.CompatPackage, pos)
		if err != nil {
			return false, err
		}
		e.data.Compats = append(e.data.Compats, Compat{Package: pkg, CompatPackage: compat})

	case *pkgscript.CmdInstruction:
		if !e.in.Params.Permissions.AtLeast(types.PermissionsElevated) {
			return false, e.fail(pos, errorf(ErrPermissionDenied, "cmd requires elevated permissions"))
		}
		if resolve {
			break
		}
		args, err := e.values(in.Args, pos)
		if err != nil {
			return false, err
		}
		e.data.Commands = append(e.data.Commands, args)

	case *pkgscript.AddonInstruction:
		if resolve {
			break
		}
		return false, e.addon(in)

	default:
		return false, e.fail(pos, errorf(ErrInstructionNotAllowed, "%T in routine %q", instr, pkgscript.RoutineInstall))
	}

	return false, nil
}

func (e *scriptEval) relation(resolve bool, v pkgscript.Value, pos pkgscript.TextPos, dst *[]string) error {
	if !resolve {
		return nil
	}
	s, err := e.value(v, pos)
	if err != nil {
		return err
	}
	*dst = append(*dst, s)
	return nil
}

func (e *scriptEval) addon(in *pkgscript.AddonInstruction) error {
	pos := in.Position()

	var args addonArgs
	fields := []struct {
		v   pkgscript.Value
		dst *string
	}{
		{in.ID, &args.ID},
		{in.FileName, &args.FileName},
		{in.URL, &args.URL},
		{in.Path, &args.Path},
		{in.Version, &args.Version},
		{in.SHA256, &args.Hashes.SHA256},
		{in.SHA512, &args.Hashes.SHA512},
	}
	for _, f := range fields {
		s, err := e.value(f.v, pos)
		if err != nil {
			return err
		}
		*f.dst = s
	}
	args.Kind = in.Kind

	if e.data.hasAddon(args.ID) {
		return e.fail(pos, errorf(ErrInvalidAddon, "duplicate addon id %q", args.ID))
	}
	req, err := newAddonRequest(args, e.id, &e.in.Params)
	if err != nil {
		return e.fail(pos, err)
	}
	e.data.AddonRequests = append(e.data.AddonRequests, req)
	return nil
}
