// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"fmt"
	"slices"

	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
	"github.com/mcpkg/mcpkg/pkg/pkgscript"
	"github.com/mcpkg/mcpkg/pkg/types"
)

// resolveValue returns the text of v. An absent value resolves to "".
func resolveValue(v pkgscript.Value, vars map[string]string) (string, error) {
	s, ok := v.Resolve(vars)
	if !ok {
		return "", errorf(ErrUndefinedVariable, "$%s", v.Text)
	}
	return s, nil
}

func evalCondition(c pkgscript.Condition, in *Input, vars map[string]string) (bool, error) {
	switch c := c.(type) {
	case pkgscript.NotCondition:
		ok, err := evalCondition(c.Inner, in, vars)
		return !ok, err

	case pkgscript.AndCondition:
		ok, err := evalCondition(c.Left, in, vars)
		if err != nil || !ok {
			return false, err
		}
		return evalCondition(c.Right, in, vars)

	case pkgscript.OrCondition:
		ok, err := evalCondition(c.Left, in, vars)
		if err != nil || ok {
			return ok, err
		}
		return evalCondition(c.Right, in, vars)

	case pkgscript.VersionCondition:
		pattern, err := resolveValue(c.Pattern, vars)
		if err != nil {
			return false, err
		}
		return types.VersionPattern(pattern).Matches(in.Constants.Version, in.Constants.Versions), nil

	case pkgscript.SideCondition:
		return in.Params.Side == c.Side, nil

	case pkgscript.ModloaderCondition:
		return c.Match.Matches(in.Constants.Modifications.ModloaderFor(in.Params.Side)), nil

	case pkgscript.PluginLoaderCondition:
		return c.Match.Matches(in.Constants.Modifications.PluginLoaderFor(in.Params.Side)), nil

	case pkgscript.FeatureCondition:
		feature, err := resolveValue(c.Feature, vars)
		if err != nil {
			return false, err
		}
		return slices.Contains(in.Params.Features, feature), nil

	case pkgscript.ValueCondition:
		left, err := resolveValue(c.Left, vars)
		if err != nil {
			return false, err
		}
		right, err := resolveValue(c.Right, vars)
		if err != nil {
			return false, err
		}
		return left == right, nil

	case pkgscript.DefinedCondition:
		_, ok := vars[c.Var]
		return ok, nil

	case pkgscript.OSCondition:
		return in.Constants.HostOS() == c.OS, nil

	case pkgscript.StabilityCondition:
		return in.Params.Stability == c.Stability, nil

	case pkgscript.LanguageCondition:
		return in.Constants.Language == c.Language, nil
	}

	return false, fmt.Errorf("internal error: unhandled condition %T", c)
}

// matchConditionSet reports whether every field set in cs matches.
func matchConditionSet(cs *pkgdecl.ConditionSet, in *Input) bool {
	side := in.Params.Side
	mods := in.Constants.Modifications

	if len(cs.MinecraftVersions) > 0 && !slices.ContainsFunc(cs.MinecraftVersions, func(p types.VersionPattern) bool {
		return p.Matches(in.Constants.Version, in.Constants.Versions)
	}) {
		return false
	}
	if cs.Side != "" && cs.Side != side {
		return false
	}
	if len(cs.Modloaders) > 0 && !slices.ContainsFunc(cs.Modloaders, func(m types.ModloaderMatch) bool {
		return m.Matches(mods.ModloaderFor(side))
	}) {
		return false
	}
	if len(cs.PluginLoaders) > 0 && !slices.ContainsFunc(cs.PluginLoaders, func(m types.PluginLoaderMatch) bool {
		return m.Matches(mods.PluginLoaderFor(side))
	}) {
		return false
	}
	if cs.Stability != "" && cs.Stability != in.Params.Stability {
		return false
	}
	for _, f := range cs.Features {
		if !slices.Contains(in.Params.Features, f) {
			return false
		}
	}
	if len(cs.OperatingSystems) > 0 && !slices.Contains(cs.OperatingSystems, in.Constants.HostOS()) {
		return false
	}
	if len(cs.Languages) > 0 && !slices.Contains(cs.Languages, in.Constants.Language) {
		return false
	}
	return true
}

// matchAll reports whether every condition set matches. No sets always match.
func matchAll(sets []pkgdecl.ConditionSet, in *Input) bool {
	for i := range sets {
		if !matchConditionSet(&sets[i], in) {
			return false
		}
	}
	return true
}
