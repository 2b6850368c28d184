// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"errors"
	"testing"

	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
	"github.com/mcpkg/mcpkg/pkg/pkgscript"
	"github.com/mcpkg/mcpkg/pkg/types"
)

func TestEvalCondition(t *testing.T) {
	t.Parallel()

	server := testInput(types.SideServer)
	server.Constants.Modifications.ServerType = types.ServerTypePaper
	server.Params.Features = []string{"extras"}
	server.Params.Stability = types.StabilityLatest

	vars := map[string]string{"loader": "fabric"}

	tests := []struct {
		cond pkgscript.Condition
		want bool
	}{
		{pkgscript.VersionCondition{Pattern: pkgscript.Literal("1.20.1")}, true},
		{pkgscript.VersionCondition{Pattern: pkgscript.Literal("latest")}, true},
		{pkgscript.VersionCondition{Pattern: pkgscript.Literal("1.19.2..1.19.4")}, false},
		{pkgscript.SideCondition{Side: types.SideServer}, true},
		{pkgscript.SideCondition{Side: types.SideClient}, false},
		{pkgscript.ModloaderCondition{Match: types.ModloaderMatchVanilla}, true},
		{pkgscript.ModloaderCondition{Match: types.ModloaderMatchFabricLike}, false},
		{pkgscript.PluginLoaderCondition{Match: types.PluginLoaderMatchBukkit}, true},
		{pkgscript.PluginLoaderCondition{Match: types.PluginLoaderMatchVanilla}, false},
		{pkgscript.FeatureCondition{Feature: pkgscript.Literal("extras")}, true},
		{pkgscript.FeatureCondition{Feature: pkgscript.Literal("debug")}, false},
		{pkgscript.ValueCondition{Left: pkgscript.Var("loader"), Right: pkgscript.Literal("fabric")}, true},
		{pkgscript.ValueCondition{Left: pkgscript.Var("loader"), Right: pkgscript.Literal("quilt")}, false},
		{pkgscript.DefinedCondition{Var: "loader"}, true},
		{pkgscript.DefinedCondition{Var: "other"}, false},
		{pkgscript.OSCondition{OS: types.OSLinux}, true},
		{pkgscript.OSCondition{OS: types.OSWindows}, false},
		{pkgscript.StabilityCondition{Stability: types.StabilityLatest}, true},
		{pkgscript.StabilityCondition{Stability: types.StabilityStable}, false},
		{pkgscript.LanguageCondition{Language: "english"}, true},
		{pkgscript.LanguageCondition{Language: "german"}, false},
		{pkgscript.NotCondition{Inner: pkgscript.SideCondition{Side: types.SideClient}}, true},
		{pkgscript.AndCondition{
			Left:  pkgscript.SideCondition{Side: types.SideServer},
			Right: pkgscript.OSCondition{OS: types.OSWindows},
		}, false},
		{pkgscript.OrCondition{
			Left:  pkgscript.SideCondition{Side: types.SideClient},
			Right: pkgscript.OSCondition{OS: types.OSLinux},
		}, true},
	}
	for _, tt := range tests {
		got, err := evalCondition(tt.cond, &server, vars)
		if err != nil {
			t.Errorf("evalCondition(%#v) error = %v", tt.cond, err)
			continue
		}
		if got != tt.want {
			t.Errorf("evalCondition(%#v) = %v, want %v", tt.cond, got, tt.want)
		}
	}
}

func TestEvalConditionShortCircuit(t *testing.T) {
	t.Parallel()

	in := testInput(types.SideClient)
	undefined := pkgscript.FeatureCondition{Feature: pkgscript.Var("missing")}

	tests := []struct {
		name    string
		cond    pkgscript.Condition
		wantErr bool
	}{
		{"and stops on false", pkgscript.AndCondition{Left: pkgscript.SideCondition{Side: types.SideServer}, Right: undefined}, false},
		{"or stops on true", pkgscript.OrCondition{Left: pkgscript.SideCondition{Side: types.SideClient}, Right: undefined}, false},
		{"and evaluates right on true", pkgscript.AndCondition{Left: pkgscript.SideCondition{Side: types.SideClient}, Right: undefined}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := evalCondition(tt.cond, &in, nil)
			if tt.wantErr != errors.Is(err, ErrUndefinedVariable) {
				t.Errorf("evalCondition() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchConditionSet(t *testing.T) {
	t.Parallel()

	in := testInput(types.SideClient)
	in.Params.Features = []string{"extras"}

	tests := []struct {
		name string
		set  pkgdecl.ConditionSet
		want bool
	}{
		{"empty", pkgdecl.ConditionSet{}, true},
		{"any version matches", pkgdecl.ConditionSet{MinecraftVersions: []types.VersionPattern{"1.19.2", "1.20+"}}, true},
		{"no version matches", pkgdecl.ConditionSet{MinecraftVersions: []types.VersionPattern{"1.19.2"}}, false},
		{"side", pkgdecl.ConditionSet{Side: types.SideServer}, false},
		{"modloader family", pkgdecl.ConditionSet{Modloaders: []types.ModloaderMatch{types.ModloaderMatchFabricLike}}, true},
		{"plugin loader", pkgdecl.ConditionSet{PluginLoaders: []types.PluginLoaderMatch{types.PluginLoaderMatchPaper}}, false},
		{"stability", pkgdecl.ConditionSet{Stability: types.StabilityStable}, true},
		{"all features enabled", pkgdecl.ConditionSet{Features: []string{"extras"}}, true},
		{"one feature missing", pkgdecl.ConditionSet{Features: []string{"extras", "debug"}}, false},
		{"operating system", pkgdecl.ConditionSet{OperatingSystems: []types.OS{types.OSMacOS, types.OSLinux}}, true},
		{"language", pkgdecl.ConditionSet{Languages: []types.Language{"german"}}, false},
		{
			"every field must match",
			pkgdecl.ConditionSet{Side: types.SideClient, OperatingSystems: []types.OS{types.OSWindows}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := matchConditionSet(&tt.set, &in); got != tt.want {
				t.Errorf("matchConditionSet() = %v, want %v", got, tt.want)
			}
		})
	}
}
