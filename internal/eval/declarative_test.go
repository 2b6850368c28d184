// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mcpkg/mcpkg/internal/addon"
	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
	"github.com/mcpkg/mcpkg/pkg/types"
)

const sodiumDocument = `
relations: {
	dependencies: [["fabric-api", "quilted-fabric-api"]]
	explicit_dependencies: ["indium"]
	conflicts: ["optifine"]
	compats: [["iris", "sodium-iris-compat"]]
	bundled: ["sodium-core"]
	extensions: ["minecraft"]
}
conditional_rules: [{
	conditions: [{features: ["extras"]}]
	relations: recommendations: ["sodium-extra"]
}, {
	conditions: [{side: "server"}]
	relations: conflicts: ["never"]
	notices: ["never shown"]
}]
addons: [{
	id:   "sodium"
	kind: "mod"
	versions: [{
		conditions: [{minecraft_versions: ["1.19.4-"]}]
		url:     "https://example.com/sodium-old.jar"
		version: "0.4.0"
	}, {
		conditions: [{minecraft_versions: ["1.20+"], modloaders: ["fabriclike"]}]
		relations: dependencies: ["fabric-renderer"]
		notices: ["Sodium replaces the renderer"]
		url:     "https://example.com/sodium.jar"
		version: "0.5.3"
		sha256:  "ab12"
	}]
}]
`

func mustParseDocument(t *testing.T, text string) *pkgdecl.Package {
	t.Helper()

	doc, err := pkgdecl.Parse([]byte(text), pkgdecl.FormatCUE, "sodium.pkg.cue")
	if err != nil {
		t.Fatalf("pkgdecl.Parse() error = %v", err)
	}
	return doc
}

func TestEvalDeclarativeResolve(t *testing.T) {
	t.Parallel()

	in := testInput(types.SideClient)
	in.Params.Features = []string{"extras"}

	data, err := EvalDeclarative(sodiumID, mustParseDocument(t, sodiumDocument), RoutineInstallResolve, in)
	if err != nil {
		t.Fatalf("EvalDeclarative() error = %v", err)
	}

	want := &Data{
		Deps: [][]RequiredPackage{
			{{Value: "fabric-api"}, {Value: "quilted-fabric-api"}},
			{{Value: "indium", Explicit: true}},
			{{Value: "fabric-renderer"}},
		},
		Conflicts:       []string{"optifine"},
		Recommendations: []string{"sodium-extra"},
		Bundled:         []string{"sodium-core"},
		Compats:         []Compat{{Package: "iris", CompatPackage: "sodium-iris-compat"}},
		Extensions:      []string{"minecraft"},
		Notices:         []string{"Sodium replaces the renderer"},
	}
	if diff := cmp.Diff(want, data, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("EvalDeclarative() mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalDeclarativeInstall(t *testing.T) {
	t.Parallel()

	queue := addon.NewQueue()
	in := testInput(types.SideClient)
	in.Queue = queue

	data, err := EvalDeclarative(sodiumID, mustParseDocument(t, sodiumDocument), RoutineInstall, in)
	if err != nil {
		t.Fatalf("EvalDeclarative() error = %v", err)
	}

	wantReqs := []addon.Request{{
		Addon: addon.Addon{
			ID:       "sodium",
			Kind:     types.AddonMod,
			FileName: "mcpkg_sodium_sodium.jar",
			Package:  sodiumID,
			Version:  "0.5.3",
			Hashes:   addon.Hashes{SHA256: "ab12"},
		},
		Location: addon.Remote("https://example.com/sodium.jar"),
	}}
	if diff := cmp.Diff(wantReqs, data.AddonRequests); diff != "" {
		t.Errorf("AddonRequests mismatch (-want +got):\n%s", diff)
	}
	if len(data.Deps) != 0 {
		t.Errorf("Deps = %v, want none at install level", data.Deps)
	}
	if queue.Len() != 1 {
		t.Errorf("queue.Len() = %d, want 1", queue.Len())
	}
}

func TestEvalDeclarativeVersionSelection(t *testing.T) {
	t.Parallel()

	doc := mustParseDocument(t, sodiumDocument)

	tests := []struct {
		name    string
		version string
		loader  types.Modloader
		want    []string
	}{
		{"old version", "1.19.2", types.ModloaderFabric, []string{"0.4.0"}},
		{"new version", "1.20", types.ModloaderQuilt, []string{"0.5.3"}},
		{"no match", "1.20.1", types.ModloaderForge, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := testInput(types.SideClient)
			in.Constants.Version = tt.version
			in.Constants.Modifications.Modloader = tt.loader

			data, err := EvalDeclarative(sodiumID, doc, RoutineInstall, in)
			if err != nil {
				t.Fatalf("EvalDeclarative() error = %v", err)
			}
			var got []string
			for _, req := range data.AddonRequests {
				got = append(got, req.Addon.Version)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("selected versions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// A script and a document describing the same package evaluate to the same data.
func TestEvalDeclarativeMatchesScript(t *testing.T) {
	t.Parallel()

	script := mustParse(t, `@install {
		require "fabric-api" | "quilted-fabric-api";
		refuse "optifine";
		if side client and feature "extras" {
			recommend "sodium-extra";
			notice "extras enabled";
		}
		addon "sodium" mod { url "https://example.com/sodium.jar"; }
	}`)
	doc := mustParseDocument(t, `
relations: {
	dependencies: [["fabric-api", "quilted-fabric-api"]]
	conflicts: ["optifine"]
}
conditional_rules: [{
	conditions: [{side: "client", features: ["extras"]}]
	relations: recommendations: ["sodium-extra"]
	notices: ["extras enabled"]
}]
addons: [{id: "sodium", kind: "mod", versions: [{url: "https://example.com/sodium.jar"}]}]
`)

	for _, routine := range []Routine{RoutineInstall, RoutineInstallResolve} {
		for _, features := range [][]string{nil, {"extras"}} {
			in := testInput(types.SideClient)
			in.Params.Features = features

			fromScript, err := EvalScript(sodiumID, script, routine, in)
			if err != nil {
				t.Fatalf("EvalScript() error = %v", err)
			}
			fromDoc, err := EvalDeclarative(sodiumID, doc, routine, in)
			if err != nil {
				t.Fatalf("EvalDeclarative() error = %v", err)
			}
			if diff := cmp.Diff(fromScript, fromDoc, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("routine %v, features %v: script and document differ (-script +document):\n%s", routine.Level(), features, diff)
			}
		}
	}
}

func TestEvalDeclarativeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			"local path without permissions",
			`addons: [{id: "a", kind: "mod", versions: [{path: "/a.jar"}]}]`,
			ErrPermissionDenied,
		},
		{
			"missing location",
			`addons: [{id: "a", kind: "mod", versions: [{version: "1"}]}]`,
			ErrInvalidAddon,
		},
		{
			"too many notices",
			`conditional_rules: [{conditions: [], notices: ["1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"]}]`,
			ErrNoticeLimit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := EvalDeclarative(sodiumID, mustParseDocument(t, tt.doc), RoutineInstall, testInput(types.SideClient))
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrEval) {
				t.Errorf("EvalDeclarative() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
