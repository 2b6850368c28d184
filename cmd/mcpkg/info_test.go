// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcpkg/mcpkg/internal/registry"
	"github.com/mcpkg/mcpkg/pkg/types"
)

const irisScript = `
@meta {
	name "Iris Shaders";
	description "A shader loader";
	long_description "Iris runs **shader packs** on top of Sodium.";
	version "1.6.11";
	authors ["coderbot", "IMS"];
	license "LGPL-3.0-only";
	website "https://irisshaders.dev";
}
@properties {
	features ["extras"];
	supported_sides [client];
	supported_modloaders [fabriclike];
	tags ["graphics"];
}
@install { }
`

func TestInfoCommand(t *testing.T) {
	t.Parallel()

	repo := writeRepo(t, map[string]string{"iris.pkg.txt": irisScript})

	for _, arg := range []string{"iris", "iris@1.6.11", "pkg:mcpkg/iris@1.6.11"} {
		t.Run(arg, func(t *testing.T) {
			t.Parallel()

			app, stdout, _ := testApp(profileConfig(t))
			if err := runCLI(t, app, "info", arg, "--repo", repo); err != nil {
				t.Fatalf("info error = %v", err)
			}

			out := stdout.String()
			for _, want := range []string{
				"Iris Shaders",
				"A shader loader",
				"pkg:mcpkg/iris@1.6.11",
				"LGPL-3.0-only",
				"coderbot, IMS",
				"https://irisshaders.dev",
				"fabriclike",
				"graphics",
				"shader packs",
			} {
				if !strings.Contains(out, want) {
					t.Errorf("output does not contain %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestInfoCommandCorePackage(t *testing.T) {
	t.Parallel()

	app, stdout, _ := testApp(profileConfig(t))
	if err := runCLI(t, app, "info", "kotlin-support"); err != nil {
		t.Fatalf("info error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Kotlin Support") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestInfoCommandNotFound(t *testing.T) {
	t.Parallel()

	app, _, _ := testApp(profileConfig(t))
	err := runCLI(t, app, "info", "nothing-here")
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("info error = %v, want ErrNotFound", err)
	}
}

func TestParseInfoRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg     string
		want    types.PkgRequest
		wantErr bool
	}{
		{"sodium", types.PkgRequest{Name: "sodium", Version: types.VersionAny}, false},
		{"sodium@0.5.3", types.PkgRequest{Name: "sodium", Version: "0.5.3"}, false},
		{"pkg:mcpkg/sodium", types.PkgRequest{Name: "sodium", Version: types.VersionAny}, false},
		{"pkg:mcpkg/sodium@0.5.3", types.PkgRequest{Name: "sodium", Version: "0.5.3"}, false},
		{"pkg:npm/sodium", types.PkgRequest{}, true},
		{"bad name", types.PkgRequest{}, true},
	}
	for _, tt := range tests {
		got, err := parseInfoRequest(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseInfoRequest(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("parseInfoRequest(%q) mismatch (-want +got):\n%s", tt.arg, diff)
		}
	}
}
