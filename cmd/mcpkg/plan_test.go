// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcpkg/mcpkg/internal/config"
	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/internal/lock"
	"github.com/mcpkg/mcpkg/pkg/types"
)

const shadersScript = `
@meta { version "1.2"; }
@install {
	require "sodium";
	notice "Restart the game after installing";
	addon "shaders" shader {
		url "https://example.com/shaders.zip";
		version "1.2";
		sha256 "ab12";
	}
	cmd "echo", "hello world";
}
`

func planRepo(t *testing.T) string {
	t.Helper()

	return writeRepo(t, map[string]string{
		"shaders.pkg.txt": shadersScript,
		"sodium.pkg.txt":  `@meta { version "0.5.3"; } @install { addon "sodium" mod { url "https://example.com/sodium.jar"; } }`,
	})
}

func TestPlanCommand(t *testing.T) {
	t.Parallel()

	app, stdout, _ := testApp(profileConfig(t, config.PackageEntry{ID: "shaders", Permissions: types.PermissionsElevated}))
	if err := runCLI(t, app, "plan", "--repo", planRepo(t)); err != nil {
		t.Fatalf("plan error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"https://example.com/sodium.jar",
		"https://example.com/shaders.zip",
		"mcpkg_shaders_shaders.zip",
		"shaders@1.2",
		"Restart the game after installing",
		"echo 'hello world'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "sodium.jar") > strings.Index(out, "shaders.zip") {
		t.Errorf("addons are not in install order:\n%s", out)
	}
}

func TestPlanCommandLock(t *testing.T) {
	t.Parallel()

	cfg := profileConfig(t, config.PackageEntry{ID: "shaders", Permissions: types.PermissionsElevated})
	app, _, _ := testApp(cfg)
	if err := runCLI(t, app, "plan", "--lock", "--repo", planRepo(t)); err != nil {
		t.Fatalf("plan --lock error = %v", err)
	}

	lf, err := lock.Load(cfg.LockFile)
	if err != nil {
		t.Fatalf("lock.Load() error = %v", err)
	}
	want := []lock.Addon{
		{ID: "sodium", Package: "sodium", Kind: "mod", FileName: "mcpkg_sodium_sodium.jar", URL: "https://example.com/sodium.jar"},
		{ID: "shaders", Package: "shaders", Kind: "shader", FileName: "mcpkg_shaders_shaders.zip", Version: "1.2", URL: "https://example.com/shaders.zip", SHA256: "ab12"},
	}
	if diff := cmp.Diff(want, lf.Addons); diff != "" {
		t.Errorf("locked addons mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"sodium", "shaders"}, lockedNames(lf)); diff != "" {
		t.Errorf("locked packages mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanCommandPermissionDenied(t *testing.T) {
	t.Parallel()

	app, _, stderr := testApp(profileConfig(t, config.PackageEntry{ID: "shaders"}))
	err := runCLI(t, app, "plan", "--repo", planRepo(t))
	if !errors.Is(err, eval.ErrPermissionDenied) {
		t.Fatalf("plan error = %v, want ErrPermissionDenied", err)
	}
	if !strings.Contains(stderr.String(), "permissions") {
		t.Errorf("stderr does not explain the permission problem:\n%s", stderr.String())
	}
}

func TestQuoteCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		argv []string
		want string
	}{
		{[]string{"echo", "hi"}, "echo hi"},
		{[]string{"echo", "hello world"}, "echo 'hello world'"},
		{[]string{"echo", "it's"}, `echo 'it'\''s'`},
		{[]string{"true", ""}, "true ''"},
	}
	for _, tt := range tests {
		got, err := quoteCommand(tt.argv)
		if err != nil {
			t.Errorf("quoteCommand(%q) error = %v", tt.argv, err)
			continue
		}
		if got != tt.want {
			t.Errorf("quoteCommand(%q) = %q, want %q", tt.argv, got, tt.want)
		}
	}
}

func lockedNames(lf *lock.Lockfile) []string {
	names := make([]string, len(lf.Packages))
	for i, p := range lf.Packages {
		names[i] = p.Name
	}
	return names
}
