// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpkg/mcpkg/internal/config"
)

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfg := profileConfig(t, config.PackageEntry{ID: "sodium", Version: "0.5.3", Features: []string{"extras"}})
	cfg.Repositories = []config.RepositoryEntry{{URL: "https://repo.example.com"}, {Path: "~/packages"}}
	app, stdout, _ := testApp(cfg)

	if err := runCLI(t, app, "config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	out := stdout.String()
	for _, want := range []string{
		"(using defaults)",
		"https://repo.example.com",
		"~/packages",
		"sodium@0.5.3",
		"features: extras",
		cfg.Profile.Version,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	cfg := profileConfig(t, config.PackageEntry{ID: "sodium"})
	app, stdout, _ := testApp(cfg)

	if err := runCLI(t, app, "config", "dump"); err != nil {
		t.Fatalf("config dump error = %v", err)
	}
	if got, want := stdout.String(), config.GenerateCUE(cfg); got != want {
		t.Errorf("config dump output = %q, want %q", got, want)
	}
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.cue")

	app, stdout, _ := testApp(profileConfig(t))
	if err := runCLI(t, app, "config", "init", "--path", path); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(stdout.String(), path) {
		t.Errorf("output does not name the file:\n%s", stdout.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if string(data) != config.GenerateCUE(config.DefaultConfig()) {
		t.Errorf("config file does not hold the defaults:\n%s", data)
	}

	app, _, stderr := testApp(profileConfig(t))
	err = runCLI(t, app, "config", "init", "--path", path)
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("second config init error = %v, want ErrConfigExists", err)
	}
	if !strings.Contains(stderr.String(), "--force") {
		t.Errorf("stderr does not suggest --force:\n%s", stderr.String())
	}

	app, _, _ = testApp(profileConfig(t))
	if err := runCLI(t, app, "config", "init", "--path", path, "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}
}
