// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcpkg/mcpkg/internal/config"
)

// staticConfig is a ConfigProvider that returns a fixed configuration.
type staticConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	return s.cfg, s.path, s.err
}

// testApp builds an App around cfg that writes to buffers.
func testApp(cfg *config.Config) (app *App, stdout, stderr *bytes.Buffer) {
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	app = NewApp(Dependencies{Config: staticConfig{cfg: cfg}, Stdout: stdout, Stderr: stderr})
	app.glamourStyle = "notty"
	return app, stdout, stderr
}

// runCLI executes the command tree of app with args.
func runCLI(t *testing.T, app *App, args ...string) error {
	t.Helper()

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(t.Context())
}

// writeRepo writes package files into a new directory repository.
func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// profileConfig returns the default configuration with packages configured.
func profileConfig(t *testing.T, packages ...config.PackageEntry) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.LockFile = filepath.Join(t.TempDir(), config.DefaultLockFile)
	cfg.Profile.Packages = packages
	return cfg
}
