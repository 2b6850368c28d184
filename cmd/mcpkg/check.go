// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/internal/registry"
	"github.com/mcpkg/mcpkg/internal/watch"
	"github.com/mcpkg/mcpkg/pkg/cueutil"
)

// checkFailures is returned by runCheck; each failure was already printed.
type checkFailures struct {
	errs  []error
	total int
}

func (e *checkFailures) Error() string {
	return fmt.Sprintf("%d of %d file(s) failed", len(e.errs), e.total)
}

func (e *checkFailures) Unwrap() []error {
	return e.errs
}

func newCheckCommand(app *App) *cobra.Command {
	var watchDir string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate package files",
		Long: `Lex, parse and validate package files without installing anything.

The format is chosen by extension: .pkg.txt for package scripts and
.pkg.cue, .pkg.json or .pkg.yaml for declarative packages.

With --watch, every package file under the directory is checked, then
re-checked whenever it changes until interrupted.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if watchDir != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if watchDir != "" {
				err = runCheckWatch(cmd.Context(), app, watchDir)
			} else {
				err = runCheck(app, args)
			}
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&watchDir, "watch", "", "check the package files under `dir` and re-check them on change")
	return cmd
}

func runCheck(app *App, paths []string) error {
	var errs []error
	for _, path := range paths {
		pkg, err := checkFile(path)
		if err != nil {
			_, _ = fmt.Fprintf(app.stdout, "%s %s\n  %s\n", errorIcon, path, ErrorStyle.Render(err.Error()))
			errs = append(errs, err)
			continue
		}
		desc := string(pkg.ContentType())
		if pkg.ID.Version != "" {
			desc += ", version " + pkg.ID.Version
		}
		_, _ = fmt.Fprintf(app.stdout, "%s %s %s\n", successIcon, path, SubtitleStyle.Render("("+desc+")"))
	}
	if len(errs) == 0 {
		return nil
	}
	return &checkFailures{errs: errs, total: len(paths)}
}

// runCheckWatch checks every package file under dir, then re-checks the
// files that change until ctx is cancelled. Check failures are reported
// and do not stop the watch.
func runCheckWatch(ctx context.Context, app *App, dir string) error {
	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := app.newLogger(cfg)

	w, err := watch.New(watch.Config{
		Dir:    dir,
		Logger: logger,
		OnChange: func(_ context.Context, changed []string) error {
			_, _ = fmt.Fprintf(app.stdout, "\n%s %s\n", infoIcon, SubtitleStyle.Render(time.Now().Format(time.TimeOnly)+" change detected"))
			_ = runCheck(app, changed)
			return nil
		},
	})
	if err != nil {
		return err
	}

	files, err := w.Files()
	if err != nil {
		return err
	}
	if len(files) > 0 {
		_ = runCheck(app, files)
	}
	_, _ = fmt.Fprintf(app.stdout, "\n%s Watching %s for package changes (Ctrl+C to stop)\n", infoIcon, w.Dir())
	return w.Run(ctx)
}

func checkFile(path string) (*eval.Package, error) {
	format, err := registry.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}
	return registry.Load(&registry.Document{
		Name:   registry.PackageName(path),
		Format: format,
		Source: path,
		Data:   data,
	})
}
