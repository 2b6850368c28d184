// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg/internal/config"
	"github.com/mcpkg/mcpkg/internal/issue"
)

// newConfigCommand creates the `mcpkg config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mcpkg configuration",
		Long: `Manage mcpkg configuration.

Configuration is read from the --config file, else from:
  - Linux: ~/.config/mcpkg/config.cue
  - macOS: ~/Library/Application Support/mcpkg/config.cue
  - Windows: %APPDATA%\mcpkg\config.cue
and finally from ./mcpkg.cue. Values can be overridden with MCPKG_*
environment variables, such as MCPKG_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := showConfig(cmd.Context(), app); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			_, _ = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	var (
		initPath  string
		initForce bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(app.stdout, initPath, initForce); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	initCmd.Flags().StringVar(&initPath, "path", "", "where to write the file (default is the user config file)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return app.fail(cmd, err)
			}
			_, _ = fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, path, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	w := app.stdout

	_, _ = fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	if path == "" {
		printField(w, "config file", SubtitleStyle.Render("(using defaults)"))
	} else {
		printField(w, "config file", path)
	}
	printField(w, "log_level", string(cfg.LogLevel))
	printField(w, "language", cfg.Language.String())
	printField(w, "lock_file", cfg.LockFile)

	_, _ = fmt.Fprintln(w, sectionStyle.Render("repositories"))
	if len(cfg.Repositories) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(built-in packages only)"))
	}
	for _, r := range cfg.Repositories {
		if r.URL != "" {
			_, _ = fmt.Fprintf(w, "  - %s\n", r.URL)
		} else {
			_, _ = fmt.Fprintf(w, "  - %s\n", r.Path)
		}
	}

	p := cfg.Profile
	_, _ = fmt.Fprintln(w, sectionStyle.Render("profile"))
	printField(w, "version", p.Version)
	printField(w, "modloader", string(p.Modloader))
	printField(w, "client_type", string(p.ClientType))
	printField(w, "server_type", string(p.ServerType))
	printField(w, "side", p.Side.String())
	printField(w, "stability", string(p.Stability))

	_, _ = fmt.Fprintln(w, sectionStyle.Render("packages"))
	if len(p.Packages) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, pkg := range p.Packages {
		line := PackageStyle.Render(pkg.ID)
		if pkg.Version != "" {
			line += "@" + pkg.Version
		}
		if len(pkg.Features) > 0 {
			line += " " + VerboseStyle.Render("features: "+strings.Join(pkg.Features, ", "))
		}
		_, _ = fmt.Fprintf(w, "  - %s\n", line)
	}
	return nil
}

func initConfig(w io.Writer, path string, force bool) error {
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := config.WriteDefault(path, force); err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, config.ErrConfigExists) {
			ctx = ctx.WithSuggestion("Use --force to overwrite it")
		}
		return ctx.BuildError()
	}

	_, _ = fmt.Fprintf(w, "%s Created default configuration at %s\n", successIcon, path)
	return nil
}
