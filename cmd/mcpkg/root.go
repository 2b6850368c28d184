// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg/internal/issue"
	"github.com/mcpkg/mcpkg/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the mcpkg command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcpkg",
		Short: "A package manager for game mods",
		Long: TitleStyle.Render("mcpkg") + SubtitleStyle.Render(" - A package manager for game mods") + `

mcpkg resolves the packages of a game profile, including their
dependencies, and plans the addon files, notices and commands
needed to install them.

Packages are written as package scripts (.pkg.txt) or declarative
documents (.pkg.cue, .pkg.json, .pkg.yaml) and served by directory
or HTTP repositories.

` + SubtitleStyle.Render("Examples:") + `
  mcpkg resolve             Resolve the configured profile
  mcpkg resolve --lock      Resolve and write the lock file
  mcpkg plan                Show what installing the profile does
  mcpkg check sodium.pkg.txt
                            Validate a package file
  mcpkg info sodium         Show package metadata
  mcpkg config init         Create the default configuration`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/mcpkg/config.cue)")
	flags.StringSliceVar(&app.flags.repos, "repo", nil, "additional package repository directory (repeatable)")

	rootCmd.AddCommand(
		newResolveCommand(app),
		newPlanCommand(app),
		newCheckCommand(app),
		newInfoCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
