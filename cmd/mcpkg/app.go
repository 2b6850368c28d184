// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg/internal/config"
	"github.com/mcpkg/mcpkg/internal/issue"
	"github.com/mcpkg/mcpkg/internal/registry"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App reference.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		// glamourStyle is the style issue guidance and long descriptions are rendered with.
		glamourStyle string
		flags        globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	globalFlags struct {
		configPath string
		verbose    bool
		repos      []string
	}

	// session is what a command works with once the configuration is loaded.
	session struct {
		cfg *config.Config
		// cfgPath is the file the configuration came from, empty for defaults.
		cfgPath  string
		logger   *log.Logger
		registry *registry.Registry
		closers  []io.Closer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:       deps.Config,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
		glamourStyle: "auto",
	}
}

// loadConfig loads the configuration selected by the global flags.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
}

// newSession loads the configuration and builds the logger and the registry.
// Callers must Close the session.
func (a *App) newSession(ctx context.Context) (*session, error) {
	cfg, cfgPath, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, cfgPath: cfgPath, logger: a.newLogger(cfg)}
	repos := []registry.Repository{registry.NewCoreRepository()}
	for _, entry := range cfg.Repositories {
		repo, err := s.openRepository(entry)
		if err != nil {
			s.Close()
			return nil, issue.NewErrorContext().
				WithOperation("open repository").
				WithResource(entry.Path + entry.URL).
				WithSuggestion("Check the repositories list of the configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
		repos = append(repos, repo)
	}
	for _, dir := range a.flags.repos {
		repos = append(repos, registry.NewDirRepository(dir))
	}

	s.registry = registry.New(repos, registry.WithLogger(s.logger))
	s.logger.Debug("session ready", "config", cfgPath, "repositories", len(repos))
	return s, nil
}

// newLogger returns a logger at the configured level, or debug with --verbose.
func (a *App) newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(string(cfg.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	if a.flags.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// fail shows err to the user and returns the ExitError the command ends with.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	a.renderError(err)
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// renderError writes err and the catalog guidance for it to stderr.
func (a *App) renderError(err error) {
	_, _ = fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("error:"), formatErrorForDisplay(err, a.flags.verbose))

	entry := issue.Get(issueFor(err))
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(a.glamourStyle)
	if renderErr != nil {
		return
	}
	_, _ = fmt.Fprint(a.stderr, rendered)
}

func (s *session) openRepository(entry config.RepositoryEntry) (registry.Repository, error) {
	if entry.URL != "" {
		repo, err := registry.NewHTTPRepository(entry.URL, registry.WithUserAgent(config.AppName+"/"+Version))
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, repo)
		return repo, nil
	}
	dir, err := entry.ExpandedPath()
	if err != nil {
		return nil, err
	}
	return registry.NewDirRepository(dir), nil
}

// Close releases the resources of the repositories.
func (s *session) Close() {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("closing repositories", "err", err)
	}
}
