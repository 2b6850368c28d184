// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg/internal/issue"
	"github.com/mcpkg/mcpkg/internal/lock"
	"github.com/mcpkg/mcpkg/internal/registry"
	"github.com/mcpkg/mcpkg/internal/resolve"
	"github.com/mcpkg/mcpkg/pkg/types"
)

func newResolveCommand(app *App) *cobra.Command {
	var writeLock bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the packages of the configured profile",
		Long: `Resolve the packages of the configured profile.

Every configured package is evaluated together with the packages it
depends on, and the install order is printed. Recommendations that
nothing installs are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runResolve(cmd.Context(), app, writeLock); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeLock, "lock", false, "write the resolved packages to the lock file")
	return cmd
}

func runResolve(ctx context.Context, app *App, writeLock bool) error {
	s, err := app.newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	if res == nil {
		printNoPackages(app.stdout)
		return nil
	}

	printResolution(app.stdout, res)

	if !writeLock {
		return nil
	}
	return s.updateLock(app.stdout, func(lf *lock.Lockfile) {
		added, removed := lf.UpdatePackages(lockPackages(res))
		for _, name := range added {
			_, _ = fmt.Fprintf(app.stdout, "  %s %s\n", SuccessStyle.Render("+"), name)
		}
		for _, name := range removed {
			_, _ = fmt.Fprintf(app.stdout, "  %s %s\n", ErrorStyle.Render("-"), name)
		}
	})
}

// resolve resolves the configured profile. It returns nil without error
// when the profile has no packages.
func (s *session) resolve(ctx context.Context) (*resolve.Result, error) {
	roots, err := s.cfg.ConfiguredPackages()
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, nil
	}

	reqs := make([]types.PkgRequest, len(roots))
	for i, root := range roots {
		reqs[i] = root.Request
	}
	if err := s.registry.Prefetch(ctx, reqs, registry.DefaultPrefetchLimit); err != nil {
		return nil, resolveError(err)
	}

	res, err := resolve.Resolve(ctx, roots, s.cfg.EvalConstants(), s.cfg.DefaultParameters(), s.registry, resolve.WithLogger(s.logger))
	if err != nil {
		return nil, resolveError(err)
	}
	return res, nil
}

// updateLock loads the lock file, lets update change it and saves it.
func (s *session) updateLock(w io.Writer, update func(*lock.Lockfile)) error {
	path, err := s.cfg.LockFilePath()
	if err != nil {
		return err
	}
	lf, err := lock.Load(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read lock file").
			WithResource(path).
			WithSuggestion("Delete the lock file and run 'mcpkg resolve --lock' again").
			Wrap(err).
			BuildError()
	}

	update(lf)

	if err := lf.Save(path); err != nil {
		return issue.WrapWithContext(err, "write lock file", path)
	}
	_, _ = fmt.Fprintf(w, "%s Wrote %s\n", successIcon, path)
	return nil
}

func resolveError(err error) error {
	return issue.NewErrorContext().
		WithOperation("resolve profile").
		WithSuggestion("Run with --verbose to see which packages were evaluated").
		Wrap(err).
		BuildError()
}

func lockPackages(res *resolve.Result) []lock.Package {
	out := make([]lock.Package, len(res.Packages))
	for i, r := range res.Packages {
		out[i] = lock.Package{
			Name:        r.Package.ID.Name,
			Version:     r.Package.ID.Version,
			ContentType: string(r.Package.ContentType()),
		}
	}
	return out
}

func printNoPackages(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s No packages configured\n", infoIcon)
	_, _ = fmt.Fprintf(w, "  Add packages to %s in the configuration\n", PackageStyle.Render("profile.packages"))
}

func printResolution(w io.Writer, res *resolve.Result) {
	_, _ = fmt.Fprintln(w, TitleStyle.Render("Install order"))
	for i, r := range res.Packages {
		line := fmt.Sprintf("%3d. %s", i+1, PackageStyle.Render(r.Package.ID.Name))
		if r.Package.ID.Version != "" {
			line += " " + r.Package.ID.Version
		}
		if r.Root {
			line += " " + SubtitleStyle.Render("(configured)")
		}
		if len(r.Params.Features) > 0 {
			line += " " + VerboseStyle.Render(fmt.Sprintf("%v", r.Params.Features))
		}
		_, _ = fmt.Fprintln(w, line)
	}

	if len(res.Compats) > 0 || len(res.Extensions) > 0 {
		_, _ = fmt.Fprintln(w, sectionStyle.Render("Integrations"))
		for _, c := range res.Compats {
			_, _ = fmt.Fprintf(w, "  %s %s makes %s work with %s\n", infoIcon, PackageStyle.Render(c.CompatPackage), c.Package, c.Source)
		}
		for _, e := range res.Extensions {
			_, _ = fmt.Fprintf(w, "  %s %s extends %s\n", infoIcon, PackageStyle.Render(e.Package), e.Extends)
		}
	}

	if len(res.UnfulfilledRecommendations) > 0 {
		_, _ = fmt.Fprintln(w, sectionStyle.Render("Warnings"))
		for _, rec := range res.UnfulfilledRecommendations {
			_, _ = fmt.Fprintf(w, "  %s %s recommends %s, which is not installed\n",
				warningIcon, rec.RecommendedBy, WarningStyle.Render(rec.Package))
		}
	}
}
