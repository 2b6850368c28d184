// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"

	"github.com/mcpkg/mcpkg/internal/addon"
	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/internal/issue"
	"github.com/mcpkg/mcpkg/internal/lock"
)

type (
	// installPlan is the install level evaluation of a resolved profile.
	installPlan struct {
		Packages []packagePlan
		Addons   []addon.Request
	}

	packagePlan struct {
		Name     string
		Notices  []string
		Commands [][]string
	}
)

func newPlanCommand(app *App) *cobra.Command {
	var writeLock bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what installing the configured profile does",
		Long: `Resolve the configured profile, then evaluate the install routine of
every package in install order and print the addon files to fetch, the
notices for the user and the commands to run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runPlan(cmd.Context(), app, writeLock); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeLock, "lock", false, "write the packages and addons to the lock file")
	return cmd
}

func runPlan(ctx context.Context, app *App, writeLock bool) error {
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

	constants := s.cfg.EvalConstants()
	queue := addon.NewQueue()
	plan := &installPlan{}
	for _, r := range res.Packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := eval.Evaluate(r.Package, eval.RoutineInstall, eval.Input{
			Constants: constants,
			Params:    r.Params,
			Queue:     queue,
		})
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("plan install").
				WithResource(r.Package.ID.String()).
				Wrap(err).
				BuildError()
		}
		s.logger.Debug("package planned", "package", r.Package.ID.Name,
			"addons", len(data.AddonRequests), "notices", len(data.Notices), "commands", len(data.Commands))
		plan.Packages = append(plan.Packages, packagePlan{
			Name:     r.Package.ID.Name,
			Notices:  data.Notices,
			Commands: data.Commands,
		})
	}
	plan.Addons = queue.Drain()

	if err := printPlan(app.stdout, plan); err != nil {
		return err
	}

	if !writeLock {
		return nil
	}
	return s.updateLock(app.stdout, func(lf *lock.Lockfile) {
		lf.UpdatePackages(lockPackages(res))
		lf.SetAddons(plan.Addons)
	})
}

func printPlan(w io.Writer, plan *installPlan) error {
	_, _ = fmt.Fprintln(w, TitleStyle.Render("Addons"))
	if len(plan.Addons) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, req := range plan.Addons {
		a := req.Addon
		name := a.ID
		if a.Version != "" {
			name += "@" + a.Version
		}
		_, _ = fmt.Fprintf(w, "  %s %s %s %s\n", infoIcon, PackageStyle.Render(a.Package.Name), name, SubtitleStyle.Render("("+string(a.Kind)+")"))
		_, _ = fmt.Fprintf(w, "      %s -> %s\n", VerboseStyle.Render(req.Location.String()), a.FileName)
	}

	var notices, commands []string
	for _, p := range plan.Packages {
		for _, n := range p.Notices {
			notices = append(notices, fmt.Sprintf("  %s %s: %s", warningIcon, PackageStyle.Render(p.Name), n))
		}
		for _, c := range p.Commands {
			line, err := quoteCommand(c)
			if err != nil {
				return fmt.Errorf("package %s: %w", p.Name, err)
			}
			commands = append(commands, fmt.Sprintf("  %s %s", SubtitleStyle.Render("$"), line))
		}
	}

	if len(notices) > 0 {
		_, _ = fmt.Fprintln(w, sectionStyle.Render("Notices"))
		_, _ = fmt.Fprintln(w, strings.Join(notices, "\n"))
	}
	if len(commands) > 0 {
		_, _ = fmt.Fprintln(w, sectionStyle.Render("Commands"))
		_, _ = fmt.Fprintln(w, strings.Join(commands, "\n"))
	}
	return nil
}

// quoteCommand renders argv as a single line that bash splits back into
// the same arguments.
func quoteCommand(argv []string) (string, error) {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("cannot quote argument %q: %w", arg, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}
