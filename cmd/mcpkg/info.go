// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/internal/issue"
	"github.com/mcpkg/mcpkg/pkg/types"
)

func newInfoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>",
		Short: "Show package metadata and properties",
		Long: `Show the metadata and properties of a package.

The package is given as name, name@version or as a package URL
(pkg:mcpkg/name@version). Repositories are searched in the configured
order after the built-in packages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runInfo(cmd.Context(), app, args[0]); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}

func runInfo(ctx context.Context, app *App, arg string) error {
	req, err := parseInfoRequest(arg)
	if err != nil {
		return err
	}

	s, err := app.newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	pkg, err := s.registry.Package(ctx, req)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("look up package").
			WithResource(req.String()).
			Wrap(err).
			BuildError()
	}
	return printInfo(app.stdout, pkg, app.glamourStyle)
}

// parseInfoRequest accepts a package request or a package URL.
func parseInfoRequest(arg string) (types.PkgRequest, error) {
	if !strings.HasPrefix(arg, "pkg:") {
		return types.ParsePkgRequest(arg)
	}
	id, err := types.ParsePURL(arg)
	if err != nil {
		return types.PkgRequest{}, err
	}
	req := types.NewPkgRequest(id.Name)
	if id.Version != "" {
		req.Version = types.VersionPattern(id.Version)
	}
	return req, nil
}

func printInfo(w io.Writer, pkg *eval.Package, style string) error {
	meta := pkg.Metadata
	_, _ = fmt.Fprintln(w, TitleStyle.Render(meta.DisplayName(pkg.ID.Name)))
	if meta.Description != "" {
		_, _ = fmt.Fprintln(w, SubtitleStyle.Render(meta.Description))
	}

	_, _ = fmt.Fprintln(w, sectionStyle.Render("Package"))
	printField(w, "id", pkg.ID.Name)
	printField(w, "version", pkg.ID.Version)
	printField(w, "purl", pkg.ID.PURL())
	printField(w, "content", string(pkg.ContentType()))
	printField(w, "license", meta.License)
	printField(w, "authors", strings.Join(meta.Authors, ", "))
	printField(w, "package maintainers", strings.Join(meta.PackageMaintainers, ", "))
	printField(w, "website", meta.Website)
	printField(w, "documentation", meta.Documentation)
	printField(w, "source", meta.Source)
	printField(w, "issues", meta.Issues)
	printField(w, "support", meta.SupportLink)
	printField(w, "community", meta.Community)

	if props := pkg.Properties; props != nil {
		_, _ = fmt.Fprintln(w, sectionStyle.Render("Properties"))
		printField(w, "features", strings.Join(props.Features, ", "))
		printField(w, "default features", strings.Join(props.DefaultFeatures, ", "))
		printField(w, "versions", joinValues(props.SupportedVersions))
		printField(w, "modloaders", joinValues(props.SupportedModloaders))
		printField(w, "plugin loaders", joinValues(props.SupportedPluginLoaders))
		printField(w, "sides", joinValues(props.SupportedSides))
		printField(w, "tags", strings.Join(props.Tags, ", "))
		printField(w, "modrinth", props.ModrinthID)
		printField(w, "curseforge", props.CurseForgeID)
		if props.OpenSource != nil {
			printField(w, "open source", fmt.Sprintf("%t", *props.OpenSource))
		}
	}

	if meta.LongDescription != "" {
		rendered, err := glamour.Render(meta.LongDescription, style)
		if err != nil {
			return fmt.Errorf("failed to render description: %w", err)
		}
		_, _ = fmt.Fprint(w, rendered)
	}
	return nil
}

func printField(w io.Writer, key, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "  %s%s\n", keyStyle.Render(key), value)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
