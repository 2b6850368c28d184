// SPDX-License-Identifier: MPL-2.0

// Package resolve computes the full set of packages a profile installs and
// the order to install them in.
//
// Resolution walks the dependency graph depth-first from the configured
// packages, evaluating each package's install routine at resolve level
// exactly once. Dependency groups pick one alternative; conflicts, cycles
// and unsatisfiable groups fail the whole resolution. Recommendations that
// nothing installs are reported but do not fail.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/mcpkg/mcpkg/internal/dag"
	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/internal/registry"
	"github.com/mcpkg/mcpkg/pkg/pkgmeta"
	"github.com/mcpkg/mcpkg/pkg/types"
)

type (
	// Registry loads packages by request.
	Registry interface {
		// Package returns the package matching req. It returns an error
		// matching registry.ErrNotFound when no repository has it.
		Package(ctx context.Context, req types.PkgRequest) (*eval.Package, error)
	}

	// ConfiguredPackage is a package the user asked for, with its settings.
	// Empty Permissions and Stability use the resolution defaults.
	ConfiguredPackage struct {
		Request            types.PkgRequest
		Features           []string
		UseDefaultFeatures bool
		Permissions        types.Permissions
		Stability          types.Stability
	}

	// Resolved is a package that is part of the result.
	Resolved struct {
		Package *eval.Package
		// Params are the parameters the package was evaluated with.
		Params eval.Parameters
		// Root is true for configured packages.
		Root bool
		// Data is the resolve level evaluation of the package.
		Data *eval.Data
	}

	// Recommendation is a recommended package that the result does not include.
	Recommendation struct {
		Package       string
		RecommendedBy string
	}

	// Compat records that CompatPackage makes Package work with Source.
	Compat struct {
		Source        string
		Package       string
		CompatPackage string
	}

	// Extension records that Package extends Extends.
	Extension struct {
		Package string
		Extends string
	}

	// Result is the outcome of a successful resolution.
	Result struct {
		// Packages are in install order: every package comes after its
		// dependencies.
		Packages                   []Resolved
		UnfulfilledRecommendations []Recommendation
		Compats                    []Compat
		Extensions                 []Extension
	}

	// Option configures a resolution.
	Option func(*resolver)

	resolver struct {
		ctx       context.Context
		constants *eval.Constants
		defaults  eval.Parameters
		registry  Registry
		logger    *log.Logger

		roots map[string]*ConfiguredPackage

		visited    map[string]*Resolved
		inProgress map[string]bool
		stack      []string
		// refused maps a refused package to the first package refusing it.
		refused map[string]string
		graph   *dag.Graph

		recommendations []Recommendation
		compats         []Compat
		extensions      []Extension
	}
)

// WithLogger sets the logger used for debug and warning output.
func WithLogger(logger *log.Logger) Option {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolve resolves roots and every package they pull in. Identical inputs
// give identical results. Cancelling ctx stops the resolution before the
// next package is evaluated.
func Resolve(ctx context.Context, roots []ConfiguredPackage, constants *eval.Constants, defaults eval.Parameters, reg Registry, opts ...Option) (*Result, error) {
	r := &resolver{
		ctx:        ctx,
		constants:  constants,
		defaults:   defaults,
		registry:   reg,
		logger:     log.New(io.Discard),
		roots:      make(map[string]*ConfiguredPackage, len(roots)),
		visited:    make(map[string]*Resolved),
		inProgress: make(map[string]bool),
		refused:    make(map[string]string),
		graph:      dag.New(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for i := range roots {
		root := &roots[i]
		if _, ok := r.roots[root.Request.Name]; !ok {
			r.roots[root.Request.Name] = root
		}
	}

	for i := range roots {
		if err := r.visit(roots[i].Request, ""); err != nil {
			return nil, err
		}
	}

	return r.result()
}

// visit loads, evaluates and recursively resolves a package. from is the
// package that pulled it in, empty for roots.
func (r *resolver) visit(req types.PkgRequest, from string) error {
	name := req.Name
	if r.inProgress[name] {
		start := slices.Index(r.stack, name)
		path := append(slices.Clone(r.stack[start:]), name)
		return &CycleError{Path: path}
	}
	if res, ok := r.visited[name]; ok {
		if err := checkVersion(req, res.Package, from); err != nil {
			return err
		}
		r.logger.Debug("reusing resolved package", "package", name, "from", from)
		return nil
	}
	if by, ok := r.refused[name]; ok {
		return &ConflictError{Package: name, RefusedBy: by}
	}
	if err := r.ctx.Err(); err != nil {
		return err
	}

	// The package is loaded without a version so that a mismatch is
	// reported the same way whichever request reaches it first.
	pkg, err := r.registry.Package(r.ctx, types.NewPkgRequest(name))
	if err != nil {
		return &PackageError{Package: name, Err: err}
	}
	if err := checkVersion(req, pkg, from); err != nil {
		return err
	}
	root := r.roots[name]
	if root != nil && from != "" {
		if err := checkVersion(root.Request, pkg, ""); err != nil {
			return err
		}
	}
	params, err := r.params(pkg, root)
	if err != nil {
		return &PackageError{Package: name, Err: err}
	}

	data, err := eval.Evaluate(pkg, eval.RoutineInstallResolve, eval.Input{Constants: r.constants, Params: params})
	if err != nil {
		return &PackageError{Package: name, Err: err}
	}
	r.logger.Debug("evaluated package", "package", pkg.ID.String(), "from", from, "groups", len(data.Deps))

	r.inProgress[name] = true
	r.stack = append(r.stack, name)
	r.graph.AddNode(name)

	for _, refused := range data.Conflicts {
		if r.included(refused) {
			return &ConflictError{Package: refused, RefusedBy: name}
		}
		if _, ok := r.refused[refused]; !ok {
			r.refused[refused] = name
		}
	}

	for _, group := range data.Deps {
		dep, err := r.choose(group, name)
		if err != nil {
			return err
		}
		if err := r.visit(dep, name); err != nil {
			return err
		}
		r.graph.AddEdge(dep.Name, name)
	}

	for _, bundled := range data.Bundled {
		dep, err := parseRequest(bundled, name)
		if err != nil {
			return err
		}
		if err := r.visit(dep, name); err != nil {
			return err
		}
		r.graph.AddEdge(dep.Name, name)
	}

	for _, rec := range data.Recommendations {
		r.recommendations = append(r.recommendations, Recommendation{Package: rec, RecommendedBy: name})
	}
	for _, c := range data.Compats {
		r.compats = append(r.compats, Compat{Source: name, Package: c.Package, CompatPackage: c.CompatPackage})
	}
	for _, ext := range data.Extensions {
		r.extensions = append(r.extensions, Extension{Package: name, Extends: ext})
	}

	r.stack = r.stack[:len(r.stack)-1]
	delete(r.inProgress, name)
	r.visited[name] = &Resolved{Package: pkg, Params: params, Root: root != nil, Data: data}
	return nil
}

// choose picks the alternative of a dependency group to install: one that
// is already resolved at a matching version, else one that is configured,
// else the first one the registry has. An alternative on the current path
// closes a cycle and is only chosen when nothing else can be.
func (r *resolver) choose(group []eval.RequiredPackage, by string) (types.PkgRequest, error) {
	reqs := make([]types.PkgRequest, 0, len(group))
	names := make([]string, 0, len(group))
	var cyclic *types.PkgRequest
	for _, alt := range group {
		req, err := parseRequest(alt.Value, by)
		if err != nil {
			return types.PkgRequest{}, err
		}
		reqs = append(reqs, req)
		names = append(names, req.Name)
	}
	for i := range reqs {
		if r.inProgress[reqs[i].Name] {
			cyclic = &reqs[i]
			break
		}
	}

	for _, req := range reqs {
		if res, ok := r.visited[req.Name]; ok && versionMatches(req.Version, res.Package.ID.Version) {
			return req, nil
		}
	}
	for _, req := range reqs {
		if r.roots[req.Name] != nil && !r.inProgress[req.Name] {
			return req, nil
		}
	}

	if len(reqs) == 1 && !group[0].Explicit && cyclic == nil {
		if _, refused := r.refused[reqs[0].Name]; !refused {
			return reqs[0], nil
		}
	}

	var (
		explicit     string
		firstRefused string
		refused      int
	)
	for i, req := range reqs {
		if group[i].Explicit {
			if explicit == "" {
				explicit = req.Name
			}
			continue
		}
		if _, ok := r.refused[req.Name]; ok {
			if refused == 0 {
				firstRefused = req.Name
			}
			refused++
			continue
		}
		if r.inProgress[req.Name] {
			continue
		}
		_, err := r.registry.Package(r.ctx, req)
		if errors.Is(err, registry.ErrNotFound) {
			r.logger.Debug("alternative not found", "package", req.Name, "required_by", by)
			continue
		}
		if err != nil {
			return types.PkgRequest{}, &PackageError{Package: req.Name, Err: err}
		}
		if len(reqs) > 1 {
			r.logger.Debug("chose alternative", "package", req.Name, "required_by", by, "alternatives", names)
		}
		return req, nil
	}

	switch {
	case cyclic != nil:
		return *cyclic, nil
	case refused == len(reqs):
		return types.PkgRequest{}, &ConflictError{Package: firstRefused, RefusedBy: r.refused[firstRefused]}
	case explicit != "":
		return types.PkgRequest{}, &ExplicitDependencyError{Package: explicit, RequiredBy: by}
	}
	return types.PkgRequest{}, &UnsatisfiableError{Package: by, Alternatives: names}
}

// params computes the evaluation parameters of a package. Configured
// packages override the defaults; other packages use their default features.
func (r *resolver) params(pkg *eval.Package, root *ConfiguredPackage) (eval.Parameters, error) {
	props := pkg.Properties
	if props == nil {
		props = &pkgmeta.Properties{}
	}

	params := r.defaults
	cfg := eval.FeatureConfig{UseDefaultFeatures: true}
	if root != nil {
		cfg = eval.FeatureConfig{Features: root.Features, UseDefaultFeatures: root.UseDefaultFeatures}
		if root.Permissions != "" {
			params.Permissions = root.Permissions
		}
		if root.Stability != "" {
			params.Stability = root.Stability
		}
	}

	features, err := eval.CalculateFeatures(cfg, props)
	if err != nil {
		return eval.Parameters{}, err
	}
	params.Features = features
	return params, nil
}

// checkVersion reports a VersionMismatchError when pkg does not satisfy the
// version pattern of req.
func checkVersion(req types.PkgRequest, pkg *eval.Package, by string) error {
	if versionMatches(req.Version, pkg.ID.Version) {
		return nil
	}
	return &VersionMismatchError{Package: req.Name, Pattern: req.Version.String(), Version: pkg.ID.Version, RequiredBy: by}
}

// versionMatches applies a request pattern to the single version a package
// declares. "*" and "latest" accept any version.
func versionMatches(p types.VersionPattern, version string) bool {
	if p.IsAny() || p == types.VersionLatest {
		return true
	}
	return p.Matches(version, []string{version})
}

func (r *resolver) included(name string) bool {
	_, ok := r.visited[name]
	return ok || r.inProgress[name]
}

func (r *resolver) result() (*Result, error) {
	order, err := r.graph.Sort()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, &CycleError{Path: cycleErr.Nodes}
		}
		return nil, err
	}

	res := &Result{
		Packages:   make([]Resolved, 0, len(order)),
		Compats:    r.compats,
		Extensions: r.extensions,
	}
	for _, name := range order {
		res.Packages = append(res.Packages, *r.visited[name])
	}

	seen := make(map[string]bool)
	for _, rec := range r.recommendations {
		if seen[rec.Package] || r.visited[rec.Package] != nil {
			continue
		}
		seen[rec.Package] = true
		res.UnfulfilledRecommendations = append(res.UnfulfilledRecommendations, rec)
		r.logger.Warn("recommended package is not installed", "package", rec.Package, "recommended_by", rec.RecommendedBy)
	}
	for _, ext := range r.extensions {
		if r.visited[ext.Extends] == nil {
			r.logger.Warn("extended package is not installed", "package", ext.Package, "extends", ext.Extends)
		}
	}
	return res, nil
}

// Names returns the package names of the result in install order.
func (res *Result) Names() []string {
	names := make([]string, len(res.Packages))
	for i := range res.Packages {
		names[i] = res.Packages[i].Package.ID.Name
	}
	return names
}

func parseRequest(value, by string) (types.PkgRequest, error) {
	req, err := types.ParsePkgRequest(value)
	if err != nil {
		return types.PkgRequest{}, &PackageError{Package: by, Err: fmt.Errorf("invalid relation: %w", err)}
	}
	return req, nil
}
