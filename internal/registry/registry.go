// SPDX-License-Identifier: MPL-2.0

// Package registry finds package documents in an ordered list of
// repositories and turns them into evaluable packages.
//
// Every package is fetched and parsed at most once per Registry. Concurrent
// requests for the same package share one fetch, and Prefetch loads many
// packages in parallel so that resolution itself rarely waits on I/O.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
	"github.com/mcpkg/mcpkg/pkg/pkgmeta"
	"github.com/mcpkg/mcpkg/pkg/pkgscript"
	"github.com/mcpkg/mcpkg/pkg/types"
)

// DefaultPrefetchLimit is the number of packages Prefetch loads at once
// when no limit is given.
const DefaultPrefetchLimit = 8

type (
	// Registry loads packages from repositories, first match wins. It is
	// safe for concurrent use.
	Registry struct {
		repos  []Repository
		logger *log.Logger
		loads  singleflight.Group

		mu       sync.Mutex
		packages map[string]*eval.Package
		missing  map[string]bool
	}

	// Option configures a Registry.
	Option func(*Registry)
)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a registry that searches repos in order.
func New(repos []Repository, opts ...Option) *Registry {
	r := &Registry{
		repos:    repos,
		logger:   log.New(io.Discard),
		packages: make(map[string]*eval.Package),
		missing:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Repositories returns the repositories in search order.
func (r *Registry) Repositories() []Repository {
	return r.repos
}

// Package returns the package matching req. A version pattern other than
// "*" or "latest" must match the version the package declares.
func (r *Registry) Package(ctx context.Context, req types.PkgRequest) (*eval.Package, error) {
	pkg, err := r.load(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if !req.Version.IsAny() && req.Version != types.VersionLatest {
		if !req.Version.Matches(pkg.ID.Version, []string{pkg.ID.Version}) {
			return nil, &NotFoundError{Name: req.Name, Version: req.Version.String()}
		}
	}
	return pkg, nil
}

// Prefetch loads packages concurrently, at most limit at a time. Packages
// that do not exist are ignored; any other failure cancels the rest.
func (r *Registry) Prefetch(ctx context.Context, reqs []types.PkgRequest, limit int) error {
	if limit <= 0 {
		limit = DefaultPrefetchLimit
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, req := range reqs {
		g.Go(func() error {
			_, err := r.load(ctx, req.Name)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

func (r *Registry) load(ctx context.Context, name string) (*eval.Package, error) {
	if pkg, ok, err := r.cached(name); ok {
		r.logger.Debug("package cache hit", "package", name)
		return pkg, err
	}

	// The shared fetch is detached from ctx so that one caller giving up
	// does not fail the others waiting on it. Each caller still returns as
	// soon as its own ctx is done.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.loads.DoChan(name, func() (any, error) {
		// A load that finished between the check above and this call has
		// already filled the cache.
		if pkg, ok, err := r.cached(name); ok {
			return pkg, err
		}
		pkg, err := r.fetch(fetchCtx, name)

		r.mu.Lock()
		defer r.mu.Unlock()
		switch {
		case err == nil:
			r.packages[name] = pkg
		case errors.Is(err, ErrNotFound):
			r.missing[name] = true
		}
		return pkg, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*eval.Package), nil
	}
}

// cached returns the cached outcome of loading name, or false when name has
// not been loaded yet.
func (r *Registry) cached(name string) (*eval.Package, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pkg, ok := r.packages[name]; ok {
		return pkg, true, nil
	}
	if r.missing[name] {
		return nil, true, &NotFoundError{Name: name}
	}
	return nil, false, nil
}

func (r *Registry) fetch(ctx context.Context, name string) (*eval.Package, error) {
	for _, repo := range r.repos {
		doc, err := repo.Fetch(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("repository %s: %w", repo.Name(), err)
		}
		r.logger.Debug("fetched package", "package", name, "repository", repo.Name(), "format", doc.Format)
		return Load(doc)
	}
	return nil, &NotFoundError{Name: name}
}

// Load parses a document into a package, reading its metadata and
// properties. The package version is the version its metadata declares.
func Load(doc *Document) (*eval.Package, error) {
	invalid := func(err error) error {
		return &InvalidPackageError{Name: doc.Name, Source: doc.Source, Err: err}
	}

	pkg := &eval.Package{}
	var (
		meta  *pkgmeta.Metadata
		props *pkgmeta.Properties
	)
	if doc.Format.IsDeclarative() {
		d, err := pkgdecl.Parse(doc.Data, pkgdecl.Format(doc.Format), doc.Source)
		if err != nil {
			return nil, invalid(err)
		}
		pkg.Declarative = d
		meta, props = &d.Meta, &d.Properties
	} else {
		parsed, err := pkgscript.Parse(string(doc.Data))
		if err != nil {
			return nil, invalid(err)
		}
		if meta, err = pkgscript.Metadata(parsed); err != nil {
			return nil, invalid(err)
		}
		if props, err = pkgscript.Properties(parsed); err != nil {
			return nil, invalid(err)
		}
		pkg.Script = parsed
	}

	if err := meta.Validate(); err != nil {
		return nil, invalid(err)
	}
	pkg.ID = types.PkgIdentifier{Name: doc.Name, Version: meta.Version}
	pkg.Metadata = meta
	pkg.Properties = props
	return pkg, nil
}
