// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"github.com/mcpkg/mcpkg/internal/addon"
	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
	"github.com/mcpkg/mcpkg/pkg/types"
)

// EvalDeclarative evaluates a declarative document into the same Data a
// script with equivalent instructions would produce. The base relations come
// first, then every conditional rule whose conditions match, then the first
// matching version of each addon.
func EvalDeclarative(id types.PkgIdentifier, doc *pkgdecl.Package, routine Routine, in Input) (*Data, error) {
	level := routine.Level()
	data := NewData()
	fail := func(err error) error {
		return &EvalError{Package: id.Name, Err: err}
	}

	if level == LevelResolve {
		data.addRelations(&doc.Relations)
	}

	for i := range doc.ConditionalRules {
		rule := &doc.ConditionalRules[i]
		if !matchAll(rule.Conditions, &in) {
			continue
		}
		if level == LevelResolve {
			data.addRelations(&rule.Relations)
		}
		for _, notice := range rule.Notices {
			if err := data.addNotice(notice); err != nil {
				return nil, fail(err)
			}
		}
	}

	for i := range doc.Addons {
		a := &doc.Addons[i]
		version := selectVersion(a, &in)
		if version == nil {
			continue
		}

		for _, notice := range version.Notices {
			if err := data.addNotice(notice); err != nil {
				return nil, fail(err)
			}
		}

		if level == LevelResolve {
			data.addRelations(&version.Relations)
			continue
		}

		if data.hasAddon(a.ID) {
			return nil, fail(errorf(ErrInvalidAddon, "duplicate addon id %q", a.ID))
		}
		req, err := newAddonRequest(addonArgs{
			ID:       a.ID,
			Kind:     a.Kind,
			FileName: version.FileName,
			URL:      version.URL,
			Path:     version.Path,
			Version:  version.Version,
			Hashes:   addon.Hashes{SHA256: version.SHA256, SHA512: version.SHA512},
		}, id, &in.Params)
		if err != nil {
			return nil, fail(err)
		}
		data.AddonRequests = append(data.AddonRequests, req)
	}

	if level == LevelInstall && in.Queue != nil {
		in.Queue.Push(data.AddonRequests...)
	}
	return data, nil
}

// selectVersion returns the first version of a whose conditions match, or nil.
func selectVersion(a *pkgdecl.Addon, in *Input) *pkgdecl.AddonVersion {
	for i := range a.Versions {
		if matchAll(a.Versions[i].Conditions, in) {
			return &a.Versions[i]
		}
	}
	return nil
}

// addRelations merges declarative relations. Explicit dependencies become
// single-alternative groups.
func (d *Data) addRelations(r *pkgdecl.Relations) {
	for _, group := range r.Dependencies {
		alts := make([]RequiredPackage, 0, len(group))
		for _, name := range group {
			alts = append(alts, RequiredPackage{Value: name})
		}
		d.Deps = append(d.Deps, alts)
	}
	for _, name := range r.ExplicitDependencies {
		d.Deps = append(d.Deps, []RequiredPackage{{Value: name, Explicit: true}})
	}
	d.Conflicts = append(d.Conflicts, r.Conflicts...)
	d.Recommendations = append(d.Recommendations, r.Recommendations...)
	d.Bundled = append(d.Bundled, r.Bundled...)
	for _, pair := range r.Compats {
		if len(pair) == 2 {
			d.Compats = append(d.Compats, Compat{Package: pair[0], CompatPackage: pair[1]})
		}
	}
	d.Extensions = append(d.Extensions, r.Extensions...)
}
