// SPDX-License-Identifier: MPL-2.0

package pkgdecl

import (
	"encoding/json"
	"fmt"

	"github.com/mcpkg/mcpkg/pkg/pkgmeta"
	"github.com/mcpkg/mcpkg/pkg/types"
)

type (
	// Package is a declarative package document.
	Package struct {
		Meta             pkgmeta.Metadata   `json:"meta"`
		Properties       pkgmeta.Properties `json:"properties"`
		Relations        Relations          `json:"relations"`
		ConditionalRules []ConditionalRule  `json:"conditional_rules"`
		Addons           []Addon            `json:"addons"`
	}

	// Relations lists the relations a package or a matched rule contributes.
	Relations struct {
		Dependencies         []DependencyGroup `json:"dependencies"`
		ExplicitDependencies []string          `json:"explicit_dependencies"`
		Conflicts            []string          `json:"conflicts"`
		Recommendations      []string          `json:"recommendations"`
		Bundled              []string          `json:"bundled"`
		// Compats holds [package, compat package] pairs.
		Compats    [][]string `json:"compats"`
		Extensions []string   `json:"extensions"`
	}

	// DependencyGroup is a set of alternatives, one of which must be
	// installed. It decodes from a single package name or a list of names.
	DependencyGroup []string

	// ConditionSet is a structured filter. Every non-empty field must match
	// for the set to match; list fields match when any element does, except
	// Features, which must all be enabled.
	ConditionSet struct {
		MinecraftVersions []types.VersionPattern    `json:"minecraft_versions"`
		Side              types.Side                `json:"side"`
		Modloaders        []types.ModloaderMatch    `json:"modloaders"`
		PluginLoaders     []types.PluginLoaderMatch `json:"plugin_loaders"`
		Stability         types.Stability           `json:"stability"`
		Features          []string                  `json:"features"`
		OperatingSystems  []types.OS                `json:"operating_systems"`
		Languages         []types.Language          `json:"languages"`
	}

	// ConditionalRule contributes relations and notices when all of its
	// condition sets match.
	ConditionalRule struct {
		Conditions []ConditionSet `json:"conditions"`
		Relations  Relations      `json:"relations"`
		Notices    []string       `json:"notices"`
	}

	// Addon is an addon with candidate versions. The first version whose
	// conditions match is selected.
	Addon struct {
		ID       string          `json:"id"`
		Kind     types.AddonKind `json:"kind"`
		Versions []AddonVersion  `json:"versions"`
	}

	// AddonVersion is one candidate version of an addon.
	AddonVersion struct {
		Conditions []ConditionSet `json:"conditions"`
		Relations  Relations      `json:"relations"`
		Notices    []string       `json:"notices"`
		URL        string         `json:"url"`
		Path       string         `json:"path"`
		Version    string         `json:"version"`
		FileName   string         `json:"file_name"`
		SHA256     string         `json:"sha256"`
		SHA512     string         `json:"sha512"`
	}
)

// UnmarshalJSON accepts either "name" or ["a", "b"].
func (g *DependencyGroup) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*g = DependencyGroup{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("dependency must be a package name or a list of names: %w", err)
	}
	*g = DependencyGroup(list)
	return nil
}

// IsEmpty reports whether the relations contribute nothing.
func (r *Relations) IsEmpty() bool {
	return len(r.Dependencies) == 0 && len(r.ExplicitDependencies) == 0 &&
		len(r.Conflicts) == 0 && len(r.Recommendations) == 0 && len(r.Bundled) == 0 &&
		len(r.Compats) == 0 && len(r.Extensions) == 0
}

// Addon returns the addon with the given id, or nil.
func (p *Package) Addon(id string) *Addon {
	for i := range p.Addons {
		if p.Addons[i].ID == id {
			return &p.Addons[i]
		}
	}
	return nil
}
