// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"slices"

	"github.com/mcpkg/mcpkg/pkg/pkgmeta"
	"github.com/mcpkg/mcpkg/pkg/types"
)

// FeatureConfig is how a user configured the features of a package.
type FeatureConfig struct {
	Features           []string
	UseDefaultFeatures bool
}

// CheckProperties compares the package properties with the installation.
// It returns skip=true when the package does not run on the evaluated side,
// and an ErrUnsupported error when the version, modloader or plugin loader
// is not supported.
func CheckProperties(in *Input, props *pkgmeta.Properties) (skip bool, err error) {
	side := in.Params.Side
	if props.SupportedSides != nil && !slices.Contains(props.SupportedSides, side) {
		return true, nil
	}

	if props.SupportedVersions != nil && !slices.ContainsFunc(props.SupportedVersions, func(p types.VersionPattern) bool {
		return p.Matches(in.Constants.Version, in.Constants.Versions)
	}) {
		return false, errorf(ErrUnsupported, "version %s is not supported", in.Constants.Version)
	}

	loader := in.Constants.Modifications.ModloaderFor(side)
	if props.SupportedModloaders != nil && !slices.ContainsFunc(props.SupportedModloaders, func(m types.ModloaderMatch) bool {
		return m.Matches(loader)
	}) {
		return false, errorf(ErrUnsupported, "modloader %s is not supported", loader)
	}

	plugins := in.Constants.Modifications.PluginLoaderFor(side)
	if props.SupportedPluginLoaders != nil && !slices.ContainsFunc(props.SupportedPluginLoaders, func(m types.PluginLoaderMatch) bool {
		return m.Matches(plugins)
	}) {
		return false, errorf(ErrUnsupported, "plugin loader %s is not supported", plugins)
	}

	return false, nil
}

// CalculateFeatures returns the features to enable for a package: its
// default features when cfg asks for them, followed by the configured ones.
// Every configured feature must be declared by the package.
func CalculateFeatures(cfg FeatureConfig, props *pkgmeta.Properties) ([]string, error) {
	var out []string
	if cfg.UseDefaultFeatures {
		out = append(out, props.DefaultFeatures...)
	}
	for _, f := range cfg.Features {
		if !props.HasFeature(f) {
			return nil, errorf(ErrUnknownFeature, "%q is not a feature of this package", f)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}
