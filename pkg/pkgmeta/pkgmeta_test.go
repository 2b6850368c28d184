// SPDX-License-Identifier: MPL-2.0

package pkgmeta

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcpkg/mcpkg/pkg/types"
)

func TestMetadataValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		license string
		wantErr bool
	}{
		{"", false},
		{"MIT", false},
		{"LGPL-3.0-only", false},
		{"MIT OR Apache-2.0", false},
		{"Proprietary", true},
		{"not a license", true},
	}

	for _, tt := range tests {
		t.Run(tt.license, func(t *testing.T) {
			t.Parallel()

			m := Metadata{License: tt.license}
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidLicense) {
				t.Errorf("errors.Is(err, ErrInvalidLicense) = false for %v", err)
			}
		})
	}
}

func TestMetadataSet(t *testing.T) {
	t.Parallel()

	var m Metadata
	if err := m.Set("name", []string{"Sodium"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("authors", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("colour", []string{"red"}); !errors.Is(err, ErrInvalidProperty) {
		t.Errorf("Set(colour) error = %v, want ErrInvalidProperty", err)
	}

	want := Metadata{Name: "Sodium", Authors: []string{"a", "b"}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if got := m.DisplayName("sodium"); got != "Sodium" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := (&Metadata{}).DisplayName("sodium"); got != "sodium" {
		t.Errorf("DisplayName() fallback = %q", got)
	}
}

func TestPropertiesSet(t *testing.T) {
	t.Parallel()

	var p Properties
	steps := []struct {
		field  string
		values []string
	}{
		{"features", []string{"extras"}},
		{"supported_modloaders", []string{"fabriclike", "forge"}},
		{"supported_plugin_loaders", []string{"bukkit"}},
		{"supported_sides", []string{"client"}},
		{"supported_versions", []string{"1.19+"}},
		{"modrinth_id", []string{"AANobbMI"}},
		{"open_source", []string{"true"}},
	}
	for _, s := range steps {
		if err := p.Set(s.field, s.values); err != nil {
			t.Fatalf("Set(%s) error = %v", s.field, err)
		}
	}

	open := true
	want := Properties{
		Features:               []string{"extras"},
		SupportedModloaders:    []types.ModloaderMatch{types.ModloaderMatchFabricLike, types.ModloaderMatchForge},
		SupportedPluginLoaders: []types.PluginLoaderMatch{types.PluginLoaderMatchBukkit},
		SupportedSides:         []types.Side{types.SideClient},
		SupportedVersions:      []types.VersionPattern{"1.19+"},
		ModrinthID:             "AANobbMI",
		OpenSource:             &open,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
	if !p.HasFeature("extras") || p.HasFeature("missing") {
		t.Error("HasFeature() returned wrong result")
	}
}

func TestPropertiesSetInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field string
		value string
	}{
		{"supported_modloaders", "rift"},
		{"supported_plugin_loaders", "sponge"},
		{"supported_sides", "both"},
		{"open_source", "maybe"},
		{"colour", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()

			var p Properties
			err := p.Set(tt.field, []string{tt.value})
			if !errors.Is(err, ErrInvalidProperty) {
				t.Errorf("Set(%s, %s) error = %v, want ErrInvalidProperty", tt.field, tt.value, err)
			}
		})
	}
}

func TestEmptySupportedListRestrictsEverything(t *testing.T) {
	t.Parallel()

	var p Properties
	if err := p.Set("supported_sides", nil); err != nil {
		t.Fatal(err)
	}
	if p.SupportedSides == nil {
		t.Error("explicit empty list must not be nil")
	}
}
