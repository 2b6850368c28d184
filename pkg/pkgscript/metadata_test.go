// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcpkg/mcpkg/pkg/pkgmeta"
	"github.com/mcpkg/mcpkg/pkg/types"
)

func TestMetadata(t *testing.T) {
	t.Parallel()

	meta, err := Metadata(mustParse(t, sodiumScript))
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	want := &pkgmeta.Metadata{
		Name:    "Sodium",
		Authors: []string{"jellysquid3", "IMS"},
		License: "LGPL-3.0-only",
	}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("Metadata() mismatch (-want +got):\n%s", diff)
	}
}

func TestProperties(t *testing.T) {
	t.Parallel()

	props, err := Properties(mustParse(t, sodiumScript))
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	want := &pkgmeta.Properties{
		Features:            []string{"extras"},
		DefaultFeatures:     []string{"extras"},
		SupportedModloaders: []types.ModloaderMatch{types.ModloaderMatchFabricLike},
		SupportedSides:      []types.Side{types.SideClient},
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Errorf("Properties() mismatch (-want +got):\n%s", diff)
	}
}

func TestMetadataMissingRoutine(t *testing.T) {
	t.Parallel()

	parsed := mustParse(t, `@install { finish; }`)
	meta, err := Metadata(parsed)
	if err != nil || meta.Name != "" {
		t.Errorf("Metadata() = %+v, %v; want empty metadata", meta, err)
	}
	props, err := Properties(parsed)
	if err != nil || props.SupportedSides != nil {
		t.Errorf("Properties() = %+v, %v; want empty properties", props, err)
	}
}

func TestMetadataErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		fn    func(*Parsed) error
	}{
		{
			name:  "control instruction in meta",
			input: `@meta { name "x"; finish; }`,
			fn:    func(p *Parsed) error { _, err := Metadata(p); return err },
		},
		{
			name:  "variable in meta",
			input: `@meta { name $n; }`,
			fn:    func(p *Parsed) error { _, err := Metadata(p); return err },
		},
		{
			name:  "meta field in properties",
			input: `@properties { name "x"; }`,
			fn:    func(p *Parsed) error { _, err := Properties(p); return err },
		},
		{
			name:  "unknown side",
			input: `@properties { supported_sides [both]; }`,
			fn:    func(p *Parsed) error { _, err := Properties(p); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.fn(mustParse(t, tt.input))
			if !errors.Is(err, ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
		})
	}
}
