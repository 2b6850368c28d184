// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestAddonKind_ValidateFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     AddonKind
		fileName string
		wantErr  bool
	}{
		{"mod jar", AddonMod, "sodium.jar", false},
		{"plugin jar", AddonPlugin, "worldedit-7.2.jar", false},
		{"resource pack zip", AddonResourcePack, "faithful.zip", false},
		{"mod with zip", AddonMod, "sodium.zip", true},
		{"separator", AddonMod, "mods/sodium.jar", true},
		{"windows separator", AddonShader, `a\b.zip`, true},
		{"traversal", AddonDatapack, "..zip", true},
		{"extension only", AddonMod, ".jar", true},
		{"empty", AddonMod, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.kind.ValidateFileName(tt.fileName)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFileName(%q) error = %v, wantErr %v", tt.fileName, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAddonFileName) {
				t.Errorf("error should wrap ErrInvalidAddonFileName, got %v", err)
			}
		})
	}
}

func TestAddonKind_DefaultFileName(t *testing.T) {
	t.Parallel()

	if got := AddonMod.DefaultFileName("sodium", "main"); got != "mcpkg_sodium_main.jar" {
		t.Errorf("DefaultFileName() = %q", got)
	}
	if got := AddonShader.DefaultFileName("bsl", "pack"); got != "mcpkg_bsl_pack.zip" {
		t.Errorf("DefaultFileName() = %q", got)
	}
	if err := AddonShader.ValidateFileName(AddonShader.DefaultFileName("bsl", "pack")); err != nil {
		t.Errorf("default file name should validate: %v", err)
	}
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	valid := []string{"sodium", "fabric-api", "cool_mod.v2", "A1"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	invalid := []string{"", "has space", "slash/id", "émoji"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
	if !IsValidAddonVersion("0.5.3+mc1.20.1") {
		t.Error("addon version with build metadata should be valid")
	}
	if IsValidAddonVersion("1.0 beta") {
		t.Error("addon version with a space should be invalid")
	}
}
