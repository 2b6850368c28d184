// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestModloaderMatch_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		match  ModloaderMatch
		loader Modloader
		want   bool
	}{
		{ModloaderMatchFabricLike, ModloaderFabric, true},
		{ModloaderMatchFabricLike, ModloaderQuilt, true},
		{ModloaderMatchFabricLike, ModloaderForge, false},
		{ModloaderMatchFabric, ModloaderQuilt, false},
		{ModloaderMatchForgeLike, ModloaderForge, true},
		{ModloaderMatchVanilla, ModloaderVanilla, true},
		{ModloaderMatchVanilla, ModloaderFabric, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.match)+"/"+string(tt.loader), func(t *testing.T) {
			t.Parallel()
			if got := tt.match.Matches(tt.loader); got != tt.want {
				t.Errorf("%s.Matches(%s) = %v, want %v", tt.match, tt.loader, got, tt.want)
			}
		})
	}
}

func TestPluginLoaderMatch_Matches(t *testing.T) {
	t.Parallel()

	if !PluginLoaderMatchBukkit.Matches(PluginLoaderPaper) {
		t.Error("bukkit should match paper")
	}
	if PluginLoaderMatchBukkit.Matches(PluginLoaderVanilla) {
		t.Error("bukkit should not match vanilla")
	}
	if _, ok := ParsePluginLoaderMatch("spigotish"); ok {
		t.Error("unknown plugin loader family should not parse")
	}
}

func TestModifications_EffectiveLoaders(t *testing.T) {
	t.Parallel()

	mods := Modifications{Modloader: ModloaderFabric, ClientType: ClientTypeNone, ServerType: ServerTypePaper}

	if got := mods.ModloaderFor(SideClient); got != ModloaderFabric {
		t.Errorf("ModloaderFor(client) = %s, want fabric", got)
	}
	if got := mods.ModloaderFor(SideServer); got != ModloaderVanilla {
		t.Errorf("ModloaderFor(server) = %s, want vanilla", got)
	}
	if got := mods.PluginLoaderFor(SideServer); got != PluginLoaderPaper {
		t.Errorf("PluginLoaderFor(server) = %s, want paper", got)
	}
	if got := mods.PluginLoaderFor(SideClient); got != PluginLoaderVanilla {
		t.Errorf("PluginLoaderFor(client) = %s, want vanilla", got)
	}
}

func TestModifications_IsValid(t *testing.T) {
	t.Parallel()

	ok, errs := Modifications{Modloader: "liteloader", ServerType: "spigot"}.IsValid()
	if ok {
		t.Fatal("expected invalid modifications")
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if !errors.Is(errs[0], ErrInvalidModloader) {
		t.Errorf("first error should wrap ErrInvalidModloader, got %v", errs[0])
	}
	if !errors.Is(errs[1], ErrInvalidServerType) {
		t.Errorf("second error should wrap ErrInvalidServerType, got %v", errs[1])
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	if s, ok := ParseSide("client"); !ok || s != SideClient {
		t.Errorf("ParseSide(client) = %q, %v", s, ok)
	}
	if _, ok := ParseSide("Client"); ok {
		t.Error("side parsing must be case-sensitive")
	}
	if st, ok := ParseStability("latest"); !ok || st != StabilityLatest {
		t.Errorf("ParseStability(latest) = %q, %v", st, ok)
	}
	if _, ok := ParseLanguage("klingon"); ok {
		t.Error("unknown language should not parse")
	}
	if os, ok := ParseOS("macos"); !ok || os != OSMacOS {
		t.Errorf("ParseOS(macos) = %q, %v", os, ok)
	}
	if got := osFromGOOS("darwin"); got != OSMacOS {
		t.Errorf("osFromGOOS(darwin) = %q", got)
	}
	if got := osFromGOOS("plan9"); got != OSOther {
		t.Errorf("osFromGOOS(plan9) = %q", got)
	}
}

func TestPermissions_AtLeast(t *testing.T) {
	t.Parallel()

	if !PermissionsElevated.AtLeast(PermissionsStandard) {
		t.Error("elevated should include standard")
	}
	if PermissionsStandard.AtLeast(PermissionsElevated) {
		t.Error("standard should not include elevated")
	}
	if ok, errs := Permissions("root").IsValid(); ok || !errors.Is(errs[0], ErrInvalidPermissions) {
		t.Errorf("Permissions(root).IsValid() = %v, %v", ok, errs)
	}
}
