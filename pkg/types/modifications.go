// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

const (
	// ModloaderVanilla means no modloader.
	ModloaderVanilla Modloader = "vanilla"
	// ModloaderFabric is the Fabric modloader.
	ModloaderFabric Modloader = "fabric"
	// ModloaderQuilt is the Quilt modloader.
	ModloaderQuilt Modloader = "quilt"
	// ModloaderForge is the Forge modloader.
	ModloaderForge Modloader = "forge"

	// PluginLoaderVanilla means no plugin loader.
	PluginLoaderVanilla PluginLoader = "vanilla"
	// PluginLoaderPaper is the Paper server.
	PluginLoaderPaper PluginLoader = "paper"

	// ClientTypeNone defers to the profile modloader.
	ClientTypeNone ClientType = "none"
	// ClientTypeVanilla is the unmodified client.
	ClientTypeVanilla ClientType = "vanilla"
	// ClientTypeFabric is a Fabric client.
	ClientTypeFabric ClientType = "fabric"
	// ClientTypeQuilt is a Quilt client.
	ClientTypeQuilt ClientType = "quilt"
	// ClientTypeForge is a Forge client.
	ClientTypeForge ClientType = "forge"

	// ServerTypeNone defers to the profile modloader.
	ServerTypeNone ServerType = "none"
	// ServerTypeVanilla is the unmodified server.
	ServerTypeVanilla ServerType = "vanilla"
	// ServerTypePaper is a Paper server.
	ServerTypePaper ServerType = "paper"
	// ServerTypeFabric is a Fabric server.
	ServerTypeFabric ServerType = "fabric"
	// ServerTypeQuilt is a Quilt server.
	ServerTypeQuilt ServerType = "quilt"
	// ServerTypeForge is a Forge server.
	ServerTypeForge ServerType = "forge"

	// ModloaderMatchVanilla matches only the vanilla game.
	ModloaderMatchVanilla ModloaderMatch = "vanilla"
	// ModloaderMatchFabric matches Fabric.
	ModloaderMatchFabric ModloaderMatch = "fabric"
	// ModloaderMatchQuilt matches Quilt.
	ModloaderMatchQuilt ModloaderMatch = "quilt"
	// ModloaderMatchForge matches Forge.
	ModloaderMatchForge ModloaderMatch = "forge"
	// ModloaderMatchFabricLike matches every loader that can run Fabric mods.
	ModloaderMatchFabricLike ModloaderMatch = "fabriclike"
	// ModloaderMatchForgeLike matches every loader that can run Forge mods.
	ModloaderMatchForgeLike ModloaderMatch = "forgelike"

	// PluginLoaderMatchVanilla matches servers without a plugin loader.
	PluginLoaderMatchVanilla PluginLoaderMatch = "vanilla"
	// PluginLoaderMatchPaper matches Paper.
	PluginLoaderMatchPaper PluginLoaderMatch = "paper"
	// PluginLoaderMatchBukkit matches every Bukkit-compatible plugin loader.
	PluginLoaderMatchBukkit PluginLoaderMatch = "bukkit"
)

var (
	// ErrInvalidModloader is the sentinel error wrapped by InvalidModloaderError.
	ErrInvalidModloader = errors.New("invalid modloader")
	// ErrInvalidClientType is returned when a ClientType value is not recognized.
	ErrInvalidClientType = errors.New("invalid client type")
	// ErrInvalidServerType is returned when a ServerType value is not recognized.
	ErrInvalidServerType = errors.New("invalid server type")
)

type (
	// Modloader is the code-modification framework of an installation.
	Modloader string

	// PluginLoader is the server plugin framework of an installation.
	PluginLoader string

	// ClientType overrides the modloader for client installations.
	ClientType string

	// ServerType overrides the modloader for server installations.
	ServerType string

	// ModloaderMatch is a loader family a package can declare support for.
	ModloaderMatch string

	// PluginLoaderMatch is a plugin loader family a package can declare support for.
	PluginLoaderMatch string

	// Modifications is the set of game modifications selected for a profile.
	Modifications struct {
		Modloader  Modloader  `json:"modloader" mapstructure:"modloader"`
		ClientType ClientType `json:"client_type" mapstructure:"client_type"`
		ServerType ServerType `json:"server_type" mapstructure:"server_type"`
	}

	// InvalidModloaderError is returned when a loader value is not recognized.
	InvalidModloaderError struct {
		Kind  string
		Value string
		// Sentinel is the error this value unwraps to.
		Sentinel error
	}
)

// Error implements the error interface.
func (e *InvalidModloaderError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

// Unwrap returns the sentinel for the kind of loader value.
func (e *InvalidModloaderError) Unwrap() error { return e.Sentinel }

// IsValid returns whether the Modloader is known.
func (m Modloader) IsValid() (bool, []error) {
	switch m {
	case ModloaderVanilla, ModloaderFabric, ModloaderQuilt, ModloaderForge:
		return true, nil
	default:
		return false, []error{&InvalidModloaderError{Kind: "modloader", Value: string(m), Sentinel: ErrInvalidModloader}}
	}
}

// IsValid returns whether the ClientType is known.
func (c ClientType) IsValid() (bool, []error) {
	switch c {
	case ClientTypeNone, ClientTypeVanilla, ClientTypeFabric, ClientTypeQuilt, ClientTypeForge:
		return true, nil
	default:
		return false, []error{&InvalidModloaderError{Kind: "client type", Value: string(c), Sentinel: ErrInvalidClientType}}
	}
}

// IsValid returns whether the ServerType is known.
func (s ServerType) IsValid() (bool, []error) {
	switch s {
	case ServerTypeNone, ServerTypeVanilla, ServerTypePaper, ServerTypeFabric, ServerTypeQuilt, ServerTypeForge:
		return true, nil
	default:
		return false, []error{&InvalidModloaderError{Kind: "server type", Value: string(s), Sentinel: ErrInvalidServerType}}
	}
}

// IsValid validates every field of the Modifications.
// Empty client and server types are treated as ClientTypeNone and ServerTypeNone.
func (m Modifications) IsValid() (bool, []error) {
	var errs []error
	if ok, e := m.Modloader.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if m.ClientType != "" {
		if ok, e := m.ClientType.IsValid(); !ok {
			errs = append(errs, e...)
		}
	}
	if m.ServerType != "" {
		if ok, e := m.ServerType.IsValid(); !ok {
			errs = append(errs, e...)
		}
	}
	return len(errs) == 0, errs
}

// ModloaderFor returns the effective modloader on the given side.
// A client or server type other than none takes precedence over the profile modloader.
func (m Modifications) ModloaderFor(side Side) Modloader {
	switch side {
	case SideClient:
		switch m.ClientType {
		case ClientTypeVanilla:
			return ModloaderVanilla
		case ClientTypeFabric:
			return ModloaderFabric
		case ClientTypeQuilt:
			return ModloaderQuilt
		case ClientTypeForge:
			return ModloaderForge
		}
	case SideServer:
		switch m.ServerType {
		case ServerTypeVanilla, ServerTypePaper:
			return ModloaderVanilla
		case ServerTypeFabric:
			return ModloaderFabric
		case ServerTypeQuilt:
			return ModloaderQuilt
		case ServerTypeForge:
			return ModloaderForge
		}
	}
	if m.Modloader == "" {
		return ModloaderVanilla
	}
	return m.Modloader
}

// PluginLoaderFor returns the effective plugin loader on the given side.
// Clients never run a plugin loader.
func (m Modifications) PluginLoaderFor(side Side) PluginLoader {
	if side == SideServer && m.ServerType == ServerTypePaper {
		return PluginLoaderPaper
	}
	return PluginLoaderVanilla
}

// ParseModloaderMatch parses a loader family from its script spelling.
func ParseModloaderMatch(s string) (ModloaderMatch, bool) {
	switch m := ModloaderMatch(s); m {
	case ModloaderMatchVanilla, ModloaderMatchFabric, ModloaderMatchQuilt, ModloaderMatchForge,
		ModloaderMatchFabricLike, ModloaderMatchForgeLike:
		return m, true
	default:
		return "", false
	}
}

// Matches reports whether the loader belongs to this family.
func (m ModloaderMatch) Matches(loader Modloader) bool {
	switch m {
	case ModloaderMatchVanilla:
		return loader == ModloaderVanilla
	case ModloaderMatchFabric:
		return loader == ModloaderFabric
	case ModloaderMatchQuilt:
		return loader == ModloaderQuilt
	case ModloaderMatchForge:
		return loader == ModloaderForge
	case ModloaderMatchFabricLike:
		return loader == ModloaderFabric || loader == ModloaderQuilt
	case ModloaderMatchForgeLike:
		return loader == ModloaderForge
	default:
		return false
	}
}

// ParsePluginLoaderMatch parses a plugin loader family from its script spelling.
func ParsePluginLoaderMatch(s string) (PluginLoaderMatch, bool) {
	switch m := PluginLoaderMatch(s); m {
	case PluginLoaderMatchVanilla, PluginLoaderMatchPaper, PluginLoaderMatchBukkit:
		return m, true
	default:
		return "", false
	}
}

// Matches reports whether the plugin loader belongs to this family.
func (m PluginLoaderMatch) Matches(loader PluginLoader) bool {
	switch m {
	case PluginLoaderMatchVanilla:
		return loader == PluginLoaderVanilla
	case PluginLoaderMatchPaper, PluginLoaderMatchBukkit:
		return loader == PluginLoaderPaper
	default:
		return false
	}
}
