// SPDX-License-Identifier: MPL-2.0

// Package config loads the mcpkg configuration using Viper with CUE as the
// file format.
//
// The file is looked up at the --config path, else config.cue in the user
// configuration directory ($XDG_CONFIG_HOME/mcpkg on Linux,
// ~/Library/Application Support/mcpkg on macOS, %APPDATA%\mcpkg on Windows),
// else ./mcpkg.cue. Files are validated against an embedded CUE schema
// (config_schema.cue) before being merged over the defaults; scalar keys can
// be overridden from MCPKG_* environment variables.
//
// The profile section describes the game instance: version, modloader,
// side and the packages to install. Config converts it into the inputs of
// evaluation and resolution.
package config
