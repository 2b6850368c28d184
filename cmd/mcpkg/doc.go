// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the mcpkg command line interface.
//
// It implements the Cobra command tree (resolve, plan, check, info and
// config) on top of the config, registry, resolve, eval and lock packages.
// Commands receive an App carrying the configuration provider and the
// output streams so tests can run them against buffers.
package cmd
