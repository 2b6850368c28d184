// SPDX-License-Identifier: MPL-2.0

// mcpkg is a package manager for game mods.
package main

import cmd "github.com/mcpkg/mcpkg/cmd/mcpkg"

func main() {
	cmd.Execute()
}
