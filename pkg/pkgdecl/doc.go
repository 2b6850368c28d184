// SPDX-License-Identifier: MPL-2.0

// Package pkgdecl defines declarative packages: documents that describe the
// same relations as a package script using structured keys and condition
// sets instead of instructions.
//
// Documents may be written in CUE, JSON or YAML. All three are validated
// against the embedded #Package schema before decoding.
//
//	meta: name: "Sodium"
//	properties: supported_sides: ["client"]
//	relations: dependencies: [["fabric-api", "quilted-fabric-api"]]
//	addons: [{
//		id:   "sodium"
//		kind: "mod"
//		versions: [{url: "https://example.com/sodium.jar", version: "0.5.3"}]
//	}]
package pkgdecl
