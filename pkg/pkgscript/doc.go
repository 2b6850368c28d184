// SPDX-License-Identifier: MPL-2.0

// Package pkgscript implements the package script language: a lexer that
// turns package text into positioned tokens, a token-driven condition
// parser, and a parser that builds routines of instructions stored in a
// block arena.
//
// A script is a sequence of routines:
//
//	@meta {
//		name "Sodium";
//		authors ["jellysquid3", "IMS"];
//	}
//	@install {
//		if modloader fabriclike and not side server {
//			require "fabric-api" | "quilted-fabric-api", <"indium">;
//		}
//		addon "sodium" mod {
//			url "https://example.com/sodium.jar";
//			version "0.5.3";
//		}
//	}
//
// The package is purely syntactic. Evaluating routines against a profile
// lives in internal/eval; extracting metadata and properties is provided
// here by Metadata and Properties because those routines never branch.
package pkgscript
