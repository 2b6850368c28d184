// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by the package
// script parser, the declarative package model, the evaluator and the
// resolver: sides, loaders, stability tiers, languages, addon kinds,
// identifiers, version patterns and package requests.
//
// Every enumerated type parses from its lowercase script spelling and
// exposes IsValid, so CUE-decoded configuration and script tokens go
// through the same checks.
package types
