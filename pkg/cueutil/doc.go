// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE parsing flow used by declarative
// package documents and the configuration file:
//
//  1. Compile the embedded schema
//  2. Compile (or encode) user data and unify it with the schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed package_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Package](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Package",
//	    cueutil.WithFilename("sodium.pkg.cue"),
//	)
//	if err != nil {
//	    return nil, err // error includes the CUE path of the bad field
//	}
//	return result.Value, nil
//
// Data that was not written in CUE (YAML documents decoded into Go values)
// goes through ParseAndDecodeValue, which encodes the value with the same
// context as the schema before unification.
package cueutil
