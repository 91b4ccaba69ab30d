// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE schema utilities.
//
// Settings namespaces describe their shape as a CUE definition. The package
// compiles that definition once and validates raw data trees against it:
//
//  1. Compile the embedded schema and look up the root definition
//  2. Encode the data tree and unify it with the definition
//  3. Validate concreteness and decode the completed tree (defaults filled)
//
// # Usage
//
//	//go:embed core_schema.cue
//	var coreSchema []byte
//
//	schema, err := cueutil.CompileSchema(coreSchema, "#Core",
//	    cueutil.WithFilename("core_schema.cue"))
//	if err != nil {
//	    return err
//	}
//	completed, err := schema.Validate(data)
//	if err != nil {
//	    return err // error includes the CUE path of the offending field
//	}
package cueutil
