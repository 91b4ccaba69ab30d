// SPDX-License-Identifier: MPL-2.0

// Package settings implements layered settings resolution.
//
// Each namespace registers a CUE schema and a flat TOML defaults file. A load
// discovers the package, project and user layers, deep-merges them per
// namespace (lowest priority first), expands environment references,
// lower-cases keys and validates the result against the namespace schema.
// The validated namespaces are decoded into one typed configuration value.
// Dot-path overrides may then be applied on top; they can only replace keys
// that already exist and always trigger a full re-validation.
package settings
