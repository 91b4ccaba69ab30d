// SPDX-License-Identifier: MPL-2.0

// Package config defines the application's settings namespaces and loads
// them into a typed UnifiedConfig.
//
// Two namespaces are registered: "core" (logging, output, generation,
// backends, templates and container settings) and "orchestrator" (the
// container engine and image registry used to run the generator). Each is
// described by a CUE definition (core_schema.cue, orchestrator_schema.cue)
// and ships a flat TOML defaults file embedded in the binary.
//
// Settings are layered, lowest precedence first: package defaults, the
// project settings.toml, the user settings file, COLORSCHEME_* environment
// variables and command-line overrides. The Provider is the composition root
// that wires the registry, the settings manager and the resolver together.
package config
