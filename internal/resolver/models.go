// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"
)

const (
	// SourcePackageDefault is a value from a namespace's packaged defaults.
	SourcePackageDefault ConfigSource = iota + 1
	// SourceProjectConfig is a value from the project settings file.
	SourceProjectConfig
	// SourceUserConfig is a value from the user settings file.
	SourceUserConfig
	// SourceEnv is a value from an environment variable.
	SourceEnv
	// SourceCLI is a value passed on the command line.
	SourceCLI
)

const (
	// LevelInfo is a note that needs no action.
	LevelInfo WarningLevel = "info"
	// LevelWarning marks a source that was skipped, such as an unreadable file.
	LevelWarning WarningLevel = "warning"
	// LevelError marks a source that could not be used at all.
	LevelError WarningLevel = "error"
)

type (
	// ConfigSource identifies where a resolved value came from. Higher
	// values take precedence.
	ConfigSource int

	// WarningLevel is the severity of a resolution Warning.
	WarningLevel string

	// SourceValue is a value one source provided for a key.
	SourceValue struct {
		Source ConfigSource `json:"source"`
		Value  any          `json:"value"`
	}

	// ResolvedValue is the final value of a key with its attribution.
	ResolvedValue struct {
		Value  any          `json:"value"`
		Source ConfigSource `json:"source"`
		// SourceDetail pinpoints the source: the flag, the environment
		// variable or the file that provided the value.
		SourceDetail string `json:"source_detail"`
		// Overrides lists the lower-precedence values this value beat, highest
		// precedence first.
		Overrides []SourceValue `json:"overrides"`
	}

	// Warning is a non-fatal problem found while resolving.
	Warning struct {
		Level   WarningLevel `json:"level"`
		Message string       `json:"message"`
		Detail  string       `json:"detail,omitempty"`
		Action  string       `json:"action,omitempty"`
	}

	// ResolvedConfig maps dot-path keys such as
	// "core.generation.default_backend" to their resolved values.
	ResolvedConfig struct {
		values map[string]ResolvedValue
	}
)

// Sources returns every source, highest precedence first.
func Sources() []ConfigSource {
	return []ConfigSource{SourceCLI, SourceEnv, SourceUserConfig, SourceProjectConfig, SourcePackageDefault}
}

// String returns the source's identifier, e.g. "USER_CONFIG".
func (s ConfigSource) String() string {
	switch s {
	case SourceCLI:
		return "CLI"
	case SourceEnv:
		return "ENV"
	case SourceUserConfig:
		return "USER_CONFIG"
	case SourceProjectConfig:
		return "PROJECT_CONFIG"
	case SourcePackageDefault:
		return "PACKAGE_DEFAULT"
	default:
		return fmt.Sprintf("ConfigSource(%d)", int(s))
	}
}

// Label returns a human-readable description of the source.
func (s ConfigSource) Label() string {
	switch s {
	case SourceCLI:
		return "CLI argument"
	case SourceEnv:
		return "Environment variable"
	case SourceUserConfig:
		return "User config"
	case SourceProjectConfig:
		return "Project config"
	case SourcePackageDefault:
		return "Package default"
	default:
		return s.String()
	}
}

// MarshalText encodes the source as its identifier.
func (s ConfigSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Overridden reports whether any lower-precedence source also set the key.
func (v ResolvedValue) Overridden() bool {
	return len(v.Overrides) > 0
}

// String formats the warning on one line.
func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(string(w.Level)))
	sb.WriteString(": ")
	sb.WriteString(w.Message)
	if w.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(w.Detail)
		sb.WriteString(")")
	}
	if w.Action != "" {
		sb.WriteString(": ")
		sb.WriteString(w.Action)
	}
	return sb.String()
}

func newResolvedConfig() *ResolvedConfig {
	return &ResolvedConfig{values: make(map[string]ResolvedValue)}
}

// Get returns the resolved value of key.
func (c *ResolvedConfig) Get(key string) (ResolvedValue, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Keys returns every resolved key in sorted order.
func (c *ResolvedConfig) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of resolved keys.
func (c *ResolvedConfig) Len() int { return len(c.values) }

// All iterates over every key and its resolved value in key order.
func (c *ResolvedConfig) All() iter.Seq2[string, ResolvedValue] {
	return func(yield func(string, ResolvedValue) bool) {
		for _, k := range c.Keys() {
			if !yield(k, c.values[k]) {
				return
			}
		}
	}
}

// ToMap returns the final values as a nested map, without attribution.
func (c *ResolvedConfig) ToMap() map[string]any {
	out := make(map[string]any)
	for key, v := range c.All() {
		parts := strings.Split(key, ".")
		current := out
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = v.Value
	}
	return out
}

// MarshalJSON encodes the config as an object keyed by dot-path.
func (c *ResolvedConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.values)
}

func (c *ResolvedConfig) set(key string, v ResolvedValue) {
	c.values[key] = v
}
