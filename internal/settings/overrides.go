// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"maps"
	"slices"
	"strings"
)

// OverrideSet is a group of dot-path overrides that came from one layer,
// such as the environment or the command line.
type OverrideSet struct {
	// Layer is reported as ValidationError.SourceLayer when the set leaves a
	// namespace invalid. Empty means SourceOverride.
	Layer  string
	Values map[string]any
}

// ApplyOverrides returns a new configuration with each dot-path override
// applied. Every key must address a value that already exists; overrides
// never create keys. After all overrides are set every namespace is
// re-validated through its schema. cfg itself is never modified.
func ApplyOverrides[T any](reg *Registry, cfg *T, overrides map[string]any) (*T, error) {
	return applyOverrides(reg, cfg, overrides, SourceOverride)
}

// ApplyOverrideSets applies each set in order, so later sets win. Each set
// is validated on its own and blamed for the failures it causes.
func ApplyOverrideSets[T any](reg *Registry, cfg *T, sets ...OverrideSet) (*T, error) {
	for _, set := range sets {
		layer := set.Layer
		if layer == "" {
			layer = SourceOverride
		}
		next, err := applyOverrides(reg, cfg, set.Values, layer)
		if err != nil {
			return nil, err
		}
		cfg = next
	}
	return cfg, nil
}

func applyOverrides[T any](reg *Registry, cfg *T, overrides map[string]any, layer string) (*T, error) {
	if len(overrides) == 0 {
		return cfg, nil
	}

	data, err := encode(cfg)
	if err != nil {
		return nil, err
	}

	// Sorted for deterministic error reporting.
	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		if err := setExisting(data, key, overrides[key]); err != nil {
			return nil, err
		}
	}

	assembled := make(map[string]any, reg.Len())
	for _, entry := range reg.Entries() {
		section, _ := data[entry.Namespace].(map[string]any)
		completed, err := validateRaw(entry.Namespace, entry.Schema, section, layer)
		if err != nil {
			return nil, err
		}
		assembled[entry.Namespace] = completed
	}

	return decode[T](assembled)
}

func setExisting(data map[string]any, key string, value any) error {
	parts := strings.Split(key, ".")
	if slices.Contains(parts, "") {
		return &OverrideError{Key: key, Reason: "empty path segment"}
	}

	target := data
	for _, segment := range parts[:len(parts)-1] {
		next, ok := target[segment].(map[string]any)
		if !ok {
			return &OverrideError{Key: key}
		}
		target = next
	}

	leaf := parts[len(parts)-1]
	if _, ok := target[leaf]; !ok {
		return &OverrideError{Key: key}
	}
	target[leaf] = value
	return nil
}
