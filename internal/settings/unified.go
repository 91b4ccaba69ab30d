// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"os"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings/tree"
	"github.com/RandomGenericUsername/color-scheme-generator/pkg/cueutil"

	"github.com/go-viper/mapstructure/v2"
)

// SourceLayer values reported when re-validation after overrides fails.
const (
	// SourceOverride blames explicit overrides such as command-line flags.
	SourceOverride = "override"
	// SourceEnv blames overrides collected from environment variables.
	SourceEnv = "env"
)

// Normalizer is implemented by configuration types that canonicalize values
// after decoding (for example upper-casing a log level).
type Normalizer interface {
	Normalize()
}

// Transform expands environment references in string values and then
// lower-cases every key.
func Transform(m tree.Map) tree.Map {
	return tree.LowerKeys(tree.ExpandEnv(m, os.LookupEnv))
}

// ValidateNamespace transforms data and validates it against schema. It
// returns the completed namespace tree with schema defaults applied.
func ValidateNamespace(namespace string, schema *cueutil.Schema, data tree.Map, sourceLayer string) (map[string]any, error) {
	return validateRaw(namespace, schema, Transform(data).Any(), sourceLayer)
}

func validateRaw(namespace string, schema *cueutil.Schema, data map[string]any, sourceLayer string) (map[string]any, error) {
	completed, err := schema.Validate(data)
	if err != nil {
		return nil, &ValidationError{Namespace: namespace, SourceLayer: sourceLayer, Err: err}
	}
	return completed, nil
}

// BuildUnified validates every registered namespace and decodes the result
// into a new *T whose fields are tagged with the namespace names. A
// namespace no layer touched is validated as an empty table, so its schema
// defaults apply. A validation failure is attributed to the highest layer
// that contributed to the failing namespace.
func BuildUnified[T any](reg *Registry, merged map[string]tree.Map, layers []LayerSource) (*T, error) {
	topmost := make(map[string]Layer)
	for _, layer := range layers {
		if layer.Layer > topmost[layer.Namespace] {
			topmost[layer.Namespace] = layer.Layer
		}
	}

	assembled := make(map[string]any, reg.Len())
	for _, entry := range reg.Entries() {
		sourceLayer := ""
		if l, ok := topmost[entry.Namespace]; ok {
			sourceLayer = l.String()
		}

		completed, err := ValidateNamespace(entry.Namespace, entry.Schema, merged[entry.Namespace], sourceLayer)
		if err != nil {
			return nil, err
		}
		assembled[entry.Namespace] = completed
	}

	return decode[T](assembled)
}

func decode[T any](input map[string]any) (*T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  &out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create settings decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if n, ok := any(&out).(Normalizer); ok {
		n.Normalize()
	}
	return &out, nil
}

// encode serializes a configuration value into nested maps keyed by the
// mapstructure tags.
func encode(cfg any) (map[string]any, error) {
	var out map[string]any
	if err := mapstructure.Decode(cfg, &out); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return out, nil
}
