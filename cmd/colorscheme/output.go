// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/config"
)

// outputFormat selects how commands serialize their results.
type outputFormat string

const (
	formatTOML outputFormat = "toml"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
	formatText outputFormat = "text"
)

// parseFormat validates s against the formats a command supports.
func parseFormat(s string, allowed ...outputFormat) (outputFormat, error) {
	f := outputFormat(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(allowed, f) {
		return f, nil
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("unsupported format %q (expected one of: %s)", s, strings.Join(names, ", "))
}

// formatConfig serializes cfg. TOML output uses the namespaced layout of a
// project settings file, so it can be saved as one.
func formatConfig(cfg *config.UnifiedConfig, f outputFormat) (string, error) {
	if f == formatJSON {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode config as json: %w", err)
		}
		return string(data) + "\n", nil
	}

	m, err := cfg.ToMap()
	if err != nil {
		return "", err
	}
	switch f {
	case formatTOML:
		data, err := toml.Marshal(m)
		if err != nil {
			return "", fmt.Errorf("encode config as toml: %w", err)
		}
		return string(data), nil
	case formatYAML:
		data, err := yaml.Marshal(m)
		if err != nil {
			return "", fmt.Errorf("encode config as yaml: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format %q", f)
	}
}

// formatValue renders a resolved value on one line. Strings are printed
// bare; everything else as JSON.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
