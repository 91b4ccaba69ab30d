// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/issue"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
)

// parseOverrides turns repeated --set key=value arguments into an override
// map. Values are read as TOML scalars where possible; a later pair for the
// same key wins. Keys are checked for shape only; the provider rejects keys
// that name no setting.
func parseOverrides(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		rawKey, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, invalidOverride(pair, fmt.Errorf("%w: %q is not a key=value pair", errInvalidOverride, pair))
		}
		key, err := settings.ParseKey(strings.TrimSpace(rawKey))
		if err != nil {
			return nil, invalidOverride(pair, fmt.Errorf("%w: %w", errInvalidOverride, err))
		}
		overrides[key.String()] = settings.ParseScalar(raw)
	}
	return overrides, nil
}

func invalidOverride(pair string, err error) error {
	return issue.NewErrorContext().
		WithOperation("parse --set override").
		WithResource(pair).
		WithSuggestion("Use the form --set namespace.section.key=value").
		WithSuggestion("Quote TOML strings and arrays in the shell: --set 'core.output.formats=[\"json\"]'").
		Wrap(err).
		BuildError()
}
