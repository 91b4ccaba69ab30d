// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/issue"
)

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		got, err := parseOverrides(nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("values are read as toml scalars", func(t *testing.T) {
		t.Parallel()

		got, err := parseOverrides([]string{
			"core.logging.level=DEBUG",
			"core.generation.saturation_adjustment=1.5",
			"core.backends.custom.n_clusters=32",
			"core.logging.show_time=false",
			`core.output.formats=["json"]`,
			"core.templates.directory=a=b",
			` orchestrator.engine =podman`,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"core.logging.level":                    "DEBUG",
			"core.generation.saturation_adjustment": 1.5,
			"core.backends.custom.n_clusters":       int64(32),
			"core.logging.show_time":                false,
			"core.output.formats":                   []any{"json"},
			"core.templates.directory":              "a=b",
			"orchestrator.engine":                   "podman",
		}, got)
	})

	t.Run("later pair wins", func(t *testing.T) {
		t.Parallel()

		got, err := parseOverrides([]string{"core.logging.level=DEBUG", "core.logging.level=ERROR"})
		require.NoError(t, err)
		assert.Equal(t, "ERROR", got["core.logging.level"])
	})

	for _, pair := range []string{"novalue", "=x", "core=x", "core..level=x"} {
		t.Run("rejects "+pair, func(t *testing.T) {
			t.Parallel()

			_, err := parseOverrides([]string{pair})
			require.ErrorIs(t, err, errInvalidOverride)
			assert.Equal(t, issue.InvalidOverrideFormatId, classifyError(err))

			var ae *issue.ActionableError
			require.ErrorAs(t, err, &ae)
			assert.Contains(t, ae.Format(true), "--set namespace.section.key=value")
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := parseFormat(" JSON ", formatTOML, formatJSON)
	require.NoError(t, err)
	assert.Equal(t, formatJSON, f)

	_, err = parseFormat("yaml", formatJSON, formatText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of: json, text")
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pywal", formatValue("pywal"))
	assert.Equal(t, "16", formatValue(int64(16)))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, `["json","css"]`, formatValue([]any{"json", "css"}))
}
