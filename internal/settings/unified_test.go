// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"testing"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFromLayout(t *testing.T, opts DiscoverOptions) (*testConfig, error) {
	t.Helper()

	reg := newTestRegistry(t)
	layers, err := NewDiscoverer(reg, opts).Discover()
	require.NoError(t, err)
	return BuildUnified[testConfig](reg, MergeLayers(layers), layers)
}

func TestBuildUnifiedPackageDefaultsOnly(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg, err := buildFromLayout(t, testLayout(t, "", ""))
	require.NoError(t, err)

	assert.Equal(t, "pywal", cfg.Core.Generation.DefaultBackend)
	assert.InDelta(t, 1.0, cfg.Core.Generation.SaturationAdjustment, 1e-9)
	assert.Equal(t, "/home/tester/out", cfg.Core.Output.Directory, "env references are expanded")
	assert.Equal(t, []string{"json", "css", "yaml"}, cfg.Core.Output.Formats)
	assert.Equal(t, "docker", cfg.Orchestrator.Engine)
}

func TestBuildUnifiedLayerChain(t *testing.T) {
	t.Parallel()

	cfg, err := buildFromLayout(t, testLayout(t, `
[core.generation]
saturation_adjustment = 1.3
[core.output]
formats = ["sh"]
`, `
[core.generation]
saturation_adjustment = 1.5
[orchestrator]
image_registry = "ghcr.io/me/"
`))
	require.NoError(t, err)

	assert.InDelta(t, 1.5, cfg.Core.Generation.SaturationAdjustment, 1e-9)
	assert.Equal(t, []string{"sh"}, cfg.Core.Output.Formats, "lists are replaced, not merged")
	assert.Equal(t, "ghcr.io/me", cfg.Orchestrator.ImageRegistry, "normalizer runs after decode")
}

func TestBuildUnifiedKeysAreLowerCased(t *testing.T) {
	t.Parallel()

	cfg, err := buildFromLayout(t, testLayout(t, `
[core.Generation]
Default_Backend = "wallust"
`, ""))
	require.NoError(t, err)
	assert.Equal(t, "wallust", cfg.Core.Generation.DefaultBackend)
}

func TestBuildUnifiedRangeFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		project string
		user    string
		layer   string
	}{
		{
			name:    "project layer",
			project: "[core.generation]\nsaturation_adjustment = 5.0\n",
			layer:   "project",
		},
		{
			name:  "user layer",
			user:  "[core.generation]\nsaturation_adjustment = 5.0\n",
			layer: "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := buildFromLayout(t, testLayout(t, tt.project, tt.user))
			assert.Nil(t, cfg, "no partial configuration on failure")

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "core", valErr.Namespace)
			assert.Equal(t, tt.layer, valErr.SourceLayer)
			assert.Contains(t, err.Error(), "saturation_adjustment")
		})
	}
}

func TestBuildUnifiedMissingNamespaceUsesSchemaDefaults(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	cfg, err := BuildUnified[testConfig](reg, map[string]tree.Map{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Core.Output.Directory)
	assert.Equal(t, []string{"json", "css"}, cfg.Core.Output.Formats)
	assert.Equal(t, "docker", cfg.Orchestrator.Engine)
}

func TestValidateNamespaceWrongType(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	entry, err := reg.Get("orchestrator")
	require.NoError(t, err)

	data, err := tree.MapFromAny(map[string]any{"engine": int64(3)})
	require.NoError(t, err)

	_, err = ValidateNamespace("orchestrator", entry.Schema, data, "user")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "from user layer")
}
