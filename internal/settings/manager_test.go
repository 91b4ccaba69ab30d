// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	t.Parallel()

	m := NewManager[testConfig](newTestRegistry(t))

	_, err := m.Load()
	require.ErrorIs(t, err, ErrNotConfigured)

	opts := testLayout(t, "[core.generation]\nsaturation_adjustment = 1.3\n", "")
	m.Configure(opts)
	assert.Equal(t, opts, m.Options())

	first, err := m.Load()
	require.NoError(t, err)
	assert.InDelta(t, 1.3, first.Core.Generation.SaturationAdjustment, 1e-9)

	second, err := m.Load()
	require.NoError(t, err)
	assert.Same(t, first, second, "Load is cached")

	writeFile(t, opts.ProjectRoot, SettingsFileName, "[core.generation]\nsaturation_adjustment = 0.7\n")
	cached, err := m.Load()
	require.NoError(t, err)
	assert.Same(t, first, cached)

	reloaded, err := m.Reload()
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.InDelta(t, 0.7, reloaded.Core.Generation.SaturationAdjustment, 1e-9)

	withOverrides, err := m.Get(OverrideSet{Values: map[string]any{"orchestrator.engine": "podman"}})
	require.NoError(t, err)
	assert.Equal(t, "podman", withOverrides.Orchestrator.Engine)

	again, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "docker", again.Orchestrator.Engine, "overrides never touch the cache")

	m.Reset()
	assert.Equal(t, 0, m.Registry().Len())
	_, err = m.Load()
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestManagerConfigureDropsCache(t *testing.T) {
	t.Parallel()

	m := NewManager[testConfig](newTestRegistry(t))
	m.Configure(testLayout(t, "", ""))
	first, err := m.Load()
	require.NoError(t, err)

	m.Configure(testLayout(t, "[orchestrator]\nengine = \"podman\"\n", ""))
	second, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "docker", first.Orchestrator.Engine)
	assert.Equal(t, "podman", second.Orchestrator.Engine)
}

func TestManagerGetAppliesSetsInOrder(t *testing.T) {
	t.Parallel()

	m := NewManager[testConfig](newTestRegistry(t))
	m.Configure(testLayout(t, "", ""))

	cfg, err := m.Get(
		OverrideSet{Layer: SourceEnv, Values: map[string]any{"orchestrator.engine": "podman"}},
		OverrideSet{Values: map[string]any{"orchestrator.engine": "docker"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "docker", cfg.Orchestrator.Engine, "later sets win")

	cfg, err = m.Get()
	require.NoError(t, err)
	assert.Equal(t, "docker", cfg.Orchestrator.Engine)
}
