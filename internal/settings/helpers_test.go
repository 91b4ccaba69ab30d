// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/RandomGenericUsername/color-scheme-generator/pkg/cueutil"

	"github.com/stretchr/testify/require"
)

const (
	testCoreSchema = `
#Core: {
	generation: {
		default_backend:       *"pywal" | "wallust" | "custom"
		saturation_adjustment: *1.0 | (number & >=0.0 & <=2.0)
		...
	}
	output: {
		directory: *"out" | string
		formats:   [...string] | *["json", "css"]
		...
	}
	...
}
`
	testOrchestratorSchema = `
#Orchestrator: {
	engine:         *"docker" | "podman"
	image_registry: *"" | string
	...
}
`
	testCoreDefaults = `
[generation]
default_backend = "pywal"
saturation_adjustment = 1.0

[output]
directory = "$HOME/out"
formats = ["json", "css", "yaml"]
`
	testOrchestratorDefaults = `
engine = "docker"
`
)

type (
	testGeneration struct {
		DefaultBackend       string  `mapstructure:"default_backend"`
		SaturationAdjustment float64 `mapstructure:"saturation_adjustment"`
	}

	testOutput struct {
		Directory string   `mapstructure:"directory"`
		Formats   []string `mapstructure:"formats"`
	}

	testCore struct {
		Generation testGeneration `mapstructure:"generation"`
		Output     testOutput     `mapstructure:"output"`
	}

	testOrchestrator struct {
		Engine        string `mapstructure:"engine"`
		ImageRegistry string `mapstructure:"image_registry"`
	}

	testConfig struct {
		Core         testCore         `mapstructure:"core"`
		Orchestrator testOrchestrator `mapstructure:"orchestrator"`
	}
)

// Normalize strips the trailing slash of the registry like the real
// orchestrator settings do.
func (c *testConfig) Normalize() {
	for len(c.Orchestrator.ImageRegistry) > 0 && c.Orchestrator.ImageRegistry[len(c.Orchestrator.ImageRegistry)-1] == '/' {
		c.Orchestrator.ImageRegistry = c.Orchestrator.ImageRegistry[:len(c.Orchestrator.ImageRegistry)-1]
	}
}

func testDefaultsFS() fstest.MapFS {
	return fstest.MapFS{
		"defaults/core.toml":         {Data: []byte(testCoreDefaults)},
		"defaults/orchestrator.toml": {Data: []byte(testOrchestratorDefaults)},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	reg := NewRegistry()
	fsys := testDefaultsFS()
	require.NoError(t, reg.Register("core",
		cueutil.MustCompileSchema([]byte(testCoreSchema), "#Core", cueutil.WithLabel("core")),
		"defaults/core.toml", WithDefaultsFS(fsys)))
	require.NoError(t, reg.Register("orchestrator",
		cueutil.MustCompileSchema([]byte(testOrchestratorSchema), "#Orchestrator", cueutil.WithLabel("orchestrator")),
		"defaults/orchestrator.toml", WithDefaultsFS(fsys)))
	return reg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testLayout creates a project root and user config path in a temp dir.
// Empty contents leave the corresponding file absent.
func testLayout(t *testing.T, project, user string) DiscoverOptions {
	t.Helper()

	root := t.TempDir()
	opts := DiscoverOptions{
		ProjectRoot:    filepath.Join(root, "project"),
		UserConfigPath: filepath.Join(root, "user", SettingsFileName),
	}
	require.NoError(t, os.MkdirAll(opts.ProjectRoot, 0o755))
	if project != "" {
		writeFile(t, opts.ProjectRoot, SettingsFileName, project)
	}
	if user != "" {
		writeFile(t, filepath.Join(root, "user"), SettingsFileName, user)
	}
	return opts
}
