// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/issue"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/resolver"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) Provider {
	t.Helper()

	p, err := NewProvider()
	require.NoError(t, err)
	return p
}

// emptyLoadOptions points at an empty project directory and a missing user
// file, with no environment.
func emptyLoadOptions(t *testing.T) LoadOptions {
	t.Helper()

	return LoadOptions{
		ProjectRoot:    t.TempDir(),
		UserConfigPath: filepath.Join(t.TempDir(), "settings.toml"),
		Environ:        []string{},
	}
}

func writeSettings(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       LoadOptions
		wantErrors int
	}{
		{name: "all empty", opts: LoadOptions{}},
		{name: "all valid", opts: LoadOptions{
			ProjectRoot:    "/tmp/project",
			UserConfigPath: "/tmp/settings.toml",
			Overrides:      map[string]any{"core.logging.level": "DEBUG"},
		}},
		{name: "whitespace project root", opts: LoadOptions{ProjectRoot: "   "}, wantErrors: 1},
		{name: "whitespace user config", opts: LoadOptions{UserConfigPath: "\t"}, wantErrors: 1},
		{name: "override without namespace", opts: LoadOptions{Overrides: map[string]any{"level": 1}}, wantErrors: 1},
		{name: "multiple invalid", opts: LoadOptions{
			ProjectRoot:    " ",
			UserConfigPath: " ",
			Overrides:      map[string]any{"core..level": 1},
		}, wantErrors: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantErrors == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidLoadOptions)
			var loadErr *InvalidLoadOptionsError
			require.ErrorAs(t, err, &loadErr)
			assert.Len(t, loadErr.FieldErrors, tt.wantErrors)
		})
	}
}

func TestInvalidLoadOptionsError_Error(t *testing.T) {
	t.Parallel()

	single := &InvalidLoadOptionsError{FieldErrors: []error{errors.New("test error")}}
	assert.Equal(t, "invalid load options: test error", single.Error())

	multiple := &InvalidLoadOptionsError{FieldErrors: []error{errors.New("err1"), errors.New("err2")}}
	assert.Equal(t, "invalid load options: 2 field errors", multiple.Error())
}

func TestProviderLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := newTestProvider(t).Load(t.Context(), emptyLoadOptions(t))
	require.NoError(t, err)

	assert.Equal(t, LogLevelInfo, cfg.Core.Logging.Level)
	assert.True(t, cfg.Core.Logging.ShowTime)
	assert.False(t, cfg.Core.Logging.ShowPath)
	assert.Equal(t, BackendPywal, cfg.Core.Generation.DefaultBackend)
	assert.InDelta(t, 1.0, cfg.Core.Generation.SaturationAdjustment, 1e-9)
	assert.Equal(t, PywalAlgorithmHaishoku, cfg.Core.Backends.Pywal.BackendAlgorithm)
	assert.Equal(t, "resized", cfg.Core.Backends.Wallust.BackendType)
	assert.Equal(t, ColorAlgorithmKMeans, cfg.Core.Backends.Custom.Algorithm)
	assert.Equal(t, 16, cfg.Core.Backends.Custom.NClusters)
	assert.Equal(t, []string{"json", "sh", "css", "gtk.css", "yaml", "sequences", "rasi", "scss"}, cfg.Core.Output.Formats)
	assert.Contains(t, cfg.Core.Output.Directory, ".config/color-scheme/output")
	assert.Equal(t, "templates", cfg.Core.Templates.Directory)
	assert.Equal(t, ContainerEngineDocker, cfg.Core.Container.Engine)
	assert.Equal(t, ContainerEngineDocker, cfg.Orchestrator.Engine)
	assert.Empty(t, cfg.Orchestrator.ImageRegistry)
}

func TestProviderLoadPrecedence(t *testing.T) {
	t.Parallel()

	opts := emptyLoadOptions(t)
	writeSettings(t, filepath.Join(opts.ProjectRoot, settings.SettingsFileName), `
[core.generation]
saturation_adjustment = 1.3
default_backend = "custom"
`)
	writeSettings(t, opts.UserConfigPath, `
[core.generation]
saturation_adjustment = 1.5

[orchestrator]
engine = "Podman"
image_registry = "ghcr.io/me/"
`)
	opts.Environ = []string{
		"COLORSCHEME_BACKENDS__CUSTOM__N_CLUSTERS=32",
		"COLORSCHEME_LOGGING__LEVEL=debug",
		"COLORSCHEME_GENERATION__DEFAULT_BACKEND=custom",
		"COLORSCHEME_NOT__A__SETTING=1",
	}
	opts.Overrides = map[string]any{"core.generation.default_backend": "wallust"}

	cfg, err := newTestProvider(t).Load(t.Context(), opts)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, cfg.Core.Generation.SaturationAdjustment, 1e-9, "user beats project")
	assert.Equal(t, BackendWallust, cfg.Core.Generation.DefaultBackend, "CLI beats env")
	assert.Equal(t, 32, cfg.Core.Backends.Custom.NClusters)
	assert.Equal(t, LogLevelDebug, cfg.Core.Logging.Level)
	assert.Equal(t, ContainerEnginePodman, cfg.Orchestrator.Engine)
	assert.Equal(t, "ghcr.io/me", cfg.Orchestrator.ImageRegistry)
}

func TestProviderOverrideReplacesInvalidEnvironmentValue(t *testing.T) {
	t.Parallel()

	opts := emptyLoadOptions(t)
	opts.Environ = []string{"COLORSCHEME_GENERATION__SATURATION_ADJUSTMENT=5"}
	opts.Overrides = map[string]any{string(KeySaturationAdjustment): 1.2}

	cfg, err := newTestProvider(t).Load(t.Context(), opts)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, cfg.Core.Generation.SaturationAdjustment, 1e-9)
}

func TestProviderSkipEnv(t *testing.T) {
	t.Parallel()

	opts := emptyLoadOptions(t)
	opts.Environ = []string{"COLORSCHEME_GENERATION__DEFAULT_BACKEND=custom"}
	opts.SkipEnv = true

	cfg, err := newTestProvider(t).Load(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, BackendPywal, cfg.Core.Generation.DefaultBackend)
}

func TestProviderLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown override key", func(t *testing.T) {
		t.Parallel()

		opts := emptyLoadOptions(t)
		opts.Overrides = map[string]any{"core.generation.nonexistent": 1}

		_, err := newTestProvider(t).Load(t.Context(), opts)
		require.ErrorIs(t, err, settings.ErrOverride)

		var ae *issue.ActionableError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "core.generation.nonexistent", ae.Resource)
		assert.True(t, ae.HasSuggestions())
	})

	t.Run("out of range user value", func(t *testing.T) {
		t.Parallel()

		opts := emptyLoadOptions(t)
		writeSettings(t, opts.UserConfigPath, "[core.generation]\nsaturation_adjustment = 5.0\n")

		_, err := newTestProvider(t).Load(t.Context(), opts)
		var verr *settings.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, NamespaceCore, verr.Namespace)
		assert.Equal(t, "user", verr.SourceLayer)
	})

	t.Run("out of range override", func(t *testing.T) {
		t.Parallel()

		opts := emptyLoadOptions(t)
		opts.Overrides = map[string]any{string(KeyCustomClusters): 4}

		_, err := newTestProvider(t).Load(t.Context(), opts)
		var verr *settings.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, settings.SourceOverride, verr.SourceLayer)
	})

	t.Run("out of range environment value", func(t *testing.T) {
		t.Parallel()

		opts := emptyLoadOptions(t)
		opts.Environ = []string{"COLORSCHEME_GENERATION__SATURATION_ADJUSTMENT=5"}

		_, err := newTestProvider(t).Load(t.Context(), opts)
		var verr *settings.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, settings.SourceEnv, verr.SourceLayer)

		var ae *issue.ActionableError
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, ae.Suggestions, "Check the COLORSCHEME_* environment variables")
		assert.NotContains(t, ae.Suggestions, "Check the values passed with --set")
	})

	t.Run("malformed project file", func(t *testing.T) {
		t.Parallel()

		opts := emptyLoadOptions(t)
		projectFile := filepath.Join(opts.ProjectRoot, settings.SettingsFileName)
		writeSettings(t, projectFile, "[core\n")

		_, err := newTestProvider(t).Load(t.Context(), opts)
		require.ErrorIs(t, err, settings.ErrFile)

		var ae *issue.ActionableError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, projectFile, ae.Resource)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := newTestProvider(t).Load(ctx, emptyLoadOptions(t))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestProviderReload(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	opts := emptyLoadOptions(t)
	opts.Overrides = map[string]any{string(KeyLogLevel): "ERROR"}
	writeSettings(t, opts.UserConfigPath, "[core.generation]\ndefault_backend = \"wallust\"\n")

	first, err := p.Load(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, BackendWallust, first.Core.Generation.DefaultBackend)

	writeSettings(t, opts.UserConfigPath, "[core.generation]\ndefault_backend = \"custom\"\n")

	cached, err := p.Load(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, BackendWallust, cached.Core.Generation.DefaultBackend, "file layers are cached")

	reloaded, err := p.Reload(t.Context())
	require.NoError(t, err)
	assert.Equal(t, BackendCustom, reloaded.Core.Generation.DefaultBackend)
	assert.Equal(t, LogLevelError, reloaded.Core.Logging.Level, "overrides of the last load are kept")
}

func TestProviderResolve(t *testing.T) {
	t.Parallel()

	opts := emptyLoadOptions(t)
	writeSettings(t, filepath.Join(opts.ProjectRoot, settings.SettingsFileName), "[core.generation]\nsaturation_adjustment = 1.3\n")
	writeSettings(t, opts.UserConfigPath, "[core.generation]\nsaturation_adjustment = 1.5\n")

	resolved, warnings, err := newTestProvider(t).Resolve(t.Context(), opts)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	v, ok := resolved.Get(string(KeySaturationAdjustment))
	require.True(t, ok)
	assert.Equal(t, resolver.SourceUserConfig, v.Source)
	require.Len(t, v.Overrides, 2)
	assert.Equal(t, resolver.SourceProjectConfig, v.Overrides[0].Source)
	assert.Equal(t, resolver.SourcePackageDefault, v.Overrides[1].Source)

	v, ok = resolved.Get(string(KeyDefaultBackend))
	require.True(t, ok)
	assert.Equal(t, resolver.SourcePackageDefault, v.Source)
	assert.Equal(t, "defaults/core.toml", v.SourceDetail)
}
