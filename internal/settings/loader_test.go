// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings/tree"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/testutil"
	"github.com/RandomGenericUsername/color-scheme-generator/pkg/cueutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "settings.toml", `
[core.generation]
saturation_adjustment = 1.3
[core.output]
formats = ["json"]
`)
		m, found, err := LoadFile(path)
		require.NoError(t, err)
		require.True(t, found)

		v, ok := m.LookupKey("core.generation.saturation_adjustment")
		require.True(t, ok)
		got, _ := v.AsScalar()
		assert.InDelta(t, 1.3, got, 1e-9)

		v, ok = m.LookupKey("core.output.formats")
		require.True(t, ok)
		assert.Equal(t, tree.KindList, v.Kind())
	})

	t.Run("missing file is absent, not an error", func(t *testing.T) {
		t.Parallel()

		m, found, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, m)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "settings.toml", "[core\nkey = ")
		_, found, err := LoadFile(path)
		assert.False(t, found)

		var fileErr *FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, path, fileErr.Path)
		assert.Positive(t, fileErr.Line)
		assert.ErrorIs(t, err, ErrSettings)
	})

	t.Run("directory is unreadable", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, _, err := LoadFile(dir)
		assert.ErrorIs(t, err, ErrFile)
	})
}

func TestParseTOMLTooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("a = \"" + strings.Repeat("x", int(cueutil.DefaultMaxFileSize)) + "\"")
	_, err := ParseTOML("big.toml", data)
	assert.ErrorIs(t, err, ErrFile)
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	m, found, err := LoadFS(testDefaultsFS(), "defaults/orchestrator.toml")
	require.NoError(t, err)
	require.True(t, found)
	v, _ := m.LookupKey("engine")
	got, _ := v.AsScalar()
	assert.Equal(t, "docker", got)

	_, found, err = LoadFS(testDefaultsFS(), "defaults/missing.toml")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestParseScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want any
	}{
		{in: "1.5", want: 1.5},
		{in: "16", want: int64(16)},
		{in: "true", want: true},
		{in: "podman", want: "podman"},
		{in: `"quoted"`, want: "quoted"},
		{in: "['json', 'css']", want: []any{"json", "css"}},
		{in: "/tmp/out", want: "/tmp/out"},
		{in: "", want: ""},
		{in: "1\nx = 2", want: "1\nx = 2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ParseScalar(tt.in))
		})
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := UserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", AppName), dir)

	file, err := UserSettingsFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", AppName, SettingsFileName), file)

	home := t.TempDir()
	testutil.SetHomeDir(t, home)
	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = UserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", AppName), dir)

	want := testutil.IsolateUserConfig(t)
	file, err = UserSettingsFile()
	require.NoError(t, err)
	assert.Equal(t, want, file)

	assert.Equal(t, filepath.Join("proj", SettingsFileName), ProjectSettingsFile("proj"))
	assert.Equal(t, SettingsFileName, ProjectSettingsFile(""))

	t.Setenv(TemplatesEnvVar, "/my/templates")
	got, ok := TemplatesOverride()
	assert.True(t, ok)
	assert.Equal(t, "/my/templates", got)

	require.NoError(t, os.Unsetenv(TemplatesEnvVar))
	_, ok = TemplatesOverride()
	assert.False(t, ok)
}
