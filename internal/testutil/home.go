// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Mirrors of the settings package constants. testutil cannot import it
// because the settings tests import testutil.
const (
	userConfigDirName = "color-scheme"
	settingsFileName  = "settings.toml"
)

// SetHomeDir points the platform's home variable (USERPROFILE on Windows,
// HOME elsewhere) at dir until the test ends.
func SetHomeDir(t testing.TB, dir string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", dir)
		return
	}
	t.Setenv("HOME", dir)
}

// IsolateUserConfig gives the test an empty home and XDG_CONFIG_HOME and
// returns the user settings file they imply. The file is not created.
func IsolateUserConfig(t testing.TB) string {
	t.Helper()

	home := t.TempDir()
	SetHomeDir(t, home)
	configHome := filepath.Join(home, ".config-xdg")
	t.Setenv("XDG_CONFIG_HOME", configHome)
	return filepath.Join(configHome, userConfigDirName, settingsFileName)
}

// WriteUserSettings isolates the user configuration like IsolateUserConfig
// and writes content to the user settings file.
func WriteUserSettings(t testing.TB, content string) string {
	t.Helper()

	path := IsolateUserConfig(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create user config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write user settings: %v", err)
	}
	return path
}
