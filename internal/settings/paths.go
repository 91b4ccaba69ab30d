// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName names the per-user configuration directory.
	AppName = "color-scheme"
	// SettingsFileName is the file name of project and user settings files.
	SettingsFileName = "settings.toml"
	// TemplatesDirName is the default templates directory name.
	TemplatesDirName = "templates"
	// TemplatesEnvVar overrides the templates directory.
	TemplatesEnvVar = "COLOR_SCHEME_TEMPLATES"
	// ContainerTemplatesDir is where templates are mounted inside containers.
	ContainerTemplatesDir = "/templates"
	// ContainerOutputDir is where output is written inside containers.
	ContainerOutputDir = "/output"
)

// UserConfigDir returns $XDG_CONFIG_HOME/color-scheme, falling back to
// ~/.config/color-scheme.
func UserConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// UserSettingsFile returns the path of the user settings file.
func UserSettingsFile() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// ProjectSettingsFile returns the settings file inside projectRoot. An empty
// root means the current working directory.
func ProjectSettingsFile(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return filepath.Join(projectRoot, SettingsFileName)
}

// TemplatesOverride returns the templates directory set through
// COLOR_SCHEME_TEMPLATES, if any.
func TemplatesOverride() (string, bool) {
	dir, ok := os.LookupEnv(TemplatesEnvVar)
	if !ok || dir == "" {
		return "", false
	}
	return dir, true
}

// IsContainerEnvironment reports whether the process runs inside a container
// that mounts templates at ContainerTemplatesDir.
func IsContainerEnvironment() bool {
	info, err := os.Stat(ContainerTemplatesDir)
	return err == nil && info.IsDir()
}
