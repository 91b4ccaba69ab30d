// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/config"
)

type (
	// App wires the CLI to its services. Command handlers receive an App and
	// delegate configuration work to its Provider.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	provider := deps.Config
	if provider == nil {
		p, err := config.NewProvider()
		if err != nil {
			return nil, fmt.Errorf("create config provider: %w", err)
		}
		provider = p
	}

	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	return &App{
		Config: provider,
		stdout: stdout,
		stderr: stderr,
	}, nil
}
