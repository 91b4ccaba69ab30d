// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the colorscheme command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/config"
)

// envPrefix binds every persistent flag to a COLOR_SCHEME_<FLAG> variable,
// e.g. --log-level to COLOR_SCHEME_LOG_LEVEL.
const envPrefix = "COLOR_SCHEME"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags after viper merged them with the
// environment.
type rootFlagValues struct {
	projectRoot string
	userConfig  string
	logLevel    string
	verbose     bool
	noEnv       bool
}

// NewRootCommand builds the colorscheme command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root, _ := newRootCommand(app)
	return root
}

func newRootCommand(app *App) (*cobra.Command, *rootFlagValues) {
	flags := &rootFlagValues{}
	v := viper.New()

	root := &cobra.Command{
		Use:   "colorscheme",
		Short: "Generate color schemes from images",
		Long: TitleStyle.Render("colorscheme") + SubtitleStyle.Render(" - generate color schemes from images") + `

Settings are resolved from five layers, highest precedence first:
  1. Command-line overrides (--set core.generation.default_backend=wallust)
  2. Environment variables (COLORSCHEME_GENERATION__DEFAULT_BACKEND=wallust)
  3. User settings ($XDG_CONFIG_HOME/color-scheme/settings.toml)
  4. Project settings (./settings.toml)
  5. Package defaults

` + SubtitleStyle.Render("Examples:") + `
  colorscheme config show               Show the effective configuration
  colorscheme config resolve            Show where every setting comes from
  colorscheme config get core.logging.level
  colorscheme config watch              Reload when settings files change`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags.readFrom(v)
			return setupLogging(cmd.Context(), app, flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	pf := root.PersistentFlags()
	pf.String("project-root", "", "directory holding the project settings.toml (default: current directory)")
	pf.String("user-config", "", "user settings file (default: $XDG_CONFIG_HOME/color-scheme/settings.toml)")
	pf.String("log-level", "", "DEBUG, INFO, WARNING, ERROR or CRITICAL (default: core.logging.level)")
	pf.BoolP("verbose", "v", false, "show full error chains and value sources")
	pf.Bool("no-env", false, "ignore COLORSCHEME_* environment variables")

	// BindPFlags only fails for a nil flag set.
	_ = v.BindPFlags(pf)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newConfigCommand(app, flags))

	return root, flags
}

func (f *rootFlagValues) readFrom(v *viper.Viper) {
	f.projectRoot = v.GetString("project-root")
	f.userConfig = v.GetString("user-config")
	f.logLevel = v.GetString("log-level")
	f.verbose = v.GetBool("verbose")
	f.noEnv = v.GetBool("no-env")
}

// loadOptions builds provider options from the persistent flags.
func (f *rootFlagValues) loadOptions(overrides map[string]any) config.LoadOptions {
	return config.LoadOptions{
		ProjectRoot:    f.projectRoot,
		UserConfigPath: f.userConfig,
		Overrides:      overrides,
		SkipEnv:        f.noEnv,
	}
}

// setupLogging installs a charmbracelet/log handler as the slog default.
// Without --log-level the level and decorations come from core.logging; a
// configuration that fails to load falls back to INFO and is reported by
// the command itself.
func setupLogging(ctx context.Context, app *App, flags *rootFlagValues) error {
	logging := config.LoggingConfig{Level: config.LogLevelInfo}
	if cfg, err := app.Config.Load(ctx, flags.loadOptions(nil)); err == nil {
		logging = cfg.Core.Logging
	}

	if flags.logLevel != "" {
		level := config.LogLevel(strings.ToUpper(flags.logLevel))
		if valid, errs := level.IsValid(); !valid {
			return errs[0]
		}
		logging.Level = level
	} else if flags.verbose {
		logging.Level = config.LogLevelDebug
	}

	applyLogging(app, logging)
	return nil
}

// newLogHandler returns a charmbracelet logger configured from logging. It
// implements slog.Handler.
func newLogHandler(w io.Writer, logging config.LoggingConfig) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           log.Level(logging.Level.SlogLevel()),
		ReportTimestamp: logging.ShowTime,
		ReportCaller:    logging.ShowPath,
	})
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		renderError(os.Stderr, err, true)
		os.Exit(1)
	}

	root, flags := newRootCommand(app)
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, flags.verbose)
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
