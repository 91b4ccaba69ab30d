// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/config"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/watch"
)

// errWatch marks failures of the settings watcher itself.
var errWatch = errors.New("settings watch failed")

func newConfigWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		sets     []string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the configuration whenever a settings file changes",
		Long: `Reload the configuration whenever a settings file changes.

The project and user settings files are watched. Every change triggers a
full reload. An invalid edit is reported and watching continues, so the
next save that fixes it is picked up. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), app, flags, overrides, debounce, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addSetFlag(cmd, &sets)
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before reloading")
	return cmd
}

func runWatch(ctx context.Context, app *App, flags *rootFlagValues, overrides map[string]any, debounce time.Duration, stdout, stderr io.Writer) error {
	if _, err := app.Config.Load(ctx, flags.loadOptions(overrides)); err != nil {
		fmt.Fprintf(stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, flags.verbose))
	}

	files := settingsFiles(newDiscoverer(app, flags))
	w, err := watch.New(watch.Config{
		Files:    files,
		Debounce: debounce,
		OnChange: reloadOnChange(app, flags, stdout, stderr),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errWatch, err)
	}

	slog.Debug("watching settings directories", "dirs", w.Dirs())
	fmt.Fprintf(stdout, "%s Watching %s (Ctrl+C to stop)\n", KeyStyle.Render("→"), strings.Join(files, ", "))
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("%w: %w", errWatch, err)
	}
	return nil
}

// settingsFiles returns the project and user settings files. A user file
// that cannot be located is left out.
func settingsFiles(d *settings.Discoverer) []string {
	files := []string{d.ProjectFile()}
	if user, err := d.UserFile(); err == nil {
		files = append(files, user)
	} else {
		slog.Debug("user settings file not watched", "error", err)
	}
	return files
}

// reloadOnChange returns the watcher callback. It reloads through the
// provider and, unless --log-level pinned the level, applies the reloaded
// logging settings.
func reloadOnChange(app *App, flags *rootFlagValues, stdout, stderr io.Writer) func(context.Context, []string) error {
	return func(ctx context.Context, changed []string) error {
		cfg, err := app.Config.Reload(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "%s reload failed: %s\n",
				WarningStyle.Render("!"), formatErrorForDisplay(err, flags.verbose))
			return nil
		}
		if flags.logLevel == "" {
			applyLogging(app, cfg.Core.Logging)
		}
		fmt.Fprintf(stdout, "%s Reloaded after change to %s\n", SuccessStyle.Render("✓"), strings.Join(changed, ", "))
		return nil
	}
}

func applyLogging(app *App, logging config.LoggingConfig) {
	slog.SetDefault(slog.New(newLogHandler(app.stderr, logging)))
}
