// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/resolver"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
)

// errUnknownKey is returned by `config get` for keys no source defines.
var errUnknownKey = errors.New("unknown setting key")

// newConfigCommand creates the `colorscheme config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate settings",
		Long: `Inspect and validate settings.

Project settings are read from settings.toml in the project root and user
settings from $XDG_CONFIG_HOME/color-scheme/settings.toml. Both files use
namespaced tables such as [core.generation] or [orchestrator].`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(
		newConfigShowCommand(app, flags),
		newConfigResolveCommand(app, flags),
		newConfigGetCommand(app, flags),
		newConfigPathCommand(app, flags),
		newConfigValidateCommand(app, flags),
		newConfigWatchCommand(app, flags),
	)

	return cfgCmd
}

// addSetFlag registers the repeatable --set flag on cmd.
func addSetFlag(cmd *cobra.Command, sets *[]string) {
	cmd.Flags().StringArrayVar(sets, "set", nil, "override a setting as key=value (repeatable)")
}

func newConfigShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		sets   []string
		format string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format, formatTOML, formatJSON, formatYAML)
			if err != nil {
				return err
			}
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			cfg, err := app.Config.Load(cmd.Context(), flags.loadOptions(overrides))
			if err != nil {
				return err
			}
			out, err := formatConfig(cfg, f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addSetFlag(cmd, &sets)
	cmd.Flags().StringVarP(&format, "format", "f", string(formatTOML), "output format: toml, json or yaml")
	return cmd
}

func newConfigResolveCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		sets   []string
		format string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show every setting with the source it came from",
		Long: `Show every setting with the source it came from.

Values are not validated, so resolve also works while a settings file holds
an invalid value. Unreadable project or user files are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format, formatJSON, formatText)
			if err != nil {
				return err
			}
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			resolved, warnings, err := app.Config.Resolve(cmd.Context(), flags.loadOptions(overrides))
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), warnings)

			if f == formatText {
				printResolved(cmd.OutOrStdout(), resolved, flags.verbose)
				return nil
			}
			data, err := json.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return fmt.Errorf("encode resolved config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	addSetFlag(cmd, &sets)
	cmd.Flags().StringVarP(&format, "format", "f", string(formatJSON), "output format: json or text")
	return cmd
}

func newConfigGetCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting, or every setting below a section",
		Example: `  colorscheme config get core.generation.default_backend
  colorscheme config get core.backends`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			resolved, warnings, err := app.Config.Resolve(cmd.Context(), flags.loadOptions(overrides))
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), warnings)
			return printKey(cmd.OutOrStdout(), resolved, strings.ToLower(strings.TrimSpace(args[0])), flags.verbose)
		},
	}
	addSetFlag(cmd, &sets)
	return cmd
}

func newConfigPathCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where settings are read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showPaths(cmd.OutOrStdout(), newDiscoverer(app, flags))
		},
	}
}

func newConfigValidateCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the settings load and pass validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			if _, err := app.Config.Load(cmd.Context(), flags.loadOptions(overrides)); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("✗")+" configuration is invalid")
				return &ExitError{Code: exitInvalidConfig, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓")+" configuration is valid")
			return nil
		},
	}
	addSetFlag(cmd, &sets)
	return cmd
}

// newDiscoverer locates settings files the same way the provider does.
func newDiscoverer(app *App, flags *rootFlagValues) *settings.Discoverer {
	opts := flags.loadOptions(nil)
	return settings.NewDiscoverer(app.Config.Registry(), settings.DiscoverOptions{
		ProjectRoot:    opts.ProjectRoot,
		UserConfigPath: opts.UserConfigPath,
	})
}

func showPaths(w io.Writer, d *settings.Discoverer) error {
	fmt.Fprintln(w, TitleStyle.Render("Settings files"))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("project"), describeFile(d.ProjectFile()))
	userFile, err := d.UserFile()
	if err != nil {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("user"), WarningStyle.Render(err.Error()))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("user"), describeFile(userFile))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Templates"))
	if dir, ok := settings.TemplatesOverride(); ok {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(settings.TemplatesEnvVar), dir)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(settings.TemplatesEnvVar), SubtitleStyle.Render("(not set)"))
	}
	if settings.IsContainerEnvironment() {
		fmt.Fprintf(w, "%s: %s mounted, output goes to %s\n", KeyStyle.Render("container"), settings.ContainerTemplatesDir, settings.ContainerOutputDir)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("container"), SubtitleStyle.Render("(not detected)"))
	}
	return nil
}

func describeFile(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path + " " + SubtitleStyle.Render("(not found)")
	}
	return path
}

func printWarnings(w io.Writer, warnings []resolver.Warning) {
	for _, warn := range warnings {
		style, ok := warningStyles[warn.Level]
		if !ok {
			style = WarningStyle
		}
		fmt.Fprintln(w, style.Render(warn.String()))
	}
}

func printResolved(w io.Writer, resolved *resolver.ResolvedConfig, verbose bool) {
	for key, v := range resolved.All() {
		printValue(w, key, v, verbose)
	}
}

func printValue(w io.Writer, key string, v resolver.ResolvedValue, verbose bool) {
	fmt.Fprintf(w, "%s = %s  %s %s\n",
		KeyStyle.Render(key), formatValue(v.Value), renderSource(v.Source), VerboseStyle.Render(v.SourceDetail))
	if !verbose || !v.Overridden() {
		return
	}
	for _, o := range v.Overrides {
		fmt.Fprintf(w, "    %s %s from %s\n", VerboseStyle.Render("overrides"), formatValue(o.Value), renderSource(o.Source))
	}
}

// printKey prints key when it is a setting, or every setting below it when
// it names a section.
func printKey(w io.Writer, resolved *resolver.ResolvedConfig, key string, verbose bool) error {
	if v, ok := resolved.Get(key); ok {
		if !verbose {
			fmt.Fprintln(w, formatValue(v.Value))
			return nil
		}
		printValue(w, key, v, true)
		return nil
	}

	prefix := key + "."
	found := false
	for k, v := range resolved.All() {
		if strings.HasPrefix(k, prefix) {
			printValue(w, k, v, verbose)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", errUnknownKey, key)
	}
	return nil
}
