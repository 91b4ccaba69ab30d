// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"slices"
	"strings"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings/tree"
)

const (
	// DefaultEnvPrefix prefixes every settings environment variable.
	DefaultEnvPrefix = "COLORSCHEME_"
	// DefaultNamespace receives environment variables whose first segment
	// does not name a registered namespace.
	DefaultNamespace = "core"

	envNestSeparator = "__"
)

// legacyEnv maps single-purpose variables to the path they set below the
// default namespace.
var legacyEnv = map[string][]string{
	settings.TemplatesEnvVar: {"templates", "directory"},
}

type (
	// EnvOptions controls how environment variables map to settings keys.
	EnvOptions struct {
		// Prefix defaults to DefaultEnvPrefix.
		Prefix string
		// DefaultNamespace defaults to DefaultNamespace.
		DefaultNamespace string
		// Namespaces are the registered namespaces a variable may name
		// explicitly, as in COLORSCHEME_ORCHESTRATOR__ENGINE.
		Namespaces []string
	}

	// EnvSettings are the settings found in the environment.
	EnvSettings struct {
		// Data is keyed by namespace at the top level.
		Data tree.Map
		// Vars maps each dot-path key to the variable that set it.
		Vars map[string]string
		// Warnings report variables that were ignored.
		Warnings []Warning
	}
)

func (o EnvOptions) withDefaults() EnvOptions {
	if o.Prefix == "" {
		o.Prefix = DefaultEnvPrefix
	}
	if o.DefaultNamespace == "" {
		o.DefaultNamespace = DefaultNamespace
	}
	return o
}

// CollectEnv maps environ ("KEY=value" entries, as from os.Environ) to
// settings. COLORSCHEME_OUTPUT__DIRECTORY sets core.output.directory and
// COLORSCHEME_ORCHESTRATOR__ENGINE sets orchestrator.engine: "__" separates
// path segments, segments are lower-cased and values are parsed as TOML
// scalars. The legacy COLOR_SCHEME_TEMPLATES variable sets
// core.templates.directory and takes priority over the prefixed form.
func CollectEnv(environ []string, opts EnvOptions) EnvSettings {
	opts = opts.withDefaults()
	out := EnvSettings{Data: make(tree.Map), Vars: make(map[string]string)}

	sorted := slices.Clone(environ)
	slices.Sort(sorted)

	var legacy []string
	for _, kv := range sorted {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, isLegacy := legacyEnv[name]; isLegacy {
			legacy = append(legacy, kv)
			continue
		}
		if !strings.HasPrefix(name, opts.Prefix) {
			continue
		}

		path, ok := envPath(strings.TrimPrefix(name, opts.Prefix), opts)
		if !ok {
			out.Warnings = append(out.Warnings, Warning{
				Level:   LevelInfo,
				Message: "Ignoring environment variable with an empty key segment",
				Detail:  name,
				Action:  "Use " + opts.Prefix + "<SECTION>" + envNestSeparator + "<KEY>",
			})
			continue
		}
		v, err := tree.FromAny(settings.ParseScalar(value))
		if err != nil {
			v = tree.Scalar(value)
		}
		out.set(path, v, name)
	}

	for _, kv := range legacy {
		name, value, _ := strings.Cut(kv, "=")
		path := append([]string{opts.DefaultNamespace}, legacyEnv[name]...)
		out.set(path, tree.Scalar(value), name)
	}

	return out
}

// Overrides returns the collected settings as a flat dot-path map suitable
// for settings.ApplyOverrides.
func (e EnvSettings) Overrides() map[string]any {
	out := make(map[string]any, len(e.Vars))
	for key, v := range e.Data.Leaves() {
		out[key] = v.Any()
	}
	return out
}

// Var returns the variable that set key or one of its parent tables.
func (e EnvSettings) Var(key string) (string, bool) {
	for {
		if name, ok := e.Vars[key]; ok {
			return name, true
		}
		i := strings.LastIndex(key, tree.PathSeparator)
		if i < 0 {
			return "", false
		}
		key = key[:i]
	}
}

func (e *EnvSettings) set(path []string, value tree.Value, name string) {
	e.Data.Set(path, value)
	e.Vars[strings.Join(path, tree.PathSeparator)] = name
}

func envPath(rest string, opts EnvOptions) ([]string, bool) {
	parts := strings.Split(strings.ToLower(rest), envNestSeparator)
	if slices.Contains(parts, "") {
		return nil, false
	}
	if len(parts) > 1 && slices.Contains(opts.Namespaces, parts[0]) {
		return parts, true
	}
	return append([]string{opts.DefaultNamespace}, parts...), true
}
