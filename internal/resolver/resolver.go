// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings/tree"
)

type (
	// Options locates the sources a Resolver reads.
	Options struct {
		// ProjectRoot is the directory holding the project settings.toml.
		// Empty means the current working directory.
		ProjectRoot string
		// UserConfigPath is the user settings file. Empty means
		// settings.UserSettingsFile().
		UserConfigPath string
		// EnvPrefix defaults to DefaultEnvPrefix.
		EnvPrefix string
		// DefaultNamespace defaults to DefaultNamespace.
		DefaultNamespace string
		// Environ replaces os.Environ() when non-nil.
		Environ []string
	}

	// Resolver resolves settings with per-key source attribution.
	Resolver struct {
		registry   *settings.Registry
		discoverer *settings.Discoverer
		opts       Options
	}

	// sourceData is the settings one source provided, keyed by namespace.
	sourceData struct {
		source ConfigSource
		data   tree.Map
		detail func(key string) string
	}
)

// New creates a Resolver over the namespaces registered in reg.
func New(reg *settings.Registry, opts Options) *Resolver {
	return &Resolver{
		registry: reg,
		discoverer: settings.NewDiscoverer(reg, settings.DiscoverOptions{
			ProjectRoot:    opts.ProjectRoot,
			UserConfigPath: opts.UserConfigPath,
		}),
		opts: opts,
	}
}

// Resolve collects every source and resolves each key. cliArgs maps
// dot-path keys ("core.generation.default_backend") to values; nil values
// are ignored.
//
// A project or user file that cannot be read or parsed does not fail the
// resolution: a Warning is returned and the file is treated as absent.
// Invalid package defaults are returned as an error.
func (r *Resolver) Resolve(cliArgs map[string]any) (*ResolvedConfig, []Warning, error) {
	var warnings []Warning

	pkg, err := r.packageSource()
	if err != nil {
		return nil, nil, err
	}

	project := r.fileSource(SourceProjectConfig, settings.LayerProject, r.discoverer.ProjectFile(), &warnings)

	userPath, err := r.discoverer.UserFile()
	if err != nil {
		warnings = append(warnings, Warning{
			Level:   LevelWarning,
			Message: "Failed to locate user config",
			Action:  fmt.Sprintf("Error: %v", err),
		})
	}
	user := r.fileSource(SourceUserConfig, settings.LayerUser, userPath, &warnings)

	env := r.envSource(&warnings)

	cli, err := cliSource(cliArgs)
	if err != nil {
		return nil, nil, err
	}

	bySource := map[ConfigSource]sourceData{
		SourceCLI:            cli,
		SourceEnv:            env,
		SourceUserConfig:     user,
		SourceProjectConfig:  project,
		SourcePackageDefault: pkg,
	}
	sources := make([]sourceData, 0, len(bySource))
	for _, src := range Sources() {
		sources = append(sources, bySource[src])
	}
	resolved := newResolvedConfig()
	for _, key := range collectKeys(sources) {
		if v, ok := resolveSetting(key, sources); ok {
			resolved.set(key, v)
		}
	}

	slog.Debug("resolved settings", "keys", resolved.Len(), "warnings", len(warnings))
	return resolved, warnings, nil
}

func (r *Resolver) packageSource() (sourceData, error) {
	layers, err := r.discoverer.DiscoverPackage()
	if err != nil {
		return sourceData{}, err
	}

	files := make(map[string]string, len(layers))
	data := make(tree.Map, len(layers))
	for _, layer := range layers {
		data[layer.Namespace] = tree.Table(settings.Transform(layer.Data))
		files[layer.Namespace] = layer.FilePath
	}

	return sourceData{
		source: SourcePackageDefault,
		data:   data,
		detail: func(key string) string {
			ns, _, _ := strings.Cut(key, tree.PathSeparator)
			if f, ok := files[ns]; ok {
				return f
			}
			return "package defaults"
		},
	}, nil
}

func (r *Resolver) fileSource(source ConfigSource, layer settings.Layer, path string, warnings *[]Warning) sourceData {
	sd := sourceData{source: source, data: tree.Map{}, detail: func(string) string { return path }}
	if path == "" {
		return sd
	}

	layers, err := r.discoverer.DiscoverFile(layer, path)
	if err != nil {
		slog.Warn("ignoring unreadable settings file", "layer", layer, "path", path, "error", err)
		*warnings = append(*warnings, Warning{
			Level:   LevelWarning,
			Message: fmt.Sprintf("Failed to load %s", strings.ToLower(source.Label())),
			Detail:  "File: " + path,
			Action:  fmt.Sprintf("Error: %v", err),
		})
		return sd
	}

	for _, l := range layers {
		sd.data[l.Namespace] = tree.Table(settings.Transform(l.Data))
	}
	return sd
}

func (r *Resolver) envSource(warnings *[]Warning) sourceData {
	environ := r.opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	env := CollectEnv(environ, EnvOptions{
		Prefix:           r.opts.EnvPrefix,
		DefaultNamespace: r.opts.DefaultNamespace,
		Namespaces:       r.registry.Namespaces(),
	})
	*warnings = append(*warnings, env.Warnings...)

	return sourceData{
		source: SourceEnv,
		data:   env.Data,
		detail: func(key string) string {
			name, _ := env.Var(key)
			return name
		},
	}
}

// cliSource nests the dot-path CLI arguments into a tree. A key that is a
// dot-prefix of another would replace the other's table, so the pair is
// rejected instead.
func cliSource(args map[string]any) (sourceData, error) {
	data := make(tree.Map)
	var set []string
	for _, key := range slices.Sorted(maps.Keys(args)) {
		raw := args[key]
		if raw == nil {
			continue
		}
		// A dot-prefix always sorts before the keys it prefixes.
		for _, prev := range set {
			if strings.HasPrefix(key, prev+tree.PathSeparator) {
				return sourceData{}, &settings.OverrideError{Key: key, Reason: "conflicts with " + prev}
			}
		}
		v, err := tree.FromAny(raw)
		if err != nil {
			return sourceData{}, fmt.Errorf("cli argument %s: %w", key, err)
		}
		data.Set(strings.Split(key, tree.PathSeparator), v)
		set = append(set, key)
	}

	return sourceData{
		source: SourceCLI,
		data:   data,
		detail: func(key string) string {
			return "--" + strings.ReplaceAll(key, "_", "-")
		},
	}, nil
}

// collectKeys returns the sorted union of every source's leaf keys.
func collectKeys(sources []sourceData) []string {
	seen := make(map[string]struct{})
	for _, s := range sources {
		for key := range s.data.Leaves() {
			seen[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// lookup returns the value a source holds for key. Empty tables count as
// absent.
func (s sourceData) lookup(key string) (any, bool) {
	v, ok := s.data.LookupKey(key)
	if !ok || !v.IsValid() {
		return nil, false
	}
	if m, isMap := v.AsMap(); isMap && len(m) == 0 {
		return nil, false
	}
	return v.Any(), true
}

// resolveSetting picks the first source, in the given precedence order,
// that holds key. Every later source holding key is recorded as overridden.
func resolveSetting(key string, sources []sourceData) (ResolvedValue, bool) {
	var (
		resolved ResolvedValue
		found    bool
	)
	for _, s := range sources {
		value, ok := s.lookup(key)
		if !ok {
			continue
		}
		if !found {
			resolved = ResolvedValue{
				Value:        value,
				Source:       s.source,
				SourceDetail: s.detail(key),
				Overrides:    []SourceValue{},
			}
			found = true
			continue
		}
		resolved.Overrides = append(resolved.Overrides, SourceValue{Source: s.source, Value: value})
	}
	return resolved, found
}
