// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"log/slog"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings/tree"
)

const (
	// LayerPackage holds the defaults shipped with each namespace.
	LayerPackage Layer = iota + 1
	// LayerProject holds settings.toml in the project root.
	LayerProject
	// LayerUser holds the per-user settings file.
	LayerUser
)

type (
	// Layer identifies where a fragment of settings data came from. Higher
	// values take precedence.
	Layer int

	// LayerSource is one namespace fragment discovered in one layer.
	LayerSource struct {
		Layer     Layer
		Namespace string
		FilePath  string
		Data      tree.Map
	}

	// DiscoverOptions locates the project and user layers.
	DiscoverOptions struct {
		// ProjectRoot is the directory holding the project settings.toml.
		// Empty means the current working directory.
		ProjectRoot string
		// UserConfigPath is the user settings file. Empty means
		// UserSettingsFile().
		UserConfigPath string
	}

	// Discoverer finds every settings layer for a registry.
	Discoverer struct {
		registry *Registry
		opts     DiscoverOptions
	}
)

// String returns the lowercase layer name.
func (l Layer) String() string {
	switch l {
	case LayerPackage:
		return "package"
	case LayerProject:
		return "project"
	case LayerUser:
		return "user"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// NewDiscoverer creates a Discoverer for reg.
func NewDiscoverer(reg *Registry, opts DiscoverOptions) *Discoverer {
	return &Discoverer{registry: reg, opts: opts}
}

// ProjectFile returns the project settings file path.
func (d *Discoverer) ProjectFile() string {
	return ProjectSettingsFile(d.opts.ProjectRoot)
}

// UserFile returns the user settings file path.
func (d *Discoverer) UserFile() (string, error) {
	if d.opts.UserConfigPath != "" {
		return d.opts.UserConfigPath, nil
	}
	return UserSettingsFile()
}

// Discover returns every layer ordered lowest priority first: all package
// layers in registration order, then project layers, then user layers.
func (d *Discoverer) Discover() ([]LayerSource, error) {
	layers, err := d.DiscoverPackage()
	if err != nil {
		return nil, err
	}

	project, err := d.DiscoverFile(LayerProject, d.ProjectFile())
	if err != nil {
		return nil, err
	}
	layers = append(layers, project...)

	userFile, err := d.UserFile()
	if err != nil {
		return nil, err
	}
	user, err := d.DiscoverFile(LayerUser, userFile)
	if err != nil {
		return nil, err
	}
	return append(layers, user...), nil
}

// DiscoverPackage loads the flat defaults file of every namespace. A missing
// defaults file contributes no layer.
func (d *Discoverer) DiscoverPackage() ([]LayerSource, error) {
	var layers []LayerSource
	for _, entry := range d.registry.Entries() {
		if entry.DefaultsFile == "" {
			continue
		}

		var (
			data  tree.Map
			found bool
			err   error
		)
		if entry.DefaultsFS != nil {
			data, found, err = LoadFS(entry.DefaultsFS, entry.DefaultsFile)
		} else {
			data, found, err = LoadFile(entry.DefaultsFile)
		}
		if err != nil {
			return nil, err
		}
		if !found {
			slog.Debug("package defaults not found", "namespace", entry.Namespace, "path", entry.DefaultsFile)
			continue
		}

		slog.Debug("discovered settings layer", "layer", LayerPackage, "namespace", entry.Namespace, "path", entry.DefaultsFile)
		layers = append(layers, LayerSource{
			Layer:     LayerPackage,
			Namespace: entry.Namespace,
			FilePath:  entry.DefaultsFile,
			Data:      data,
		})
	}
	return layers, nil
}

// DiscoverFile loads a namespaced settings file and splits it into one layer
// per registered namespace found in it. Top-level keys that are not
// registered namespaces are ignored, as are namespaces whose value is not a
// table or is an empty table.
func (d *Discoverer) DiscoverFile(layer Layer, path string) ([]LayerSource, error) {
	data, found, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var layers []LayerSource
	for _, ns := range d.registry.Namespaces() {
		v, ok := data[ns]
		if !ok {
			continue
		}
		section, ok := v.AsMap()
		if !ok {
			slog.Warn("ignoring non-table namespace section", "layer", layer, "namespace", ns, "path", path)
			continue
		}
		if len(section) == 0 {
			continue
		}

		slog.Debug("discovered settings layer", "layer", layer, "namespace", ns, "path", path)
		layers = append(layers, LayerSource{
			Layer:     layer,
			Namespace: ns,
			FilePath:  path,
			Data:      section.Clone(),
		})
	}
	return layers, nil
}

// MergeLayers folds layers (ordered lowest priority first) into one merged
// tree per namespace.
func MergeLayers(layers []LayerSource) map[string]tree.Map {
	merged := make(map[string]tree.Map)
	for _, layer := range layers {
		merged[layer.Namespace] = tree.Merge(merged[layer.Namespace], layer.Data)
	}
	return merged
}
