// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/RandomGenericUsername/color-scheme-generator/pkg/cueutil"
)

type (
	// SchemaEntry describes one registered namespace.
	SchemaEntry struct {
		// Namespace is the top-level key the namespace owns, e.g. "core".
		Namespace string
		// Schema validates the namespace's merged data.
		Schema *cueutil.Schema
		// DefaultsFile is the path of the flat package defaults file.
		DefaultsFile string
		// DefaultsFS, when set, is the filesystem DefaultsFile is read from.
		// A nil DefaultsFS means the OS filesystem.
		DefaultsFS fs.FS
	}

	// RegisterOption customizes a SchemaEntry during registration.
	RegisterOption func(*SchemaEntry)

	// Registry maps namespaces to their schema entries. The zero value is not
	// usable; create registries with NewRegistry. A Registry is not safe for
	// concurrent registration; register everything before loading.
	Registry struct {
		entries map[string]SchemaEntry
		order   []string
	}
)

// WithDefaultsFS reads the defaults file from fsys instead of the OS
// filesystem.
func WithDefaultsFS(fsys fs.FS) RegisterOption {
	return func(e *SchemaEntry) {
		e.DefaultsFS = fsys
	}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]SchemaEntry)}
}

// Register adds a namespace. It fails without modifying the registry when
// the namespace is empty, already registered, or has no schema.
func (r *Registry) Register(namespace string, schema *cueutil.Schema, defaultsFile string, opts ...RegisterOption) error {
	if strings.TrimSpace(namespace) == "" {
		return &RegistryError{Namespace: namespace, Reason: "namespace must not be empty"}
	}
	if strings.Contains(namespace, ".") {
		return &RegistryError{Namespace: namespace, Reason: "namespace must not contain '.'"}
	}
	if r.Has(namespace) {
		return &RegistryError{Namespace: namespace, Reason: "namespace already registered"}
	}
	if schema == nil {
		return &RegistryError{Namespace: namespace, Reason: "schema must not be nil"}
	}

	entry := SchemaEntry{
		Namespace:    namespace,
		Schema:       schema,
		DefaultsFile: defaultsFile,
	}
	for _, opt := range opts {
		opt(&entry)
	}

	r.entries[namespace] = entry
	r.order = append(r.order, namespace)
	slog.Debug("registered settings namespace", "namespace", namespace, "definition", schema.Definition())
	return nil
}

// Get returns the entry for namespace.
func (r *Registry) Get(namespace string) (SchemaEntry, error) {
	entry, ok := r.entries[namespace]
	if !ok {
		return SchemaEntry{}, &RegistryError{Namespace: namespace, Reason: "namespace not registered"}
	}
	return entry, nil
}

// Has reports whether namespace is registered.
func (r *Registry) Has(namespace string) bool {
	_, ok := r.entries[namespace]
	return ok
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []SchemaEntry {
	out := make([]SchemaEntry, 0, len(r.order))
	for _, ns := range r.order {
		out = append(out, r.entries[ns])
	}
	return out
}

// Namespaces returns the registered namespaces in registration order.
func (r *Registry) Namespaces() []string {
	return slices.Clone(r.order)
}

// Len returns the number of registered namespaces.
func (r *Registry) Len() int { return len(r.order) }

// Clear removes every namespace. Only test harnesses should need it.
func (r *Registry) Clear() {
	clear(r.entries)
	r.order = nil
}

// HasKey reports whether key ("<namespace>.<path>") names a field declared
// by the namespace's schema.
func (r *Registry) HasKey(key Key) bool {
	ns, path, ok := key.Split()
	if !ok {
		return false
	}
	entry, exists := r.entries[ns]
	if !exists {
		return false
	}
	return entry.Schema.HasPath(path)
}
