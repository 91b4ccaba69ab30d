// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"sync"
)

// ErrNotConfigured is returned by Manager.Load before Configure was called.
var ErrNotConfigured = fmt.Errorf("%w: settings system not configured, call Configure first", ErrSettings)

// Manager caches the unified configuration T built from a registry's layers.
// It is safe for concurrent use, except Reset which is meant for tests.
type Manager[T any] struct {
	mu         sync.Mutex
	registry   *Registry
	opts       DiscoverOptions
	configured bool
	cached     *T
}

// NewManager creates a Manager over reg. Configure must be called before the
// first Load.
func NewManager[T any](reg *Registry) *Manager[T] {
	return &Manager[T]{registry: reg}
}

// Registry returns the registry the manager loads from.
func (m *Manager[T]) Registry() *Registry { return m.registry }

// Configure sets where the project and user layers are discovered and drops
// any cached configuration.
func (m *Manager[T]) Configure(opts DiscoverOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opts = opts
	m.configured = true
	m.cached = nil
}

// Options returns the discovery options set by Configure.
func (m *Manager[T]) Options() DiscoverOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// Load discovers, merges and validates every layer. The result is cached
// until Reload, Configure or Reset.
func (m *Manager[T]) Load() (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

// Reload drops the cached configuration and loads again.
func (m *Manager[T]) Reload() (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	return m.loadLocked()
}

// Get loads the configuration and applies the override sets on top of it,
// lowest precedence first. The cached configuration is never modified by
// overrides.
func (m *Manager[T]) Get(sets ...OverrideSet) (*T, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}
	return ApplyOverrideSets(m.registry, cfg, sets...)
}

// Reset clears the cache, the configuration options and the registry.
func (m *Manager[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	m.opts = DiscoverOptions{}
	m.configured = false
	m.registry.Clear()
}

func (m *Manager[T]) loadLocked() (*T, error) {
	if m.cached != nil {
		return m.cached, nil
	}
	if !m.configured {
		return nil, ErrNotConfigured
	}

	layers, err := NewDiscoverer(m.registry, m.opts).Discover()
	if err != nil {
		return nil, err
	}

	cfg, err := BuildUnified[T](m.registry, MergeLayers(layers), layers)
	if err != nil {
		return nil, err
	}
	m.cached = cfg
	return cfg, nil
}
