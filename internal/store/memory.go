package store

import (
	"context"
	"sync"

	"github.com/stevecallear/feta/internal/engine"
)

// MemoryStore is an in-memory implementation of the Store interface,
// suitable for tests and single-instance deployments without persistence.
type MemoryStore struct {
	mu       sync.RWMutex
	features map[string]engine.FeatureConfig
}

// NewMemoryStore returns a memory store seeded from the given
// configuration. A nil configuration yields an empty store.
func NewMemoryStore(cfg *engine.Config) *MemoryStore {
	features := make(map[string]engine.FeatureConfig)
	if cfg != nil {
		for name, fc := range cfg.Features {
			features[name] = fc
		}
	}
	return &MemoryStore{features: features}
}

// LoadConfig returns a copy of the current configuration document.
func (m *MemoryStore) LoadConfig(ctx context.Context) (*engine.Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	features := make(map[string]engine.FeatureConfig, len(m.features))
	for name, fc := range m.features {
		features[name] = fc
	}
	return &engine.Config{Features: features}, nil
}

// UpsertFeature creates or replaces a feature definition.
func (m *MemoryStore) UpsertFeature(ctx context.Context, name string, cfg engine.FeatureConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.features[name] = cfg
	return nil
}

// DeleteFeature removes a feature. Idempotent.
func (m *MemoryStore) DeleteFeature(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.features, name)
	return nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}
