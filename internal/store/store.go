// Package store provides configuration persistence backends. A store
// loads the full feature configuration document and, for writable
// backends, mutates individual features.
package store

import (
	"context"
	"errors"

	"github.com/stevecallear/feta/internal/engine"
)

// ErrReadOnly is returned by write operations on backends that cannot be
// mutated through the API, such as a configuration file.
var ErrReadOnly = errors.New("store is read-only")

// Store defines the interface for configuration persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// LoadConfig retrieves the full configuration document. An empty
	// backend yields an empty document, not an error.
	LoadConfig(ctx context.Context) (*engine.Config, error)

	// UpsertFeature creates or replaces a single feature definition.
	UpsertFeature(ctx context.Context, name string, cfg engine.FeatureConfig) error

	// DeleteFeature removes a feature by name. Deleting an absent feature
	// is not an error.
	DeleteFeature(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}
