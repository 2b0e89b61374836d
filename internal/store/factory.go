package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stevecallear/feta/internal/engine"
)

// Options selects and parameterizes a storage backend.
type Options struct {
	Type string // "memory", "file" or "postgres"
	Path string // config file path for the file store
	DSN  string // connection string for the postgres store
}

// New creates a store for the given options.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case "memory":
		return NewMemoryStore(&engine.Config{}), nil
	case "file":
		if opts.Path == "" {
			return nil, fmt.Errorf("file store requires a config file path")
		}
		return NewFileStore(opts.Path), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}
		return NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", opts.Type)
	}
}
