package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stevecallear/feta/internal/engine"
)

// Schema is the table definition expected by PostgresStore. It is applied
// by the operator, not the application.
const Schema = `
CREATE TABLE IF NOT EXISTS features (
    name       TEXT PRIMARY KEY,
    config     JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Each feature is one row holding its definition as a JSONB document.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a PostgreSQL-backed store using the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// LoadConfig retrieves every feature row and assembles the configuration
// document. A single malformed row fails the whole load so a partial
// document is never served.
func (p *PostgresStore) LoadConfig(ctx context.Context) (*engine.Config, error) {
	rows, err := p.pool.Query(ctx, `SELECT name, config FROM features`)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	features := make(map[string]engine.FeatureConfig)
	for rows.Next() {
		var (
			name string
			blob []byte
		)
		if err := rows.Scan(&name, &blob); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}

		var fc engine.FeatureConfig
		if err := json.Unmarshal(blob, &fc); err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		features[name] = fc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read features: %w", err)
	}

	return &engine.Config{Features: features}, nil
}

// UpsertFeature creates or replaces a feature row.
func (p *PostgresStore) UpsertFeature(ctx context.Context, name string, cfg engine.FeatureConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal feature %q: %w", name, err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO features (name, config, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET config = EXCLUDED.config, updated_at = now()`,
		name, blob)
	if err != nil {
		return fmt.Errorf("upsert feature %q: %w", name, err)
	}
	return nil
}

// DeleteFeature removes a feature row. Idempotent.
func (p *PostgresStore) DeleteFeature(ctx context.Context, name string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM features WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete feature %q: %w", name, err)
	}
	return nil
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
