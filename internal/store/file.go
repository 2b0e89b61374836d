package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stevecallear/feta/internal/engine"
)

// FileStore reads the configuration document from a YAML or JSON file on
// disk. The file is the source of truth: write operations are rejected so
// the API can never diverge from it. Pair with the watch package to pick
// up edits at runtime.
type FileStore struct {
	path string
}

// NewFileStore returns a file-backed store. The format is chosen by
// extension: .json is JSON, everything else is YAML.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadConfig reads and parses the configuration file.
func (f *FileStore) LoadConfig(ctx context.Context) (*engine.Config, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg engine.Config
	if filepath.Ext(f.path) == ".json" {
		err = json.Unmarshal(b, &cfg)
	} else {
		err = yaml.Unmarshal(b, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", f.path, err)
	}

	if cfg.Features == nil {
		cfg.Features = make(map[string]engine.FeatureConfig)
	}
	return &cfg, nil
}

// UpsertFeature is rejected: the file is edited out of band.
func (f *FileStore) UpsertFeature(ctx context.Context, name string, cfg engine.FeatureConfig) error {
	return ErrReadOnly
}

// DeleteFeature is rejected: the file is edited out of band.
func (f *FileStore) DeleteFeature(ctx context.Context, name string) error {
	return ErrReadOnly
}

// Close is a no-op for FileStore.
func (f *FileStore) Close() error {
	return nil
}
