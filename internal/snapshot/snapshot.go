// Package snapshot holds the compiled feature set behind an atomic
// pointer. Readers always see a complete, internally consistent snapshot;
// reconfiguration builds a new snapshot and swaps it in one step.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/stevecallear/feta/internal/engine"
	"github.com/stevecallear/feta/internal/expr"
)

// Snapshot is an immutable view of one configuration generation: the raw
// document, the compiled registry built from it, and an ETag derived from
// the document so clients can cheaply detect change.
type Snapshot struct {
	ETag      string           `json:"etag"`
	Config    *engine.Config   `json:"config"`
	Features  *engine.Features `json:"-"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Build compiles the configuration into a snapshot. The whole document is
// validated up front: a single invalid feature rejects the snapshot and the
// previous one stays in place.
func Build(cfg *engine.Config, compiler expr.Compiler) (*Snapshot, error) {
	features, err := engine.FeaturesFromConfig(cfg, compiler)
	if err != nil {
		return nil, err
	}

	// json map encoding is key-sorted, so the etag is stable for a given
	// document regardless of map iteration order
	blob, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return &Snapshot{
		ETag:      fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(blob)),
		Config:    cfg,
		Features:  features,
		UpdatedAt: time.Now().UTC(),
	}, nil
}
