package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stevecallear/feta/internal/engine"
	"github.com/stevecallear/feta/internal/snapshot"
	"github.com/stevecallear/feta/internal/store"
	"github.com/stevecallear/feta/internal/telemetry"
)

type mutateResponse struct {
	OK   bool   `json:"ok"`
	ETag string `json:"etag"`
}

// handleUpsertFeature validates the definition against the rest of the
// document before persisting: a write that would produce an unbuildable
// snapshot is rejected and nothing changes.
func (s *Server) handleUpsertFeature(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var fc engine.FeatureConfig
	if err := json.NewDecoder(r.Body).Decode(&fc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cfg := s.registry.Load().Config
	next := cloneConfig(cfg)
	next.Features[name] = fc

	snap, err := snapshot.Build(next, s.compiler)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpsertFeature(r.Context(), name, fc); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.swap(snap)
	writeJSON(w, http.StatusOK, mutateResponse{OK: true, ETag: snap.ETag})
}

func (s *Server) handleDeleteFeature(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	cfg := s.registry.Load().Config
	next := cloneConfig(cfg)
	delete(next.Features, name)

	snap, err := snapshot.Build(next, s.compiler)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.DeleteFeature(r.Context(), name); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.swap(snap)
	writeJSON(w, http.StatusOK, mutateResponse{OK: true, ETag: snap.ETag})
}

// Rebuild reloads the configuration from the store and swaps the active
// snapshot. Used at startup and by the file watcher.
func (s *Server) Rebuild(ctx context.Context) error {
	cfg, err := s.store.LoadConfig(ctx)
	if err != nil {
		telemetry.ConfigReloads.WithLabelValues("error").Inc()
		return err
	}

	snap, err := snapshot.Build(cfg, s.compiler)
	if err != nil {
		telemetry.ConfigReloads.WithLabelValues("error").Inc()
		return err
	}

	s.swap(snap)
	telemetry.ConfigReloads.WithLabelValues("success").Inc()
	return nil
}

func (s *Server) swap(snap *snapshot.Snapshot) {
	s.registry.Update(snap)
	telemetry.SnapshotFeatures.Set(float64(snap.Features.Len()))
	s.logger.Info().
		Str("etag", snap.ETag).
		Int("features", snap.Features.Len()).
		Msg("snapshot updated")
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrReadOnly) {
		writeError(w, http.StatusConflict, "store is read-only")
		return
	}
	s.logger.Error().Err(err).Msg("store operation failed")
	writeError(w, http.StatusInternalServerError, "store operation failed")
}

func cloneConfig(cfg *engine.Config) *engine.Config {
	features := make(map[string]engine.FeatureConfig, len(cfg.Features))
	for name, fc := range cfg.Features {
		features[name] = fc
	}
	return &engine.Config{Features: features}
}
