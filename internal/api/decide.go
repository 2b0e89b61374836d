package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stevecallear/feta/internal/engine"
	"github.com/stevecallear/feta/internal/telemetry"
	"github.com/stevecallear/feta/internal/tracking"
)

type decideRequest struct {
	Feature string          `json:"feature"`
	Context *engine.Context `json:"context"`
}

type decideAllRequest struct {
	Context *engine.Context `json:"context"`
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Feature) == "" {
		writeError(w, http.StatusBadRequest, "feature is required")
		return
	}
	ctx, ok := s.requireContext(w, req.Context)
	if !ok {
		return
	}

	decision := s.registry.Load().Features.Decide(req.Feature, ctx)
	s.record(req.Feature, ctx, decision)

	writeJSON(w, http.StatusOK, decision)
}

func (s *Server) handleDecideAll(w http.ResponseWriter, r *http.Request) {
	var req decideAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ctx, ok := s.requireContext(w, req.Context)
	if !ok {
		return
	}

	decisions := s.registry.Load().Features.DecideAll(ctx)
	for feature, decision := range decisions {
		s.record(feature, ctx, decision)
	}

	writeJSON(w, http.StatusOK, decisions)
}

// requireContext validates the caller-supplied evaluation context. The
// user key drives bucketing, so a request without one is rejected rather
// than silently assigning every caller to the same bucket.
func (s *Server) requireContext(w http.ResponseWriter, ctx *engine.Context) (*engine.Context, bool) {
	if ctx == nil {
		writeError(w, http.StatusBadRequest, "context is required")
		return nil, false
	}
	if strings.TrimSpace(ctx.UserKey) == "" {
		writeError(w, http.StatusBadRequest, "context.user_key is required")
		return nil, false
	}
	return ctx, true
}

func (s *Server) record(feature string, ctx *engine.Context, d engine.Decision) {
	telemetry.Decisions.WithLabelValues(feature, d.Reason.String()).Inc()

	if s.dispatcher == nil {
		return
	}
	if !s.dispatcher.Record(tracking.NewEvent(feature, ctx, d)) {
		telemetry.TrackingDropped.Inc()
	}
}
