// Package api exposes the decision service over HTTP.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/stevecallear/feta/internal/expr"
	"github.com/stevecallear/feta/internal/snapshot"
	"github.com/stevecallear/feta/internal/store"
	"github.com/stevecallear/feta/internal/telemetry"
	"github.com/stevecallear/feta/internal/tracking"
)

// Server serves decision, snapshot and admin endpoints over the current
// configuration snapshot.
type Server struct {
	registry    *snapshot.Registry
	store       store.Store
	compiler    expr.Compiler
	dispatcher  *tracking.Dispatcher
	adminAPIKey string
	rateLimit   int
	logger      zerolog.Logger
}

// Options configures a Server.
type Options struct {
	Registry    *snapshot.Registry
	Store       store.Store
	Compiler    expr.Compiler
	Dispatcher  *tracking.Dispatcher // optional; nil disables tracking
	AdminAPIKey string               // empty disables admin endpoints
	RateLimit   int                  // requests per IP per minute; <=0 disables
	Logger      zerolog.Logger
}

// NewServer returns a server for the given options.
func NewServer(opts Options) *Server {
	return &Server{
		registry:    opts.Registry,
		store:       opts.Store,
		compiler:    opts.Compiler,
		dispatcher:  opts.Dispatcher,
		adminAPIKey: opts.AdminAPIKey,
		rateLimit:   opts.RateLimit,
		logger:      opts.Logger,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(telemetry.Middleware)
	if s.rateLimit > 0 {
		r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/v1/decide", s.handleDecide)
	r.Post("/v1/decide-all", s.handleDecideAll)
	r.Get("/v1/features/snapshot", s.handleSnapshot)

	r.Put("/v1/features/{name}", s.authAdmin(s.handleUpsertFeature))
	r.Delete("/v1/features/{name}", s.authAdmin(s.handleDeleteFeature))

	return r
}

// handleSnapshot serves the current configuration snapshot with an ETag so
// polling clients can cheaply detect change.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.registry.Load()
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == snap.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", snap.ETag)
	writeJSON(w, http.StatusOK, snap)
}

// ---- middleware & helpers ----

func (s *Server) authAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminAPIKey == "" {
			writeError(w, http.StatusForbidden, "admin endpoints are disabled")
			return
		}

		got := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		if got == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminAPIKey)) != 1 {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
	})
}
