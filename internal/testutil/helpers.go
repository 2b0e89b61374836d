// Package testutil provides shared fixtures and helpers for package tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stevecallear/feta/internal/api"
	"github.com/stevecallear/feta/internal/engine"
	"github.com/stevecallear/feta/internal/expr"
	"github.com/stevecallear/feta/internal/snapshot"
	"github.com/stevecallear/feta/internal/store"
)

// Config returns a small but representative configuration document: a
// split feature with an audience rule and a disabled feature.
func Config() *engine.Config {
	return &engine.Config{
		Features: map[string]engine.FeatureConfig{
			"checkout": {
				Enabled:   true,
				ValueType: engine.TypeInteger,
				Variants: map[string]engine.Value{
					"a": engine.IntegerValue(1),
					"b": engine.IntegerValue(2),
				},
				DefaultVariant: "a",
				AudienceRules: []engine.AudienceRuleConfig{
					{
						Name:            "beta",
						Expression:      "beta",
						BucketingConfig: engine.BucketingConfig{Variant: "b"},
					},
				},
				DefaultRule: engine.BucketingConfig{
					Distribution: map[string]int{"a": 50, "b": 50},
				},
			},
			"banner": {
				Enabled:   false,
				ValueType: engine.TypeString,
				Variants: map[string]engine.Value{
					"none":   engine.StringValue(""),
					"spring": engine.StringValue("spring-sale"),
				},
				DefaultVariant: "none",
				DefaultRule:    engine.BucketingConfig{Variant: "spring"},
			},
		},
	}
}

// Compiler returns a CEL compiler, failing the test on error.
func Compiler(t *testing.T) expr.Compiler {
	t.Helper()
	c, err := expr.NewCELCompiler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

// NewServer builds an API server over a memory store seeded with the
// fixture configuration.
func NewServer(t *testing.T, adminKey string) (*api.Server, *snapshot.Registry, *store.MemoryStore) {
	t.Helper()

	compiler := Compiler(t)
	cfg := Config()

	snap, err := snapshot.Build(cfg, compiler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry := snapshot.NewRegistry(snap)
	memStore := store.NewMemoryStore(cfg)

	server := api.NewServer(api.Options{
		Registry:    registry,
		Store:       memStore,
		Compiler:    compiler,
		AdminAPIKey: adminKey,
		Logger:      zerolog.Nop(),
	})
	return server, registry, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
