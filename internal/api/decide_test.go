package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stevecallear/feta/internal/engine"
	"github.com/stevecallear/feta/internal/testutil"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		variant  string
		reason   engine.Reason
		audience string
	}{
		{
			name:    "split",
			body:    `{"feature":"checkout","context":{"user_key":"u1"}}`,
			variant: "a",
			reason:  engine.ReasonSplit,
		},
		{
			name:     "audience match",
			body:     `{"feature":"checkout","context":{"user_key":"u1","attributes":{"beta":true}}}`,
			variant:  "b",
			reason:   engine.ReasonMatch,
			audience: "beta",
		},
		{
			name:    "disabled",
			body:    `{"feature":"banner","context":{"user_key":"u1"}}`,
			variant: "none",
			reason:  engine.ReasonDisabled,
		},
	}

	server, _, _ := testutil.NewServer(t, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.HTTPRequest{Method: http.MethodPost, Path: "/v1/decide", Body: tt.body}
			rr := req.Do(t, server.Router())

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
			}

			var actual engine.Decision
			if err := json.Unmarshal(rr.Body.Bytes(), &actual); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if actual.Variant != tt.variant || actual.Reason != tt.reason {
				t.Errorf("decision = %s/%s, want %s/%s", actual.Variant, actual.Reason, tt.variant, tt.reason)
			}
			if actual.Audience != tt.audience {
				t.Errorf("Audience = %q, want %q", actual.Audience, tt.audience)
			}
			if actual.Hash == 0 {
				t.Error("expected hash to be set")
			}
		})
	}
}

func TestDecideUnknownFeature(t *testing.T) {
	server, _, _ := testutil.NewServer(t, "")

	req := testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/v1/decide",
		Body:   `{"feature":"missing","context":{"user_key":"u1"}}`,
	}
	rr := req.Do(t, server.Router())

	// unknown features resolve to an error decision, not an HTTP failure
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var actual engine.Decision
	if err := json.Unmarshal(rr.Body.Bytes(), &actual); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if actual.Reason != engine.ReasonError || actual.Error == nil {
		t.Errorf("decision = %s/%v, want error decision", actual.Reason, actual.Error)
	}
}

func TestDecideBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{`},
		{name: "missing feature", body: `{"context":{"user_key":"u1"}}`},
		{name: "missing context", body: `{"feature":"checkout"}`},
		{name: "missing user key", body: `{"feature":"checkout","context":{"user_key":""}}`},
	}

	server, _, _ := testutil.NewServer(t, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.HTTPRequest{Method: http.MethodPost, Path: "/v1/decide", Body: tt.body}
			rr := req.Do(t, server.Router())

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestDecideAll(t *testing.T) {
	server, _, _ := testutil.NewServer(t, "")

	req := testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/v1/decide-all",
		Body:   `{"context":{"user_key":"u1"}}`,
	}
	rr := req.Do(t, server.Router())

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var actual map[string]engine.Decision
	if err := json.Unmarshal(rr.Body.Bytes(), &actual); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(actual) != 2 {
		t.Fatalf("got %d decisions, want 2", len(actual))
	}
	if d := actual["checkout"]; d.Reason != engine.ReasonSplit {
		t.Errorf("checkout reason = %s, want %s", d.Reason, engine.ReasonSplit)
	}
	if d := actual["banner"]; d.Reason != engine.ReasonDisabled {
		t.Errorf("banner reason = %s, want %s", d.Reason, engine.ReasonDisabled)
	}
}

func TestDecideAllBadRequest(t *testing.T) {
	server, _, _ := testutil.NewServer(t, "")

	req := testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/v1/decide-all",
		Body:   `{"context":{"user_key":" "}}`,
	}
	rr := req.Do(t, server.Router())

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
