package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stevecallear/feta/internal/cli"
	"github.com/stevecallear/feta/internal/engine"
)

func TestPrint(t *testing.T) {
	decision := engine.NewDecisionBuilder().
		Hash(42).
		Variant("a").
		Value(engine.IntegerValue(1)).
		Success(engine.ReasonSplit)

	tests := []struct {
		format   cli.OutputFormat
		contains string
	}{
		{format: cli.FormatJSON, contains: `"variant": "a"`},
		{format: cli.FormatYAML, contains: "variant: a"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := cli.Print(&buf, decision, tt.format); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.contains)
			}
		})
	}
}

func TestPrintUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := cli.Print(&buf, "x", cli.OutputFormat("xml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := cli.ParseFormat("json"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := cli.ParseFormat("yaml"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := cli.ParseFormat("table"); err == nil {
		t.Error("expected error")
	}
}

func TestParseAttrs(t *testing.T) {
	attrs, err := cli.ParseAttrs([]string{
		"beta=true",
		"flagged=false",
		"orders=12",
		"score=1.5",
		"region=eu",
		"zero=0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]engine.Value{
		"beta":    engine.BooleanValue(true),
		"flagged": engine.BooleanValue(false),
		"orders":  engine.IntegerValue(12),
		"score":   engine.FloatValue(1.5),
		"region":  engine.StringValue("eu"),
		"zero":    engine.IntegerValue(0),
	}
	for key, want := range expected {
		if attrs[key] != want {
			t.Errorf("attrs[%q] = %v, want %v", key, attrs[key], want)
		}
	}
}

func TestParseAttrsEmpty(t *testing.T) {
	attrs, err := cli.ParseAttrs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs != nil {
		t.Errorf("attrs = %v, want nil", attrs)
	}
}

func TestParseAttrsInvalid(t *testing.T) {
	tests := []string{"novalue", "=value"}
	for _, tt := range tests {
		if _, err := cli.ParseAttrs([]string{tt}); err == nil {
			t.Errorf("ParseAttrs(%q): expected error", tt)
		}
	}
}
