package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stevecallear/feta/internal/engine"
)

// ParseAttrs parses key=value pairs into typed attribute values. Values
// are coerced in order: bool, integer, float, then string, mirroring how
// attributes arrive as JSON scalars over the API.
func ParseAttrs(pairs []string) (map[string]engine.Value, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	attrs := make(map[string]engine.Value, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q: expected key=value", pair)
		}
		attrs[key] = parseValue(raw)
	}
	return attrs, nil
}

func parseValue(raw string) engine.Value {
	// only the literal spellings are booleans; ParseBool would also
	// swallow "1" and "0"
	switch raw {
	case "true":
		return engine.BooleanValue(true)
	case "false":
		return engine.BooleanValue(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return engine.IntegerValue(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return engine.FloatValue(f)
	}
	return engine.StringValue(raw)
}
