package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueType identifies the scalar type a feature is declared to return.
type ValueType string

const (
	TypeInteger ValueType = "integer"
	TypeFloat   ValueType = "float"
	TypeBoolean ValueType = "boolean"
	TypeString  ValueType = "string"
)

// ParseValueType parses a value type name. The short aliases "int" and
// "bool" are accepted alongside the canonical names.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(s) {
	case "int", "integer":
		return TypeInteger, nil
	case "float":
		return TypeFloat, nil
	case "bool", "boolean":
		return TypeBoolean, nil
	case "string":
		return TypeString, nil
	default:
		return "", fmt.Errorf("invalid value type: %q", s)
	}
}

func (t ValueType) String() string {
	return string(t)
}

// UnmarshalJSON parses a value type, accepting aliases.
func (t *ValueType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseValueType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML parses a value type, accepting aliases.
func (t *ValueType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseValueType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type valueKind uint8

const (
	kindNull valueKind = iota
	kindInteger
	kindFloat
	kindBoolean
	kindString
)

// Value is a feature variant value: null, integer, float, boolean or
// string. The zero Value is null, which is only ever observed on decisions
// that failed before a variant value was resolved; null is never a valid
// configured variant value.
type Value struct {
	kind valueKind
	i    int64
	f    float64
	b    bool
	s    string
}

// Null is the zero Value.
var Null = Value{}

// IntegerValue returns an integer Value.
func IntegerValue(v int64) Value { return Value{kind: kindInteger, i: v} }

// FloatValue returns a float Value.
func FloatValue(v float64) Value { return Value{kind: kindFloat, f: v} }

// BooleanValue returns a boolean Value.
func BooleanValue(v bool) Value { return Value{kind: kindBoolean, b: v} }

// StringValue returns a string Value.
func StringValue(v string) Value { return Value{kind: kindString, s: v} }

// HasType reports whether the value's tag matches t exactly. There is no
// numeric coercion: an integer value never satisfies TypeFloat, and null
// satisfies no type.
func (v Value) HasType(t ValueType) bool {
	switch v.kind {
	case kindInteger:
		return t == TypeInteger
	case kindFloat:
		return t == TypeFloat
	case kindBoolean:
		return t == TypeBoolean
	case kindString:
		return t == TypeString
	default:
		return false
	}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == kindNull
}

// Native returns the value as a native Go scalar (nil, int64, float64,
// bool or string) for expression environments and serialization.
func (v Value) Native() any {
	switch v.kind {
	case kindInteger:
		return v.i
	case kindFloat:
		return v.f
	case kindBoolean:
		return v.b
	case kindString:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	if v.kind == kindNull {
		return "null"
	}
	return fmt.Sprintf("%v", v.Native())
}

// MarshalJSON writes the untagged scalar form (1, 1.1, true, "abc", null).
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON reads the untagged scalar form. Numbers without a fraction
// or exponent are integers; everything else numeric is a float.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch s {
	case "null":
		*v = Null
		return nil
	case "true":
		*v = BooleanValue(true)
		return nil
	case "false":
		*v = BooleanValue(false)
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = StringValue(str)
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*v = IntegerValue(i)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid value: %s", s)
	}
	*v = FloatValue(f)
	return nil
}

// MarshalYAML writes the untagged scalar form.
func (v Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}

// UnmarshalYAML reads the untagged scalar form using the node's resolved
// tag, so quoted "1" stays a string and bare 1 is an integer.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		*v = Null
		return nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		*v = IntegerValue(i)
		return nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = FloatValue(f)
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BooleanValue(b)
		return nil
	case "!!str":
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	default:
		return fmt.Errorf("invalid value: %s", node.ShortTag())
	}
}
