package engine

import "github.com/stevecallear/feta/internal/expr"

// Context is the caller-supplied evaluation input: the user key used for
// bucketing and optional attributes used for audience targeting. The
// engine only reads from it.
type Context struct {
	UserKey    string           `json:"user_key" yaml:"user_key"`
	Attributes map[string]Value `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// NewContext returns a context for the given user key with no attributes.
func NewContext(userKey string) *Context {
	return &Context{UserKey: userKey}
}

// WithAttribute returns the context with the named attribute set.
func (c *Context) WithAttribute(name string, value Value) *Context {
	if c.Attributes == nil {
		c.Attributes = make(map[string]Value)
	}
	c.Attributes[name] = value
	return c
}

// environment converts the context attributes into an expression
// environment. Absent attributes are simply unset, not defaulted.
func (c *Context) environment() expr.Environment {
	env := make(expr.Environment, len(c.Attributes))
	for name, value := range c.Attributes {
		env[name] = value.Native()
	}
	return env
}
