// Package expr defines the expression capability consumed by the
// evaluation engine: compile an audience expression once, evaluate the
// compiled program against a per-call environment. The engine depends only
// on these interfaces, so the expression subsystem can be swapped or
// stubbed in tests.
package expr

// Environment is the attribute mapping an expression is evaluated against.
// Values are native Go scalars (int64, float64, bool, string).
type Environment map[string]any

// Program is a compiled expression.
type Program interface {
	// Eval evaluates the program against the environment. It must be a
	// pure, non-blocking computation. Referencing an absent attribute
	// yields nil rather than an error; any other failure is returned as
	// an error, never a panic.
	Eval(env Environment) (any, error)
}

// Compiler compiles expression text into an executable program, failing on
// malformed syntax.
type Compiler interface {
	Compile(expression string) (Program, error)
}
