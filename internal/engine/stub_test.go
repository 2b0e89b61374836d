package engine

import (
	"errors"

	"github.com/stevecallear/feta/internal/expr"
)

// stubCompiler is a minimal expression subsystem for engine tests. An
// expression is treated as a bare attribute reference: evaluation returns
// the attribute's value, or null if it is absent, which mirrors how the
// real compiler behaves for the expressions the tests use.
type stubCompiler struct{}

func (stubCompiler) Compile(expression string) (expr.Program, error) {
	if expression == "compile_error" {
		return nil, errors.New("unexpected token")
	}
	return stubProgram(expression), nil
}

type stubProgram string

func (p stubProgram) Eval(env expr.Environment) (any, error) {
	if p == "eval_error" {
		return nil, errors.New("forced evaluation failure")
	}
	return env[string(p)], nil
}
