package expr

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// CELCompiler implements Compiler using the Common Expression Language.
// Expressions are parsed without type checking: attribute names are not
// known until evaluation time, so a reference to an attribute the
// environment does not contain surfaces as an evaluation error rather than
// a compile error.
type CELCompiler struct {
	env *cel.Env
}

// NewCELCompiler returns a CEL-backed compiler.
func NewCELCompiler() (*CELCompiler, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}
	return &CELCompiler{env: env}, nil
}

// Compile parses the expression and plans an executable program.
func (c *CELCompiler) Compile(expression string) (Program, error) {
	ast, issues := c.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}

	program, err := c.env.Program(ast)
	if err != nil {
		return nil, err
	}

	return &celProgram{program: program}, nil
}

type celProgram struct {
	program cel.Program
}

// Eval evaluates the program against the environment and returns the
// result as a native Go value.
func (p *celProgram) Eval(env Environment) (any, error) {
	if env == nil {
		env = Environment{}
	}

	out, _, err := p.program.Eval(map[string]any(env))
	if err != nil {
		// an unset attribute evaluates to null instead of failing, so an
		// audience expression like "beta" falls through for users that do
		// not carry the attribute; every other runtime failure is an error
		if strings.Contains(err.Error(), "no such attribute") {
			return nil, nil
		}
		return nil, err
	}
	return out.Value(), nil
}
