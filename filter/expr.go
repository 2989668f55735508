// Package filter narrows fetched rows with user-supplied expressions, e.g.
//
//	Rating == "PG" and Length < 100 and hasFeature("Trailers")
//
// Expressions are compiled once with expr and evaluated per row against an
// environment built from the row (see FilmEnv, CustomerEnv, ActorEnv).
package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the evaluation environment of one row
type Env map[string]any

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression that must evaluate to a boolean
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // row fields are only known at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a row environment
func (f *Filter) Match(env Env) (bool, error) {
	runtime := make(map[string]any, len(env)+8)
	addHelperFunctions(runtime)
	maps.Copy(runtime, env)

	result, err := expr.Run(f.program, runtime)
	if err != nil {
		return false, err
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

// Apply returns the rows matching f, in their original order. A nil filter
// matches everything.
func Apply[T any](f *Filter, rows []T, env func(T) Env) ([]T, error) {
	if f == nil {
		return rows, nil
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rowEnv := env(row)
		ok, err := f.Match(rowEnv)
		if err != nil {
			return nil, &EvaluationError{
				Expression: f.expression,
				Row:        describe(rowEnv),
				Err:        err,
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func describe(env Env) string {
	if name, ok := env["Name"].(string); ok {
		return name
	}
	if title, ok := env["Title"].(string); ok {
		return title
	}
	return "row"
}

func helperFunctions() map[string]any {
	funcs := make(map[string]any, 8)
	addHelperFunctions(funcs)
	return funcs
}

func addHelperFunctions(env map[string]any) {
	env["has"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["hasFeature"] = func(string) bool { return false }
}
