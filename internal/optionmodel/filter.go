package optionmodel

import (
	"errors"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression evaluated against matrix tuples.
//
// The expression sees:
//
//	options         map of option set name to option name
//	option_ids      option IDs in tuple order
//	sku             base SKU followed by every SKU extension
//	price_adjustment summed price adjustment in major units
//	requires_input  whether any option needs user input
type Filter struct {
	expr    string
	program *exprvm.Program
}

// CompileFilter compiles expression once for repeated evaluation.
func CompileFilter(expression string) (*Filter, error) {
	if expression == "" {
		return nil, &FilterError{Expr: expression, Err: errors.New("expression must not be empty")}
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, &FilterError{Expr: expression, Err: err}
	}
	return &Filter{expr: expression, program: program}, nil
}

// Match reports whether t satisfies the filter.
func (f *Filter) Match(setNames map[string]string, baseSKU string, t Tuple) (bool, error) {
	env := tupleEnv(setNames, baseSKU, t)
	out, err := exprlang.Run(f.program, env)
	if err != nil {
		return false, &FilterError{Expr: f.expr, Err: err}
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, &FilterError{Expr: f.expr, Err: errors.New("expression must evaluate to bool")}
	}
	return ok, nil
}

// Apply returns the tuples of matrix that satisfy the filter, in order.
func (f *Filter) Apply(setNames map[string]string, baseSKU string, matrix []Tuple) ([]Tuple, error) {
	out := make([]Tuple, 0, len(matrix))
	for _, t := range matrix {
		ok, err := f.Match(setNames, baseSKU, t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func tupleEnv(setNames map[string]string, baseSKU string, t Tuple) map[string]any {
	opts := make(map[string]any, len(t))
	ids := make([]any, 0, len(t))
	for _, o := range t {
		opts[setNames[o.OptionSetID]] = o.Name
		ids = append(ids, o.ID)
	}
	return map[string]any{
		"options":          opts,
		"option_ids":       ids,
		"sku":              t.SKU(baseSKU),
		"price_adjustment": t.PriceAdjustment().Float64(),
		"requires_input":   t.RequiresInput(),
	}
}
