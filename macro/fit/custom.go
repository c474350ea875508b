package fit

import (
	"fmt"
	"math"
	"slices"
	"strings"

	starlarkmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// customEquation compiles a user formula such as "y = a + b*exp(-c*x)" into a model.
// Parameters are the single letter names other than x and y, in alphabetical order.
// The functions of the Starlark math module (exp, log, sqrt, pow, ...) are available
// without the "math." prefix.
func customEquation(formula string) (Equation, error) {
	expr := strings.TrimSpace(formula)
	if lhs, rhs, ok := strings.Cut(expr, "="); ok && strings.TrimSpace(lhs) == "y" {
		expr = strings.TrimSpace(rhs)
	}
	expr = strings.ReplaceAll(expr, "Math.", "")
	if expr == "" {
		return Equation{}, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
	}

	opts := &syntax.FileOptions{}
	parsed, err := opts.ParseExpr("fit", expr, 0)
	if err != nil {
		return Equation{}, fmt.Errorf("%w: %w", ErrInvalidFormula, err)
	}

	// Attribute names such as the e in math.e are not parameters.
	attrs := make(map[*syntax.Ident]bool)
	syntax.Walk(parsed, func(n syntax.Node) bool {
		if dot, ok := n.(*syntax.DotExpr); ok {
			attrs[dot.Name] = true
		}
		return true
	})

	usesX := false
	var params []string
	syntax.Walk(parsed, func(n syntax.Node) bool {
		id, ok := n.(*syntax.Ident)
		if !ok || len(id.Name) != 1 || attrs[id] {
			return true
		}
		switch c := id.Name[0]; {
		case c == 'x':
			usesX = true
		case c == 'y':
		case c >= 'a' && c <= 'z' && !slices.Contains(params, id.Name):
			params = append(params, id.Name)
		}
		return true
	})
	if !usesX {
		return Equation{}, fmt.Errorf("%w: %q does not use x", ErrInvalidFormula, formula)
	}
	if len(params) == 0 {
		return Equation{}, fmt.Errorf("%w: %q has no parameters", ErrInvalidFormula, formula)
	}
	slices.Sort(params)

	predeclared := starlark.StringDict{"math": starlarkmath.Module}
	for name, v := range starlarkmath.Module.Members {
		predeclared[name] = v
	}
	predeclared["ln"] = starlarkmath.Module.Members["log"]

	src := fmt.Sprintf("def _f(x, %s):\n    return %s\n", strings.Join(params, ", "), expr)
	thread := &starlark.Thread{Name: "fit"}
	globals, err := starlark.ExecFileOptions(opts, thread, "fit", src, predeclared)
	if err != nil {
		return Equation{}, fmt.Errorf("%w: %w", ErrInvalidFormula, err)
	}
	fn, ok := globals["_f"].(*starlark.Function)
	if !ok {
		return Equation{}, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
	}

	args := make(starlark.Tuple, len(params)+1)
	f := func(p []float64, x float64) float64 {
		args[0] = starlark.Float(x)
		for i, v := range p {
			args[i+1] = starlark.Float(v)
		}
		v, err := starlark.Call(thread, fn, args, nil)
		if err != nil {
			return math.NaN()
		}
		return toFloat(v)
	}

	return Equation{
		Name:    "Custom",
		Formula: "y = " + expr,
		NParams: len(params),
		f:       f,
		guess: func(_, _ []float64) []float64 {
			g := make([]float64, len(params))
			for i := range g {
				g[i] = 1
			}
			return g
		},
	}, nil
}

func toFloat(v starlark.Value) float64 {
	switch n := v.(type) {
	case starlark.Float:
		return float64(n)
	case starlark.Int:
		f, _ := starlark.AsFloat(n)
		return f
	case starlark.Bool:
		if n {
			return 1
		}
		return 0
	}
	return math.NaN()
}
