// Package fit implements the macro language's curve fitting functions.
//
// DoFit fits one of the built-in equations (see NumEquations and GetEquation) or a
// custom formula to x, y data. Equations linear in their parameters are solved by
// least squares; all others are minimised with the Nelder-Mead simplex method.
package fit

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// restarts is how many times the simplex is restarted from its last minimum.
const restarts = 2

// Result is a completed fit.
type Result struct {
	equation Equation
	params   []float64
	x, y     []float64
	rSquared float64
}

// DoFit fits equation to the points x, y. equation is a built-in name, one of the
// built-in formulas, or a custom formula using x and single letter parameters.
// initialGuesses may be nil; otherwise it must hold one value per parameter.
func DoFit(ctx context.Context, equation string, x, y, initialGuesses []float64) (*Result, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(x), len(y))
	}

	eq, ok := lookupEquation(equation)
	if !ok {
		if !strings.Contains(equation, "x") {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEquation, equation)
		}
		var err error
		eq, err = customEquation(equation)
		if err != nil {
			return nil, err
		}
	}
	if len(x) < eq.NParams {
		return nil, fmt.Errorf("%w: %s needs %d, got %d", ErrTooFewPoints, eq.Name, eq.NParams, len(x))
	}
	if initialGuesses != nil && len(initialGuesses) != eq.NParams {
		return nil, fmt.Errorf("%w: %s has %d parameters, got %d", ErrGuessCount, eq.Name, eq.NParams, len(initialGuesses))
	}

	var (
		params []float64
		err    error
	)
	if eq.basis != nil {
		params, err = solveLinear(eq, x, y)
	} else {
		guess := initialGuesses
		if guess == nil {
			guess = eq.guess(x, y)
		}
		params, err = minimize(ctx, eq, x, y, guess)
	}
	if err != nil {
		return nil, err
	}

	r := &Result{
		equation: eq,
		params:   params,
		x:        slices.Clone(x),
		y:        slices.Clone(y),
	}
	r.rSquared = r.computeRSquared()
	return r, nil
}

func solveLinear(eq Equation, x, y []float64) ([]float64, error) {
	a := mat.NewDense(len(x), eq.NParams, nil)
	for i, xi := range x {
		a.SetRow(i, eq.basis(xi))
	}
	var p mat.VecDense
	if err := p.SolveVec(a, mat.NewVecDense(len(y), slices.Clone(y))); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFitFailed, eq.Name, err)
	}
	return slices.Clone(p.RawVector().Data), nil
}

func minimize(ctx context.Context, eq Equation, x, y, guess []float64) ([]float64, error) {
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			return sumOfSquares(eq.f, p, x, y)
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: 4000 * eq.NParams,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-10,
			Iterations: 100 * eq.NParams,
		},
	}

	best := slices.Clone(guess)
	bestSSE := problem.Func(best)
	for range restarts + 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := optimize.Minimize(problem, best, settings, &optimize.NelderMead{})
		if res == nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFitFailed, eq.Name, err)
		}
		if math.IsNaN(bestSSE) || res.F < bestSSE {
			best, bestSSE = slices.Clone(res.X), res.F
		}
	}
	if math.IsNaN(bestSSE) || math.IsInf(bestSSE, 0) {
		return nil, fmt.Errorf("%w: %s did not converge", ErrFitFailed, eq.Name)
	}
	return best, nil
}

func sumOfSquares(f model, p, x, y []float64) float64 {
	sum := 0.0
	for i, xi := range x {
		d := f(p, xi) - y[i]
		sum += d * d
	}
	if math.IsNaN(sum) {
		return math.Inf(1)
	}
	return sum
}

func (r *Result) computeRSquared() float64 {
	mean := 0.0
	for _, v := range r.y {
		mean += v
	}
	mean /= float64(len(r.y))
	sst := 0.0
	for _, v := range r.y {
		sst += (v - mean) * (v - mean)
	}
	sse := sumOfSquares(r.equation.f, r.params, r.x, r.y)
	if sst == 0 {
		if sse == 0 {
			return 1
		}
		return 0
	}
	return 1 - sse/sst
}

// P returns parameter i.
func (r *Result) P(i int) (float64, error) {
	if i < 0 || i >= len(r.params) {
		return math.NaN(), fmt.Errorf("%w: %d of %d", ErrParamOutOfRange, i, len(r.params))
	}
	return r.params[i], nil
}

// Params returns a copy of all parameters.
func (r *Result) Params() []float64 { return slices.Clone(r.params) }

// NParams returns the number of parameters.
func (r *Result) NParams() int { return len(r.params) }

// F evaluates the fitted function at x.
func (r *Result) F(x float64) float64 { return r.equation.f(r.params, x) }

// RSquared returns the coefficient of determination.
func (r *Result) RSquared() float64 { return r.rSquared }

// Name returns the fitted equation's name, "Custom" for formulas.
func (r *Result) Name() string { return r.equation.Name }

// Formula returns the fitted equation's formula.
func (r *Result) Formula() string { return r.equation.Formula }

func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Formula: %s\n", r.equation.Formula)
	for i, p := range r.params {
		fmt.Fprintf(&b, "%c = %.4f\n", 'a'+rune(i), p)
	}
	fmt.Fprintf(&b, "R^2 = %.4f", r.rSquared)
	return b.String()
}
