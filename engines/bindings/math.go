package bindings

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// unary wraps a one-argument float function.
func unary(name string, f func(float64) float64) Func {
	return func(_ context.Context, args Args) (any, error) {
		r := args.reader(name)
		r.Max(1)
		v := r.Float(0)
		if err := r.Err(); err != nil {
			return nil, err
		}
		return f(v), nil
	}
}

func binary(name string, f func(a, b float64) float64) Func {
	return func(_ context.Context, args Args) (any, error) {
		r := args.reader(name)
		r.Max(2)
		a, b := r.Float(0), r.Float(1)
		if err := r.Err(); err != nil {
			return nil, err
		}
		return f(a, b), nil
	}
}

func mathFunctions() map[string]Func {
	return map[string]Func{
		"abs":   unary("abs", math.Abs),
		"acos":  unary("acos", math.Acos),
		"asin":  unary("asin", math.Asin),
		"atan":  unary("atan", math.Atan),
		"atan2": binary("atan2", math.Atan2),
		"cos":   unary("cos", math.Cos),
		"sin":   unary("sin", math.Sin),
		"tan":   unary("tan", math.Tan),
		"exp":   unary("exp", math.Exp),
		"log":   unary("log", math.Log),
		"sqrt":  unary("sqrt", math.Sqrt),
		"pow":   binary("pow", math.Pow),
		"floor": unary("floor", math.Floor),
		// round rounds half up like the host, so round(-2.5) is -2.
		"round": unary("round", func(v float64) float64 { return math.Floor(v + 0.5) }),
		"isNaN": func(_ context.Context, args Args) (any, error) {
			r := args.reader("isNaN")
			r.Max(1)
			v := r.Float(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return math.IsNaN(v), nil
		},
		"minOf": binary("minOf", math.Min),
		"maxOf": binary("maxOf", math.Max),
		"parseFloat": func(_ context.Context, args Args) (any, error) {
			r := args.reader("parseFloat")
			r.Max(1)
			s := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return math.NaN(), nil
			}
			return f, nil
		},
		"parseInt": func(_ context.Context, args Args) (any, error) {
			r := args.reader("parseInt")
			r.Max(2)
			s, radix := r.String(0), r.IntOr(1, 10)
			if err := r.Err(); err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(strings.TrimSpace(s), radix, 64)
			if err != nil {
				return math.NaN(), nil
			}
			return float64(n), nil
		},
		"random": noArgs("random", func(context.Context) (any, error) {
			return rand.Float64(), nil
		}),
	}
}

func constants() map[string]any {
	return map[string]any{
		"PI":    math.Pi,
		"NaN":   math.NaN(),
		"true":  true,
		"false": false,
	}
}
