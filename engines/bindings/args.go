package bindings

import (
	"fmt"
	"math"

	"github.com/robbyt/go-ijmacro/macro/array"
)

// Args is the positional argument list of a call, already converted to Go values:
// int64 and float64 numbers, strings, bools, []any lists, map[string]any and nil.
type Args []any

// reader pulls typed arguments out of Args. The first failure is kept and every later
// read returns a zero value, so a binding checks Err once after reading.
type reader struct {
	name string
	args Args
	err  error
}

func (a Args) reader(name string) *reader {
	return &reader{name: name, args: a}
}

func (r *reader) Err() error { return r.err }

func (r *reader) Len() int { return len(r.args) }

// Max fails when more than n arguments were passed.
func (r *reader) Max(n int) {
	if r.err == nil && len(r.args) > n {
		r.err = fmt.Errorf("%w: %s() takes at most %d, got %d", ErrTooManyArgs, r.name, n, len(r.args))
	}
}

func (r *reader) fail(i int, want string, got any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s() argument %d must be %s, got %T", ErrArgument, r.name, i+1, want, got)
	}
}

func (r *reader) get(i int) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	if i >= len(r.args) {
		r.err = fmt.Errorf("%w: %s() needs argument %d", ErrMissingArg, r.name, i+1)
		return nil, false
	}
	return r.args[i], true
}

func (r *reader) Any(i int) any {
	v, _ := r.get(i)
	return v
}

// Rest returns the arguments from i on.
func (r *reader) Rest(i int) []any {
	if i >= len(r.args) {
		return nil
	}
	return r.args[i:]
}

func (r *reader) Float(i int) float64 {
	v, ok := r.get(i)
	if !ok {
		return 0
	}
	if b, isBool := v.(bool); isBool {
		return boolNumber(b)
	}
	f, ok := array.ToFloat(v)
	if !ok {
		r.fail(i, "a number", v)
	}
	return f
}

func (r *reader) FloatOr(i int, def float64) float64 {
	if i >= len(r.args) {
		return def
	}
	return r.Float(i)
}

// Int accepts whole numbers only.
func (r *reader) Int(i int) int {
	f := r.Float(i)
	if r.err != nil {
		return 0
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		r.fail(i, "a whole number", r.args[i])
		return 0
	}
	return int(f)
}

func (r *reader) IntOr(i int, def int) int {
	if i >= len(r.args) {
		return def
	}
	return r.Int(i)
}

func (r *reader) String(i int) string {
	v, ok := r.get(i)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(i, "a string", v)
	}
	return s
}

func (r *reader) StringOr(i int, def string) string {
	if i >= len(r.args) {
		return def
	}
	return r.String(i)
}

// Bool accepts booleans and numbers, where any non-zero number is true.
func (r *reader) Bool(i int) bool {
	v, ok := r.get(i)
	if !ok {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	f, ok := array.ToFloat(v)
	if !ok {
		r.fail(i, "a boolean", v)
	}
	return f != 0
}

func (r *reader) List(i int) []any {
	v, ok := r.get(i)
	if !ok {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		r.fail(i, "an array", v)
	}
	return l
}

func (r *reader) Floats(i int) []float64 {
	l := r.List(i)
	if r.err != nil {
		return nil
	}
	f, err := array.Floats(l)
	if err != nil {
		r.err = fmt.Errorf("%s() argument %d: %w", r.name, i+1, err)
	}
	return f
}

func (r *reader) Strings(i int) []string {
	l := r.List(i)
	out := make([]string, 0, len(l))
	for _, v := range l {
		s, ok := v.(string)
		if !ok {
			r.fail(i, "an array of strings", v)
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (r *reader) Bools(i int) []bool {
	l := r.List(i)
	out := make([]bool, 0, len(l))
	for _, v := range l {
		switch b := v.(type) {
		case bool:
			out = append(out, b)
		default:
			f, ok := array.ToFloat(v)
			if !ok {
				r.fail(i, "an array of booleans", v)
				return nil
			}
			out = append(out, f != 0)
		}
	}
	return out
}

func boolNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
