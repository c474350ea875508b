package macro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/robbyt/go-ijmacro/macro/array"
)

// D2S formats n with the given number of decimal places. A negative count uses
// scientific notation with that many decimals, e.g. D2S(1234.5, -2) is "1.23E3".
func D2S(n float64, decimalPlaces int) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	if decimalPlaces >= 0 {
		return strconv.FormatFloat(n, 'f', decimalPlaces, 64)
	}
	s := strconv.FormatFloat(n, 'E', -decimalPlaces, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

// CharCodeAt returns the Unicode code point at index i of s.
func CharCodeAt(s string, i int) (int, error) {
	runes := []rune(s)
	if i < 0 || i >= len(runes) {
		return 0, indexError(i, len(runes))
	}
	return int(runes[i]), nil
}

// FromCharCode builds a string from code points.
func FromCharCode(codes ...int) (string, error) {
	var b strings.Builder
	for _, c := range codes {
		if c < 0 || c > utf8.MaxRune {
			return "", fmt.Errorf("%w: char code %d", ErrInvalidArgument, c)
		}
		b.WriteRune(rune(c))
	}
	return b.String(), nil
}

// LengthOf returns the number of characters of a string or elements of an array.
func LengthOf(v any) (int, error) {
	switch t := v.(type) {
	case string:
		return utf8.RuneCountInString(t), nil
	case []any:
		return len(t), nil
	case []float64:
		return len(t), nil
	case []string:
		return len(t), nil
	case []int:
		return len(t), nil
	}
	return 0, fmt.Errorf("%w: lengthOf(%T)", ErrInvalidArgument, v)
}

// NewArray returns its arguments as an array. A single whole number n instead
// creates n zeros.
func NewArray(args ...any) []any {
	if len(args) == 1 {
		if n, ok := wholeNumber(args[0]); ok && n >= 0 {
			out := make([]any, n)
			for i := range out {
				out[i] = 0.0
			}
			return out
		}
	}
	return append([]any{}, args...)
}

func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// joinArgs renders print() arguments the way the log shows them.
func joinArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatValue(a)
	}
	return strings.Join(parts, " ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case []any:
		return array.Format(t)
	case []float64:
		return array.Format(array.Values(t))
	}
	if f, ok := array.ToFloat(v); ok {
		return array.FormatNumber(f)
	}
	return fmt.Sprint(v)
}
