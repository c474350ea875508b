// Package array implements the macro language's Array functions on plain Go slices.
//
// Macro arrays may mix numbers and strings, so most functions take []any. Numbers may
// be any Go integer or float type; they are compared and returned as float64. Functions
// that need numbers only take []float64; use Floats to convert.
package array

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Edge modes for FindMaxima and FindMinima.
const (
	IncludeEdges  = 0
	ExcludeEdges  = 1
	CircularArray = 2
)

// Concat joins arrays and single values into a new array. Slices are spread, any
// other value is appended as one element.
func Concat(values ...any) []any {
	var out []any
	for _, v := range values {
		switch s := v.(type) {
		case []any:
			out = append(out, s...)
		case []float64:
			for _, f := range s {
				out = append(out, f)
			}
		case []string:
			for _, str := range s {
				out = append(out, str)
			}
		case []int:
			for _, n := range s {
				out = append(out, float64(n))
			}
		default:
			out = append(out, v)
		}
	}
	if out == nil {
		out = []any{}
	}
	return out
}

// Copy returns an independent copy of a.
func Copy(a []any) []any {
	out := make([]any, len(a))
	copy(out, a)
	return out
}

// DeleteValue returns a without the elements equal to value. Numbers compare by value
// regardless of their Go type.
func DeleteValue(a []any, value any) []any {
	out := make([]any, 0, len(a))
	for _, v := range a {
		if !equal(v, value) {
			out = append(out, v)
		}
	}
	return out
}

// DeleteIndex returns a new array without the element at index.
func DeleteIndex(a []any, index int) ([]any, error) {
	if index < 0 || index >= len(a) {
		return nil, indexError(index, len(a))
	}
	out := make([]any, 0, len(a)-1)
	out = append(out, a[:index]...)
	return append(out, a[index+1:]...), nil
}

// Fill sets every element of a to value and returns a.
func Fill(a []any, value any) []any {
	for i := range a {
		a[i] = value
	}
	return a
}

// GetSequence returns 0, 1, ... n-1.
func GetSequence(n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// GetStatistics returns the minimum, maximum, mean and sample standard deviation.
// The standard deviation of a single value is 0.
func GetStatistics(values []float64) (minV, maxV, mean, stdDev float64, err error) {
	if len(values) == 0 {
		return 0, 0, 0, 0, ErrEmpty
	}
	minV = floats.Min(values)
	maxV = floats.Max(values)
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		stdDev = stat.StdDev(values, nil)
	}
	return minV, maxV, mean, stdDev, nil
}

// Format renders a the way Array.print writes it to the log: elements separated by
// ", ", integers without decimals and other numbers with four.
func Format(a []any) string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = formatElement(v)
	}
	return strings.Join(parts, ", ")
}

// RankPositions returns the indexes of a ordered by ascending value. Ties keep their
// original order and strings compare case-insensitively.
func RankPositions(a []any) ([]int, error) {
	idx := make([]int, len(a))
	for i := range idx {
		idx[i] = i
	}
	if len(a) == 0 {
		return idx, nil
	}

	if nums, err := Floats(a); err == nil {
		slices.SortStableFunc(idx, func(i, j int) int { return compareFloat(nums[i], nums[j]) })
		return idx, nil
	}
	strs, err := strs(a)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(idx, func(i, j int) int {
		return strings.Compare(strings.ToLower(strs[i]), strings.ToLower(strs[j]))
	})
	return idx, nil
}

// Resample linearly interpolates values to n elements. Both end points are kept.
func Resample(values []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	out := make([]float64, n)
	switch len(values) {
	case 0:
		return out, nil
	case 1:
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	}

	last := len(values) - 1
	factor := float64(n-1) / float64(last)
	for i := range n - 1 {
		pos := float64(i) / factor
		left := min(int(math.Floor(pos)), last-1)
		frac := pos - float64(left)
		out[i] = values[left] + frac*(values[left+1]-values[left])
	}
	out[n-1] = values[last]
	return out, nil
}

// Reverse reverses a in place and returns it.
func Reverse(a []any) []any {
	slices.Reverse(a)
	return a
}

// Slice returns a copy of a[start:stop]. Bounds are clamped to the array.
func Slice(a []any, start, stop int) []any {
	start = min(max(start, 0), len(a))
	stop = min(max(stop, start), len(a))
	return Copy(a[start:stop])
}

// Sort sorts a in place and returns it. The array must hold only numbers or only
// strings; strings sort case-insensitively.
func Sort(a []any) ([]any, error) {
	if len(a) == 0 {
		return a, nil
	}
	if nums, err := Floats(a); err == nil {
		slices.SortStableFunc(nums, compareFloat)
		for i, f := range nums {
			a[i] = f
		}
		return a, nil
	}
	if _, err := strs(a); err != nil {
		return nil, err
	}
	slices.SortStableFunc(a, func(x, y any) int {
		return strings.Compare(strings.ToLower(x.(string)), strings.ToLower(y.(string)))
	})
	return a, nil
}

// Trim returns the first n elements of a.
func Trim(a []any, n int) []any {
	return Slice(a, 0, n)
}

// Rotate shifts the elements of a by d positions in place, to the right for positive
// d, and returns a.
func Rotate(a []any, d int) []any {
	n := len(a)
	if n == 0 {
		return a
	}
	d = ((d % n) + n) % n
	if d == 0 {
		return a
	}
	rotated := append(Copy(a[n-d:]), a[:n-d]...)
	copy(a, rotated)
	return a
}

// GetVertexAngles returns the vertex angle in degrees at every point of the closed
// contour x, y. Straight segments give 0; convex vertices are positive for clockwise
// contours. arm selects how far away the neighbouring points are.
func GetVertexAngles(x, y []float64, arm int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(x), len(y))
	}
	if arm < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidArmLength, arm)
	}
	n := len(x)
	angles := make([]float64, n)
	for mid := range n {
		left := (mid + 10*n - arm) % n
		right := (mid + arm) % n
		dot := (x[right]-x[mid])*(x[left]-x[mid]) + (y[right]-y[mid])*(y[left]-y[mid])
		cross := (x[right]-x[mid])*(y[left]-y[mid]) - (y[right]-y[mid])*(x[left]-x[mid])
		phi := 180.0 - 180.0/math.Pi*math.Atan2(cross, dot)
		for phi >= 180.0 {
			phi -= 360.0
		}
		angles[mid] = phi
	}
	return angles, nil
}

// Floats converts a to numbers. Any non-numeric element is an error.
func Floats(a []any) ([]float64, error) {
	out := make([]float64, len(a))
	for i, v := range a {
		f, ok := ToFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrNotNumeric, i, v)
		}
		out[i] = f
	}
	return out, nil
}

// Values converts numbers to a macro array.
func Values[T int | float64](nums []T) []any {
	out := make([]any, len(nums))
	for i, n := range nums {
		out[i] = float64(n)
	}
	return out
}

// ToFloat reports the numeric value of v for Go integer and float types.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func strs(a []any) ([]string, error) {
	out := make([]string, len(a))
	for i, v := range a {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrMixedTypes, i, v)
		}
		out[i] = s
	}
	return out, nil
}

func equal(a, b any) bool {
	fa, okA := ToFloat(a)
	fb, okB := ToFloat(b)
	if okA || okB {
		return okA && okB && fa == fb
	}
	return a == b
}

// compareFloat orders NaN after every number.
func compareFloat(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func formatElement(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	f, ok := ToFloat(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return FormatNumber(f)
}

// FormatNumber prints integers without decimals and everything else with four.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e9:
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func indexError(index, length int) error {
	return fmt.Errorf("%w: Index (%d) is outside of the 0-%d range", ErrIndexOutOfRange, index, length-1)
}
