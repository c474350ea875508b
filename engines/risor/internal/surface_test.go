package internal

import (
	"context"
	"errors"
	"testing"

	risorLib "github.com/risor-io/risor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-ijmacro/engines/bindings"
)

var errBoom = errors.New("boom")

func testSurface() *bindings.Surface {
	dynamic := map[string]bindings.Func{}
	return &bindings.Surface{
		Funcs: map[string]bindings.Func{
			"double": func(_ context.Context, args bindings.Args) (any, error) {
				n, _ := args[0].(int64)
				return n * 2, nil
			},
			"fail": func(context.Context, bindings.Args) (any, error) {
				return nil, errBoom
			},
			"register": func(_ context.Context, args bindings.Args) (any, error) {
				name, _ := args[0].(string)
				dynamic[name] = func(context.Context, bindings.Args) (any, error) { return name, nil }
				return nil, nil
			},
		},
		Modules: map[string]*bindings.Module{
			"Array": {
				Name: "Array",
				Funcs: map[string]bindings.Func{
					"bounds": func(context.Context, bindings.Args) (any, error) {
						return bindings.Tuple{1, 2}, nil
					},
				},
			},
			"Ext": {
				Name:  "Ext",
				Funcs: map[string]bindings.Func{},
				Lookup: func(name string) (bindings.Func, bool) {
					fn, ok := dynamic[name]
					return fn, ok
				},
			},
		},
		Constants: map[string]any{"PI": 3.5, "true": 1, "false": 0},
	}
}

func eval(t *testing.T, src string) (any, error) {
	t.Helper()
	return evalWith(t, testSurface(), src)
}

func evalWith(t *testing.T, sf *bindings.Surface, src string) (any, error) {
	t.Helper()
	globals, err := SurfaceGlobals(sf)
	require.NoError(t, err)
	opts := make([]risorLib.Option, 0, len(globals))
	for name, v := range globals {
		opts = append(opts, risorLib.WithGlobal(name, v))
	}
	obj, err := risorLib.Eval(context.Background(), src, opts...)
	if err != nil {
		return nil, err
	}
	return FromObject(obj), nil
}

func TestSurfaceGlobals(t *testing.T) {
	t.Parallel()

	globals, err := SurfaceGlobals(testSurface())
	require.NoError(t, err)
	assert.NotContains(t, globals, "true")
	assert.NotContains(t, globals, "false")

	tests := []struct {
		name string
		src  string
		want any
	}{
		{"function", "double(21)", int64(42)},
		{"tuple as list", "Array.bounds()", []any{int64(1), int64(2)}},
		{"constant", "PI * 2", 7.0},
		{"keyword literal", "true", true},
		{"dynamic attr", "register(\"hello\")\nExt.hello()", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := eval(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		_, err := eval(t, "fail()")
		require.ErrorContains(t, err, "boom")
	})
}

func TestInPlaceArrayFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want any
	}{
		{"rotate", "a := [0, 1, 2, \"three\", 4, 5, 6, 7, 8, 9]\nArray.rotate(a, 1)\n[a[0], a[9]]", []any{int64(9), int64(8)}},
		{"reverse", "a := [1, 2, 3]\nArray.reverse(a)\na", []any{int64(3), int64(2), int64(1)}},
		{"fill", "a := [1, 2, 3]\nArray.fill(a, 7)\na", []any{int64(7), int64(7), int64(7)}},
		{"sort", "a := [3, 1, 2]\nArray.sort(a)\na", []any{1.0, 2.0, 3.0}},
		{"returns the same list", "a := [1, 2]\nb := Array.reverse(a)\nb.append(0)\nlen(a)", int64(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := evalWith(t, bindings.New(nil), tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
