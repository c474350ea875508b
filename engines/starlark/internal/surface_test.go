package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-ijmacro/engines/bindings"
)

type ctxKey struct{}

var errBoom = errors.New("boom")

func testSurface() *bindings.Surface {
	dynamic := map[string]bindings.Func{}
	return &bindings.Surface{
		Funcs: map[string]bindings.Func{
			"double": func(_ context.Context, args bindings.Args) (any, error) {
				n, _ := args[0].(int64)
				return n * 2, nil
			},
			"fromCtx": func(ctx context.Context, _ bindings.Args) (any, error) {
				return ctx.Value(ctxKey{}), nil
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
		Constants: map[string]any{"PI": 3.5, "true": 1},
	}
}

func run(t *testing.T, src string) (starlarkLib.StringDict, error) {
	t.Helper()
	globals, err := SurfaceGlobals(testSurface())
	require.NoError(t, err)
	thread := &starlarkLib.Thread{Name: "test"}
	SetContext(thread, context.WithValue(context.Background(), ctxKey{}, "session"))
	return starlarkLib.ExecFile(thread, "test.star", src, globals)
}

func TestSurfaceGlobals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"function", "out = double(21)", "42"},
		{"tuple unpack", "a, b = Array.bounds()\nout = a + b", "3"},
		{"context", "out = fromCtx()", `"session"`},
		{"constant", "out = PI", "3.5"},
		{"dynamic attr", `register("hello")` + "\nout = Ext.hello()", `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := run(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got["out"].String())
		})
	}

	t.Run("errors unwrap", func(t *testing.T) {
		t.Parallel()
		_, err := run(t, "fail()")
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("keyword arguments", func(t *testing.T) {
		t.Parallel()
		_, err := run(t, "double(n=1)")
		require.ErrorContains(t, err, "keyword arguments")
	})

	t.Run("missing attribute", func(t *testing.T) {
		t.Parallel()
		_, err := run(t, "Ext.nothing()")
		require.ErrorContains(t, err, "no .nothing field")
	})

	t.Run("module value", func(t *testing.T) {
		t.Parallel()
		got, err := run(t, "out = str(Array)\nnames = dir(Array)")
		require.NoError(t, err)
		assert.Equal(t, `"<module Array>"`, got["out"].String())
		assert.Equal(t, `["bounds"]`, got["names"].String())
	})
}

func TestInPlaceArrayFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"rotate", "a = [0, 1, 2, \"three\", 4, 5, 6, 7, 8, 9]\nArray.rotate(a, 1)\nout = [a[0], a[-1]]", "[9, 8]"},
		{"reverse", "a = [1, 2, 3]\nArray.reverse(a)\nout = a", "[3, 2, 1]"},
		{"fill", "a = [1, 2, 3]\nArray.fill(a, 7)\nout = a", "[7, 7, 7]"},
		{"sort", "a = [3, 1, 2]\nArray.sort(a)\nout = a", "[1.0, 2.0, 3.0]"},
		{"returns the same list", "a = [1, 2]\nb = Array.reverse(a)\nb.append(0)\nout = a", "[2, 1, 0]"},
		{"copy is not modified", "a = [3, 1]\nb = Array.copy(a)\nArray.sort(b)\nout = a", "[3, 1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			globals, err := SurfaceGlobals(bindings.New(nil))
			require.NoError(t, err)
			thread := &starlarkLib.Thread{Name: "test"}
			got, err := starlarkLib.ExecFile(thread, "test.star", tt.src, globals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got["out"].String())
		})
	}
}
