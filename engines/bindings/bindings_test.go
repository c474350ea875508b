package bindings

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/macro/dialog"
	"github.com/robbyt/go-ijmacro/macro/ext"
)

func newSurface(t *testing.T, opts ...macro.Option) (*Surface, *macro.Session) {
	t.Helper()
	opts = append([]macro.Option{macro.WithLogHandler(slog.NewTextHandler(io.Discard, nil))}, opts...)
	s, err := macro.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return New(s), s
}

func call(t *testing.T, sf *Surface, name string, args ...any) (any, error) {
	t.Helper()
	if mod, attr, ok := strings.Cut(name, "."); ok {
		m, found := sf.Modules[mod]
		require.True(t, found, "module %s", mod)
		fn, found := m.Attr(attr)
		require.True(t, found, "function %s", name)
		return fn(context.Background(), args)
	}
	fn, found := sf.Funcs[name]
	require.True(t, found, "function %s", name)
	return fn(context.Background(), args)
}

func mustCall(t *testing.T, sf *Surface, name string, args ...any) any {
	t.Helper()
	v, err := call(t, sf, name, args...)
	require.NoError(t, err, name)
	return v
}

func TestGlobalNames(t *testing.T) {
	t.Parallel()
	names := GlobalNames()

	assert.True(t, slices.IsSorted(names))
	assert.Equal(t, len(names), len(slices.Compact(slices.Clone(names))))
	for _, want := range []string{"run", "getPixel", "roiManager", "Array", "Dialog", "File", "Fit", "Ext", "Table", "PI", "NaN"} {
		assert.Contains(t, names, want)
	}
}

func TestArgumentErrors(t *testing.T) {
	t.Parallel()
	sf, _ := newSurface(t)

	tests := []struct {
		name string
		fn   string
		args []any
		want error
	}{
		{"missing", "setPixel", []any{int64(1)}, ErrMissingArg},
		{"too many", "getPixel", []any{int64(1), int64(2), int64(3)}, ErrTooManyArgs},
		{"wrong type", "run", []any{int64(1)}, ErrArgument},
		{"fraction for int", "setPixel", []any{1.5, int64(0), int64(1)}, ErrArgument},
		{"no args allowed", "nImages", []any{int64(1)}, ErrTooManyArgs},
		{"unknown info key", "getInfo", []any{"window.type"}, ErrUnknownKey},
		{"unknown table", "Table.size", []any{"Nope"}, ErrUnknownTable},
		{"not a handle", "File.close", []any{"notes.txt"}, ErrNotAHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, sf, tt.fn, tt.args...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestImageFunctions(t *testing.T) {
	t.Parallel()
	sf, _ := newSurface(t)

	mustCall(t, sf, "newImage", "ramp", "8-bit ramp", int64(256), int64(256))
	assert.Equal(t, 1, mustCall(t, sf, "nImages"))
	assert.Equal(t, "ramp", mustCall(t, sf, "getTitle"))
	assert.InDelta(t, 128.0, mustCall(t, sf, "getPixel", int64(128), int64(0)), 0)
	assert.InDelta(t, 128.0, mustCall(t, sf, "getPixel", int64(128)), 0, "single index reads the first row")
	assert.InDelta(t, 2.0, mustCall(t, sf, "getPixel", int64(256+2)), 0, "index wraps to the next row")
	_, err := call(t, sf, "getPixel", int64(256*256))
	require.Error(t, err)

	mustCall(t, sf, "setThreshold", int64(0), int64(127))
	assert.Equal(t, Tuple{0.0, 127.0}, mustCall(t, sf, "getThreshold"))

	mustCall(t, sf, "makeRectangle", int64(1), int64(2), int64(3), int64(4))
	assert.Equal(t, Tuple{1, 2, 3, 4}, mustCall(t, sf, "getSelectionBounds"))

	mustCall(t, sf, "print", "width", int64(256))
	assert.Equal(t, "width 256\n", mustCall(t, sf, "getInfo", "log"))
}

func TestStringAndMathFunctions(t *testing.T) {
	t.Parallel()
	sf, _ := newSurface(t)

	tests := []struct {
		fn   string
		args []any
		want any
	}{
		{"d2s", []any{3.14159, int64(2)}, "3.14"},
		{"toString", []any{2.5}, "2.5000"},
		{"lengthOf", []any{"blobs"}, 5},
		{"fromCharCode", []any{int64(72), int64(105)}, "Hi"},
		{"round", []any{2.5}, 3.0},
		{"round", []any{-2.5}, -2.0},
		{"maxOf", []any{int64(2), 7.5}, 7.5},
		{"parseInt", []any{"ff", int64(16)}, 255.0},
		{"isNaN", []any{"x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			got, err := call(t, sf, tt.fn, tt.args...)
			if tt.want == nil {
				require.ErrorIs(t, err, ErrArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	f, err := call(t, sf, "parseFloat", "abc")
	require.NoError(t, err)
	assert.True(t, mustCall(t, sf, "isNaN", f).(bool))
}

func TestArrayModule(t *testing.T) {
	t.Parallel()
	sf, s := newSurface(t)

	sorted := mustCall(t, sf, "Array.sort", []any{3.0, 1.0, 2.0})
	assert.Equal(t, []any{1.0, 2.0, 3.0}, sorted)

	arr := sf.Modules["Array"]
	for _, name := range []string{"fill", "reverse", "rotate", "sort"} {
		assert.True(t, arr.Modifies(name), name)
	}
	assert.False(t, arr.Modifies("copy"))
	assert.False(t, sf.Modules["Table"].Modifies("set"))

	assert.Equal(t, Tuple{1.0, 3.0, 2.0, 1.0}, mustCall(t, sf, "Array.getStatistics", []any{1.0, 2.0, 3.0}))
	assert.Equal(t, []any{2.0, 3.0}, mustCall(t, sf, "Array.slice", []any{1.0, 2.0, 3.0}, int64(1)))

	maxima := mustCall(t, sf, "Array.findMaxima", []any{0.0, 5.0, 0.0, 3.0, 0.0}, 1.0)
	assert.Equal(t, []int{1, 3}, maxima)

	mustCall(t, sf, "Array.show", "Results", []any{1.0, 2.0, 3.0})
	assert.Equal(t, 3, s.Host().Tables().Results().Size())

	mustCall(t, sf, "Array.print", []any{1.0, 2.5})
	assert.Equal(t, "1, 2.5000\n", s.GetLog())
}

func TestTableModule(t *testing.T) {
	t.Parallel()
	sf, _ := newSurface(t)

	mustCall(t, sf, "Table.set", "Area", int64(0), 12.0)
	mustCall(t, sf, "Table.set", "Area", int64(1), 3.0)
	assert.Equal(t, 2, mustCall(t, sf, "Table.size"))
	assert.Equal(t, 2, mustCall(t, sf, "nResults"))
	assert.InDelta(t, 3.0, mustCall(t, sf, "getResult", "Area"), 0)
	assert.Equal(t, []any{"Area"}, mustCall(t, sf, "Table.headings"))

	mustCall(t, sf, "Table.deleteRows", int64(0), int64(0))
	assert.InDelta(t, 3.0, mustCall(t, sf, "Table.get", "Area", int64(0)), 0)

	mustCall(t, sf, "Table.create", "Counts")
	mustCall(t, sf, "Table.set", "n", int64(0), int64(4), "Counts")
	assert.Equal(t, 1, mustCall(t, sf, "Table.size", "Counts"))

	mustCall(t, sf, "Table.reset")
	assert.Equal(t, 0, mustCall(t, sf, "nResults"))
}

func TestFileHandles(t *testing.T) {
	t.Parallel()
	sf, s := newSurface(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	h := mustCall(t, sf, "File.open", path)
	require.IsType(t, "", h)
	assert.True(t, strings.HasPrefix(h.(string), handlePrefix))

	mustCall(t, sf, "print", h, "area", int64(12))
	mustCall(t, sf, "File.close", h)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "area 12\n", string(data))
	assert.Empty(t, s.GetLog())

	_, err = call(t, sf, "File.close", h)
	require.ErrorIs(t, err, ErrNotAHandle)
	assert.Equal(t, "out.txt", mustCall(t, sf, "File.getName", path))
	assert.Equal(t, true, mustCall(t, sf, "File.exists", path))

	t.Run("default name", func(t *testing.T) {
		dir := t.TempDir()
		named := filepath.Join(dir, "named.txt")
		fallback := filepath.Join(dir, "default.txt")

		h := mustCall(t, sf, "File.open", named, fallback)
		mustCall(t, sf, "File.close", h)
		assert.FileExists(t, named)
		assert.NoFileExists(t, fallback)

		h = mustCall(t, sf, "File.open", "", fallback)
		mustCall(t, sf, "print", h, "hello")
		mustCall(t, sf, "File.close", h)
		data, err := os.ReadFile(fallback)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})
}

func TestDialogModule(t *testing.T) {
	t.Parallel()
	answers := dialog.NewScripted(map[string]map[string]any{
		"Params": {"Radius": 7, "Method": "Otsu"},
	})
	sf, _ := newSurface(t, macro.WithPresenter(answers))

	_, err := call(t, sf, "Dialog.addNumber", "Radius", int64(2))
	require.Error(t, err)

	mustCall(t, sf, "Dialog.create", "Params")
	mustCall(t, sf, "Dialog.addNumber", "Radius", int64(2))
	mustCall(t, sf, "Dialog.addChoice", "Method", []any{"Default", "Otsu"})
	mustCall(t, sf, "Dialog.addCheckbox", "Dark", false)
	mustCall(t, sf, "Dialog.show")

	assert.Equal(t, false, mustCall(t, sf, "Dialog.wasCanceled"))
	assert.InDelta(t, 7.0, mustCall(t, sf, "Dialog.getNumber"), 0)
	assert.Equal(t, "Otsu", mustCall(t, sf, "Dialog.getChoice"))
	assert.Equal(t, false, mustCall(t, sf, "Dialog.getCheckbox"))
}

func TestFitModule(t *testing.T) {
	t.Parallel()
	sf, s := newSurface(t)

	mustCall(t, sf, "Fit.doFit", "Straight Line", []any{0.0, 1.0, 2.0}, []any{1.0, 3.0, 5.0})
	assert.InDelta(t, 2.0, mustCall(t, sf, "Fit.p", int64(1)), 1e-9)
	assert.Equal(t, 2, mustCall(t, sf, "Fit.nParams"))
	assert.InDelta(t, 7.0, mustCall(t, sf, "Fit.f", int64(3)), 1e-9)

	eq := mustCall(t, sf, "Fit.getEquation", int64(0))
	assert.Equal(t, Tuple{"Straight Line", "y = a+bx"}, eq)

	mustCall(t, sf, "Fit.logResults")
	assert.Contains(t, s.GetLog(), "Formula: y = a+bx")
}

func TestExtModule(t *testing.T) {
	t.Parallel()
	reg, err := ext.NewRegistry(
		ext.WithLogHandler(slog.NewTextHandler(io.Discard, nil)),
		ext.WithFactory("text.upper", func(context.Context, ext.Env) (ext.Plugin, error) {
			return ext.Funcs{
				"upper": func(_ context.Context, args []any) (any, error) {
					s, _ := args[0].(string)
					return strings.ToUpper(s), nil
				},
			}, nil
		}),
	)
	require.NoError(t, err)
	sf, _ := newSurface(t, macro.WithRegistry(reg))
	m := sf.Modules["Ext"]

	_, found := m.Attr("upper")
	assert.False(t, found)

	mustCall(t, sf, "Ext.install", "text.upper")
	fn, found := m.Attr("upper")
	require.True(t, found)
	got, err := fn(context.Background(), Args{"blobs"})
	require.NoError(t, err)
	assert.Equal(t, "BLOBS", got)

	assert.Equal(t, "A", mustCall(t, sf, "Ext.call", "upper", "a"))
	assert.Equal(t, []string{"call", "install"}, m.AttrNames())
}
