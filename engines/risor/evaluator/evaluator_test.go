package evaluator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-ijmacro/engines/risor/compiler"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/macro/dialog"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

func discard() slog.Handler { return slog.NewTextHandler(io.Discard, nil) }

func newEvaluator(t *testing.T, src string, provider data.Provider, opts ...macro.Option) *Evaluator {
	t.Helper()
	ldr, err := loader.NewFromString(src)
	require.NoError(t, err)
	c, err := compiler.New(compiler.WithLogHandler(discard()))
	require.NoError(t, err)
	unit, err := script.NewExecutableUnit(discard(), "", ldr, c, provider)
	require.NoError(t, err)
	return New(discard(), unit, platform.NewSessionFactory(discard(), opts...))
}

func TestEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		want     any
		wantType data.Types
		wantLog  string
	}{
		{
			name:     "pixel value",
			src:      "newImage(\"ramp\", \"8-bit ramp\", 256, 256)\ngetPixel(128, 0)",
			want:     128.0,
			wantType: data.FLOAT,
		},
		{
			name:     "pixel by index",
			src:      "newImage(\"ramp\", \"8-bit ramp\", 256, 2)\ngetPixel(256 + 2)",
			want:     2.0,
			wantType: data.FLOAT,
		},
		{
			name:     "threshold list",
			src:      "newImage(\"ramp\", \"8-bit ramp\", 256, 256)\nsetThreshold(0, 127)\nt := getThreshold()\nt[1]",
			want:     127.0,
			wantType: data.FLOAT,
		},
		{
			name:     "array print goes to log",
			src:      "Array.print([1, 2.5])\nnImages()",
			want:     int64(0),
			wantType: data.INT,
			wantLog:  "1, 2.5000\n",
		},
		{
			name:     "risor function",
			src:      "func area() { return getWidth() * getHeight() }\nnewImage(\"a\", \"8-bit black\", 4, 3)\narea()",
			want:     int64(12),
			wantType: data.INT,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := newEvaluator(t, tt.src, nil).Eval(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Interface())
			assert.Equal(t, tt.wantType, resp.Type())
			assert.Equal(t, tt.wantLog, resp.GetLog())
			assert.NotEmpty(t, resp.GetScriptExeID())
		})
	}
}

func TestEvalInputData(t *testing.T) {
	t.Parallel()
	provider := data.NewCompositeProvider(
		data.NewStaticProvider(map[string]any{"mode": "dark"}),
		data.NewContextProvider(constants.EvalData),
	)
	e := newEvaluator(t, `getArgument() + ":" + ctx["mode"]`, provider)

	resp, err := platform.EvalWith(context.Background(), e, map[string]any{constants.Argument: "blobs.gif"})
	require.NoError(t, err)
	assert.Equal(t, "blobs.gif:dark", resp.Interface())
}

func TestEvalSessionPerRun(t *testing.T) {
	t.Parallel()
	e := newEvaluator(t, "newImage(\"a\", \"8-bit black\", 8, 8)\nnImages()", nil)
	for range 2 {
		resp, err := e.Eval(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Interface())
	}
}

func TestEvalDialog(t *testing.T) {
	t.Parallel()
	src := `
Dialog.create("Params")
Dialog.addChoice("Method", ["Default", "Otsu"])
Dialog.show()
Dialog.getChoice()
`
	answers := dialog.NewScripted(map[string]map[string]any{"Params": {"Method": "Otsu"}})
	resp, err := newEvaluator(t, src, nil, macro.WithPresenter(answers)).Eval(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Otsu", resp.Interface())
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()

	t.Run("macro argument error", func(t *testing.T) {
		t.Parallel()
		_, err := newEvaluator(t, "setPixel(1)", nil).Eval(context.Background())
		require.ErrorIs(t, err, ErrExecFailed)
		require.ErrorContains(t, err, "setPixel() needs argument 2")
	})

	t.Run("function result", func(t *testing.T) {
		t.Parallel()
		_, err := newEvaluator(t, "func f() { return 1 }\nf", nil).Eval(context.Background())
		require.ErrorIs(t, err, ErrFunctionResult)
	})

	t.Run("canceled before start", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newEvaluator(t, "nImages()", nil).Eval(ctx)
		require.ErrorIs(t, err, ErrExecFailed)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nil unit", func(t *testing.T) {
		t.Parallel()
		_, err := New(discard(), nil, nil).Eval(context.Background())
		require.ErrorIs(t, err, ErrNilExecUnit)
	})

	t.Run("session factory", func(t *testing.T) {
		t.Parallel()
		e := newEvaluator(t, "1", nil)
		boom := errors.New("boom")
		e.newSession = func(context.Context, map[string]any) (*macro.Session, error) { return nil, boom }
		_, err := e.Eval(context.Background())
		require.ErrorIs(t, err, ErrSessionFailed)
		require.ErrorIs(t, err, boom)
	})

	t.Run("no data provider", func(t *testing.T) {
		t.Parallel()
		_, err := newEvaluator(t, "1", nil).AddDataToContext(context.Background(), map[string]any{"a": 1})
		require.ErrorIs(t, err, ErrNoDataProvider)
	})
}
