package risor

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-ijmacro/engines/risor/compiler"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

const blobsMacro = `
newImage("blobs", "8-bit ramp", 256, 64)
setThreshold(128, 255)
t := getThreshold()
Array.print(t)
getWidth() * getHeight()
`

func discard() slog.Handler { return slog.NewTextHandler(io.Discard, nil) }

func TestFromRisorLoader(t *testing.T) {
	t.Parallel()
	ldr, err := loader.NewFromString(blobsMacro)
	require.NoError(t, err)

	e, err := FromRisorLoader(discard(), ldr)
	require.NoError(t, err)
	assert.Equal(t, "risor.Evaluator", e.String())

	resp, err := e.Eval(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(256*64), resp.Interface())
	assert.Equal(t, "128, 255\n", resp.GetLog())
}

func TestFromRisorLoaderWithData(t *testing.T) {
	t.Parallel()
	ldr, err := loader.NewFromString(`getArgument() + ":" + ctx["mode"]`)
	require.NoError(t, err)

	e, err := FromRisorLoaderWithData(discard(), ldr, map[string]any{"mode": "dark"}, macro.WithArgument("fixed"))
	require.NoError(t, err)
	resp, err := e.Eval(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed:dark", resp.Interface())

	e, err = FromRisorLoaderWithData(discard(), ldr, map[string]any{"mode": "dark"})
	require.NoError(t, err)
	resp, err = platform.EvalWith(context.Background(), e, map[string]any{constants.Argument: "blobs.gif"})
	require.NoError(t, err)
	assert.Equal(t, "blobs.gif:dark", resp.Interface())
}

func TestNewEvaluatorErrors(t *testing.T) {
	t.Parallel()
	ldr, err := loader.NewFromString("getPixle(0, 0)")
	require.NoError(t, err)
	_, err = NewEvaluator(discard(), ldr, data.NewContextProvider(constants.EvalData), nil)
	require.ErrorIs(t, err, compiler.ErrValidationFailed)

	c, err := NewCompiler(compiler.WithLogHandler(discard()))
	require.NoError(t, err)
	assert.Equal(t, "risor.Compiler", c.String())
}
