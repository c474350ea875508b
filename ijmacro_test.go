package ijmacro

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/macro/dialog"
	"github.com/robbyt/go-ijmacro/options"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/constants"
)

func quiet() options.Option {
	return options.WithLogHandler(slog.NewTextHandler(io.Discard, nil))
}

func TestFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		new  func(string, ...options.Option) (platform.Evaluator, error)
		src  string
	}{
		{"starlark", FromStarlarkString, "newImage(\"ramp\", \"8-bit ramp\", 256, 1)\nresult = getPixel(255, 0)"},
		{"risor", FromRisorString, "newImage(\"ramp\", \"8-bit ramp\", 256, 1)\ngetPixel(255, 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, err := tt.new(tt.src, quiet())
			require.NoError(t, err)
			resp, err := e.Eval(context.Background())
			require.NoError(t, err)
			assert.InDelta(t, 255.0, resp.Interface(), 0)
		})
	}
}

func TestFromScriptFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	write := func(name, src string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
		return path
	}

	star := write("count.star", "result = getArgument()")
	rsr := write("count.risor", "getArgument()")
	txt := write("count.txt", "getArgument()")

	for _, path := range []string{star, rsr} {
		e, err := FromScriptFile(path, quiet(), options.WithStaticData(map[string]any{constants.Argument: "blobs.gif"}))
		require.NoError(t, err, path)
		resp, err := e.Eval(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "blobs.gif", resp.Interface())
	}

	_, err := FromScriptFile(txt, quiet())
	require.ErrorIs(t, err, options.ErrNoEngine)

	e, err := FromScriptFile(txt, quiet(), options.WithEngine(engineTypes.Risor))
	require.NoError(t, err)
	resp, err := platform.EvalWith(context.Background(), e, map[string]any{constants.Argument: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", resp.Interface())

	_, err = FromScriptFile("relative.star", quiet())
	require.Error(t, err)
}

func TestSessionOptions(t *testing.T) {
	t.Parallel()
	src := `
Dialog.create("Threshold")
Dialog.addNumber("Lower", 0)
Dialog.show()
if Dialog.wasCanceled():
    result = -1
else:
    result = Dialog.getNumber()
`
	answers := dialog.NewScripted(map[string]map[string]any{"Threshold": {"Lower": 12}})
	e, err := FromStarlarkString(src, quiet(), options.WithSessionOptions(macro.WithPresenter(answers)))
	require.NoError(t, err)

	resp, err := e.Eval(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 12.0, resp.Interface(), 0)
}

func TestNewEvaluator(t *testing.T) {
	t.Parallel()

	_, err := NewEvaluator(quiet())
	require.ErrorIs(t, err, options.ErrNoLoader)

	_, err = FromStarlarkString("getPixle(0, 0)", quiet())
	require.Error(t, err)

	_, err = FromRisorString("   ", quiet())
	require.Error(t, err)
}
