package options

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

func TestOptions(t *testing.T) {
	t.Parallel()
	handler := slog.NewTextHandler(io.Discard, nil)
	ldr := new(loader.MockLoader)

	cfg := DefaultConfig(engineTypes.Starlark)
	for _, opt := range []Option{
		WithLogHandler(handler),
		WithLoader(ldr),
		WithEngine(engineTypes.Risor),
		WithSessionOptions(macro.WithArgument("a")),
		WithSessionOptions(macro.WithArgument("b")),
		WithStaticData(map[string]any{"mode": "dark"}),
	} {
		require.NoError(t, opt(cfg))
	}
	require.NoError(t, cfg.Validate())

	assert.Same(t, handler, cfg.GetHandler())
	assert.Same(t, ldr, cfg.GetLoader())
	assert.Equal(t, engineTypes.Risor, cfg.GetEngine())
	assert.Len(t, cfg.GetSessionOptions(), 2)
	assert.IsType(t, &data.CompositeProvider{}, cfg.GetDataProvider())

	got, err := cfg.GetDataProvider().GetData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dark", got["mode"])
}

func TestOptionErrors(t *testing.T) {
	t.Parallel()
	cfg := &Config{}

	require.Error(t, WithLogHandler(nil)(cfg))
	require.Error(t, WithEngine("lua")(cfg))
	require.NoError(t, WithLoader(nil)(cfg))
	require.ErrorIs(t, cfg.Validate(), ErrNoLoader)

	require.NoError(t, WithLoader(new(loader.MockLoader))(cfg))
	require.ErrorIs(t, cfg.Validate(), ErrNoEngine)
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()
	cfg := &Config{}
	require.NoError(t, WithDefaults()(cfg))
	assert.NotNil(t, cfg.GetHandler())
	assert.IsType(t, &data.ContextProvider{}, cfg.GetDataProvider())

	provider := data.NewStaticProvider(nil)
	cfg = &Config{dataProvider: provider}
	require.NoError(t, WithDefaults()(cfg))
	assert.Same(t, provider, cfg.GetDataProvider())
}
