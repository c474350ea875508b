package wasm

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	extismSDK "github.com/extism/go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompiledPlugin struct {
	mock.Mock
}

func (m *mockCompiledPlugin) Instance(
	ctx context.Context,
	config extismSDK.PluginInstanceConfig,
) (PluginInstance, error) {
	args := m.Called(ctx, config)
	inst, _ := args.Get(0).(PluginInstance)
	return inst, args.Error(1)
}

func (m *mockCompiledPlugin) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPluginInstance struct {
	mock.Mock
}

func (m *mockPluginInstance) Call(name string, data []byte) (uint32, []byte, error) {
	args := m.Called(name, data)
	out, _ := args.Get(1).([]byte)
	return args.Get(0).(uint32), out, args.Error(2)
}

func (m *mockPluginInstance) CallWithContext(
	ctx context.Context,
	name string,
	data []byte,
) (uint32, []byte, error) {
	args := m.Called(ctx, name, data)
	out, _ := args.Get(1).([]byte)
	return args.Get(0).(uint32), out, args.Error(2)
}

func (m *mockPluginInstance) FunctionExists(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *mockPluginInstance) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func loadMocked(t *testing.T, inst *mockPluginInstance) (*Plugin, *mockCompiledPlugin) {
	t.Helper()
	compiled := new(mockCompiledPlugin)
	compiled.On("Instance", mock.Anything, mock.Anything).Return(inst, nil)

	var gotSettings *Settings
	p, err := Load(context.Background(), []byte("\x00asm"), []string{"count"},
		WithLogHandler(slog.NewTextHandler(os.Stderr, nil)),
		WithCompiler(func(_ context.Context, wasm []byte, s *Settings) (CompiledPlugin, error) {
			gotSettings = s
			return compiled, nil
		}),
	)
	require.NoError(t, err)
	require.NotNil(t, gotSettings)
	assert.True(t, gotSettings.EnableWASI)
	require.Len(t, gotSettings.HostFunctions, 1)
	assert.Equal(t, LogFunction, gotSettings.HostFunctions[0].Name)
	return p, compiled
}

func TestCall(t *testing.T) {
	t.Parallel()
	inst := new(mockPluginInstance)
	inst.On("CallWithContext", mock.Anything, "count", []byte(`[1,"blobs",true]`)).
		Return(uint32(0), []byte(`{"count": 3, "mean": 1.5, "items": [1, 2]}`), nil)

	p, _ := loadMocked(t, inst)
	got, err := p.Call(context.Background(), "count", []any{1, "blobs", true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"count": int64(3),
		"mean":  1.5,
		"items": []any{int64(1), int64(2)},
	}, got)
	assert.Equal(t, []string{"count"}, p.Functions())
	inst.AssertExpectations(t)
}

func TestCallErrors(t *testing.T) {
	t.Parallel()

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()
		inst := new(mockPluginInstance)
		inst.On("CallWithContext", mock.Anything, "count", []byte(`[]`)).Return(uint32(1), []byte(nil), nil)
		p, _ := loadMocked(t, inst)
		_, err := p.Call(context.Background(), "count", nil)
		require.ErrorIs(t, err, ErrExitCode)
	})

	t.Run("call failure", func(t *testing.T) {
		t.Parallel()
		inst := new(mockPluginInstance)
		inst.On("CallWithContext", mock.Anything, "count", mock.Anything).
			Return(uint32(0), []byte(nil), errors.New("trap"))
		p, _ := loadMocked(t, inst)
		_, err := p.Call(context.Background(), "count", []any{})
		require.ErrorIs(t, err, ErrCallFailed)
		assert.Contains(t, err.Error(), "trap")
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()
		inst := new(mockPluginInstance)
		inst.On("Close", mock.Anything).Return(nil).Once()
		p, compiled := loadMocked(t, inst)
		compiled.On("Close", mock.Anything).Return(nil).Once()

		require.NoError(t, p.Close(context.Background()))
		require.NoError(t, p.Close(context.Background()))
		_, err := p.Call(context.Background(), "count", nil)
		require.ErrorIs(t, err, ErrClosed)
		assert.False(t, p.Exports("count"))
		inst.AssertExpectations(t)
		compiled.AssertExpectations(t)
	})
}

func TestExports(t *testing.T) {
	t.Parallel()
	inst := new(mockPluginInstance)
	inst.On("FunctionExists", "count").Return(true)
	inst.On("FunctionExists", "measure").Return(false)
	p, _ := loadMocked(t, inst)

	assert.True(t, p.Exports("count"))
	assert.False(t, p.Exports("measure"))
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("instance failure closes module", func(t *testing.T) {
		t.Parallel()
		compiled := new(mockCompiledPlugin)
		compiled.On("Instance", mock.Anything, mock.Anything).Return(nil, errors.New("no memory"))
		compiled.On("Close", mock.Anything).Return(nil)
		_, err := Load(context.Background(), []byte("x"), nil,
			WithCompiler(func(context.Context, []byte, *Settings) (CompiledPlugin, error) {
				return compiled, nil
			}))
		require.Error(t, err)
		compiled.AssertExpectations(t)
	})

	t.Run("empty module", func(t *testing.T) {
		t.Parallel()
		_, err := Load(context.Background(), nil, nil)
		require.ErrorIs(t, err, ErrContentNil)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "none.wasm"), nil)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("nil compiler", func(t *testing.T) {
		t.Parallel()
		_, err := Load(context.Background(), []byte("x"), nil, WithCompiler(nil))
		require.Error(t, err)
	})
}

func TestDecodeOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   any
	}{
		{"empty", "", nil},
		{"integer", "42", int64(42)},
		{"float", "2.5", 2.5},
		{"string", `"ok"`, "ok"},
		{"not json", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decodeOutput([]byte(tt.output)))
		})
	}
}
