package data

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-ijmacro/platform/constants"
)

func TestContextProvider(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		p := NewContextProvider(constants.EvalData)
		got, err := p.GetData(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("merges nested maps", func(t *testing.T) {
		t.Parallel()
		p := NewContextProvider(constants.EvalData)
		ctx, err := p.AddDataToContext(context.Background(),
			map[string]any{"argument": "blobs.gif", "options": map[string]any{"radius": 2}},
		)
		require.NoError(t, err)
		ctx, err = p.AddDataToContext(ctx,
			map[string]any{"options": map[string]any{"dark": true}},
		)
		require.NoError(t, err)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		want := map[string]any{
			"argument": "blobs.gif",
			"options":  map[string]any{"radius": 2, "dark": true},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetData() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("earlier context is not modified", func(t *testing.T) {
		t.Parallel()
		p := NewContextProvider(constants.EvalData)
		first, err := p.AddDataToContext(context.Background(), map[string]any{"options": map[string]any{"a": 1}})
		require.NoError(t, err)
		_, err = p.AddDataToContext(first, map[string]any{"options": map[string]any{"b": 2}})
		require.NoError(t, err)

		got, err := p.GetData(first)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"options": map[string]any{"a": 1}}, got)
	})

	tests := []struct {
		name string
		key  constants.ContextKey
		data map[string]any
		want error
	}{
		{"empty key", constants.EvalData, map[string]any{"": 1}, ErrEmptyKey},
		{"empty nested key", constants.EvalData, map[string]any{"a": map[string]any{"": 1}}, ErrEmptyKey},
		{"empty context key", "", map[string]any{"a": 1}, ErrEmptyContextKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewContextProvider(tt.key).AddDataToContext(context.Background(), tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("wrong value type", func(t *testing.T) {
		t.Parallel()
		ctx := context.WithValue(context.Background(), constants.EvalData, "nope")
		_, err := NewContextProvider(constants.EvalData).GetData(ctx)
		require.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()
	src := map[string]any{"argument": "in.tif"}
	p := NewStaticProvider(src)

	got, err := p.GetData(context.Background())
	require.NoError(t, err)
	got["argument"] = "changed"
	assert.Equal(t, "in.tif", src["argument"])

	_, err = p.AddDataToContext(context.Background(), map[string]any{"x": 1})
	require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)

	empty, err := NewStaticProvider(nil).GetData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCompositeProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	static := NewStaticProvider(map[string]any{
		"argument": "default.tif",
		"options":  map[string]any{"radius": 2},
	})
	dynamic := NewContextProvider(constants.EvalData)
	p := NewCompositeProvider(static, nil, dynamic)

	ctx, err := p.AddDataToContext(ctx, map[string]any{
		"argument": "blobs.gif",
		"options":  map[string]any{"dark": true},
	})
	require.NoError(t, err)

	got, err := p.GetData(ctx)
	require.NoError(t, err)
	want := map[string]any{
		"argument": "blobs.gif",
		"options":  map[string]any{"radius": 2, "dark": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetData() mismatch (-want +got):\n%s", diff)
	}

	t.Run("static only", func(t *testing.T) {
		t.Parallel()
		_, err := NewCompositeProvider(static).AddDataToContext(context.Background(), map[string]any{"a": 1})
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
	})

	t.Run("every dynamic provider failed", func(t *testing.T) {
		t.Parallel()
		_, err := NewCompositeProvider(static, NewContextProvider("")).
			AddDataToContext(context.Background(), map[string]any{"a": 1})
		require.ErrorIs(t, err, ErrEmptyContextKey)
	})
}

func TestAddDataToContextHelper(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := AddDataToContextHelper(context.Background(), logger, nil)
	require.ErrorIs(t, err, ErrNoProvider)

	p := NewContextProvider(constants.EvalData)
	ctx, err := AddDataToContextHelper(context.Background(), logger, p, map[string]any{"argument": "x"})
	require.NoError(t, err)
	got, err := p.GetData(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", got["argument"])

	_, err = AddDataToContextHelper(context.Background(), nil, NewStaticProvider(nil))
	require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
}
