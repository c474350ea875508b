package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromExtension(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want Type
	}{
		{"macros/threshold.star", Starlark},
		{"port.PY", Starlark},
		{"/tmp/count.risor", Risor},
		{"count.rsr", Risor},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := FromExtension(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FromExtension("macro.ijm")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	t.Parallel()
	got, err := Parse(" Risor ")
	require.NoError(t, err)
	assert.Equal(t, Risor, got)
	assert.Equal(t, "starlark", Starlark.String())

	_, err = Parse("extism")
	require.Error(t, err)
}
