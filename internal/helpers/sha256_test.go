package helpers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type errorReader struct{}

func (r *errorReader) Read(p []byte) (int, error) {
	return 0, errors.New("forced read error")
}

const helloWorldSum = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestSHA256(t *testing.T) {
	t.Parallel()
	require.Equal(t, helloWorldSum, SHA256("hello world"))
	require.Equal(t, helloWorldSum, SHA256Bytes([]byte("hello world")))
}

func TestSHA256Reader(t *testing.T) {
	t.Parallel()

	t.Run("reader", func(t *testing.T) {
		got, err := SHA256Reader(strings.NewReader("hello world"))
		require.NoError(t, err)
		require.Equal(t, helloWorldSum, got)
	})

	t.Run("read error", func(t *testing.T) {
		_, err := SHA256Reader(&errorReader{})
		require.Error(t, err)
	})
}

func TestShortHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want string
	}{
		{name: "eight", n: 8, want: helloWorldSum[:8]},
		{name: "zero returns full", n: 0, want: helloWorldSum},
		{name: "too long returns full", n: 100, want: helloWorldSum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ShortHash([]byte("hello world"), tt.n))
		})
	}
}
