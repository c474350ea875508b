package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"

	"github.com/robbyt/go-ijmacro/internal/helpers"
)

// FromBytes holds script source as bytes, e.g. an embedded macro.
type FromBytes struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromBytes rejects empty and whitespace-only content.
func NewFromBytes(content []byte) (*FromBytes, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: content is empty or contains only whitespace", ErrScriptNotAvailable)
	}

	return &FromBytes{
		content: bytes.Clone(content),
		sourceURL: &url.URL{
			Scheme: "bytes",
			Host:   "inline",
			Path:   "/" + helpers.ShortHash(content, 8),
		},
	}, nil
}

func (l *FromBytes) String() string {
	return fmt.Sprintf("loader.FromBytes{Bytes: %d}", len(l.content))
}

// GetReader returns a new reader for the stored content.
func (l *FromBytes) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

// GetSourceURL returns the source URL of the script.
func (l *FromBytes) GetSourceURL() *url.URL {
	return l.sourceURL
}
