package loader

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/robbyt/go-ijmacro/internal/helpers"
)

// FromString holds inline script source.
type FromString struct {
	content   string
	sourceURL *url.URL
}

// NewFromString trims content, which must not be empty.
func NewFromString(content string) (*FromString, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}

	return &FromString{
		content: content,
		sourceURL: &url.URL{
			Scheme: "string",
			Host:   "inline",
			Path:   "/" + helpers.ShortHash([]byte(content), 8),
		},
	}, nil
}

func (l *FromString) String() string {
	return fmt.Sprintf("loader.FromString{Chars: %d}", len(l.content))
}

func (l *FromString) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(l.content)), nil
}

// GetSourceURL returns the source URL of the script.
func (l *FromString) GetSourceURL() *url.URL {
	return l.sourceURL
}
