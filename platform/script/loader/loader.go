// Package loader reads macro scripts from strings, bytes, readers and files.
package loader

import (
	"io"
	"net/url"
)

// Loader supplies script content to a compiler. GetReader may be called more than
// once; each call returns a fresh reader.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}
