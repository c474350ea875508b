package loader

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
)

// InferLoader picks a loader for input:
//   - a file:// URL or a path with a separator loads from disk (relative paths are
//     made absolute)
//   - any other string is inline source
//   - []byte and io.Reader are buffered
//   - a Loader is returned as is
func InferLoader(input any) (Loader, error) {
	switch v := input.(type) {
	case string:
		return inferFromString(v)
	case []byte:
		return NewFromBytes(v)
	case Loader:
		return v, nil
	case io.Reader:
		return NewFromIoReader(v, "inferred")
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
}

func inferFromString(input string) (Loader, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty string input", ErrScriptNotAvailable)
	}

	if parsed, err := url.Parse(input); err == nil && parsed.Scheme == "file" {
		return diskLoader(parsed.Path)
	}
	if strings.ContainsAny(input, "\n(") {
		return NewFromString(input)
	}
	if filepath.IsAbs(input) || strings.ContainsAny(input, `/\`) {
		return diskLoader(input)
	}
	return NewFromString(input)
}

func diskLoader(path string) (*FromDisk, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
	}
	return NewFromDisk(abs)
}
