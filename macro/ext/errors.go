package ext

import "errors"

var (
	ErrUnknownExtension = errors.New("unknown extension")
	ErrMissingFunction  = errors.New("declared function is not exported")
	ErrUnknownFunction  = errors.New("function not declared by extension")
	ErrDuplicate        = errors.New("extension already registered")
	ErrInvalidManifest  = errors.New("invalid extension manifest")
	ErrNotInstalled     = errors.New("no extension installed")
)
