package file

import "errors"

var (
	ErrClosed       = errors.New("file is closed")
	ErrIsDirectory  = errors.New("path is a directory")
	ErrNotDirectory = errors.New("path is not a directory")
	ErrEmptyPath    = errors.New("path is empty")
)
