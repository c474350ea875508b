package results

import "errors"

var (
	ErrEmptyColumn       = errors.New("column name is empty")
	ErrNoSuchColumn      = errors.New("column not found")
	ErrRowOutOfRange     = errors.New("row index out of range")
	ErrUnsupportedValue  = errors.New("unsupported cell value")
	ErrUnsupportedFormat = errors.New("unsupported table file format")
	ErrSaveFailed        = errors.New("failed to save table")
)
