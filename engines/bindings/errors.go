package bindings

import "errors"

var (
	ErrArgument     = errors.New("invalid argument")
	ErrMissingArg   = errors.New("missing argument")
	ErrTooManyArgs  = errors.New("too many arguments")
	ErrUnknownTable = errors.New("table not found")
	ErrNotAHandle   = errors.New("not an open file")
	ErrUnknownKey   = errors.New("unsupported info key")
)
