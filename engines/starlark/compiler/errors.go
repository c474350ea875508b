package compiler

import "errors"

var (
	ErrContentNil         = errors.New("starlark content is nil")
	ErrValidationFailed   = errors.New("starlark script validation failed")
	ErrBytecodeNil        = errors.New("starlark bytecode is nil")
	ErrExecCreationFailed = errors.New("failed to create starlark executable")
)
