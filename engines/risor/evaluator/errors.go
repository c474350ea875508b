package evaluator

import "errors"

var (
	ErrNilExecUnit     = errors.New("executable unit is nil")
	ErrNilContent      = errors.New("content is nil")
	ErrInvalidBytecode = errors.New("invalid bytecode type")
	ErrSessionFailed   = errors.New("failed to create macro session")
	ErrExecFailed      = errors.New("risor execution error")
	ErrScriptError     = errors.New("error returned from script")
	ErrFunctionResult  = errors.New("function object returned from script")
	ErrNoDataProvider  = errors.New("no data provider available")
)
