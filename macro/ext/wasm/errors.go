package wasm

import "errors"

var (
	ErrContentNil    = errors.New("wasm content is nil or empty")
	ErrCompileFailed = errors.New("failed to compile wasm module")
	ErrCallFailed    = errors.New("wasm call failed")
	ErrExitCode      = errors.New("wasm function returned non-zero exit code")
	ErrClosed        = errors.New("wasm plugin is closed")
)
