package script

import "errors"

var (
	ErrNilCompiler = errors.New("compiler is nil")
	ErrNilLoader   = errors.New("loader is nil")
)
