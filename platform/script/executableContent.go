package script

import (
	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
)

// ExecutableContent is validated script content ready for evaluation. Engines store the
// source next to their compiled form, e.g. a *starlark.Program or *compiler.Code.
type ExecutableContent interface {
	// GetSource returns the original script content as a string.
	GetSource() string

	// GetByteCode returns the compiled script in the engine's own format. The evaluator
	// type asserts it and fails when the engine and bytecode do not match.
	GetByteCode() any

	// GetMachineType returns the engine type this script is intended to run on.
	GetMachineType() engineTypes.Type
}
