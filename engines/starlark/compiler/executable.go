package compiler

import (
	starlarkLib "go.starlark.net/starlark"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
)

// Executable is a resolved Starlark program together with its source.
type Executable struct {
	scriptBodyBytes []byte
	ByteCode        *starlarkLib.Program
}

func newExecutable(scriptBodyBytes []byte, byteCode *starlarkLib.Program) *Executable {
	if len(scriptBodyBytes) == 0 || byteCode == nil {
		return nil
	}
	return &Executable{
		scriptBodyBytes: scriptBodyBytes,
		ByteCode:        byteCode,
	}
}

func (e *Executable) GetSource() string {
	return string(e.scriptBodyBytes)
}

func (e *Executable) GetByteCode() any {
	return e.ByteCode
}

func (e *Executable) GetStarlarkByteCode() *starlarkLib.Program {
	return e.ByteCode
}

func (e *Executable) GetMachineType() engineTypes.Type {
	return engineTypes.Starlark
}
