package compiler

import (
	risorCompiler "github.com/risor-io/risor/compiler"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
)

// Executable is compiled Risor bytecode together with its source.
type Executable struct {
	scriptBodyBytes []byte
	ByteCode        *risorCompiler.Code
}

func newExecutable(scriptBodyBytes []byte, byteCode *risorCompiler.Code) *Executable {
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

func (e *Executable) GetRisorByteCode() *risorCompiler.Code {
	return e.ByteCode
}

func (e *Executable) GetMachineType() engineTypes.Type {
	return engineTypes.Risor
}
