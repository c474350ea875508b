package script

import (
	"io"

	"github.com/stretchr/testify/mock"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
)

// MockCompiler is a testify mock of Compiler.
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(scriptReader io.ReadCloser) (ExecutableContent, error) {
	args := m.Called(scriptReader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ExecutableContent), args.Error(1)
}

// MockExecutableContent is a testify mock of ExecutableContent.
type MockExecutableContent struct {
	mock.Mock
}

func (m *MockExecutableContent) GetSource() string {
	return m.Called().String(0)
}

func (m *MockExecutableContent) GetByteCode() any {
	return m.Called().Get(0)
}

func (m *MockExecutableContent) GetMachineType() engineTypes.Type {
	return m.Called().Get(0).(engineTypes.Type)
}
