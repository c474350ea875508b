package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-ijmacro/platform/data"
)

// EvaluatorResponse is a mock of platform.EvaluatorResponse. Type may be set up with a
// data.Types or with a sample Go value whose type is reported.
type EvaluatorResponse struct {
	mock.Mock
}

func (m *EvaluatorResponse) Type() data.Types {
	switch v := m.Called().Get(0).(type) {
	case data.Types:
		return v
	case bool:
		return data.BOOL
	case int, int64:
		return data.INT
	case float64:
		return data.FLOAT
	case string:
		return data.STRING
	case []any:
		return data.LIST
	case map[string]any:
		return data.MAP
	case nil:
		return data.NONE
	}
	panic("unknown type")
}

func (m *EvaluatorResponse) Inspect() string        { return m.Called().String(0) }
func (m *EvaluatorResponse) Interface() any         { return m.Called().Get(0) }
func (m *EvaluatorResponse) GetScriptExeID() string { return m.Called().String(0) }
func (m *EvaluatorResponse) GetExecTime() string    { return m.Called().String(0) }
func (m *EvaluatorResponse) GetLog() string         { return m.Called().String(0) }
