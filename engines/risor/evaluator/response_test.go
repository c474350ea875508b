package evaluator

import (
	"testing"
	"time"

	"github.com/risor-io/risor/object"
	"github.com/stretchr/testify/assert"

	"github.com/robbyt/go-ijmacro/platform/data"
)

func TestExecResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		obj      object.Object
		wantType data.Types
		want     any
	}{
		{"nil", nil, data.NONE, nil},
		{"int", object.NewInt(3), data.INT, int64(3)},
		{"float", object.NewFloat(0.5), data.FLOAT, 0.5},
		{"string", object.NewString("ramp"), data.STRING, "ramp"},
		{"bool", object.True, data.BOOL, true},
		{"list", object.NewList([]object.Object{object.NewInt(1)}), data.LIST, []any{int64(1)}},
		{"map", object.NewMap(map[string]object.Object{"n": object.NewInt(1)}), data.MAP, map[string]any{"n": int64(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newEvalResult(nil, tt.obj, time.Millisecond, "abc", "log\n")
			assert.Equal(t, tt.wantType, r.Type())
			assert.Equal(t, tt.want, r.Interface())
			assert.Equal(t, "abc", r.GetScriptExeID())
			assert.Equal(t, "1ms", r.GetExecTime())
			assert.Equal(t, "log\n", r.GetLog())
			assert.Contains(t, r.String(), "ExecResult{")
		})
	}
}
