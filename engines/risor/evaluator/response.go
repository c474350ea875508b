package evaluator

import (
	"fmt"
	"log/slog"
	"time"

	risorObject "github.com/risor-io/risor/object"

	"github.com/robbyt/go-ijmacro/engines/risor/internal"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/platform/data"
)

// execResult wraps the object a script evaluated to.
type execResult struct {
	risorObject.Object
	execTime    time.Duration
	scriptExeID string
	log         string
	logger      *slog.Logger
}

func newEvalResult(
	handler slog.Handler,
	obj risorObject.Object,
	execTime time.Duration,
	versionID string,
	log string,
) *execResult {
	_, logger := helpers.SetupLogger(handler, "risor", "execResult")
	if obj == nil {
		obj = risorObject.Nil
	}
	return &execResult{
		Object:      obj,
		execTime:    execTime,
		scriptExeID: versionID,
		log:         log,
		logger:      logger,
	}
}

func (r *execResult) String() string {
	return fmt.Sprintf(
		"ExecResult{Type: %s, Value: %v, ExecTime: %s, ScriptExeID: %s}",
		r.Type(), r.Inspect(), r.GetExecTime(), r.GetScriptExeID())
}

// Type maps Risor type names onto the shared result types.
func (r *execResult) Type() data.Types {
	switch t := string(r.Object.Type()); t {
	case "nil":
		return data.NONE
	case "builtin":
		return data.FUNCTION
	default:
		return data.Types(t)
	}
}

func (r *execResult) GetScriptExeID() string {
	return r.scriptExeID
}

func (r *execResult) GetExecTime() string {
	return r.execTime.String()
}

func (r *execResult) GetLog() string {
	return r.log
}

func (r *execResult) Interface() any {
	return internal.FromObject(r.Object)
}
