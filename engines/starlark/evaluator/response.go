package evaluator

import (
	"fmt"
	"log/slog"
	"time"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-ijmacro/engines/starlark/internal"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/platform/data"
)

// execResult wraps the script's result value and the log window at the end of the run.
type execResult struct {
	starlarkLib.Value
	execTime    time.Duration
	scriptExeID string
	log         string
	logger      *slog.Logger
}

func newEvalResult(
	handler slog.Handler,
	obj starlarkLib.Value,
	execTime time.Duration,
	versionID string,
	log string,
) *execResult {
	_, logger := helpers.SetupLogger(handler, "starlark", "execResult")
	if obj == nil {
		obj = starlarkLib.None
	}
	return &execResult{
		Value:       obj,
		execTime:    execTime,
		scriptExeID: versionID,
		log:         log,
		logger:      logger,
	}
}

func (r *execResult) String() string {
	return fmt.Sprintf(
		"ExecResult{Type: %s, Value: %v, ExecTime: %s, ScriptExeID: %s}",
		r.Type(), r.Value, r.GetExecTime(), r.GetScriptExeID())
}

func (r *execResult) Type() data.Types {
	switch r.Value.Type() {
	case "NoneType":
		return data.NONE
	case "bool":
		return data.BOOL
	case "int":
		return data.INT
	case "float":
		return data.FLOAT
	case "string":
		return data.STRING
	case "list":
		return data.LIST
	case "tuple":
		return data.TUPLE
	case "dict":
		return data.MAP
	case "set":
		return data.SET
	case "function", "builtin_function_or_method":
		return data.FUNCTION
	default:
		r.logger.Error("unknown type", "type", r.Value.Type())
		return data.ERROR
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

func (r *execResult) Inspect() string {
	return r.Value.String()
}

// Interface returns the value as a Go type, or nil when it has no Go equivalent.
func (r *execResult) Interface() any {
	v, err := internal.ConvertStarlarkValueToInterface(r.Value)
	if err != nil {
		r.logger.Error("failed to convert starlark value", "error", err)
		return nil
	}
	return v
}
