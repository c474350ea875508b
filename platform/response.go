package platform

import "github.com/robbyt/go-ijmacro/platform/data"

// EvaluatorResponse is the result of one evaluation.
type EvaluatorResponse interface {
	// Type of the result value.
	Type() data.Types

	// Inspect returns the engine's string representation of the value.
	Inspect() string

	// Interface converts the value to a native Go value.
	Interface() any

	// GetScriptExeID returns the ID of the script that generated the value.
	GetScriptExeID() string

	// GetExecTime returns the time it took to execute the script.
	GetExecTime() string

	// GetLog returns the log window contents when the evaluation ended.
	GetLog() string
}
