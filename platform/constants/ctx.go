// Package constants holds the keys shared by data providers and script engines.
package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// EvalData is the context key under which a ContextProvider stores per-call input data.
	EvalData ContextKey = "eval_data"

	// Ctx is the script global holding the input data map.
	Ctx = "ctx"

	// Argument is the input data key returned by getArgument().
	Argument = "argument"
)
