package array

import "errors"

var (
	ErrEmpty            = errors.New("array is empty")
	ErrNotNumeric       = errors.New("numeric array expected")
	ErrMixedTypes       = errors.New("array must contain all numbers or all strings")
	ErrLengthMismatch   = errors.New("same size expected")
	ErrInvalidEdgeMode  = errors.New("invalid edge mode")
	ErrUnknownWindow    = errors.New("unknown window type")
	ErrNoArrays         = errors.New("array show needs at least one array")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrInvalidLength    = errors.New("invalid length")
	ErrInvalidArmLength = errors.New("arm must be at least 1")
)
