package data

import "errors"

var (
	ErrNoProvider                     = errors.New("no data provider available")
	ErrEmptyContextKey                = errors.New("context key is empty")
	ErrEmptyKey                       = errors.New("empty keys are not allowed")
	ErrInvalidData                    = errors.New("invalid input data type")
	ErrStaticProviderNoRuntimeUpdates = errors.New("static provider does not accept runtime data")
)
