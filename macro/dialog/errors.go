package dialog

import "errors"

var (
	ErrNoMoreFields   = errors.New("no more fields of this kind")
	ErrInvalidField   = errors.New("invalid field")
	ErrInvalidChoice  = errors.New("value is not one of the items")
	ErrUnknownColor   = errors.New("unknown color")
	ErrInvalidAnswers = errors.New("invalid dialog answers")
)
