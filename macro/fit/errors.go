package fit

import "errors"

var (
	ErrNoFit           = errors.New("no fit: call doFit first")
	ErrUnknownEquation = errors.New("unknown equation")
	ErrInvalidFormula  = errors.New("invalid custom equation")
	ErrLengthMismatch  = errors.New("x and y arrays must have the same length")
	ErrTooFewPoints    = errors.New("not enough data points")
	ErrParamOutOfRange = errors.New("parameter index out of range")
	ErrGuessCount      = errors.New("wrong number of initial guesses")
	ErrFitFailed       = errors.New("fit failed")
)
