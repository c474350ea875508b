package macro

import (
	"errors"
	"fmt"
)

var (
	ErrNoDialog          = errors.New("no dialog has been created")
	ErrNoExtension       = errors.New("no extension installed")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrUnknownRoiCommand = errors.New("unrecognized ROI Manager command")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotSupported      = errors.New("not supported by the host")
	ErrNoOutputFile      = errors.New("no output file open")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrEmptyRoiManager   = errors.New("the ROI Manager is empty")
	ErrNothingSelected   = errors.New("no ROIs selected in the ROI Manager")
	ErrSessionShutdown   = errors.New("session is shut down")
)

// indexError formats an out of range index the way macro errors read.
func indexError(i, n int) error {
	return fmt.Errorf("%w: Index (%d) is outside of the 0-%d range", ErrIndexOutOfRange, i, n-1)
}
