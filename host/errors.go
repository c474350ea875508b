package host

import "errors"

var (
	ErrNoImage            = errors.New("there are no images open")
	ErrNoSuchImage        = errors.New("image not found")
	ErrUnknownCommand     = errors.New("unrecognized command")
	ErrOutOfBounds        = errors.New("coordinates out of bounds")
	ErrNoSelection        = errors.New("selection required")
	ErrInvalidImageType   = errors.New("invalid image type")
	ErrUnsupportedType    = errors.New("operation not supported for this image type")
	ErrUnknownMethod      = errors.New("unknown threshold method")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrInvalidOptions     = errors.New("invalid command options")
	ErrInvalidPattern     = errors.New("invalid title pattern")
	ErrIncompatibleRegion = errors.New("selections cannot be combined")
)
