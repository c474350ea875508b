package host

import (
	"fmt"
	"strings"
)

// Fill is the initial content of a new image.
type Fill string

const (
	FillWhite  Fill = "white"
	FillBlack  Fill = "black"
	FillRamp   Fill = "ramp"
	FillRandom Fill = "random"
)

// NewImageSpec describes an image to create.
type NewImageSpec struct {
	Title    string
	BitDepth int
	Fill     Fill
	Width    int
	Height   int
	Slices   int
}

// ParseImageType parses the newImage type string, e.g. "8-bit ramp", "RGB black",
// "32-bit". The fill defaults to white.
func ParseImageType(s string) (bitDepth int, fill Fill, err error) {
	fill = FillWhite
	for field := range strings.FieldsSeq(strings.ToLower(s)) {
		switch field {
		case "8-bit":
			bitDepth = 8
		case "16-bit":
			bitDepth = 16
		case "32-bit":
			bitDepth = 32
		case "rgb", "24-bit":
			bitDepth = 24
		case "white", "black", "ramp", "random":
			fill = Fill(field)
		case "noise":
			fill = FillRandom
		case "composite-mode", "color-mode", "grayscale-mode", "label":
		default:
			return 0, "", fmt.Errorf("%w: %q", ErrInvalidImageType, s)
		}
	}
	if bitDepth == 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidImageType, s)
	}
	return bitDepth, fill, nil
}

// Validate checks dimensions and depth.
func (s NewImageSpec) Validate() error {
	if s.Width < 1 || s.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImageType, s.Width, s.Height)
	}
	switch s.BitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: bit depth %d", ErrInvalidImageType, s.BitDepth)
	}
	return nil
}

// MaxValue returns the largest raw value representable at bitDepth. Float images
// report 0 since they are unbounded.
func MaxValue(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 255
	case 16:
		return 65535
	case 24:
		return 0xffffff
	}
	return 0
}
