package host

import (
	"fmt"
	"strings"
)

// Justification aligns drawn text relative to its anchor point.
type Justification int

const (
	JustifyLeft Justification = iota
	JustifyCenter
	JustifyRight
)

// ParseJustification accepts "left", "center" or "right".
func ParseJustification(s string) (Justification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return JustifyLeft, nil
	case "center", "centre":
		return JustifyCenter, nil
	case "right":
		return JustifyRight, nil
	}
	return JustifyLeft, fmt.Errorf("%w: justification %q", ErrInvalidOptions, s)
}

func (j Justification) String() string {
	switch j {
	case JustifyCenter:
		return "center"
	case JustifyRight:
		return "right"
	}
	return "left"
}

// TextStyle is the font state used when drawing text into an image.
type TextStyle struct {
	Font          string
	Size          float64
	Bold          bool
	Italic        bool
	Justification Justification

	// Value is the raw pixel value written for text pixels.
	Value float64
}

// TextDrawer is implemented by images that can render text. (x, y) is the left end
// of the baseline for left justified text.
type TextDrawer interface {
	DrawString(text string, x, y int, style TextStyle) error
}
