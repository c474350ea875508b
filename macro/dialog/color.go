package dialog

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// namedColors are the colour names the macro language accepts besides hex codes.
var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"red":       "#ff0000",
	"green":     "#00ff00",
	"blue":      "#0000ff",
	"yellow":    "#ffff00",
	"cyan":      "#00ffff",
	"magenta":   "#ff00ff",
	"orange":    "#ffc800",
	"pink":      "#ffafaf",
	"gray":      "#808080",
	"grey":      "#808080",
	"lightgray": "#c0c0c0",
	"darkgray":  "#404040",
}

// DecodeColor parses a colour name ("Blue", "lightGray") or a hex code with or without
// the leading '#'.
func DecodeColor(s string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}
	if !strings.HasPrefix(key, "#") {
		key = "#" + key
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}
