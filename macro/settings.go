package macro

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robbyt/go-ijmacro/host"
	"github.com/robbyt/go-ijmacro/macro/dialog"
)

// Font is the drawing font set by setFont.
type Font struct {
	Name   string
	Size   float64
	Bold   bool
	Italic bool
}

// Settings is the drawing and output state of a session.
type Settings struct {
	AutoUpdate    bool
	Font          Font
	Color         colorful.Color
	Justification host.Justification

	// value is an explicit raw drawing value set with SetColorValue; NaN when the
	// colour applies.
	value float64
}

func defaultSettings() Settings {
	return Settings{
		AutoUpdate: true,
		Font:       Font{Name: "SansSerif", Size: 12},
		Color:      colorful.Color{R: 1, G: 1, B: 1},
		value:      math.NaN(),
	}
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() Settings { return s.settings }

// AutoUpdate sets whether drawing functions refresh the image immediately.
func (s *Session) AutoUpdate(b bool) { s.settings.AutoUpdate = b }

// IsAutoUpdate reports the auto-update flag.
func (s *Session) IsAutoUpdate() bool { return s.settings.AutoUpdate }

// SetFont sets the drawing font. style may contain "bold" and "italic"; other
// words such as "antialiased" are accepted and ignored.
func (s *Session) SetFont(name string, size float64, style string) error {
	if size <= 0 {
		return fmt.Errorf("%w: font size %v", ErrInvalidArgument, size)
	}
	style = strings.ToLower(style)
	s.settings.Font = Font{
		Name:   name,
		Size:   size,
		Bold:   strings.Contains(style, "bold"),
		Italic: strings.Contains(style, "italic"),
	}
	return nil
}

// SetColor sets the drawing colour from a name ("red") or hex string ("#ff0000").
func (s *Session) SetColor(name string) error {
	c, err := dialog.DecodeColor(name)
	if err != nil {
		return err
	}
	s.settings.Color = c
	s.settings.value = math.NaN()
	return nil
}

// SetColorRGB sets the drawing colour from 0-255 components.
func (s *Session) SetColorRGB(r, g, b int) error {
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: colour component %d", ErrInvalidArgument, v)
		}
	}
	s.settings.Color = colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	s.settings.value = math.NaN()
	return nil
}

// SetColorValue sets the raw pixel value used for drawing.
func (s *Session) SetColorValue(v float64) {
	s.settings.value = v
}

// SetJustification sets text alignment: "left", "center" or "right".
func (s *Session) SetJustification(j string) error {
	v, err := host.ParseJustification(j)
	if err != nil {
		return err
	}
	s.settings.Justification = v
	return nil
}

// drawValue converts the drawing colour to a raw value for bitDepth.
func (st Settings) drawValue(bitDepth int) float64 {
	if !math.IsNaN(st.value) {
		return st.value
	}
	r, g, b := st.Color.Clamped().RGB255()
	if bitDepth == 24 {
		return float64(int(r)<<16 | int(g)<<8 | int(b))
	}
	gray := (float64(r) + float64(g) + float64(b)) / (3 * 255)
	if bitDepth == 32 {
		return gray
	}
	return math.Round(gray * host.MaxValue(bitDepth))
}

// DrawString draws text at (x, y) in the active image with the current font,
// colour and justification.
func (s *Session) DrawString(ctx context.Context, text string, x, y int) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	drawer, ok := img.(host.TextDrawer)
	if !ok {
		return fmt.Errorf("%w: drawString on %T", ErrNotSupported, img)
	}
	style := host.TextStyle{
		Font:          s.settings.Font.Name,
		Size:          s.settings.Font.Size,
		Bold:          s.settings.Font.Bold,
		Italic:        s.settings.Font.Italic,
		Justification: s.settings.Justification,
		Value:         s.settings.drawValue(img.BitDepth()),
	}
	if err := drawer.DrawString(text, x, y, style); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "drawString", "text", text, "x", x, "y", y)
	if s.settings.AutoUpdate {
		img.Update()
	}
	return nil
}
