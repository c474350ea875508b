package memhost

import (
	"image"
	"strings"

	"github.com/robbyt/go-ijmacro/host"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var _ host.TextDrawer = (*Image)(nil)

// DrawString renders text with a fixed 7x13 bitmap face; the style's font name and
// size are not used. Lines are separated by "\n".
func (img *Image) DrawString(text string, x, y int, style host.TextStyle) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	mask := image.NewAlpha(imageRect(img.width, img.height))
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: face}
	lineHeight := face.Metrics().Height.Ceil()

	for i, line := range strings.Split(text, "\n") {
		width := d.MeasureString(line).Ceil()
		left := x
		switch style.Justification {
		case host.JustifyCenter:
			left = x - width/2
		case host.JustifyRight:
			left = x - width
		}
		d.Dot = fixed.P(left, y+i*lineHeight)
		d.DrawString(line)
	}

	v := clampToDepth(style.Value, img.bitDepth)
	for py := range img.height {
		for px := range img.width {
			if mask.AlphaAt(px, py).A > 0x7f {
				img.pixels[py*img.width+px] = v
			}
		}
	}
	return nil
}
