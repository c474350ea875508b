package memhost

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/robbyt/go-ijmacro/host"
)

func imageRect(w, h int) image.Rectangle {
	return image.Rect(0, 0, w, h)
}

// toStd renders 8-bit and RGB images as standard images so the imaging and bild
// filters can operate on them.
func toStd(img *Image) (image.Image, error) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	r := imageRect(img.width, img.height)
	switch img.bitDepth {
	case 8:
		g := image.NewGray(r)
		for i, v := range img.pixels {
			g.Pix[i] = uint8(v)
		}
		return g, nil
	case 24:
		n := image.NewNRGBA(r)
		for i, v := range img.pixels {
			c := int64(v)
			n.Pix[4*i] = uint8(c >> 16)
			n.Pix[4*i+1] = uint8(c >> 8)
			n.Pix[4*i+2] = uint8(c)
			n.Pix[4*i+3] = 0xff
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %d-bit", host.ErrUnsupportedType, img.bitDepth)
}

// fromStd reads src back into a pixel buffer of the given depth (8 or 24).
func fromStd(src image.Image, bitDepth int) (int, int, []float64) {
	b := src.Bounds()
	px := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if bitDepth == 24 {
				px = append(px, float64(int(c.R)<<16|int(c.G)<<8|int(c.B)))
			} else {
				px = append(px, float64(c.R))
			}
		}
	}
	return b.Dx(), b.Dy(), px
}

// convertDepth converts a buffer between bit depths the way the Image>Type menu does:
// deeper to shallower scales the value range linearly, RGB to gray averages channels.
func convertDepth(px []float64, from, to int) []float64 {
	out := make([]float64, len(px))
	if from == to {
		copy(out, px)
		return out
	}

	if from == 24 {
		for i, v := range px {
			c := int64(v)
			out[i] = float64((c>>16)&0xff+(c>>8)&0xff+c&0xff) / 3
		}
		if to == 32 {
			return out
		}
		from = 32
		px = out
		out = make([]float64, len(px))
		if to == 8 {
			for i, v := range px {
				out[i] = math.Round(v)
			}
			return out
		}
	}

	switch to {
	case 32:
		copy(out, px)
	case 8, 16:
		if from == 8 && to == 16 {
			copy(out, px)
			return out
		}
		lo, hi := minMax(px)
		maxOut := host.MaxValue(to)
		for i, v := range px {
			if hi > lo {
				out[i] = math.Round((v - lo) / (hi - lo) * maxOut)
			}
		}
	case 24:
		lo, hi := minMax(px)
		for i, v := range px {
			c := int64(clampToDepth(v, 8))
			if from != 8 && hi > lo {
				c = int64(math.Round((v - lo) / (hi - lo) * 255))
			}
			out[i] = float64(c<<16 | c<<8 | c)
		}
	}
	return out
}
