package memhost

import (
	"math"
)

// The helpers below cover 16-bit and float images, which the 8-bit oriented
// imaging and bild filters would truncate.

var (
	smoothKernel = [9]float64{1, 1, 1, 1, 1, 1, 1, 1, 1}
	sobelX       = [9]float64{1, 0, -1, 2, 0, -2, 1, 0, -1}
	sobelY       = [9]float64{1, 2, 1, 0, 0, 0, -1, -2, -1}
)

// convolve3x3 applies a 3x3 kernel with edge pixels repeated, dividing by scale.
func convolve3x3(px []float64, w, h int, k [9]float64, scale float64) []float64 {
	out := make([]float64, len(px))
	at := func(x, y int) float64 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return px[y*w+x]
	}
	for y := range h {
		for x := range w {
			sum := 0.0
			for j := -1; j <= 1; j++ {
				for i := -1; i <= 1; i++ {
					sum += k[(j+1)*3+(i+1)] * at(x+i, y+j)
				}
			}
			out[y*w+x] = sum / scale
		}
	}
	return out
}

func sobel(px []float64, w, h int) []float64 {
	gx := convolve3x3(px, w, h, sobelX, 1)
	gy := convolve3x3(px, w, h, sobelY, 1)
	out := make([]float64, len(px))
	for i := range out {
		out[i] = math.Sqrt(gx[i]*gx[i] + gy[i]*gy[i])
	}
	return out
}

// resample scales a float buffer to nw x nh using nearest neighbour or bilinear
// interpolation.
func resample(px []float64, w, h, nw, nh int, bilinear bool) []float64 {
	out := make([]float64, nw*nh)
	sx := float64(w) / float64(nw)
	sy := float64(h) / float64(nh)
	for y := range nh {
		for x := range nw {
			fx := (float64(x)+0.5)*sx - 0.5
			fy := (float64(y)+0.5)*sy - 0.5
			if !bilinear {
				xi := min(max(int(math.Round(fx)), 0), w-1)
				yi := min(max(int(math.Round(fy)), 0), h-1)
				out[y*nw+x] = px[yi*w+xi]
				continue
			}
			fx = min(max(fx, 0), float64(w-1))
			fy = min(max(fy, 0), float64(h-1))
			x0, y0 := int(fx), int(fy)
			x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
			dx, dy := fx-float64(x0), fy-float64(y0)
			top := px[y0*w+x0] + dx*(px[y0*w+x1]-px[y0*w+x0])
			bottom := px[y1*w+x0] + dx*(px[y1*w+x1]-px[y1*w+x0])
			out[y*nw+x] = top + dy*(bottom-top)
		}
	}
	return out
}
