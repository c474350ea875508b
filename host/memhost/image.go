package memhost

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/robbyt/go-ijmacro/host"
)

var _ host.Image = (*Image)(nil)

// Image is a single plane image held as float64 values. RGB pixels are stored packed
// as 0xRRGGBB.
type Image struct {
	mu       sync.RWMutex
	id       int
	title    string
	width    int
	height   int
	bitDepth int
	pixels   []float64

	roi          *host.Roi
	lower, upper float64

	calOffset float64
	calSlope  float64

	updates int
}

func newImage(id int, title string, width, height, bitDepth int) *Image {
	return &Image{
		id:        id,
		title:     title,
		width:     width,
		height:    height,
		bitDepth:  bitDepth,
		pixels:    make([]float64, width*height),
		lower:     host.NoThreshold,
		upper:     host.NoThreshold,
		calSlope:  1,
		calOffset: 0,
	}
}

func (img *Image) String() string {
	return fmt.Sprintf("memhost.Image{ID: %d, Title: %s, %dx%d, %d-bit}",
		img.id, img.Title(), img.Width(), img.Height(), img.BitDepth())
}

func (img *Image) ID() int { return img.id }

func (img *Image) Title() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.title
}

func (img *Image) Width() int {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.width
}

func (img *Image) Height() int {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.height
}

func (img *Image) BitDepth() int {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.bitDepth
}

func (img *Image) Pixel(x, y int) (float64, error) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	if x < 0 || y < 0 || x >= img.width || y >= img.height {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", host.ErrOutOfBounds, x, y, img.width, img.height)
	}
	return img.pixels[y*img.width+x], nil
}

func (img *Image) SetPixel(x, y int, v float64) error {
	img.mu.Lock()
	defer img.mu.Unlock()
	if x < 0 || y < 0 || x >= img.width || y >= img.height {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", host.ErrOutOfBounds, x, y, img.width, img.height)
	}
	img.pixels[y*img.width+x] = clampToDepth(v, img.bitDepth)
	return nil
}

// InterpolatedPixel uses bilinear interpolation; RGB images return the nearest pixel.
func (img *Image) InterpolatedPixel(x, y float64) (float64, error) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	if x < -1 || y < -1 || x >= float64(img.width) || y >= float64(img.height) {
		return 0, fmt.Errorf("%w: (%g,%g) in %dx%d", host.ErrOutOfBounds, x, y, img.width, img.height)
	}
	if img.bitDepth == 24 {
		xi := min(max(int(math.Round(x)), 0), img.width-1)
		yi := min(max(int(math.Round(y)), 0), img.height-1)
		return img.pixels[yi*img.width+xi], nil
	}

	x = min(max(x, 0), float64(img.width)-1.001)
	y = min(max(y, 0), float64(img.height)-1.001)
	x = max(x, 0)
	y = max(y, 0)

	xb, yb := int(x), int(y)
	xf, yf := x-float64(xb), y-float64(yb)
	xn := min(xb+1, img.width-1)
	yn := min(yb+1, img.height-1)

	at := func(px, py int) float64 { return img.pixels[py*img.width+px] }
	lower := at(xb, yb) + xf*(at(xn, yb)-at(xb, yb))
	upper := at(xb, yn) + xf*(at(xn, yn)-at(xb, yn))
	return lower + yf*(upper-lower), nil
}

func (img *Image) Calibrate(raw float64) float64 {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.calOffset + img.calSlope*raw
}

// SetCalibration installs a linear calibration function offset + slope*raw.
func (img *Image) SetCalibration(offset, slope float64) {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.calOffset = offset
	img.calSlope = slope
}

func (img *Image) Roi() *host.Roi {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.roi.Clone()
}

func (img *Image) SetRoi(r *host.Roi) {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.roi = r.Clone()
}

func (img *Image) Threshold() (float64, float64) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.lower, img.upper
}

func (img *Image) SetThreshold(lower, upper float64) error {
	if img.BitDepth() == 24 {
		return fmt.Errorf("%w: RGB images cannot be thresholded", host.ErrUnsupportedType)
	}
	if lower > upper {
		return fmt.Errorf("%w: lower %g > upper %g", host.ErrInvalidOptions, lower, upper)
	}
	img.mu.Lock()
	defer img.mu.Unlock()
	img.lower, img.upper = lower, upper
	return nil
}

func (img *Image) ResetThreshold() {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.lower, img.upper = host.NoThreshold, host.NoThreshold
}

// Update counts redraw requests.
func (img *Image) Update() {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.updates++
}

// Updates returns how many times Update was called.
func (img *Image) Updates() int {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.updates
}

// Pixels returns a copy of the pixel buffer in row major order.
func (img *Image) Pixels() []float64 {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return slices.Clone(img.pixels)
}

// replace swaps in a new buffer, used by commands that resize or convert.
func (img *Image) replace(width, height, bitDepth int, pixels []float64) {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.width, img.height, img.bitDepth = width, height, bitDepth
	img.pixels = pixels
	if img.roi != nil && !img.roi.Bounds().In(imageRect(width, height)) {
		img.roi = nil
	}
}

// region calls fn for every pixel inside the selection, or the whole image when
// there is none.
func (img *Image) region(fn func(x, y, i int)) {
	img.mu.RLock()
	roi, w, h := img.roi, img.width, img.height
	img.mu.RUnlock()

	b := imageRect(w, h)
	if roi != nil {
		b = roi.Bounds().Intersect(b)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if roi == nil || roi.Contains(x, y) {
				fn(x, y, y*w+x)
			}
		}
	}
}

func clampToDepth(v float64, bitDepth int) float64 {
	switch bitDepth {
	case 8, 16:
		if math.IsNaN(v) {
			return 0
		}
		return min(max(math.Round(v), 0), host.MaxValue(bitDepth))
	case 24:
		if math.IsNaN(v) {
			return 0
		}
		return float64(int64(v) & 0xffffff)
	}
	return v
}

func minMax(px []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range px {
		if math.IsNaN(v) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}
