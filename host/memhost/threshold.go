package memhost

import (
	"fmt"
	"math"
	"strings"

	"github.com/robbyt/go-ijmacro/host"
)

type thresholdMethod func(hist []int) int

var thresholdMethods = map[string]thresholdMethod{
	"default":    defaultIsoData,
	"isodata":    isoData,
	"otsu":       otsu,
	"mean":       meanThreshold,
	"percentile": percentile,
}

// AutoThreshold builds a 256 bin histogram of the selection (or the whole image),
// picks a level with the named method and sets the threshold to the dark or bright
// side of it.
func (img *Image) AutoThreshold(method string, dark bool) error {
	fn, ok := thresholdMethods[strings.ToLower(method)]
	if !ok {
		return fmt.Errorf("%w: %q", host.ErrUnknownMethod, method)
	}
	if img.BitDepth() == 24 {
		return fmt.Errorf("%w: RGB images cannot be thresholded", host.ErrUnsupportedType)
	}

	hist, lo, binSize := img.histogram()
	level := fn(hist)
	if level < 0 {
		return fmt.Errorf("%w: %s found no level", host.ErrUnknownMethod, method)
	}

	lower, upper := 0.0, float64(level)
	if dark {
		lower, upper = float64(level+1), 255
	}
	lower = min(lower, 255)

	if img.BitDepth() != 8 {
		lower = lo + lower*binSize
		upper = lo + upper*binSize
	}
	return img.SetThreshold(lower, upper)
}

// histogram returns the 256 bin histogram of the selection. For 8-bit images bins
// are raw values; otherwise the value range is split into 256 bins starting at lo.
func (img *Image) histogram() (hist []int, lo, binSize float64) {
	hist = make([]int, 256)
	depth := img.BitDepth()
	px := img.Pixels()

	lo, hi := 0.0, 255.0
	if depth != 8 {
		var vals []float64
		img.region(func(_, _, i int) { vals = append(vals, px[i]) })
		lo, hi = minMax(vals)
	}
	binSize = (hi - lo) / 255
	img.region(func(_, _, i int) {
		v := px[i]
		if math.IsNaN(v) {
			return
		}
		bin := int(v)
		if depth != 8 {
			bin = 0
			if binSize > 0 {
				bin = int((v - lo) / binSize)
			}
		}
		hist[min(max(bin, 0), 255)]++
	})
	return hist, lo, binSize
}

// defaultIsoData is the iterative intermeans variant used by the threshold dialog in
// "Default" mode. A dominant mode is clipped first so large backgrounds do not swamp
// the result.
func defaultIsoData(hist []int) int {
	data := append([]int(nil), hist...)

	maxCount, mode := 0, 0
	for i, c := range data {
		if c > maxCount {
			maxCount, mode = c, i
		}
	}
	maxCount2 := 0
	for i, c := range data {
		if c > maxCount2 && i != mode {
			maxCount2 = c
		}
	}
	if maxCount > maxCount2*2 && maxCount2 != 0 {
		data[mode] = int(float64(maxCount2) * 1.5)
	}

	maxValue := len(data) - 1
	data[0], data[maxValue] = 0, 0

	lo := 0
	for data[lo] == 0 && lo < maxValue {
		lo++
	}
	hi := maxValue
	for data[hi] == 0 && hi > 0 {
		hi--
	}
	if lo >= hi {
		return len(data) / 2
	}

	var result float64
	moving := lo
	for {
		var sum1, sum2, sum3, sum4 float64
		for i := lo; i <= moving; i++ {
			sum1 += float64(i * data[i])
			sum2 += float64(data[i])
		}
		for i := moving + 1; i <= hi; i++ {
			sum3 += float64(i * data[i])
			sum4 += float64(data[i])
		}
		result = (sum1/sum2 + sum3/sum4) / 2
		moving++
		if !(float64(moving+1) <= result && moving < hi-1) {
			break
		}
	}
	return int(math.Floor(result + 0.5))
}

func isoData(hist []int) int {
	g := 0
	for i := 1; i < len(hist); i++ {
		if hist[i] > 0 {
			g = i + 1
			break
		}
	}
	for {
		l, totl := 0, 0
		for i := 0; i < g+1 && i < len(hist); i++ {
			totl += hist[i]
			l += hist[i] * i
		}
		h, toth := 0, 0
		for i := g + 1; i < len(hist); i++ {
			toth += hist[i]
			h += hist[i] * i
		}
		if totl > 0 && toth > 0 {
			l /= totl
			h /= toth
			if g == int(math.Floor(float64(l+h)/2+0.5)) {
				return g
			}
		}
		g++
		if g > len(hist)-2 {
			return -1
		}
	}
}

func otsu(hist []int) int {
	total, sum := 0.0, 0.0
	for i, c := range hist {
		total += float64(c)
		sum += float64(i * c)
	}
	best, level := -1.0, 0
	wB, sumB := 0.0, 0.0
	for k, c := range hist {
		wB += float64(c)
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(k * c)
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best, level = between, k
		}
	}
	return level
}

func meanThreshold(hist []int) int {
	tot, sum := 0.0, 0.0
	for i, c := range hist {
		tot += float64(c)
		sum += float64(i * c)
	}
	if tot == 0 {
		return -1
	}
	return int(math.Floor(sum / tot))
}

func percentile(hist []int) int {
	const ptile = 0.5
	total := 0.0
	for _, c := range hist {
		total += float64(c)
	}
	if total == 0 {
		return -1
	}
	level, best, partial := -1, 1.0, 0.0
	for i, c := range hist {
		partial += float64(c)
		if d := math.Abs(partial/total - ptile); d < best {
			best, level = d, i
		}
	}
	return level
}
