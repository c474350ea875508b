package memhost

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/robbyt/go-ijmacro/host"
)

type command struct {
	needsImage bool
	run        func(ctx context.Context, h *Host, img *Image, opts host.Options) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"Invert":           {needsImage: true, run: runInvert},
		"Scale...":         {needsImage: true, run: runScale},
		"Duplicate...":     {needsImage: true, run: runDuplicate},
		"Smooth":           {needsImage: true, run: runSmooth},
		"Find Edges":       {needsImage: true, run: runFindEdges},
		"Gaussian Blur...": {needsImage: true, run: runGaussian},
		"Add...":           {needsImage: true, run: arithmetic(func(v, c float64) float64 { return v + c })},
		"Subtract...":      {needsImage: true, run: arithmetic(func(v, c float64) float64 { return v - c })},
		"Multiply...":      {needsImage: true, run: arithmetic(func(v, c float64) float64 { return v * c })},
		"Select All":       {needsImage: true, run: runSelectAll},
		"Select None":      {needsImage: true, run: runSelectNone},
		"Measure":          {needsImage: true, run: runMeasure},
		"8-bit":            {needsImage: true, run: convertTo(8)},
		"16-bit":           {needsImage: true, run: convertTo(16)},
		"32-bit":           {needsImage: true, run: convertTo(32)},
		"RGB Color":        {needsImage: true, run: convertTo(24)},
		"Close":            {needsImage: true, run: runClose},
		"Close All":        {run: runCloseAll},
		"Clear Results":    {run: runClearResults},
	}
}

// applyInRegion writes next into img for pixels inside the selection only.
func applyInRegion(img *Image, next []float64) {
	img.mu.RLock()
	depth := img.bitDepth
	img.mu.RUnlock()

	updated := img.Pixels()
	img.region(func(_, _, i int) {
		updated[i] = clampToDepth(next[i], depth)
	})
	img.mu.Lock()
	img.pixels = updated
	img.mu.Unlock()
	img.Update()
}

func runInvert(_ context.Context, _ *Host, img *Image, _ host.Options) error {
	px := img.Pixels()
	next := make([]float64, len(px))
	depth := img.BitDepth()
	lo, hi := minMax(px)
	for i, v := range px {
		switch depth {
		case 8, 16:
			next[i] = host.MaxValue(depth) - v
		case 24:
			next[i] = float64(^int64(v) & 0xffffff)
		default:
			next[i] = lo + hi - v
		}
	}
	applyInRegion(img, next)
	return nil
}

func runScale(_ context.Context, h *Host, img *Image, opts host.Options) error {
	w, ht := img.Width(), img.Height()
	sx, err := opts.Float("x", 1)
	if err != nil {
		return err
	}
	sy, err := opts.Float("y", sx)
	if err != nil {
		return err
	}
	nw, err := opts.Int("width", int(math.Round(float64(w)*sx)))
	if err != nil {
		return err
	}
	nh, err := opts.Int("height", int(math.Round(float64(ht)*sy)))
	if err != nil {
		return err
	}
	if nw < 1 || nh < 1 {
		return fmt.Errorf("%w: scaled size %dx%d", host.ErrInvalidOptions, nw, nh)
	}

	interpolation := strings.ToLower(opts.String("interpolation", "Bilinear"))
	depth := img.BitDepth()

	var scaled []float64
	if depth == 8 || depth == 24 {
		src, err := toStd(img)
		if err != nil {
			return err
		}
		filter := imaging.Linear
		switch interpolation {
		case "none":
			filter = imaging.NearestNeighbor
		case "bicubic":
			filter = imaging.CatmullRom
		}
		_, _, scaled = fromStd(imaging.Resize(src, nw, nh, filter), depth)
	} else {
		scaled = resample(img.Pixels(), w, ht, nw, nh, interpolation != "none")
	}

	if opts.Has("create") {
		title := opts.String("title", img.Title()+"-1")
		out := h.images.create(title, nw, nh, depth)
		out.replace(nw, nh, depth, scaled)
		return nil
	}
	img.replace(nw, nh, depth, scaled)
	img.Update()
	return nil
}

func runDuplicate(_ context.Context, h *Host, img *Image, opts host.Options) error {
	src := img.Pixels()
	w, ht, depth := img.Width(), img.Height(), img.BitDepth()
	b := imageRect(w, ht)
	if roi := img.Roi(); roi != nil {
		b = roi.Bounds().Intersect(b)
	}
	px := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		px = append(px, src[y*w+b.Min.X:y*w+b.Max.X]...)
	}
	title := opts.String("title", duplicateTitle(img.Title()))
	out := h.images.create(title, b.Dx(), b.Dy(), depth)
	out.replace(b.Dx(), b.Dy(), depth, px)
	cal := img.Calibrate(1) - img.Calibrate(0)
	out.SetCalibration(img.Calibrate(0), cal)
	return nil
}

func duplicateTitle(title string) string {
	if i := strings.LastIndexByte(title, '.'); i > 0 {
		return title[:i] + "-1" + title[i:]
	}
	return title + "-1"
}

func runSmooth(_ context.Context, _ *Host, img *Image, _ host.Options) error {
	return filterWith(img,
		func(src image.Image) image.Image { return blur.Box(src, 1) },
		func(px []float64, w, h int) []float64 { return convolve3x3(px, w, h, smoothKernel, 9) },
	)
}

func runFindEdges(_ context.Context, _ *Host, img *Image, _ host.Options) error {
	return filterWith(img,
		func(src image.Image) image.Image { return effect.Sobel(src) },
		sobel,
	)
}

func runGaussian(_ context.Context, _ *Host, img *Image, opts host.Options) error {
	sigma, err := opts.Float("sigma", 2)
	if err != nil {
		return err
	}
	if sigma <= 0 {
		return fmt.Errorf("%w: sigma must be positive", host.ErrInvalidOptions)
	}
	return filterWith(img,
		func(src image.Image) image.Image { return blur.Gaussian(src, sigma) },
		nil,
	)
}

// filterWith runs std on 8-bit and RGB images and deep on 16-bit and float images.
// A nil deep filter means the command only supports 8-bit and RGB.
func filterWith(
	img *Image,
	std func(image.Image) image.Image,
	deep func(px []float64, w, h int) []float64,
) error {
	depth := img.BitDepth()
	if depth == 8 || depth == 24 {
		src, err := toStd(img)
		if err != nil {
			return err
		}
		_, _, next := fromStd(std(src), depth)
		applyInRegion(img, next)
		return nil
	}
	if deep == nil {
		return fmt.Errorf("%w: requires an 8-bit or RGB image", host.ErrUnsupportedType)
	}
	applyInRegion(img, deep(img.Pixels(), img.Width(), img.Height()))
	return nil
}

func arithmetic(op func(v, c float64) float64) func(context.Context, *Host, *Image, host.Options) error {
	return func(_ context.Context, _ *Host, img *Image, opts host.Options) error {
		c, err := opts.Float("value", 25)
		if err != nil {
			return err
		}
		px := img.Pixels()
		next := make([]float64, len(px))
		depth := img.BitDepth()
		for i, v := range px {
			if depth != 24 {
				next[i] = op(v, c)
				continue
			}
			p := int64(v)
			var out int64
			for shift := 16; shift >= 0; shift -= 8 {
				ch := clampToDepth(op(float64((p>>shift)&0xff), c), 8)
				out |= int64(ch) << shift
			}
			next[i] = float64(out)
		}
		applyInRegion(img, next)
		return nil
	}
}

func runSelectAll(_ context.Context, _ *Host, img *Image, _ host.Options) error {
	img.SetRoi(host.NewRectangle(0, 0, img.Width(), img.Height()))
	return nil
}

func runSelectNone(_ context.Context, _ *Host, img *Image, _ host.Options) error {
	img.SetRoi(nil)
	return nil
}

// runMeasure appends Area, Mean, Min and Max of the selection to the Results table.
func runMeasure(_ context.Context, h *Host, img *Image, _ host.Options) error {
	px := img.Pixels()
	n, sum := 0, 0.0
	lo, hi := math.Inf(1), math.Inf(-1)
	img.region(func(_, _, i int) {
		v := img.Calibrate(px[i])
		n++
		sum += v
		lo = min(lo, v)
		hi = max(hi, v)
	})
	if n == 0 {
		return fmt.Errorf("%w: empty selection", host.ErrNoSelection)
	}

	rt := h.tables.Results()
	rt.IncrementCounter()
	for _, kv := range []struct {
		col string
		v   float64
	}{{"Area", float64(n)}, {"Mean", sum / float64(n)}, {"Min", lo}, {"Max", hi}} {
		if err := rt.AddValue(kv.col, kv.v); err != nil {
			return err
		}
	}
	return nil
}

func convertTo(depth int) func(context.Context, *Host, *Image, host.Options) error {
	return func(_ context.Context, _ *Host, img *Image, _ host.Options) error {
		next := convertDepth(img.Pixels(), img.BitDepth(), depth)
		img.replace(img.Width(), img.Height(), depth, next)
		img.ResetThreshold()
		img.Update()
		return nil
	}
}

func runClose(_ context.Context, h *Host, img *Image, _ host.Options) error {
	return h.images.Close(img)
}

func runCloseAll(_ context.Context, h *Host, _ *Image, _ host.Options) error {
	for _, img := range h.images.List() {
		if err := h.images.Close(img); err != nil {
			return err
		}
	}
	return nil
}

func runClearResults(_ context.Context, h *Host, _ *Image, _ host.Options) error {
	h.tables.Results().Reset()
	return nil
}
