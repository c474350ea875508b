package macro

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/robbyt/go-ijmacro/host"
	"github.com/robbyt/go-ijmacro/macro/file"
)

func imageBounds(img host.Image) image.Rectangle {
	return image.Rect(0, 0, img.Width(), img.Height())
}

// activeImage resolves the target of image functions once per call.
func (s *Session) activeImage() (host.Image, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.host.Images().Active()
}

// Run executes a menu command against the active image. Commands that do not need
// an image run with no target when none is open.
func (s *Session) Run(ctx context.Context, command, options string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	img, err := s.host.Images().Active()
	if err != nil && !errors.Is(err, host.ErrNoImage) {
		return err
	}
	s.logger.DebugContext(ctx, "run", "command", command, "options", options)
	return s.host.Run(ctx, img, command, options)
}

// Close closes image windows. An empty pattern closes the active image, "*" closes
// every image and `\Others` every image but the active one. Other patterns may use
// "*" and "?" wildcards; without wildcards they may also name a table window or
// "Log".
func (s *Session) Close(ctx context.Context, pattern string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	images := s.host.Images()
	s.logger.DebugContext(ctx, "close", "pattern", pattern)

	switch pattern {
	case "":
		img, err := images.Active()
		if err != nil {
			return err
		}
		return images.Close(img)
	case host.OthersPattern:
		active, err := images.Active()
		if err != nil {
			return err
		}
		return s.closeMatching(func(img host.Image) bool { return img.ID() != active.ID() })
	}

	m, err := host.NewTitleMatcher(pattern)
	if err != nil {
		return err
	}
	if !m.HasWildcards() {
		if pattern == "Log" {
			s.host.Log().Clear()
			return nil
		}
		if s.host.Tables().Close(pattern) {
			return nil
		}
	}
	return s.closeMatching(func(img host.Image) bool { return m.Match(img.Title()) })
}

func (s *Session) closeMatching(match func(host.Image) bool) error {
	images := s.host.Images()
	var errs []error
	for _, img := range images.List() {
		if match(img) {
			errs = append(errs, images.Close(img))
		}
	}
	return errors.Join(errs...)
}

// GetPixel returns the raw value at (x, y). Whole number coordinates read the pixel
// directly; fractional ones use bilinear interpolation.
func (s *Session) GetPixel(x, y float64) (float64, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	if x == math.Trunc(x) && y == math.Trunc(y) {
		return img.Pixel(int(x), int(y))
	}
	return img.InterpolatedPixel(x, y)
}

// GetPixelAt returns the pixel at index i of the row major buffer.
func (s *Session) GetPixelAt(i int) (float64, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	n := img.Width() * img.Height()
	if i < 0 || i >= n {
		return 0, indexError(i, n)
	}
	return img.Pixel(i%img.Width(), i/img.Width())
}

// SetPixel stores a raw value at (x, y).
func (s *Session) SetPixel(x, y int, v float64) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	if err := img.SetPixel(x, y, v); err != nil {
		return err
	}
	if s.settings.AutoUpdate {
		img.Update()
	}
	return nil
}

// ChangeValues sets every pixel in the selection (or image) whose value lies in
// [low, high] to newValue. RGB values compare on the packed 24 bits.
// ChangeValues(NaN, NaN, v) replaces NaN pixels of float images.
func (s *Session) ChangeValues(ctx context.Context, low, high, newValue float64) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	if img.BitDepth() == 24 {
		low = float64(int64(low) & 0xffffff)
		high = float64(int64(high) & 0xffffff)
	}
	replaceNaN := math.IsNaN(low) && math.IsNaN(high)

	b := imageBounds(img)
	roi := img.Roi()
	changed := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if roi != nil && !roi.Contains(x, y) {
				continue
			}
			v, err := img.Pixel(x, y)
			if err != nil {
				return err
			}
			if (replaceNaN && math.IsNaN(v)) || (v >= low && v <= high) {
				if err := img.SetPixel(x, y, newValue); err != nil {
					return err
				}
				changed++
			}
		}
	}
	s.logger.DebugContext(ctx, "changeValues", "low", low, "high", high, "value", newValue, "changed", changed)
	img.Update()
	return nil
}

// SetAutoThreshold applies a named method; append " dark" for dark backgrounds.
// An empty method means "Default".
func (s *Session) SetAutoThreshold(method string) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	fields := strings.Fields(method)
	name, dark := "Default", false
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "dark":
			dark = true
		case "no-reset", "stack", "16-bit":
		default:
			name = f
		}
	}
	return img.AutoThreshold(name, dark)
}

// GetThreshold returns the threshold levels, -1 and -1 when none is set.
func (s *Session) GetThreshold() (lower, upper float64, err error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, 0, err
	}
	lower, upper = img.Threshold()
	return lower, upper, nil
}

// SetThreshold sets the threshold levels.
func (s *Session) SetThreshold(lower, upper float64) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	return img.SetThreshold(lower, upper)
}

// ResetThreshold removes the threshold.
func (s *Session) ResetThreshold() error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	img.ResetThreshold()
	return nil
}

// NewImage opens a new image; typ is e.g. "8-bit ramp" or "RGB black". Only
// single slice images are supported, so depth must be 1 when given.
func (s *Session) NewImage(title, typ string, width, height int, depth ...int) (host.Image, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	nSlices := 1
	for _, d := range depth {
		nSlices *= d
	}
	if nSlices != 1 {
		return nil, fmt.Errorf("%w: stacks (depth %d)", ErrNotSupported, nSlices)
	}
	bitDepth, fill, err := host.ParseImageType(typ)
	if err != nil {
		return nil, err
	}
	return s.host.Images().New(host.NewImageSpec{
		Title:    title,
		BitDepth: bitDepth,
		Fill:     fill,
		Width:    width,
		Height:   height,
		Slices:   nSlices,
	})
}

// NImages returns the number of open images.
func (s *Session) NImages() int { return s.host.Images().Count() }

// GetWidth returns the width of the active image.
func (s *Session) GetWidth() (int, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	return img.Width(), nil
}

// GetHeight returns the height of the active image.
func (s *Session) GetHeight() (int, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	return img.Height(), nil
}

// GetTitle returns the title of the active image.
func (s *Session) GetTitle() (string, error) {
	img, err := s.activeImage()
	if err != nil {
		return "", err
	}
	return img.Title(), nil
}

// GetImageID returns the id of the active image.
func (s *Session) GetImageID() (int, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	return img.ID(), nil
}

// BitDepth returns 8, 16, 24 or 32 for the active image.
func (s *Session) BitDepth() (int, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	return img.BitDepth(), nil
}

// Calibrate converts a raw value with the active image's calibration.
func (s *Session) Calibrate(v float64) (float64, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	return img.Calibrate(v), nil
}

// SelectImage activates an image. A negative int is an image id, a positive int
// the n-th open image (1 based) and a string a title.
func (s *Session) SelectImage(idOrTitle any) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	images := s.host.Images()
	list := images.List()

	switch v := idOrTitle.(type) {
	case string:
		for _, img := range list {
			if img.Title() == v {
				return images.Select(img.ID())
			}
		}
		return fmt.Errorf("%w: %q", host.ErrNoSuchImage, v)
	case int:
		if v < 0 {
			return images.Select(v)
		}
		if v == 0 || v > len(list) {
			return fmt.Errorf("%w: image %d of %d", host.ErrNoSuchImage, v, len(list))
		}
		return images.Select(list[v-1].ID())
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: image id %v", ErrInvalidArgument, v)
		}
		return s.SelectImage(int(v))
	}
	return fmt.Errorf("%w: selectImage(%T)", ErrInvalidArgument, idOrTitle)
}

// MakeRectangle sets a rectangular selection on the active image.
func (s *Session) MakeRectangle(x, y, width, height int) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		img.SetRoi(nil)
		return nil
	}
	img.SetRoi(host.NewRectangle(x, y, width, height))
	return nil
}

// GetSelectionBounds returns the bounding box of the selection, or the whole image
// when there is none.
func (s *Session) GetSelectionBounds() (x, y, width, height int, err error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	b := imageBounds(img)
	if roi := img.Roi(); roi != nil {
		b = roi.Bounds()
	}
	return b.Min.X, b.Min.Y, b.Dx(), b.Dy(), nil
}

// SelectionType returns the selection type code: -1 none, 0 rectangle, 9 composite.
func (s *Session) SelectionType() (int, error) {
	img, err := s.activeImage()
	if err != nil {
		return 0, err
	}
	return int(img.Roi().Kind()), nil
}

// Print writes its arguments, separated by spaces, to the log window. When the
// first argument is an output file the rest goes to that file instead.
func (s *Session) Print(args ...any) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(args) > 0 {
		if f, ok := args[0].(*file.OutputFile); ok {
			return f.Print(joinArgs(args[1:]))
		}
	}
	s.host.Log().Println(joinArgs(args))
	return nil
}

// GetLog returns the contents of the log window.
func (s *Session) GetLog() string { return s.host.Log().Contents() }

// Beep emits the host's audible signal.
func (s *Session) Beep() { s.host.Beep() }
