package host

import (
	"fmt"
	"image"
	"slices"
)

// RoiKind is the selection type code used by selectionType().
type RoiKind int

const (
	RoiNone      RoiKind = -1
	RoiRectangle RoiKind = 0
	RoiComposite RoiKind = 9
)

func (k RoiKind) String() string {
	switch k {
	case RoiRectangle:
		return "rectangle"
	case RoiComposite:
		return "composite"
	}
	return "none"
}

// Roi is an area selection made of one or more axis aligned rectangles.
type Roi struct {
	Name  string
	parts []image.Rectangle
}

// NewRectangle creates a rectangular selection.
func NewRectangle(x, y, width, height int) *Roi {
	return &Roi{parts: []image.Rectangle{image.Rect(x, y, x+width, y+height)}}
}

func (r *Roi) String() string {
	b := r.Bounds()
	return fmt.Sprintf("Roi{%s, %d,%d %dx%d}", r.Kind(), b.Min.X, b.Min.Y, b.Dx(), b.Dy())
}

// Kind returns RoiRectangle for a single rectangle and RoiComposite otherwise.
func (r *Roi) Kind() RoiKind {
	switch {
	case r == nil || len(r.parts) == 0:
		return RoiNone
	case len(r.parts) == 1:
		return RoiRectangle
	default:
		return RoiComposite
	}
}

// Bounds returns the bounding rectangle of the selection.
func (r *Roi) Bounds() image.Rectangle {
	if r == nil {
		return image.Rectangle{}
	}
	var b image.Rectangle
	for _, p := range r.parts {
		b = b.Union(p)
	}
	return b
}

// Contains reports whether pixel (x, y) is inside the selection.
func (r *Roi) Contains(x, y int) bool {
	if r == nil {
		return false
	}
	pt := image.Pt(x, y)
	for _, p := range r.parts {
		if pt.In(p) {
			return true
		}
	}
	return false
}

// Area returns the number of pixels covered by the selection.
func (r *Roi) Area() int {
	if r == nil {
		return 0
	}
	b := r.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r.Contains(x, y) {
				n++
			}
		}
	}
	return n
}

// Parts returns a copy of the rectangles making up the selection.
func (r *Roi) Parts() []image.Rectangle {
	if r == nil {
		return nil
	}
	return slices.Clone(r.parts)
}

// Clone returns an independent copy.
func (r *Roi) Clone() *Roi {
	if r == nil {
		return nil
	}
	return &Roi{Name: r.Name, parts: slices.Clone(r.parts)}
}

// Union combines selections into one. A single input is returned as a copy.
func Union(rois ...*Roi) (*Roi, error) {
	out := &Roi{}
	for _, r := range rois {
		if r == nil {
			continue
		}
		for _, p := range r.parts {
			if !slices.ContainsFunc(out.parts, p.In) {
				out.parts = append(out.parts, p)
			}
		}
	}
	if len(out.parts) == 0 {
		return nil, fmt.Errorf("%w: no area to combine", ErrIncompatibleRegion)
	}
	return out, nil
}

// Intersect returns the area common to all selections. Intersecting rectangles
// yields a rectangle.
func Intersect(rois ...*Roi) (*Roi, error) {
	if len(rois) < 2 {
		return nil, fmt.Errorf("%w: more than one selection required", ErrIncompatibleRegion)
	}
	acc := rois[0].Parts()
	for _, r := range rois[1:] {
		var next []image.Rectangle
		for _, a := range acc {
			for _, b := range r.Parts() {
				if in := a.Intersect(b); !in.Empty() {
					next = append(next, in)
				}
			}
		}
		acc = next
	}
	if len(acc) == 0 {
		return nil, fmt.Errorf("%w: selections do not overlap", ErrIncompatibleRegion)
	}
	return &Roi{parts: acc}, nil
}
