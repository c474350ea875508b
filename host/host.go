// Package host defines the boundary between the macro surface and the application
// that owns images, selections, results tables and the log window. The macro layer
// never touches pixels or windows directly; everything goes through these interfaces.
//
// A reference in-memory implementation lives in host/memhost.
package host

import (
	"context"

	"github.com/robbyt/go-ijmacro/results"
)

// NoThreshold is returned by Image.Threshold when no threshold is set.
const NoThreshold = -1.0

// Host is the aggregate platform entry point handed to a macro session.
type Host interface {
	Images() Images
	RoiManager() RoiManager
	Tables() Tables
	Log() Log

	// Run executes a menu command against target. target may be nil for commands that
	// do not need an image. Commands that create an image make it active before
	// returning.
	Run(ctx context.Context, target Image, command, options string) error

	// Beep emits the platform's audible signal.
	Beep()
}

// Images is the window list of open images.
type Images interface {
	// New creates an image and makes it the active one.
	New(spec NewImageSpec) (Image, error)

	// Active returns the current image or ErrNoImage.
	Active() (Image, error)

	// Select makes the image with the given id active.
	Select(id int) error

	// List returns open images in the order they were opened.
	List() []Image

	// Close removes img from the window list. Closing the active image activates the
	// most recently opened remaining one.
	Close(img Image) error

	// Count returns the number of open images.
	Count() int
}

// Image is one open image window.
type Image interface {
	ID() int
	Title() string
	Width() int
	Height() int

	// BitDepth is 8, 16, 24 (packed RGB) or 32 (float).
	BitDepth() int

	// Pixel returns the raw value at (x, y); RGB pixels are packed 0xRRGGBB.
	Pixel(x, y int) (float64, error)
	SetPixel(x, y int, v float64) error

	// InterpolatedPixel returns the bilinear interpolated raw value at (x, y).
	InterpolatedPixel(x, y float64) (float64, error)

	// Calibrate converts a raw value to a calibrated one.
	Calibrate(raw float64) float64

	// Roi returns the current selection, or nil.
	Roi() *Roi
	SetRoi(r *Roi)

	// Threshold returns the current threshold levels, or NoThreshold twice.
	Threshold() (lower, upper float64)
	SetThreshold(lower, upper float64) error
	ResetThreshold()

	// AutoThreshold computes and applies a threshold using a named method.
	AutoThreshold(method string, dark bool) error

	// Update redraws the image after pixel changes.
	Update()
}

// RoiManager is the list of stored selections.
type RoiManager interface {
	Add(r *Roi, name string)
	Count() int
	Get(i int) (*Roi, string, error)
	Remove(indexes ...int) error
	Rename(i int, name string) error

	// Replace swaps the selection stored at i, keeping its name.
	Replace(i int, r *Roi) error
	Reset()

	// Select replaces the selection with the given indexes.
	Select(indexes ...int) error
	Selected() []int
	Deselect()
}

// Tables is the set of open results windows.
type Tables interface {
	// Results returns the main "Results" table, creating it when needed.
	Results() *results.Table

	// Get returns the open table with the given title.
	Get(title string) (*results.Table, bool)

	// Show opens t in its own window, replacing a window with the same title.
	Show(t *results.Table)

	// Close closes the table window with the given title.
	Close(title string) bool

	Titles() []string
}

// Log is the text log window.
type Log interface {
	Println(s string)
	Contents() string
	Clear()
}
