package memhost

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/robbyt/go-ijmacro/host"
	"github.com/robbyt/go-ijmacro/results"
)

var (
	_ host.Images     = (*imageList)(nil)
	_ host.RoiManager = (*roiManager)(nil)
	_ host.Tables     = (*tableList)(nil)
	_ host.Log        = (*logWindow)(nil)
)

type imageList struct {
	mu     sync.RWMutex
	owner  *Host
	images []*Image
	active int
	nextID int
}

func newImageList(owner *Host) *imageList {
	return &imageList{owner: owner, nextID: -1}
}

func (l *imageList) New(spec host.NewImageSpec) (host.Image, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	img := l.create(spec.Title, spec.Width, spec.Height, spec.BitDepth)
	l.fill(img, spec.Fill)
	return img, nil
}

// create registers a blank image and activates it. IDs are negative like the
// platform's image IDs.
func (l *imageList) create(title string, width, height, bitDepth int) *Image {
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	img := newImage(l.nextID, title, width, height, bitDepth)
	l.nextID--
	l.images = append(l.images, img)
	l.active = img.id
	return img
}

func (l *imageList) fill(img *Image, fill host.Fill) {
	w, hgt, depth := img.width, img.height, img.bitDepth
	for y := range hgt {
		for x := range w {
			var v float64
			switch fill {
			case host.FillWhite:
				switch depth {
				case 32:
					v = 1
				case 24:
					v = 0xffffff
				default:
					v = host.MaxValue(depth)
				}
			case host.FillBlack:
				v = 0
			case host.FillRamp:
				v = rampValue(x, w, depth)
			case host.FillRandom:
				r := l.owner.randFloat()
				switch depth {
				case 32:
					v = r
				case 24:
					c := math.Floor(r * 256)
					v = c*65536 + c*256 + c
				default:
					v = math.Floor(r * (host.MaxValue(depth) + 1))
				}
			}
			img.pixels[y*w+x] = v
		}
	}
}

func rampValue(x, width, bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return float64((x * 256) / width)
	case 16:
		return float64((x * 65536) / width)
	case 24:
		c := (x * 256) / width
		return float64(c<<16 | c<<8 | c)
	}
	return float64(x) / float64(width)
}

func (l *imageList) Active() (host.Image, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, img := range l.images {
		if img.id == l.active {
			return img, nil
		}
	}
	return nil, host.ErrNoImage
}

func (l *imageList) Select(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, img := range l.images {
		if img.id == id {
			l.active = id
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", host.ErrNoSuchImage, id)
}

func (l *imageList) List() []host.Image {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]host.Image, len(l.images))
	for i, img := range l.images {
		out[i] = img
	}
	return out
}

func (l *imageList) Close(target host.Image) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.images, func(img *Image) bool { return img.id == target.ID() })
	if i < 0 {
		return fmt.Errorf("%w: id %d", host.ErrNoSuchImage, target.ID())
	}
	l.images = slices.Delete(l.images, i, i+1)
	if l.active == target.ID() {
		l.active = 0
		if n := len(l.images); n > 0 {
			l.active = l.images[n-1].id
		}
	}
	return nil
}

func (l *imageList) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}

type roiEntry struct {
	roi  *host.Roi
	name string
}

type roiManager struct {
	mu       sync.RWMutex
	entries  []roiEntry
	selected []int
}

func newRoiManager() *roiManager {
	return &roiManager{}
}

func (m *roiManager) Add(r *host.Roi, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		b := r.Bounds()
		name = fmt.Sprintf("%04d-%04d", b.Min.Y+b.Dy()/2, b.Min.X+b.Dx()/2)
	}
	m.entries = append(m.entries, roiEntry{roi: r.Clone(), name: name})
}

func (m *roiManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *roiManager) Get(i int) (*host.Roi, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.entries) {
		return nil, "", fmt.Errorf("%w: %d of %d", host.ErrIndexOutOfRange, i, len(m.entries))
	}
	return m.entries[i].roi.Clone(), m.entries[i].name, nil
}

// Remove deletes the given indexes; with no indexes it deletes the selection, or
// everything when nothing is selected.
func (m *roiManager) Remove(indexes ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(indexes) == 0 {
		indexes = slices.Clone(m.selected)
	}
	if len(indexes) == 0 {
		m.entries = nil
		return nil
	}
	for _, i := range indexes {
		if i < 0 || i >= len(m.entries) {
			return fmt.Errorf("%w: %d of %d", host.ErrIndexOutOfRange, i, len(m.entries))
		}
	}
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for j := len(sorted) - 1; j >= 0; j-- {
		m.entries = slices.Delete(m.entries, sorted[j], sorted[j]+1)
	}
	m.selected = nil
	return nil
}

func (m *roiManager) Rename(i int, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.entries) {
		return fmt.Errorf("%w: %d of %d", host.ErrIndexOutOfRange, i, len(m.entries))
	}
	m.entries[i].name = name
	return nil
}

func (m *roiManager) Replace(i int, r *host.Roi) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.entries) {
		return fmt.Errorf("%w: %d of %d", host.ErrIndexOutOfRange, i, len(m.entries))
	}
	m.entries[i].roi = r.Clone()
	return nil
}

func (m *roiManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.selected = nil
}

func (m *roiManager) Select(indexes ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range indexes {
		if i < 0 || i >= len(m.entries) {
			return fmt.Errorf("%w: %d of %d", host.ErrIndexOutOfRange, i, len(m.entries))
		}
	}
	m.selected = slices.Clone(indexes)
	return nil
}

func (m *roiManager) Selected() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.selected)
}

func (m *roiManager) Deselect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = nil
}

type tableList struct {
	mu      sync.RWMutex
	results *results.Table
	windows []*results.Table
}

func newTableList() *tableList {
	return &tableList{}
}

func (t *tableList) Results() *results.Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.results == nil {
		t.results = results.New(results.DefaultTitle)
	}
	return t.results
}

func (t *tableList) Get(title string) (*results.Table, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if title == results.DefaultTitle && t.results != nil {
		return t.results, true
	}
	for _, w := range t.windows {
		if w.Title() == title {
			return w, true
		}
	}
	return nil, false
}

func (t *tableList) Show(tbl *results.Table) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tbl.Title() == results.DefaultTitle {
		t.results = tbl
		return
	}
	t.windows = slices.DeleteFunc(t.windows, func(w *results.Table) bool {
		return w.Title() == tbl.Title()
	})
	t.windows = append(t.windows, tbl)
}

func (t *tableList) Close(title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if title == results.DefaultTitle && t.results != nil {
		t.results = nil
		return true
	}
	before := len(t.windows)
	t.windows = slices.DeleteFunc(t.windows, func(w *results.Table) bool { return w.Title() == title })
	return len(t.windows) != before
}

func (t *tableList) Titles() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var titles []string
	if t.results != nil {
		titles = append(titles, results.DefaultTitle)
	}
	for _, w := range t.windows {
		titles = append(titles, w.Title())
	}
	return titles
}
