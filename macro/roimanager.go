package macro

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/robbyt/go-ijmacro/host"
)

// RoiManager runs a ROI Manager command. param is a name for "add" and "rename",
// an index or a list of indexes for "select", and ignored otherwise. "count" and
// "index" return an int; the other commands return nil.
//
// Supported commands: add, and, combine, count, delete, deselect, index, measure,
// rename, reset, select, split, update, plus the display commands (show all, show
// none, ...) which have no effect without a display.
func (s *Session) RoiManager(ctx context.Context, command string, param any) (any, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rm := s.host.RoiManager()
	cmd := strings.ToLower(strings.TrimSpace(command))
	s.logger.DebugContext(ctx, "roiManager", "command", cmd, "param", param)

	switch cmd {
	case "count":
		return rm.Count(), nil
	case "index":
		if sel := rm.Selected(); len(sel) > 0 {
			return sel[0], nil
		}
		return -1, nil
	case "reset":
		rm.Reset()
		return nil, nil
	case "deselect":
		rm.Deselect()
		return nil, nil
	case "delete":
		return nil, rm.Remove()
	case "add", "add & draw":
		return nil, s.roiAdd(param)
	case "select":
		return nil, s.roiSelect(param)
	case "rename":
		return nil, s.roiRename(param)
	case "and":
		return nil, s.roiCombine(host.Intersect)
	case "combine", "or":
		return nil, s.roiCombine(host.Union)
	case "update":
		return nil, s.roiUpdate()
	case "split":
		return nil, s.roiSplit()
	case "measure":
		return nil, s.roiMeasure(ctx)
	case "show all", "show all with labels", "show all without labels", "show none":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRoiCommand, command)
}

func (s *Session) roiAdd(param any) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	roi := img.Roi()
	if roi == nil {
		return fmt.Errorf("%w: roiManager(\"add\")", host.ErrNoSelection)
	}
	name, _ := param.(string)
	s.host.RoiManager().Add(roi, name)
	return nil
}

// roiSelect selects one or more entries and puts the (combined) selection on the
// active image.
func (s *Session) roiSelect(param any) error {
	indexes, err := toIndexes(param)
	if err != nil {
		return err
	}
	rm := s.host.RoiManager()
	if err := rm.Select(indexes...); err != nil {
		return err
	}
	rois, err := s.roisAt(indexes)
	if err != nil {
		return err
	}
	img, err := s.activeImage()
	if err != nil {
		// Selecting without an open image only changes the list selection.
		return nil
	}
	if len(rois) == 1 {
		img.SetRoi(rois[0])
		return nil
	}
	combined, err := host.Union(rois...)
	if err != nil {
		return err
	}
	img.SetRoi(combined)
	return nil
}

func (s *Session) roiRename(param any) error {
	name, ok := param.(string)
	if !ok || name == "" {
		return fmt.Errorf("%w: rename needs a name", ErrInvalidArgument)
	}
	rm := s.host.RoiManager()
	sel := rm.Selected()
	if len(sel) == 0 {
		return ErrNothingSelected
	}
	return rm.Rename(sel[0], name)
}

// targets returns the selected indexes, or all of them when none is selected.
func (s *Session) targets() ([]int, error) {
	rm := s.host.RoiManager()
	if rm.Count() == 0 {
		return nil, ErrEmptyRoiManager
	}
	if sel := rm.Selected(); len(sel) > 0 {
		return sel, nil
	}
	all := make([]int, rm.Count())
	for i := range all {
		all[i] = i
	}
	return all, nil
}

func (s *Session) roisAt(indexes []int) ([]*host.Roi, error) {
	rm := s.host.RoiManager()
	rois := make([]*host.Roi, 0, len(indexes))
	for _, i := range indexes {
		r, _, err := rm.Get(i)
		if err != nil {
			return nil, err
		}
		rois = append(rois, r)
	}
	return rois, nil
}

func (s *Session) roiCombine(op func(...*host.Roi) (*host.Roi, error)) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	indexes, err := s.targets()
	if err != nil {
		return err
	}
	rois, err := s.roisAt(indexes)
	if err != nil {
		return err
	}
	combined, err := op(rois...)
	if err != nil {
		return err
	}
	img.SetRoi(combined)
	return nil
}

func (s *Session) roiUpdate() error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	rm := s.host.RoiManager()
	sel := rm.Selected()
	if len(sel) == 0 {
		return ErrNothingSelected
	}
	roi := img.Roi()
	if roi == nil {
		return fmt.Errorf("%w: roiManager(\"update\")", host.ErrNoSelection)
	}
	return rm.Replace(sel[0], roi)
}

func (s *Session) roiSplit() error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	roi := img.Roi()
	if roi.Kind() != host.RoiComposite {
		return fmt.Errorf("%w: split needs a composite selection", host.ErrNoSelection)
	}
	for _, p := range roi.Parts() {
		s.host.RoiManager().Add(host.NewRectangle(p.Min.X, p.Min.Y, p.Dx(), p.Dy()), "")
	}
	return nil
}

// roiMeasure runs "Measure" once per target ROI and restores the selection.
func (s *Session) roiMeasure(ctx context.Context) error {
	img, err := s.activeImage()
	if err != nil {
		return err
	}
	indexes, err := s.targets()
	if err != nil {
		return err
	}
	rois, err := s.roisAt(indexes)
	if err != nil {
		return err
	}
	saved := img.Roi()
	defer img.SetRoi(saved)
	for _, r := range rois {
		img.SetRoi(r)
		if err := s.host.Run(ctx, img, "Measure", ""); err != nil {
			return err
		}
	}
	return nil
}

// toIndexes accepts an int, a whole float or a list of them.
func toIndexes(param any) ([]int, error) {
	switch v := param.(type) {
	case int:
		return []int{v}, nil
	case int64:
		return []int{int(v)}, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: index %v", ErrInvalidArgument, v)
		}
		return []int{int(v)}, nil
	case []int:
		return slices.Clone(v), nil
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			idx, err := toIndexes(e)
			if err != nil {
				return nil, err
			}
			out = append(out, idx...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: ROI index %v (%T)", ErrInvalidArgument, param, param)
}
