package array

import (
	"fmt"
	"slices"
)

// FindMaxima returns the positions of the peaks in values, strongest first. A peak
// must rise more than tolerance above the valleys on both sides. edgeMode is one of
// IncludeEdges, ExcludeEdges or CircularArray.
func FindMaxima(values []float64, tolerance float64, edgeMode int) ([]int, error) {
	switch edgeMode {
	case IncludeEdges, ExcludeEdges:
		return findMaxima(values, tolerance, edgeMode == IncludeEdges), nil
	case CircularArray:
		return findMaximaCircular(values, tolerance), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidEdgeMode, edgeMode)
}

// FindMinima returns the positions of the valleys in values, deepest first.
func FindMinima(values []float64, tolerance float64, edgeMode int) ([]int, error) {
	negated := make([]float64, len(values))
	for i, v := range values {
		negated[i] = -v
	}
	return FindMaxima(negated, tolerance, edgeMode)
}

// findMaximaCircular searches three copies of values end to end and keeps the peaks
// found in the middle copy, so peaks wrapping around the ends are detected.
func findMaximaCircular(values []float64, tolerance float64) []int {
	n := len(values)
	cascade := make([]float64, 0, 3*n)
	for range 3 {
		cascade = append(cascade, values...)
	}
	var out []int
	for _, pos := range findMaxima(cascade, tolerance, false) {
		if pos >= n && pos < 2*n {
			out = append(out, pos-n)
		}
	}
	if out == nil {
		out = []int{}
	}
	return out
}

func findMaxima(xx []float64, tolerance float64, includeEdges bool) []int {
	n := len(xx)
	if n == 0 {
		return []int{}
	}
	tolerance = max(tolerance, 0)

	var positions []int
	maxV, minV := xx[0], xx[0]
	maxPos, lastMaxPos := 0, -1
	leftValleyFound := includeEdges

	for i := 1; i < n; i++ {
		v := xx[i]
		if v > minV+tolerance {
			leftValleyFound = true
		}
		if v > maxV && leftValleyFound {
			maxV, maxPos = v, i
		}
		if leftValleyFound {
			lastMaxPos = maxPos
		}
		if v < maxV-tolerance && leftValleyFound {
			positions = append(positions, maxPos)
			leftValleyFound = false
			minV, maxV = v, v
		}
		if v < minV {
			minV = v
			if !leftValleyFound {
				maxV = v
			}
		}
	}

	if includeEdges {
		if k := len(positions); k > 0 && positions[k-1] != lastMaxPos {
			positions = append(positions, lastMaxPos)
		}
		if len(positions) == 0 && maxV-minV >= tolerance && lastMaxPos >= 0 {
			positions = append(positions, lastMaxPos)
		}
	}

	// A flat top reports its middle.
	peaks := make([]float64, len(positions))
	for k, pos := range positions {
		mid := float64(pos)
		for pos < n-1 && xx[pos] == xx[pos+1] {
			mid += 0.5
			pos++
		}
		positions[k] = int(mid)
		peaks[k] = xx[positions[k]]
	}

	rank := make([]int, len(peaks))
	for i := range rank {
		rank[i] = i
	}
	slices.SortStableFunc(rank, func(i, j int) int { return compareFloat(peaks[i], peaks[j]) })

	out := make([]int, len(rank))
	for k, r := range rank {
		out[len(rank)-1-k] = positions[r]
	}
	return out
}
