// Package squarify partitions a rectangle into tiles whose areas are
// proportional to a sequence of values, keeping tiles close to square.
//
// The algorithm is the row-based heuristic of Bruls, Huizing and van Wijk
// ("Squarified Treemaps", 2000), without the usual descending sort: tiles
// come back in input order and the caller decides the ordering.
package squarify

import (
	"fmt"
	"math"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
)

// Squarify tiles bounds with one rectangle per value, in input order.
//
// Values are scaled so that they sum to the area of bounds. Values are
// collected into a row while adding the next one does not make the row's
// [WorstRatio] worse; a closed row is laid out as a strip along the shorter
// side of the remaining rectangle, which then shrinks by the strip.
//
// Each tile is inset by padding on all four sides, so the total area of
// the result is the area of bounds minus the padding loss of every tile.
//
// Squarify returns an INVALID_SHAPE error for an empty value set,
// non-positive or non-finite values, or negative padding, and a
// LAYOUT_ERROR when bounds is degenerate, padding leaves a tile with no
// area, or the value ratios are too extreme for float64 to give every tile
// some area.
func Squarify(values []float64, bounds geom.Rect, padding float64) ([]geom.Rect, error) {
	if len(values) == 0 {
		return nil, errors.Shape("squarify: no values")
	}
	if err := errors.ValidateExtent("squarify", bounds.W, bounds.H); err != nil {
		return nil, err
	}
	if err := errors.ValidateNonNegative("squarify: padding", padding); err != nil {
		return nil, err
	}

	var sum float64
	for i, v := range values {
		if err := errors.ValidatePositive(fmt.Sprintf("squarify: values[%d]", i), v); err != nil {
			return nil, err
		}
		sum += v
	}
	if math.IsInf(sum, 0) {
		return nil, errors.Shape("squarify: value sum overflows")
	}

	scale := bounds.Area() / sum
	areas := make([]float64, len(values))
	for i, v := range values {
		areas[i] = v * scale
	}

	tiles := make([]geom.Rect, 0, len(areas))
	free := bounds
	var row []float64
	for i := 0; i < len(areas); {
		side := math.Min(free.W, free.H)
		if len(row) == 0 || WorstRatio(append(row, areas[i]), side) <= WorstRatio(row, side) {
			row = append(row, areas[i])
			i++
			continue
		}
		if !hasArea(free) {
			return nil, precisionError(len(tiles))
		}
		tiles, free = strip(tiles, row, free)
		row = row[:0]
	}
	if !hasArea(free) {
		return nil, precisionError(len(tiles))
	}
	tiles, _ = strip(tiles, row, free)

	for i := range tiles {
		if !hasArea(tiles[i]) {
			return nil, precisionError(i)
		}
		tiles[i] = tiles[i].Inset(padding)
		if tiles[i].W <= 0 || tiles[i].H <= 0 {
			return nil, errors.Layout("squarify: padding %g leaves tile %d with no area", padding, i)
		}
	}
	return tiles, nil
}

func hasArea(r geom.Rect) bool {
	return r.W > 0 && r.H > 0 && !math.IsInf(r.W, 0) && !math.IsInf(r.H, 0)
}

// precisionError reports value ratios too extreme for float64: earlier
// tiles consumed the whole rectangle before tile i could be placed.
func precisionError(i int) error {
	return errors.Layout("squarify: value ratios exceed float64 precision, no area left for tile %d", i)
}

// WorstRatio returns the largest aspect ratio among the tiles of row when
// the row is laid along a side of length side:
//
//	max(side²·max/S², S²/(side²·min))
//
// where S is the sum of the row. An empty row has an infinite ratio.
func WorstRatio(row []float64, side float64) float64 {
	if len(row) == 0 {
		return math.Inf(1)
	}
	s, hi, lo := 0.0, row[0], row[0]
	for _, v := range row {
		s += v
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	s2, w2 := s*s, side*side
	return math.Max(w2*hi/s2, s2/(w2*lo))
}

// strip lays row along the shorter side of free and returns the appended
// tiles and the rectangle left over.
func strip(tiles []geom.Rect, row []float64, free geom.Rect) ([]geom.Rect, geom.Rect) {
	if len(row) == 0 {
		return tiles, free
	}
	var s float64
	for _, v := range row {
		s += v
	}

	if free.W >= free.H {
		// Column on the left edge spanning the full height.
		w := s / free.H
		y := free.Y
		for _, v := range row {
			h := v / w
			tiles = append(tiles, geom.Rect{X: free.X, Y: y, W: w, H: h})
			y += h
		}
		return tiles, geom.Rect{X: free.X + w, Y: free.Y, W: free.W - w, H: free.H}
	}

	// Row on the top edge spanning the full width.
	h := s / free.W
	x := free.X
	for _, v := range row {
		w := v / h
		tiles = append(tiles, geom.Rect{X: x, Y: free.Y, W: w, H: h})
		x += w
	}
	return tiles, geom.Rect{X: free.X, Y: free.Y + h, W: free.W, H: free.H - h}
}
