// Package funnel builds stacked stage bars for funnel charts.
//
// Each stage becomes a horizontally centered bar whose width is its value
// relative to a normalization base, clamped to [MinWidth, 1]. Bars are
// stacked from the top with a fixed height and gap, and the stack is
// centered vertically. An optional silhouette joins the centers of
// consecutive bars with trapezoids to draw the funnel outline behind them.
package funnel

import (
	"fmt"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
)

// Base selects the normalization base for stage widths.
type Base int

const (
	// BaseFirst scales widths against the first stage.
	BaseFirst Base = iota
	// BaseMax scales widths against the largest stage.
	BaseMax
)

// String returns "first" or "max".
func (b Base) String() string {
	if b == BaseMax {
		return "max"
	}
	return "first"
}

// Default configuration values. Heights are fractions of the extent.
const (
	DefaultBarHeight = 0.12
	DefaultGap       = 0.06
	DefaultMinWidth  = 0.02
)

// Config controls the funnel geometry.
type Config struct {
	Width  float64 // Extent width
	Height float64 // Extent height

	BarHeight  float64 // Bar height as a fraction of Height
	Gap        float64 // Gap between bars as a fraction of Height
	MinWidth   float64 // Smallest bar width as a fraction of Width
	Base       Base
	Silhouette bool
}

// DefaultConfig returns a configuration normalized against the first stage
// with the silhouette enabled.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:      width,
		Height:     height,
		BarHeight:  DefaultBarHeight,
		Gap:        DefaultGap,
		MinWidth:   DefaultMinWidth,
		Base:       BaseFirst,
		Silhouette: true,
	}
}

// Stage is a placed funnel bar.
type Stage struct {
	Value    float64
	Fraction float64   // Bar width as a fraction of the extent width
	Rect     geom.Rect // Bar rectangle
}

// Result holds the bars top to bottom and, when requested, one silhouette
// trapezoid per pair of consecutive bars.
type Result struct {
	Stages     []Stage
	Silhouette []geom.Polygon
	Base       float64 // Value a full-width bar represents
}

// Widths returns each value divided by the normalization base, clamped to
// [minWidth, 1], along with the base itself.
func Widths(values []float64, base Base, minWidth float64) ([]float64, float64, error) {
	if len(values) == 0 {
		return nil, 0, errors.Shape("funnel: no stages")
	}
	for i, v := range values {
		if err := errors.ValidatePositive(fmt.Sprintf("funnel: stages[%d]", i), v); err != nil {
			return nil, 0, err
		}
	}
	if minWidth < 0 || minWidth > 1 {
		return nil, 0, errors.Layout("funnel: min width %g outside [0, 1]", minWidth)
	}

	ref := values[0]
	if base == BaseMax {
		for _, v := range values[1:] {
			ref = max(ref, v)
		}
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = min(max(v/ref, minWidth), 1)
	}
	return out, ref, nil
}

// Build lays out one bar per value inside the configured extent.
//
// Build returns an INVALID_SHAPE error for an empty or non-positive value
// set and a LAYOUT_ERROR for a degenerate extent or bar geometry. A stack
// taller than the extent is allowed and overflows it evenly at both ends.
func Build(values []float64, cfg Config) (*Result, error) {
	if err := errors.ValidateExtent("funnel", cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if cfg.BarHeight <= 0 || cfg.Gap < 0 {
		return nil, errors.Layout("funnel: invalid bar height %g or gap %g", cfg.BarHeight, cfg.Gap)
	}
	fracs, ref, err := Widths(values, cfg.Base, cfg.MinWidth)
	if err != nil {
		return nil, err
	}

	n := float64(len(values))
	barH := cfg.BarHeight * cfg.Height
	gap := cfg.Gap * cfg.Height
	top := (cfg.Height - (n*barH + (n-1)*gap)) / 2

	res := &Result{Stages: make([]Stage, len(values)), Base: ref}
	for i, f := range fracs {
		w := f * cfg.Width
		res.Stages[i] = Stage{
			Value:    values[i],
			Fraction: f,
			Rect: geom.Rect{
				X: (cfg.Width - w) / 2,
				Y: top + float64(i)*(barH+gap),
				W: w,
				H: barH,
			},
		}
	}

	if cfg.Silhouette {
		for i := 1; i < len(res.Stages); i++ {
			res.Silhouette = append(res.Silhouette, Trapezoid(res.Stages[i-1].Rect, res.Stages[i].Rect))
		}
	}
	return res, nil
}

// Trapezoid joins the horizontal center lines of two bars. The top edge
// spans the upper bar and the bottom edge spans the lower bar.
func Trapezoid(upper, lower geom.Rect) geom.Polygon {
	y1 := upper.Center().Y
	y2 := lower.Center().Y
	return geom.Polygon{Points: []geom.Point{
		{X: upper.X, Y: y1},
		{X: upper.Right(), Y: y1},
		{X: lower.Right(), Y: y2},
		{X: lower.X, Y: y2},
	}}
}
