// Package radial partitions an annulus into sunburst wedges.
//
// The root owns the full span starting at the configured start angle. Each
// node's span is divided among its children in proportion to their values,
// and every depth level adds one ring outwards. The tree is walked with an
// explicit stack, so hierarchy depth is bounded only by memory.
package radial

import (
	"fmt"
	"math"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
)

// Node is a value-bearing tree node. A node's value should not be smaller
// than the sum of its children, but only the children's relative values
// are used when splitting its span.
type Node struct {
	Label    string
	Value    float64
	Children []Node
}

// Unlimited disables the depth limit.
const Unlimited = -1

// Default configuration values, in unit-circle radii and radians.
const (
	DefaultInnerRadius   = 0.38
	DefaultRingThickness = 0.18
	DefaultStartAngle    = math.Pi / 2
	DefaultSpan          = 2 * math.Pi
	DefaultGap           = 1.5 * math.Pi / 180
)

// Config controls ring geometry.
type Config struct {
	InnerRadius   float64 // Inner radius of the root ring
	RingThickness float64 // Radial thickness of every ring
	StartAngle    float64 // Angle where the root span begins
	Span          float64 // Angular extent of the root, 2π for a full circle
	Gap           float64 // Angle removed from each span, half at each end
	MaxDepth      int     // Deepest level emitted, or Unlimited
}

// DefaultConfig returns a full-circle configuration with no depth limit.
func DefaultConfig() Config {
	return Config{
		InnerRadius:   DefaultInnerRadius,
		RingThickness: DefaultRingThickness,
		StartAngle:    DefaultStartAngle,
		Span:          DefaultSpan,
		Gap:           DefaultGap,
		MaxDepth:      Unlimited,
	}
}

// Slice is the wedge of one tree node.
type Slice struct {
	Label string
	Value float64

	// Parent is the index of the parent slice, or -1 for the root.
	Parent int

	// Wedge is the drawn sector, with the gap removed.
	Wedge geom.Wedge

	// AllocStart and AllocSpan describe the sector allotted to the node
	// before the gap is removed. The allotted spans of a node's children
	// add up to the node's own allotted span.
	AllocStart float64
	AllocSpan  float64
}

// Result holds the slices in depth-first pre-order: each node is followed
// by its subtree, children in input order.
type Result struct {
	Slices []Slice

	// Depth is the largest depth emitted.
	Depth int
}

// OuterRadius returns the outer radius of the outermost ring.
func (r *Result) OuterRadius() float64 {
	var out float64
	for _, s := range r.Slices {
		out = math.Max(out, s.Wedge.OuterR)
	}
	return out
}

type frame struct {
	node   *Node
	parent int
	depth  int
	start  float64
	span   float64
}

// Partition computes one wedge per node of the tree rooted at root.
//
// A node at depth d occupies the ring from InnerRadius + d*RingThickness
// outwards by RingThickness. Its children split its allotted span in
// proportion to their values; when every child value is zero the span is
// split evenly. Gap/2 is then removed from both ends of each drawn wedge.
// A span narrower than Gap collapses to a zero-width wedge at its middle.
// Nodes deeper than MaxDepth are skipped along with their subtrees.
//
// Partition returns an INVALID_SHAPE error for negative or non-finite
// values and a LAYOUT_ERROR for invalid ring geometry.
func Partition(root Node, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	res := &Result{}
	stack := []frame{{node: &root, parent: -1, start: cfg.StartAngle, span: cfg.Span}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := errors.ValidateNonNegative(fmt.Sprintf("radial: node %q", f.node.Label), f.node.Value); err != nil {
			return nil, err
		}

		inner := cfg.InnerRadius + float64(f.depth)*cfg.RingThickness
		idx := len(res.Slices)
		res.Slices = append(res.Slices, Slice{
			Label:      f.node.Label,
			Value:      f.node.Value,
			Parent:     f.parent,
			Wedge:      trim(inner, inner+cfg.RingThickness, f.start, f.span, cfg.Gap, f.depth),
			AllocStart: f.start,
			AllocSpan:  f.span,
		})
		res.Depth = max(res.Depth, f.depth)

		kids := f.node.Children
		if len(kids) == 0 || (cfg.MaxDepth != Unlimited && f.depth+1 > cfg.MaxDepth) {
			continue
		}

		var total float64
		for i := range kids {
			v := kids[i].Value
			if err := errors.ValidateNonNegative(fmt.Sprintf("radial: child %d of %q", i, f.node.Label), v); err != nil {
				return nil, err
			}
			total += v
		}

		// Children are pushed in reverse so they pop in input order.
		spans := make([]float64, len(kids))
		starts := make([]float64, len(kids))
		a := f.start
		for i := range kids {
			if total > 0 {
				spans[i] = f.span * kids[i].Value / total
			} else {
				spans[i] = f.span / float64(len(kids))
			}
			starts[i] = a
			a += spans[i]
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   &kids[i],
				parent: idx,
				depth:  f.depth + 1,
				start:  starts[i],
				span:   spans[i],
			})
		}
	}
	return res, nil
}

// trim removes half the gap from each end of an allotted span.
func trim(inner, outer, start, span, gap float64, depth int) geom.Wedge {
	w := geom.Wedge{InnerR: inner, OuterR: outer, Depth: depth}
	if span <= gap {
		mid := start + span/2
		w.Start, w.End = mid, mid
		return w
	}
	w.Start = start + gap/2
	w.End = start + span - gap/2
	return w
}

func validateConfig(cfg Config) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"inner radius", cfg.InnerRadius},
		{"ring thickness", cfg.RingThickness},
		{"start angle", cfg.StartAngle},
		{"span", cfg.Span},
		{"gap", cfg.Gap},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.Layout("radial: %s %g is not finite", f.name, f.v)
		}
	}
	if cfg.InnerRadius < 0 || cfg.RingThickness <= 0 {
		return errors.Layout("radial: invalid rings (inner %g, thickness %g)", cfg.InnerRadius, cfg.RingThickness)
	}
	if cfg.Span <= 0 || cfg.Gap < 0 {
		return errors.Layout("radial: invalid span %g or gap %g", cfg.Span, cfg.Gap)
	}
	if cfg.MaxDepth < Unlimited {
		return errors.Layout("radial: max depth %d must be >= 0 or Unlimited", cfg.MaxDepth)
	}
	return nil
}
