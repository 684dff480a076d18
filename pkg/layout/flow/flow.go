// Package flow lays out flowchart-style node graphs.
//
// Layout runs in three steps:
//
//  1. Lanes: [AssignLanes] places every node in a vertical lane using
//     iterative longest-path layering with a bounded number of passes.
//  2. Placement: lanes are spaced evenly from left to right and the nodes
//     of a lane are stacked top to bottom in input order.
//  3. Routing: [Route] connects the right edge of the source shape to the
//     left edge of the target shape with an orthogonal polyline, and
//     [Arrowhead] adds two barbs at the end.
//
// Cycles are tolerated. The result reports whether layering converged and
// which edges close a cycle, so callers can warn about it. With
// Config.Strict set, non-convergence is an error instead.
package flow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
)

// Shape is the outline drawn for a node.
type Shape string

// Node shapes.
const (
	ShapeRoundRect Shape = "roundrect"
	ShapeEllipse   Shape = "ellipse"
	ShapeDiamond   Shape = "diamond"
)

// Size is a shape footprint.
type Size struct {
	W float64
	H float64
}

// Node is a graph node. Type selects the shape through Config.Shapes.
// A non-nil Lane pins the node to that lane.
type Node struct {
	ID   string
	Type string
	Lane *int
}

// Edge is a directed edge. Label is optional.
type Edge struct {
	From  string
	To    string
	Label string
}

// Default configuration values.
const (
	DefaultLaneSpacing   = 240.0
	DefaultRowSpacing    = 120.0
	DefaultMargin        = 40.0
	DefaultTopFrac       = 0.1
	DefaultLoopClearance = 60.0
	DefaultArrowSize     = 8.0
	DefaultArrowSpread   = 0.5
)

// Config controls spacing, shapes and routing.
type Config struct {
	LaneSpacing float64 // Horizontal distance between lane centers
	RowSpacing  float64 // Vertical distance between node centers in a lane
	Margin      float64 // Left margin and base of the top offset
	TopOffset   float64 // Extra offset added to Margin for the first row

	MaxPasses int  // Cap on layering passes
	Strict    bool // Fail when layering does not converge

	Shapes map[string]Shape // Node type to shape; unknown types use ShapeRoundRect
	Sizes  map[Shape]Size   // Shape footprints

	LoopClearance float64 // Detour distance for backward edges
	ArrowSize     float64
	ArrowSpread   float64
	LabelOffset   geom.Point // Edge label offset from the path's middle point
}

// DefaultShapes maps the standard flowchart node types to shapes.
func DefaultShapes() map[string]Shape {
	return map[string]Shape{
		"start":    ShapeEllipse,
		"end":      ShapeEllipse,
		"process":  ShapeRoundRect,
		"decision": ShapeDiamond,
	}
}

// DefaultSizes returns the footprint of each shape.
func DefaultSizes() map[Shape]Size {
	return map[Shape]Size{
		ShapeRoundRect: {W: 140, H: 44},
		ShapeEllipse:   {W: 120, H: 50},
		ShapeDiamond:   {W: 130, H: 70},
	}
}

// DefaultConfig returns the configuration for a canvas of the given height.
func DefaultConfig(height float64) Config {
	return Config{
		LaneSpacing:   DefaultLaneSpacing,
		RowSpacing:    DefaultRowSpacing,
		Margin:        DefaultMargin,
		TopOffset:     DefaultTopFrac * height,
		MaxPasses:     DefaultMaxPasses,
		Shapes:        DefaultShapes(),
		Sizes:         DefaultSizes(),
		LoopClearance: DefaultLoopClearance,
		ArrowSize:     DefaultArrowSize,
		ArrowSpread:   DefaultArrowSpread,
		LabelOffset:   geom.Point{X: 6, Y: -6},
	}
}

// ShapeOf returns the shape configured for a node type.
func (c Config) ShapeOf(typ string) Shape {
	if s, ok := c.Shapes[typ]; ok {
		return s
	}
	return ShapeRoundRect
}

// SizeOf returns the footprint of a shape, falling back to the rounded
// rectangle footprint for shapes without one.
func (c Config) SizeOf(s Shape) Size {
	if sz, ok := c.Sizes[s]; ok {
		return sz
	}
	if sz, ok := c.Sizes[ShapeRoundRect]; ok {
		return sz
	}
	return DefaultSizes()[ShapeRoundRect]
}

// PlacedNode is a node with its lane and position.
type PlacedNode struct {
	ID     string
	Type   string
	Shape  Shape
	Lane   int
	Row    int        // Position within the lane, from the top
	Center geom.Point // Anchor position
	Bounds geom.Rect  // Shape footprint around Center
}

// Outline returns the node's shape as a polygon. Ellipses are sampled
// with the given number of segments; rounded rectangles are returned as
// their bounding box.
func (p PlacedNode) Outline(segments int) geom.Polygon {
	b, c := p.Bounds, p.Center
	switch p.Shape {
	case ShapeDiamond:
		return geom.Polygon{Points: []geom.Point{
			{X: c.X, Y: b.Y},
			{X: b.Right(), Y: c.Y},
			{X: c.X, Y: b.Bottom()},
			{X: b.X, Y: c.Y},
		}}
	case ShapeEllipse:
		return geom.Ellipse(c, b.W/2, b.H/2, max(segments, 8))
	default:
		return geom.Polygon{Points: []geom.Point{
			{X: b.X, Y: b.Y},
			{X: b.Right(), Y: b.Y},
			{X: b.Right(), Y: b.Bottom()},
			{X: b.X, Y: b.Bottom()},
		}}
	}
}

// RoutedEdge is an edge with its path and arrowhead.
type RoutedEdge struct {
	From     string
	To       string
	Label    string
	Backward bool          // Routed as a detour
	Path     geom.Polyline // Orthogonal path between shape boundaries
	Arrow    geom.Polyline // Barb, tip, barb
	LabelAt  geom.Point    // Suggested label position
}

// Result holds a complete graph layout. Nodes and Edges are in input order.
type Result struct {
	Nodes []PlacedNode
	Edges []RoutedEdge

	Passes    int    // Layering passes that ran
	Converged bool   // Whether layering reached a fixed point
	Cycles    []Edge // Edges that close a cycle
}

// Lane returns the lane of the node with the given id, or -1.
func (r *Result) Lane(id string) int {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n.Lane
		}
	}
	return -1
}

// Layout assigns lanes, places nodes and routes edges.
//
// Node centers sit at x = Margin + lane*LaneSpacing and
// y = Margin + TopOffset + row*RowSpacing. Edges leave the source at the
// right edge of its shape and enter the target at the left edge of its
// shape. An edge whose target lane is not greater than its source lane is
// routed as a detour.
//
// Layout returns an INVALID_SHAPE error for missing or duplicate node ids,
// negative explicit lanes and edges with unknown endpoints, and a
// LAYOUT_ERROR for invalid spacing or, with Strict set, when layering does
// not converge.
func Layout(nodes []Node, edges []Edge, cfg Config) (*Result, error) {
	if err := validate(nodes, edges, cfg); err != nil {
		return nil, err
	}

	lanes := AssignLanes(nodes, edges, cfg.MaxPasses)
	cycles := FindCycles(nodes, edges)
	if !lanes.Converged && cfg.Strict {
		return nil, errors.Layout("flow: lanes did not settle after %d passes (cycles: %s)",
			lanes.Passes, formatEdges(cycles))
	}

	placed := make([]PlacedNode, len(nodes))
	index := make(map[string]int, len(nodes))
	rows := map[int]int{}
	top := cfg.Margin + cfg.TopOffset
	for i, n := range nodes {
		lane := lanes.Lane[n.ID]
		row := rows[lane]
		rows[lane]++

		shape := cfg.ShapeOf(n.Type)
		size := cfg.SizeOf(shape)
		c := geom.Point{X: cfg.Margin + float64(lane)*cfg.LaneSpacing, Y: top + float64(row)*cfg.RowSpacing}
		placed[i] = PlacedNode{
			ID:     n.ID,
			Type:   n.Type,
			Shape:  shape,
			Lane:   lane,
			Row:    row,
			Center: c,
			Bounds: geom.Rect{X: c.X - size.W/2, Y: c.Y - size.H/2, W: size.W, H: size.H},
		}
		index[n.ID] = i
	}

	routed := make([]RoutedEdge, len(edges))
	for i, e := range edges {
		src, dst := placed[index[e.From]], placed[index[e.To]]
		from := geom.Point{X: src.Bounds.Right(), Y: src.Center.Y}
		to := geom.Point{X: dst.Bounds.X, Y: dst.Center.Y}
		backward := dst.Lane <= src.Lane

		path := Route(from, to, backward, cfg.LoopClearance)
		routed[i] = RoutedEdge{
			From:     e.From,
			To:       e.To,
			Label:    e.Label,
			Backward: backward,
			Path:     path,
			Arrow:    Arrowhead(path, cfg.ArrowSize, cfg.ArrowSpread),
			LabelAt:  path.Points[len(path.Points)/2].Add(cfg.LabelOffset),
		}
	}

	return &Result{
		Nodes:     placed,
		Edges:     routed,
		Passes:    lanes.Passes,
		Converged: lanes.Converged,
		Cycles:    cycles,
	}, nil
}

func validate(nodes []Node, edges []Edge, cfg Config) error {
	if cfg.LaneSpacing <= 0 || cfg.RowSpacing < 0 {
		return errors.Layout("flow: invalid spacing (lane %g, row %g)", cfg.LaneSpacing, cfg.RowSpacing)
	}
	for s, sz := range cfg.Sizes {
		if err := errors.ValidateExtent(fmt.Sprintf("flow: size of %s", s), sz.W, sz.H); err != nil {
			return err
		}
	}
	if len(nodes) == 0 {
		return errors.Shape("flow: no nodes")
	}

	ids := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		what := fmt.Sprintf("flow: nodes[%d]", i)
		if err := errors.ValidateID(what, n.ID); err != nil {
			return err
		}
		if _, dup := ids[n.ID]; dup {
			return errors.Shape("%s: duplicate id %q", what, n.ID)
		}
		if n.Lane != nil && *n.Lane < 0 {
			return errors.Shape("%s: lane %d must be >= 0", what, *n.Lane)
		}
		ids[n.ID] = struct{}{}
	}
	for j, e := range edges {
		if _, ok := ids[e.From]; !ok {
			return errors.Shape("flow: edges[%d]: unknown node %q", j, e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return errors.Shape("flow: edges[%d]: unknown node %q", j, e.To)
		}
	}
	return nil
}

func formatEdges(edges []Edge) string {
	if len(edges) == 0 {
		return "none"
	}
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = e.From + "->" + e.To
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
