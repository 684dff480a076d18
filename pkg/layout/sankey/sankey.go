// Package sankey lays out column-grouped nodes and the flow ribbons that
// connect them.
//
// Every node is sized by its throughput, the larger of its total inflow and
// outflow. Ribbons have a thickness proportional to their value and are
// stacked against their endpoints strictly in input order, so the ribbons
// leaving a node tile its outflow and the ribbons entering it tile its
// inflow with no gaps.
//
// Links may only join adjacent columns. A link pointing one column back is
// drawn from the left edge of its source to the right edge of its target.
package sankey

import (
	"fmt"
	"slices"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
)

// Node is a flow node pinned to a column.
type Node struct {
	ID     string
	Column int
}

// Link carries Value from Source to Target.
type Link struct {
	Source string
	Target string
	Value  float64
}

// Default configuration values.
const (
	DefaultUsableFrac  = 0.85
	DefaultNodePadding = 9.0
	DefaultNodeWidth   = 0.042
	DefaultCurvature   = 0.35
	DefaultColumnStart = 0.1
	DefaultColumnEnd   = 0.9
)

// Config controls the layout extent and spacing.
type Config struct {
	Width  float64 // Canvas width
	Height float64 // Canvas height

	// UsableFrac is the share of Height given to the column with the
	// largest throughput. Node padding is added on top of it.
	UsableFrac float64

	// NodePadding is the vertical gap between stacked nodes, in canvas units.
	NodePadding float64

	// NodeWidth is the node width as a fraction of Width.
	NodeWidth float64

	// Curvature is the horizontal offset of the Bezier control points as a
	// fraction of the ribbon's horizontal run.
	Curvature float64

	// ColumnStart and ColumnEnd are the fractions of Width at which the
	// first and last column centers sit. Columns in between are spaced
	// evenly.
	ColumnStart float64
	ColumnEnd   float64
}

// DefaultConfig returns the configuration used by the chart builder.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:       width,
		Height:      height,
		UsableFrac:  DefaultUsableFrac,
		NodePadding: DefaultNodePadding,
		NodeWidth:   DefaultNodeWidth,
		Curvature:   DefaultCurvature,
		ColumnStart: DefaultColumnStart,
		ColumnEnd:   DefaultColumnEnd,
	}
}

// NodeBox is the placed geometry of a node.
type NodeBox struct {
	ID         string
	Column     int
	Rect       geom.Rect
	In         float64 // Total inflow value
	Out        float64 // Total outflow value
	Throughput float64 // max(In, Out)
}

// LinkRibbon is the placed geometry of a link.
type LinkRibbon struct {
	Source string
	Target string
	Value  float64
	Ribbon geom.Ribbon
}

// Result holds the layout of a Sankey diagram. Nodes and Links are in
// input order.
type Result struct {
	Nodes []NodeBox
	Links []LinkRibbon

	// Scale converts flow values to canvas units.
	Scale float64

	// Offsets is the stacking accumulator after the last link. For every
	// node it equals the scaled outflow and inflow.
	Offsets Offsets
}

// Offsets records how far ribbons have been stacked on each side of every
// node, in canvas units.
type Offsets struct {
	Out map[string]float64
	In  map[string]float64
}

// Advance returns the offsets at which a ribbon of the given thickness
// from source to target starts and ends, and the accumulator after
// placing it. The receiver is left unchanged.
func (o Offsets) Advance(source, target string, thickness float64) (out, in float64, next Offsets) {
	out, in = o.Out[source], o.In[target]
	next = Offsets{Out: clone(o.Out), In: clone(o.In)}
	next.Out[source] = out + thickness
	next.In[target] = in + thickness
	return out, in, next
}

// Layout positions nodes and ribbons inside cfg's extent.
//
// Columns are ordered by index; each column's nodes keep input order and
// are stacked top to bottom with NodePadding between them, centered
// vertically. Node heights are throughput times Scale, where Scale maps
// the largest column throughput onto UsableFrac of the height.
//
// Ribbon ends stack in link input order. A node keeps a single outgoing
// offset for both of its edges: when it has a backward link (leaving its
// left edge) and a forward link (leaving its right edge), the later link
// starts below the earlier one's thickness, so neither edge is tiled from
// the top on its own.
//
// Layout returns an INVALID_SHAPE error when nodes are missing or
// duplicated, a link references an unknown node, joins non-adjacent
// columns or has a non-positive value, or when no flow exists at all.
// A degenerate extent is a LAYOUT_ERROR.
func Layout(nodes []Node, links []Link, cfg Config) (*Result, error) {
	if err := validate(nodes, links, cfg); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	boxes := make([]NodeBox, len(nodes))
	for i, n := range nodes {
		boxes[i] = NodeBox{ID: n.ID, Column: n.Column}
	}
	for _, l := range links {
		boxes[index[l.Source]].Out += l.Value
		boxes[index[l.Target]].In += l.Value
	}

	columns := map[int][]int{}
	for i := range boxes {
		boxes[i].Throughput = max(boxes[i].In, boxes[i].Out)
		columns[boxes[i].Column] = append(columns[boxes[i].Column], i)
	}
	order := make([]int, 0, len(columns))
	for c := range columns {
		order = append(order, c)
	}
	slices.Sort(order)

	var peak float64
	for _, c := range order {
		var total float64
		for _, i := range columns[c] {
			total += boxes[i].Throughput
		}
		peak = max(peak, total)
	}
	if peak <= 0 {
		return nil, errors.Shape("sankey: no flow between nodes")
	}
	scale := cfg.Height * cfg.UsableFrac / peak
	nodeW := cfg.NodeWidth * cfg.Width

	for rank, c := range order {
		cx := cfg.Width * columnFrac(rank, len(order), cfg.ColumnStart, cfg.ColumnEnd)
		members := columns[c]

		stack := cfg.NodePadding * float64(len(members)-1)
		for _, i := range members {
			stack += boxes[i].Throughput * scale
		}
		y := (cfg.Height - stack) / 2
		for _, i := range members {
			h := boxes[i].Throughput * scale
			boxes[i].Rect = geom.Rect{X: cx - nodeW/2, Y: y, W: nodeW, H: h}
			y += h + cfg.NodePadding
		}
	}

	acc := Offsets{Out: map[string]float64{}, In: map[string]float64{}}
	ribbons := make([]LinkRibbon, len(links))
	for i, l := range links {
		src, dst := boxes[index[l.Source]], boxes[index[l.Target]]
		thickness := l.Value * scale

		var outOff, inOff float64
		outOff, inOff, acc = acc.Advance(l.Source, l.Target, thickness)

		x0, x1 := src.Rect.Right(), dst.Rect.X
		if dst.Column < src.Column {
			x0, x1 = src.Rect.X, dst.Rect.Right()
		}
		ribbons[i] = LinkRibbon{
			Source: l.Source,
			Target: l.Target,
			Value:  l.Value,
			Ribbon: Ribbon(
				geom.Point{X: x0, Y: src.Rect.Y + outOff},
				geom.Point{X: x1, Y: dst.Rect.Y + inOff},
				thickness, cfg.Curvature,
			),
		}
	}

	return &Result{Nodes: boxes, Links: ribbons, Scale: scale, Offsets: acc}, nil
}

// Ribbon builds a band of the given thickness whose upper edge is a cubic
// Bezier from p0 to p1. The control points share the endpoints' heights
// and sit bend times the horizontal run inwards from each end.
func Ribbon(p0, p1 geom.Point, thickness, bend float64) geom.Ribbon {
	dx := p1.X - p0.X
	return geom.Ribbon{
		Path: []geom.Point{
			p0,
			{X: p0.X + bend*dx, Y: p0.Y},
			{X: p1.X - bend*dx, Y: p1.Y},
			p1,
		},
		Thickness: thickness,
	}
}

// columnFrac spaces n column centers evenly between start and end.
func columnFrac(rank, n int, start, end float64) float64 {
	if n == 1 {
		return start
	}
	return start + (end-start)*float64(rank)/float64(n-1)
}

func validate(nodes []Node, links []Link, cfg Config) error {
	if err := errors.ValidateExtent("sankey", cfg.Width, cfg.Height); err != nil {
		return err
	}
	if cfg.UsableFrac <= 0 || cfg.NodeWidth < 0 || cfg.NodePadding < 0 {
		return errors.Layout("sankey: invalid spacing (usable %g, node width %g, padding %g)",
			cfg.UsableFrac, cfg.NodeWidth, cfg.NodePadding)
	}
	if len(nodes) == 0 {
		return errors.Shape("sankey: no nodes")
	}
	if len(links) == 0 {
		return errors.Shape("sankey: no links")
	}

	cols := make(map[string]int, len(nodes))
	for i, n := range nodes {
		what := fmt.Sprintf("sankey: nodes[%d]", i)
		if err := errors.ValidateID(what, n.ID); err != nil {
			return err
		}
		if _, dup := cols[n.ID]; dup {
			return errors.Shape("%s: duplicate id %q", what, n.ID)
		}
		if n.Column < 0 {
			return errors.Shape("%s: column %d must be >= 0", what, n.Column)
		}
		cols[n.ID] = n.Column
	}

	for j, l := range links {
		what := fmt.Sprintf("sankey: links[%d]", j)
		sc, ok := cols[l.Source]
		if !ok {
			return errors.Shape("%s: unknown source %q", what, l.Source)
		}
		tc, ok := cols[l.Target]
		if !ok {
			return errors.Shape("%s: unknown target %q", what, l.Target)
		}
		if d := sc - tc; d != 1 && d != -1 {
			return errors.Shape("%s: %q (column %d) and %q (column %d) are not adjacent",
				what, l.Source, sc, l.Target, tc)
		}
		if err := errors.ValidatePositive(what, l.Value); err != nil {
			return err
		}
	}
	return nil
}

func clone(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
