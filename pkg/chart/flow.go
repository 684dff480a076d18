package chart

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/layout/flow"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

const flowNodeRadius = 8.0

// FlowStyles merges the theme's node type styles with the payload's
// overrides. Payload fields win when set.
func FlowStyles(o Options, th theme.Theme) map[string]theme.TypeStyle {
	out := make(map[string]theme.TypeStyle, len(th.Flow.Types)+len(o.TypeStyles))
	for typ, s := range th.Flow.Types {
		out[typ] = s
	}
	for typ, s := range o.TypeStyles {
		cur := out[typ]
		cur.Shape = stringOr(s.Shape, cur.Shape)
		cur.Fill = stringOr(s.Fill, cur.Fill)
		cur.Text = stringOr(s.Text, cur.Text)
		out[typ] = cur
	}
	return out
}

// FlowInput converts a flow payload to layout input.
func FlowInput(p Payload, th theme.Theme) ([]flow.Node, []flow.Edge, flow.Config) {
	_, h := p.Options.Size()
	cfg := flow.DefaultConfig(h)
	cfg.LaneSpacing = floatOr(p.Options.LaneSpacing, cfg.LaneSpacing)
	cfg.RowSpacing = floatOr(p.Options.RowSpacing, cfg.RowSpacing)
	cfg.MaxPasses = intOr(p.Options.MaxPasses, cfg.MaxPasses)
	cfg.Strict = p.Options.Strict
	for typ, s := range FlowStyles(p.Options, th) {
		if s.Shape != "" {
			cfg.Shapes[typ] = flow.Shape(s.Shape)
		}
	}

	nodes := make([]flow.Node, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = flow.Node{ID: n.ID, Type: n.Type}
		if lane, ok := p.Options.LaneOverride[n.ID]; ok {
			nodes[i].Lane = &lane
		}
	}
	edges := make([]flow.Edge, len(p.Edges))
	for i, e := range p.Edges {
		edges[i] = flow.Edge{From: e.From, To: e.To, Label: e.Label}
	}
	return nodes, edges, cfg
}

func buildFlow(sc *scene.Scene, p Payload, th theme.Theme) error {
	nodes, edges, cfg := FlowInput(p, th)
	res, err := flow.Layout(nodes, edges, cfg)
	if err != nil {
		return err
	}

	// Detours and lane-0 shapes can extend past the origin; shift the
	// drawing so everything sits inside the margin and grow the canvas to
	// fit.
	var bbox geom.Rect
	for _, n := range res.Nodes {
		bbox = bbox.Union(n.Bounds)
	}
	for _, e := range res.Edges {
		bbox = bbox.Union(e.Path.Bounds())
	}
	top := contentTop(p) + canvasMargin
	shift := geom.Point{X: math.Max(0, canvasMargin-bbox.X), Y: math.Max(0, top-bbox.Y)}
	sc.Width = math.Max(sc.Width, bbox.Right()+shift.X+canvasMargin)
	sc.Height = math.Max(sc.Height, bbox.Bottom()+shift.Y+canvasMargin)

	arrowColor := stringOr(p.Options.ArrowColor, th.Flow.ArrowColor)
	line := scene.Style{Stroke: arrowColor, StrokeWidth: th.Flow.ArrowWidth}
	head := scene.Style{Fill: arrowColor, Stroke: arrowColor, StrokeWidth: 1}
	for i, e := range res.Edges {
		id := itemID("edge", i)
		sc.Add(scene.Polyline("edge", id, e.Path.Translate(shift), line))
		sc.Add(scene.Polygon("arrow", id+"-arrow", geom.Polygon(e.Arrow.Translate(shift)), head))
		if e.Label != "" {
			sc.Add(scene.Text("edge-label", id+"-label", e.Label, e.LabelAt.Add(shift), scene.AnchorStart,
				scene.Style{Fill: th.Flow.LabelColor, FontSize: th.FontSize}))
		}
	}

	styles := FlowStyles(p.Options, th)
	for i, n := range res.Nodes {
		src := p.Nodes[i]
		ts := styles[n.Type]
		fill := stringOr(src.Fill, stringOr(ts.Fill, th.PaletteAt(i)))
		st := scene.Style{Fill: fill}
		b := n.Bounds.Translate(shift)
		switch n.Shape {
		case flow.ShapeEllipse:
			sc.Add(scene.Ellipse("node", n.ID, b, st))
		case flow.ShapeDiamond:
			sc.Add(scene.Polygon("node", n.ID, n.Outline(0).Translate(shift), st))
		default:
			st.Radius = flowNodeRadius
			sc.Add(scene.Rect("node", n.ID, b, st))
		}
		sc.Add(scene.Text("label", "label-"+n.ID, labelOf(src.Label, n.ID), b.Center(), scene.AnchorMiddle,
			scene.Style{Fill: stringOr(ts.Text, th.Text), FontSize: th.FontSize}))
	}

	converged := res.Converged
	sc.Diagnostics.Converged = &converged
	sc.Diagnostics.Passes = res.Passes
	for _, c := range res.Cycles {
		sc.Diagnostics.Cycles = append(sc.Diagnostics.Cycles, c.From+"->"+c.To)
	}
	slices.Sort(sc.Diagnostics.Cycles)
	if !converged {
		sc.Diagnostics.Warnings = append(sc.Diagnostics.Warnings,
			fmt.Sprintf("lane assignment did not settle after %d passes", res.Passes))
	}
	return nil
}
