package chart

import (
	"math"

	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/layout/radial"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// minLabelSpan is the narrowest wedge that gets a label.
const minLabelSpan = 10 * math.Pi / 180

const sunburstEdgeWidth = 1.2

func radialConfig(o Options) radial.Config {
	cfg := radial.DefaultConfig()
	cfg.InnerRadius = floatOr(o.InnerHoleFrac, cfg.InnerRadius)
	cfg.RingThickness = floatOr(o.RingThickness, cfg.RingThickness)
	if o.StartAngle != nil {
		cfg.StartAngle = *o.StartAngle * math.Pi / 180
	}
	if o.GapDeg != nil {
		cfg.Gap = *o.GapDeg * math.Pi / 180
	}
	cfg.MaxDepth = intOr(o.MaxDepth, cfg.MaxDepth)
	return cfg
}

// radialTree copies a payload tree without recursion, so arbitrarily deep
// trees convert safely.
func radialTree(root *HierNode) radial.Node {
	out := radial.Node{Label: root.Label, Value: root.Value}
	type pair struct {
		src *HierNode
		dst *radial.Node
	}
	stack := []pair{{root, &out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]radial.Node, len(p.src.Children))
		for i := range p.src.Children {
			c := &p.src.Children[i]
			p.dst.Children[i] = radial.Node{Label: c.Label, Value: c.Value}
			stack = append(stack, pair{c, &p.dst.Children[i]})
		}
	}
	return out
}

func buildSunburst(sc *scene.Scene, p Payload, th theme.Theme) error {
	res, err := radial.Partition(radialTree(p.Root), radialConfig(p.Options))
	if err != nil {
		return err
	}

	top := contentTop(p)
	center := geom.Point{X: sc.Width / 2, Y: top + (sc.Height-top)/2}
	scale := (math.Min(sc.Width, sc.Height-top)/2 - canvasMargin) / res.OuterRadius()

	th.Sunburst.Base = stringOr(p.Options.ColorsBase, th.Sunburst.Base)
	th.Sunburst.Strong = stringOr(p.Options.ColorsStrong, th.Sunburst.Strong)
	showLabels := boolOr(p.Options.Labels, false)

	var labels []scene.Item
	for i, s := range res.Slices {
		if s.Wedge.Span() <= 0 {
			continue
		}
		w := s.Wedge
		w.InnerR *= scale
		w.OuterR *= scale
		fill, err := th.DepthColor(w.Depth, res.Depth)
		if err != nil {
			return err
		}
		sc.Add(scene.Wedge("wedge", itemID("wedge", i), w, center, scene.Style{
			Fill:        fill,
			Stroke:      th.Sunburst.Edge,
			StrokeWidth: sunburstEdgeWidth,
		}))
		if showLabels && w.Span() > minLabelSpan {
			labels = append(labels, scene.Text("label", itemID("label", i), s.Label, w.Anchor(center),
				scene.AnchorMiddle, scene.Style{Fill: th.Sunburst.Text, FontSize: th.FontSize}))
		}
	}
	sc.Add(labels...)
	return nil
}
