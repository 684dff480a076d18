package chart

import (
	"fmt"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
)

// Validate checks a payload before layout. Errors carry
// [errors.ErrCodeInvalidKind] for an unknown kind and
// [errors.ErrCodeInvalidShape] otherwise, with a message naming the
// offending element such as "links[2]". The payload is not modified.
func Validate(p Payload) error {
	if !p.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidKind, "unknown chart kind %q", p.Kind)
	}
	if err := validateOptions(p.Options); err != nil {
		return err
	}
	switch p.Kind {
	case KindTreemap:
		return validateTreemap(p)
	case KindSankey:
		return validateSankey(p)
	case KindFlow:
		return validateFlow(p)
	case KindSunburst:
		return validateSunburst(p)
	default:
		return validateFunnel(p)
	}
}

func validateOptions(o Options) error {
	for _, f := range []struct {
		what string
		v    *float64
	}{
		{"options.width", o.Width},
		{"options.height", o.Height},
		{"options.ring_thickness", o.RingThickness},
		{"options.bar_height", o.BarHeight},
	} {
		if f.v == nil {
			continue
		}
		if err := errors.ValidatePositive(f.what, *f.v); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		what string
		v    *float64
	}{
		{"options.padding_px", o.PaddingPx},
		{"options.node_width", o.NodeWidth},
		{"options.node_padding", o.NodePadding},
		{"options.inner_hole_frac", o.InnerHoleFrac},
		{"options.gap_deg", o.GapDeg},
		{"options.gap", o.Gap},
		{"options.min_width", o.MinWidth},
		{"options.round_px", o.RoundPx},
		{"options.alpha", o.Alpha},
		{"options.silhouette_alpha", o.SilhouetteAlpha},
	} {
		if f.v == nil {
			continue
		}
		if err := errors.ValidateNonNegative(f.what, *f.v); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		what string
		v    *float64
	}{
		{"options.curvature", o.Curvature},
		{"options.start_angle", o.StartAngle},
		{"options.lane_spacing_px", o.LaneSpacing},
		{"options.row_spacing_px", o.RowSpacing},
	} {
		if f.v == nil {
			continue
		}
		if err := errors.ValidateFinite(f.what, *f.v); err != nil {
			return err
		}
	}
	colors := []struct{ what, c string }{
		{"options.arrow_color", o.ArrowColor},
		{"options.colors_base", o.ColorsBase},
		{"options.colors_strong", o.ColorsStrong},
		{"options.color_top", o.ColorTop},
		{"options.color_others", o.ColorOthers},
		{"options.silhouette_color", o.SilhouetteColor},
		{"options.text_color", o.TextColor},
	}
	for g, c := range o.Palette {
		colors = append(colors, struct{ what, c string }{fmt.Sprintf("options.palette[%q]", g), c})
	}
	for typ, ts := range o.TypeStyles {
		colors = append(colors,
			struct{ what, c string }{fmt.Sprintf("options.type_styles[%q].fill", typ), ts.Fill},
			struct{ what, c string }{fmt.Sprintf("options.type_styles[%q].text", typ), ts.Text},
		)
	}
	for _, c := range colors {
		if c.c != "" && !theme.ValidColor(c.c) {
			return errors.Shape("%s: invalid color %q", c.what, c.c)
		}
	}
	if o.MaxPasses != nil && *o.MaxPasses < 1 {
		return errors.Shape("options.max_passes must be >= 1, got %d", *o.MaxPasses)
	}
	return nil
}

func validateTreemap(p Payload) error {
	if len(p.Items) == 0 {
		return errors.Shape("treemap: missing items")
	}
	for i, it := range p.Items {
		if err := errors.ValidatePositive(fmt.Sprintf("items[%d].value", i), it.Value); err != nil {
			return err
		}
	}
	return nil
}

func validateSankey(p Payload) error {
	if len(p.Nodes) == 0 {
		return errors.Shape("sankey: missing nodes")
	}
	if len(p.Links) == 0 {
		return errors.Shape("sankey: missing links")
	}
	cols := make(map[string]int, len(p.Nodes))
	for i, n := range p.Nodes {
		if err := errors.ValidateID(fmt.Sprintf("nodes[%d].id", i), n.ID); err != nil {
			return err
		}
		if n.Col == nil {
			return errors.Shape("nodes[%d] needs id and col", i)
		}
		if *n.Col < 0 {
			return errors.Shape("nodes[%d].col must be >= 0, got %d", i, *n.Col)
		}
		if _, dup := cols[n.ID]; dup {
			return errors.Shape("nodes[%d]: duplicate id %q", i, n.ID)
		}
		cols[n.ID] = *n.Col
	}
	for j, l := range p.Links {
		sc, ok := cols[l.Source]
		if !ok {
			return errors.Shape("links[%d] references unknown node %q", j, l.Source)
		}
		tc, ok := cols[l.Target]
		if !ok {
			return errors.Shape("links[%d] references unknown node %q", j, l.Target)
		}
		if d := sc - tc; d != 1 && d != -1 {
			return errors.Shape("links[%d] must connect adjacent columns (%d -> %d)", j, sc, tc)
		}
		if err := errors.ValidatePositive(fmt.Sprintf("links[%d].value", j), l.Value); err != nil {
			return err
		}
	}
	return nil
}

func validateFlow(p Payload) error {
	if len(p.Nodes) == 0 {
		return errors.Shape("flow: missing nodes")
	}
	ids := make(map[string]bool, len(p.Nodes))
	for i, n := range p.Nodes {
		if err := errors.ValidateID(fmt.Sprintf("nodes[%d].id", i), n.ID); err != nil {
			return err
		}
		if ids[n.ID] {
			return errors.Shape("nodes[%d]: duplicate id %q", i, n.ID)
		}
		ids[n.ID] = true
	}
	for j, e := range p.Edges {
		if !ids[e.From] || !ids[e.To] {
			return errors.Shape("edges[%d] references unknown node", j)
		}
	}
	for typ, ts := range p.Options.TypeStyles {
		if !theme.ValidShape(ts.Shape) {
			return errors.Shape("options.type_styles[%q]: unknown shape %q", typ, ts.Shape)
		}
	}
	for id, lane := range p.Options.LaneOverride {
		if !ids[id] {
			return errors.Shape("options.lane_override: unknown node %q", id)
		}
		if lane < 0 {
			return errors.Shape("options.lane_override[%q] must be >= 0, got %d", id, lane)
		}
	}
	return nil
}

func validateSunburst(p Payload) error {
	if p.Root == nil {
		return errors.Shape("sunburst: missing root")
	}
	type entry struct {
		path string
		node *HierNode
	}
	stack := []entry{{"root", p.Root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := errors.ValidateNonNegative(e.path+".value", e.node.Value); err != nil {
			return err
		}
		for i := range e.node.Children {
			stack = append(stack, entry{fmt.Sprintf("%s.children[%d]", e.path, i), &e.node.Children[i]})
		}
	}
	return nil
}

func validateFunnel(p Payload) error {
	if len(p.Stages) == 0 {
		return errors.Shape("funnel: missing stages")
	}
	for i, s := range p.Stages {
		if err := errors.ValidatePositive(fmt.Sprintf("stages[%d].value", i), s.Value); err != nil {
			return err
		}
	}
	return nil
}
