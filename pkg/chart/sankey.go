package chart

import (
	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/layout/sankey"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

const sankeyLabelGap = 6.0

func sankeyConfig(o Options, w, h float64) sankey.Config {
	cfg := sankey.DefaultConfig(w, h)
	cfg.NodeWidth = floatOr(o.NodeWidth, cfg.NodeWidth)
	cfg.NodePadding = floatOr(o.NodePadding, cfg.NodePadding)
	cfg.Curvature = floatOr(o.Curvature, cfg.Curvature)
	return cfg
}

func buildSankey(sc *scene.Scene, p Payload, th theme.Theme) error {
	top := contentTop(p)
	nodes := make([]sankey.Node, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = sankey.Node{ID: n.ID, Column: *n.Col}
	}
	links := make([]sankey.Link, len(p.Links))
	for i, l := range p.Links {
		links[i] = sankey.Link{Source: l.Source, Target: l.Target, Value: l.Value}
	}
	res, err := sankey.Layout(nodes, links, sankeyConfig(p.Options, sc.Width, sc.Height-top))
	if err != nil {
		return err
	}

	shift := geom.Point{Y: top}
	index := make(map[string]int, len(p.Nodes))
	lastCol := 0
	for i, n := range p.Nodes {
		index[n.ID] = i
		lastCol = max(lastCol, *n.Col)
	}

	alpha := floatOr(p.Options.Alpha, th.Sankey.LinkOpacity)
	for i, lr := range res.Links {
		fill := p.Links[i].Color
		if fill == "" {
			src := index[lr.Source]
			fill = stringOr(p.Nodes[src].Color, th.PaletteAt(src))
		}
		sc.Add(scene.Ribbon("link", itemID("link", i), lr.Ribbon.Translate(shift),
			scene.Style{Fill: fill, Opacity: alpha}))
	}

	showLabels := boolOr(p.Options.Labels, true)
	var labels []scene.Item
	for i, nb := range res.Nodes {
		n := p.Nodes[i]
		r := nb.Rect.Translate(shift)
		sc.Add(scene.Rect("node", n.ID, r, scene.Style{
			Fill:        stringOr(n.Color, th.Sankey.NodeFill),
			Stroke:      th.Sankey.NodeStroke,
			StrokeWidth: 1,
		}))
		if !showLabels {
			continue
		}
		at, anchor := pt(r.Right()+sankeyLabelGap, r.Center().Y), scene.AnchorStart
		if nb.Column == lastCol && lastCol > 0 {
			at, anchor = pt(r.X-sankeyLabelGap, r.Center().Y), scene.AnchorEnd
		}
		labels = append(labels, scene.Text("label", "label-"+n.ID, labelOf(n.Label, n.ID), at, anchor,
			scene.Style{Fill: th.Sankey.Text, FontSize: th.FontSize}))
	}
	sc.Add(labels...)
	return nil
}
