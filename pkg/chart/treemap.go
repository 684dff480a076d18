package chart

import (
	"fmt"

	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/layout/squarify"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// DefaultTreemapPadding is the gap between neighbouring tiles in pixels.
const DefaultTreemapPadding = 4.0

// minLabelFrac is the share of each canvas side a tile needs for a label.
const minLabelFrac = 0.05

func buildTreemap(sc *scene.Scene, p Payload, th theme.Theme) error {
	o := p.Options
	top := contentTop(p)
	bounds := geom.Rect{
		X: canvasMargin,
		Y: top + canvasMargin,
		W: sc.Width - 2*canvasMargin,
		H: sc.Height - top - 2*canvasMargin,
	}
	values := make([]float64, len(p.Items))
	for i, it := range p.Items {
		values[i] = it.Value
	}
	tiles, err := squarify.Squarify(values, bounds, floatOr(o.PaddingPx, DefaultTreemapPadding)/2)
	if err != nil {
		return err
	}

	colors := treemapColors(p, th)
	showLabels := boolOr(o.Labels, true)
	var labels []scene.Item
	for i, r := range tiles {
		it := p.Items[i]
		sc.Add(scene.Rect("tile", itemID("tile", i), r, scene.Style{
			Fill:   colors[i],
			Stroke: th.Treemap.Border,
			Radius: th.Treemap.Radius,
		}))
		if showLabels && r.W > minLabelFrac*sc.Width && r.H > minLabelFrac*sc.Height {
			labels = append(labels, scene.Text("label", itemID("label", i),
				fmt.Sprintf("%s (%g)", it.Label, it.Value), r.Center(), scene.AnchorMiddle,
				scene.Style{Fill: th.Treemap.Text, FontSize: th.FontSize}))
		}
	}
	sc.Add(labels...)
	return nil
}

// treemapColors picks a fill per item: an explicit options palette entry
// for its group, then the theme's group color, then the theme palette
// cycled per group in order of first appearance. Ungrouped items cycle
// the palette by position.
func treemapColors(p Payload, th theme.Theme) []string {
	groupIndex := make(map[string]int)
	out := make([]string, len(p.Items))
	for i, it := range p.Items {
		if it.Group == "" {
			out[i] = th.PaletteAt(i)
			continue
		}
		if c := p.Options.Palette[it.Group]; c != "" {
			out[i] = c
			continue
		}
		if c := th.Treemap.Groups[it.Group]; c != "" {
			out[i] = c
			continue
		}
		idx, ok := groupIndex[it.Group]
		if !ok {
			idx = len(groupIndex)
			groupIndex[it.Group] = idx
		}
		out[i] = th.PaletteAt(idx)
	}
	return out
}
