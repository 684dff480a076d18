package chart

import (
	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/layout/funnel"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

const funnelLabelSize = 12.0

func funnelConfig(o Options, w, h float64) funnel.Config {
	cfg := funnel.DefaultConfig(w, h)
	cfg.BarHeight = floatOr(o.BarHeight, cfg.BarHeight)
	cfg.Gap = floatOr(o.Gap, cfg.Gap)
	cfg.MinWidth = floatOr(o.MinWidth, cfg.MinWidth)
	cfg.Silhouette = boolOr(o.Silhouette, cfg.Silhouette)
	if !boolOr(o.Normalize, true) {
		cfg.Base = funnel.BaseMax
	}
	return cfg
}

func buildFunnel(sc *scene.Scene, p Payload, th theme.Theme) error {
	o := p.Options
	top := contentTop(p)
	values := make([]float64, len(p.Stages))
	for i, s := range p.Stages {
		values[i] = s.Value
	}
	res, err := funnel.Build(values, funnelConfig(o, sc.Width, sc.Height-top))
	if err != nil {
		return err
	}
	shift := geom.Point{Y: top}

	silhouette := scene.Style{
		Fill:    stringOr(o.SilhouetteColor, th.Funnel.Silhouette),
		Opacity: floatOr(o.SilhouetteAlpha, th.Funnel.SilhouetteOpacity),
	}
	for i, poly := range res.Silhouette {
		sc.Add(scene.Polygon("silhouette", itemID("silhouette", i), poly.Translate(shift), silhouette))
	}

	radius := floatOr(o.RoundPx, th.Funnel.Radius)
	text := scene.Style{Fill: stringOr(o.TextColor, th.Funnel.Text), FontSize: funnelLabelSize}
	var labels []scene.Item
	for i, st := range res.Stages {
		fill := stringOr(o.ColorOthers, th.Funnel.Others)
		if i == 0 {
			fill = stringOr(o.ColorTop, th.Funnel.Top)
		}
		r := st.Rect.Translate(shift)
		sc.Add(scene.Rect("stage", itemID("stage", i), r, scene.Style{Fill: fill, Radius: min(radius, r.H/2, r.W/2)}))
		if boolOr(o.Labels, true) {
			labels = append(labels, scene.Text("label", itemID("label", i), p.Stages[i].Label, r.Center(), scene.AnchorMiddle, text))
		}
	}
	sc.Add(labels...)
	return nil
}
