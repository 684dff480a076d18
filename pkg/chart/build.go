package chart

import (
	"fmt"

	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// Canvas layout constants shared by the builders.
const (
	canvasMargin = 8.0
	titleBand    = 32.0
	titleSize    = 16.0
)

// Build validates p, runs the layout for its kind and returns a styled
// scene. Layout failures are returned unchanged, so callers can test them
// with errors.Is against ErrCodeInvalidShape or ErrCodeLayout.
func Build(p Payload, th theme.Theme) (*scene.Scene, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	w, h := p.Options.Size()
	sc := &scene.Scene{
		Kind:       string(p.Kind),
		Title:      p.Title,
		Width:      w,
		Height:     h,
		Background: th.Background,
	}

	var err error
	switch p.Kind {
	case KindTreemap:
		err = buildTreemap(sc, p, th)
	case KindSankey:
		err = buildSankey(sc, p, th)
	case KindFlow:
		err = buildFlow(sc, p, th)
	case KindSunburst:
		err = buildSunburst(sc, p, th)
	case KindFunnel:
		err = buildFunnel(sc, p, th)
	}
	if err != nil {
		return nil, err
	}
	if p.Title != "" {
		sc.Add(scene.Text("title", "title", p.Title,
			pt(sc.Width/2, titleBand/2+titleSize/3), scene.AnchorMiddle,
			scene.Style{Fill: th.Text, FontSize: titleSize, Bold: true}))
	}
	return sc, nil
}

// contentTop returns the y coordinate below the title band.
func contentTop(p Payload) float64 {
	if p.Title != "" {
		return titleBand
	}
	return 0
}

func labelOf(label, id string) string {
	if label != "" {
		return label
	}
	return id
}

func itemID(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }
