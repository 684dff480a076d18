package sink

import (
	"bytes"
	"math"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// DefaultScale is the default PNG resolution multiplier.
const DefaultScale = 2.0

// wedgeSegments is the number of steps used to approximate a wedge arc.
const wedgeSegments = 96

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithTransparentBackground skips painting the scene background.
func WithTransparentBackground() PNGOption {
	return func(r *pngRenderer) { r.background = false }
}

// RenderPNG rasterizes the scene with the pure-Go gg renderer. Text items
// are skipped: glyph shaping needs font files, so labelled output should
// use SVG or PDF.
func RenderPNG(sc *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultScale, background: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png: invalid scale %g", r.scale)
	}
	w := int(math.Ceil(sc.Width * r.scale))
	h := int(math.Ceil(sc.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.Layout("png: empty canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	if r.background && sc.Background != "" {
		dc.ClearWithColor(gg.Hex(sc.Background))
	}

	p := painter{dc: dc, s: r.scale}
	for _, it := range sc.Items {
		if err := p.item(it); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type painter struct {
	dc *gg.Context
	s  float64
}

func (p painter) item(it scene.Item) error {
	switch it.Kind {
	case scene.KindRect:
		b := *it.Rect
		if it.Style.Radius > 0 {
			p.dc.DrawRoundedRectangle(b.X*p.s, b.Y*p.s, b.W*p.s, b.H*p.s, it.Style.Radius*p.s)
		} else {
			p.dc.DrawRectangle(b.X*p.s, b.Y*p.s, b.W*p.s, b.H*p.s)
		}
	case scene.KindEllipse:
		c := it.Rect.Center()
		p.dc.DrawEllipse(c.X*p.s, c.Y*p.s, it.Rect.W/2*p.s, it.Rect.H/2*p.s)
	case scene.KindWedge:
		p.polygon(it.Wedge.Outline(*it.Center, wedgeSegments).Points, true)
	case scene.KindRibbon:
		p.ribbon(*it.Ribbon)
	case scene.KindPolyline:
		p.polygon(it.Polyline.Points, false)
		return p.stroke(it.Style)
	case scene.KindPolygon:
		p.polygon(it.Polygon.Points, true)
	default:
		return nil
	}
	return p.paint(it.Style)
}

func (p painter) polygon(pts []geom.Point, closed bool) {
	for i, q := range pts {
		if i == 0 {
			p.dc.MoveTo(q.X*p.s, q.Y*p.s)
			continue
		}
		p.dc.LineTo(q.X*p.s, q.Y*p.s)
	}
	if closed && len(pts) > 0 {
		p.dc.ClosePath()
	}
}

func (p painter) ribbon(r geom.Ribbon) {
	if len(r.Path) != 4 {
		return
	}
	u, l := r.Path, r.Lower()
	p.dc.MoveTo(u[0].X*p.s, u[0].Y*p.s)
	p.dc.CubicTo(u[1].X*p.s, u[1].Y*p.s, u[2].X*p.s, u[2].Y*p.s, u[3].X*p.s, u[3].Y*p.s)
	p.dc.LineTo(l[3].X*p.s, l[3].Y*p.s)
	p.dc.CubicTo(l[2].X*p.s, l[2].Y*p.s, l[1].X*p.s, l[1].Y*p.s, l[0].X*p.s, l[0].Y*p.s)
	p.dc.ClosePath()
}

// paint fills the current path and strokes it when the style has a stroke.
func (p painter) paint(st scene.Style) error {
	if st.Stroke == "" {
		if !p.setColor(st.Fill, st.Alpha()) {
			p.dc.ClearPath()
			return nil
		}
		return p.dc.Fill()
	}
	if p.setColor(st.Fill, st.Alpha()) {
		if err := p.dc.FillPreserve(); err != nil {
			return err
		}
	}
	return p.stroke(st)
}

func (p painter) stroke(st scene.Style) error {
	if !p.setColor(st.Stroke, st.Alpha()) {
		p.dc.ClearPath()
		return nil
	}
	width := st.StrokeWidth
	if width <= 0 {
		width = 1
	}
	p.dc.SetLineWidth(width * p.s)
	return p.dc.Stroke()
}

// setColor selects a hex color; it reports false for no color.
func (p painter) setColor(hex string, alpha float64) bool {
	if hex == "" {
		return false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	p.dc.SetRGBA(c.R, c.G, c.B, alpha)
	return true
}
