package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

const hoverCSS = `
    .item { transition: opacity 0.2s ease; }
    .item:hover { opacity: 0.8; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background bool
	hover      bool
	ids        bool
}

// WithoutBackground leaves the canvas transparent.
func WithoutBackground() SVGOption { return func(r *svgRenderer) { r.background = false } }

// WithHover adds a small stylesheet that dims shapes under the pointer.
func WithHover() SVGOption { return func(r *svgRenderer) { r.hover = true } }

// WithIDs writes item ids as element id attributes.
func WithIDs() SVGOption { return func(r *svgRenderer) { r.ids = true } }

// RenderSVG writes the scene as a standalone SVG document. Items are
// emitted in paint order.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{background: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(sc.Width), num(sc.Height), sc.Width, sc.Height)
	if sc.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(sc.Title))
	}
	if r.hover {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", hoverCSS)
	}
	if r.background && sc.Background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
			num(sc.Width), num(sc.Height), sc.Background)
	}
	for _, it := range sc.Items {
		r.item(&buf, it)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) item(buf *bytes.Buffer, it scene.Item) {
	attrs := r.common(it)
	switch it.Kind {
	case scene.KindRect:
		b := *it.Rect
		rx := ""
		if it.Style.Radius > 0 {
			rx = fmt.Sprintf(` rx="%s"`, num(it.Style.Radius))
		}
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s"%s%s/>`+"\n",
			num(b.X), num(b.Y), num(b.W), num(b.H), rx, attrs)
	case scene.KindEllipse:
		b := *it.Rect
		c := b.Center()
		fmt.Fprintf(buf, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n",
			num(c.X), num(c.Y), num(b.W/2), num(b.H/2), attrs)
	case scene.KindWedge:
		fmt.Fprintf(buf, `  <path d="%s"%s/>`+"\n", WedgePath(*it.Wedge, *it.Center), attrs)
	case scene.KindRibbon:
		fmt.Fprintf(buf, `  <path d="%s"%s/>`+"\n", RibbonPath(*it.Ribbon), attrs)
	case scene.KindPolyline:
		fmt.Fprintf(buf, `  <polyline points="%s"%s/>`+"\n", points(it.Polyline.Points), attrs)
	case scene.KindPolygon:
		fmt.Fprintf(buf, `  <polygon points="%s"%s/>`+"\n", points(it.Polygon.Points), attrs)
	case scene.KindText:
		anchor := it.Anchor
		if anchor == "" {
			anchor = scene.AnchorStart
		}
		weight := ""
		if it.Style.Bold {
			weight = ` font-weight="bold"`
		}
		fmt.Fprintf(buf, `  <text x="%s" y="%s" text-anchor="%s" dominant-baseline="middle" font-family="sans-serif" font-size="%s"%s%s>%s</text>`+"\n",
			num(it.At.X), num(it.At.Y), anchor, num(it.Style.FontSize), weight, attrs, html.EscapeString(it.Text))
	}
}

func (r svgRenderer) common(it scene.Item) string {
	var sb strings.Builder
	if r.ids && it.ID != "" {
		fmt.Fprintf(&sb, ` id="%s"`, html.EscapeString(it.ID))
	}
	if r.hover && it.Kind != scene.KindText {
		sb.WriteString(` class="item"`)
	}
	st := it.Style
	fill := st.Fill
	if fill == "" || it.Kind == scene.KindPolyline {
		fill = "none"
	}
	fmt.Fprintf(&sb, ` fill="%s"`, fill)
	if st.Stroke != "" {
		width := st.StrokeWidth
		if width <= 0 {
			width = 1
		}
		fmt.Fprintf(&sb, ` stroke="%s" stroke-width="%s"`, st.Stroke, num(width))
		if it.Kind == scene.KindPolyline {
			sb.WriteString(` stroke-linejoin="round"`)
		}
	}
	if a := st.Alpha(); a < 1 {
		fmt.Fprintf(&sb, ` opacity="%s"`, num(a))
	}
	return sb.String()
}

// WedgePath returns SVG path data for an annular sector centered on c.
// Angles run counter-clockwise on screen. A full ring is drawn as two
// half arcs per edge since a single SVG arc cannot close on itself.
func WedgePath(w geom.Wedge, c geom.Point) string {
	span := w.Span()
	if span >= 2*math.Pi-1e-9 {
		mid := w.Start + math.Pi
		var sb strings.Builder
		// The inner circle runs the other way so the hole stays empty
		// under the nonzero fill rule.
		arcs := func(r float64, sweep int) {
			a, b := geom.Polar(c, r, w.Start), geom.Polar(c, r, mid)
			fmt.Fprintf(&sb, "M%s,%s A%s,%s 0 1 %d %s,%s A%s,%s 0 1 %d %s,%s Z ",
				num(a.X), num(a.Y), num(r), num(r), sweep, num(b.X), num(b.Y), num(r), num(r), sweep, num(a.X), num(a.Y))
		}
		arcs(w.OuterR, 0)
		if w.InnerR > 0 {
			arcs(w.InnerR, 1)
		}
		return strings.TrimSpace(sb.String())
	}

	large := 0
	if span > math.Pi {
		large = 1
	}
	o0, o1 := geom.Polar(c, w.OuterR, w.Start), geom.Polar(c, w.OuterR, w.End)
	path := fmt.Sprintf("M%s,%s A%s,%s 0 %d 0 %s,%s",
		num(o0.X), num(o0.Y), num(w.OuterR), num(w.OuterR), large, num(o1.X), num(o1.Y))
	if w.InnerR <= 0 {
		return path + fmt.Sprintf(" L%s,%s Z", num(c.X), num(c.Y))
	}
	i1, i0 := geom.Polar(c, w.InnerR, w.End), geom.Polar(c, w.InnerR, w.Start)
	return path + fmt.Sprintf(" L%s,%s A%s,%s 0 %d 1 %s,%s Z",
		num(i1.X), num(i1.Y), num(w.InnerR), num(w.InnerR), large, num(i0.X), num(i0.Y))
}

// RibbonPath returns SVG path data for a ribbon: the upper Bezier edge,
// down by the thickness, and the lower edge back.
func RibbonPath(r geom.Ribbon) string {
	if len(r.Path) != 4 {
		return ""
	}
	u, l := r.Path, r.Lower()
	return fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s L%s,%s C%s,%s %s,%s %s,%s Z",
		num(u[0].X), num(u[0].Y), num(u[1].X), num(u[1].Y), num(u[2].X), num(u[2].Y), num(u[3].X), num(u[3].Y),
		num(l[3].X), num(l[3].Y), num(l[2].X), num(l[2].Y), num(l[1].X), num(l[1].Y), num(l[0].X), num(l[0].Y))
}

func points(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
