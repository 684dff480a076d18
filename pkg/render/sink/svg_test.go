package sink

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

func testScene() *scene.Scene {
	sc := &scene.Scene{Kind: "test", Title: "A & B", Width: 200, Height: 100, Background: "#FFFFFF"}
	sc.Add(
		scene.Rect("tile", "t0", geom.Rect{X: 10, Y: 10, W: 80, H: 40}, scene.Style{Fill: "#FF0000", Radius: 4}),
		scene.Ellipse("node", "e0", geom.Rect{X: 100, Y: 10, W: 60, H: 30}, scene.Style{Fill: "#00FF00"}),
		scene.Polyline("edge", "l0", geom.Polyline{Points: []geom.Point{{X: 0, Y: 90}, {X: 50, Y: 90}}},
			scene.Style{Stroke: "#0000FF", StrokeWidth: 2}),
		scene.Polygon("arrow", "p0", geom.Polygon{Points: []geom.Point{{X: 50, Y: 85}, {X: 58, Y: 90}, {X: 50, Y: 95}}},
			scene.Style{Fill: "#0000FF", Opacity: 0.5}),
		scene.Text("label", "x0", "a < b", geom.Point{X: 50, Y: 30}, scene.AnchorMiddle, scene.Style{Fill: "#111111", FontSize: 11, Bold: true}),
	)
	return sc
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testScene()))

	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`<title>A &amp; B</title>`,
		`<rect x="0" y="0" width="200" height="100" fill="#FFFFFF"/>`,
		`<rect x="10" y="10" width="80" height="40" rx="4" fill="#FF0000"/>`,
		`<ellipse cx="130" cy="25" rx="30" ry="15" fill="#00FF00"/>`,
		`<polyline points="0,90 50,90" fill="none" stroke="#0000FF" stroke-width="2" stroke-linejoin="round"/>`,
		`opacity="0.5"`,
		`text-anchor="middle"`,
		`font-weight="bold"`,
		`>a &lt; b</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
	// Paint order is preserved.
	if strings.Index(svg, "<ellipse") > strings.Index(svg, "<polyline") {
		t.Error("items out of order")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testScene(), WithoutBackground(), WithHover(), WithIDs()))
	if strings.Contains(svg, `width="200" height="100" fill="#FFFFFF"`) {
		t.Error("background drawn with WithoutBackground")
	}
	if !strings.Contains(svg, "<style>") || !strings.Contains(svg, `class="item"`) {
		t.Error("hover styles missing")
	}
	if !strings.Contains(svg, `id="t0"`) {
		t.Error("ids missing")
	}
}

func TestWedgePath(t *testing.T) {
	tests := []struct {
		name string
		w    geom.Wedge
		want string
	}{
		{
			"quarter ring",
			geom.Wedge{InnerR: 1, OuterR: 2, Start: 0, End: math.Pi / 2},
			"M2,0 A2,2 0 0 0 0,-2 L0,-1 A1,1 0 0 1 1,0 Z",
		},
		{
			"pie slice",
			geom.Wedge{OuterR: 2, Start: 0, End: math.Pi / 2},
			"M2,0 A2,2 0 0 0 0,-2 L0,0 Z",
		},
		{
			"large arc",
			geom.Wedge{InnerR: 1, OuterR: 2, Start: 0, End: 1.5 * math.Pi},
			"M2,0 A2,2 0 1 0 0,2 L0,1 A1,1 0 1 1 1,0 Z",
		},
		{
			"full ring",
			geom.Wedge{InnerR: 1, OuterR: 2, Start: 0, End: 2 * math.Pi},
			"M2,0 A2,2 0 1 0 -2,0 A2,2 0 1 0 2,0 Z M1,0 A1,1 0 1 1 -1,0 A1,1 0 1 1 1,0 Z",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WedgePath(tt.w, geom.Point{}); got != tt.want {
				t.Errorf("WedgePath() = %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRibbonPath(t *testing.T) {
	r := geom.Ribbon{Path: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 10}, {X: 10, Y: 10}}, Thickness: 2}
	want := "M0,0 C5,0 5,10 10,10 L10,12 C5,12 5,2 0,2 Z"
	if got := RibbonPath(r); got != want {
		t.Errorf("RibbonPath() = %q, want %q", got, want)
	}
	if got := RibbonPath(geom.Ribbon{}); got != "" {
		t.Errorf("RibbonPath(empty) = %q", got)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-0.001, "0"},
		{2.5, "2.5"},
		{1.23456, "1.23"},
		{880, "880"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
