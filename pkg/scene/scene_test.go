package scene

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/chartgeom/pkg/geom"
)

func TestSceneCounts(t *testing.T) {
	var s Scene
	s.Add(
		Rect("tile", "a", geom.Rect{W: 1, H: 1}, Style{Fill: "#4080FF"}),
		Rect("tile", "b", geom.Rect{W: 1, H: 1}, Style{}),
		Text("label", "a", "A", geom.Point{}, AnchorMiddle, Style{}),
		Wedge("slice", "r", geom.Wedge{OuterR: 1}, geom.Point{}, Style{}),
	)

	counts := s.Counts()
	if counts[KindRect] != 2 || counts[KindText] != 1 || counts[KindWedge] != 1 {
		t.Errorf("Counts() = %v", counts)
	}
	if got := len(s.Shapes()); got != 3 {
		t.Errorf("len(Shapes()) = %d, want 3", got)
	}
}

func TestStyleAlpha(t *testing.T) {
	tests := []struct {
		opacity float64
		want    float64
	}{
		{0, 1},
		{0.7, 0.7},
		{1, 1},
		{-1, 1},
		{3, 1},
	}
	for _, tt := range tests {
		if got := (Style{Opacity: tt.opacity}).Alpha(); got != tt.want {
			t.Errorf("Alpha(%v) = %v, want %v", tt.opacity, got, tt.want)
		}
	}
}

func TestItemJSONOmitsUnusedGeometry(t *testing.T) {
	it := Rect("bar", "s0", geom.Rect{X: 1, Y: 2, W: 3, H: 4}, Style{Fill: "#fff"})
	data, err := json.Marshal(it)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, absent := range []string{"wedge", "ribbon", "polyline", "polygon"} {
		if strings.Contains(got, `"`+absent+`"`) {
			t.Errorf("JSON contains %q: %s", absent, got)
		}
	}
	if !strings.Contains(got, `"rect":{"x":1,"y":2,"w":3,"h":4}`) {
		t.Errorf("JSON missing rect: %s", got)
	}
}

func TestEllipseCenter(t *testing.T) {
	it := Ellipse("node", "n", geom.Rect{X: 0, Y: 0, W: 120, H: 50}, Style{})
	if *it.Center != (geom.Point{X: 60, Y: 25}) {
		t.Errorf("Center = %v", *it.Center)
	}
}
