package sink

import (
	"testing"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

func TestRenderJSONRoundTrip(t *testing.T) {
	sc := testScene()
	sc.Diagnostics = scene.Diagnostics{Passes: 3, Cycles: []string{"a->b"}}

	data, err := RenderJSON(sc)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if len(got.Items) != len(sc.Items) {
		t.Fatalf("items = %d, want %d", len(got.Items), len(sc.Items))
	}
	if got.Items[0].Rect == nil || *got.Items[0].Rect != *sc.Items[0].Rect {
		t.Errorf("rect = %+v, want %+v", got.Items[0].Rect, sc.Items[0].Rect)
	}
	if got.Items[4].Text != "a < b" {
		t.Errorf("text = %q", got.Items[4].Text)
	}
	if got.Diagnostics.Passes != 3 || len(got.Diagnostics.Cycles) != 1 {
		t.Errorf("diagnostics lost: %+v", got.Diagnostics)
	}
	// SVG output from the parsed scene matches the original.
	if string(RenderSVG(got)) != string(RenderSVG(sc)) {
		t.Error("SVG differs after round trip")
	}
}

func TestParseJSONError(t *testing.T) {
	if _, err := ParseJSON([]byte("{")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}
