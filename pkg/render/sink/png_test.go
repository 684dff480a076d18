package sink

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

func TestRenderPNG(t *testing.T) {
	sc := &scene.Scene{Width: 100, Height: 50, Background: "#FFFFFF"}
	sc.Add(
		scene.Rect("tile", "t0", geom.Rect{X: 10, Y: 10, W: 40, H: 30}, scene.Style{Fill: "#FF0000"}),
		scene.Wedge("wedge", "w0", geom.Wedge{InnerR: 5, OuterR: 15, End: math.Pi}, geom.Point{X: 75, Y: 30}, scene.Style{Fill: "#0000FF", Stroke: "#000000"}),
		scene.Text("label", "l0", "skipped", geom.Point{X: 5, Y: 5}, scene.AnchorStart, scene.Style{}),
	)

	data, err := RenderPNG(sc)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("size = %dx%d, want 200x100 at 2x", b.Dx(), b.Dy())
	}

	r, g, b, _ := img.At(60, 50).RGBA()
	if r>>8 < 200 || g>>8 > 60 || b>>8 > 60 {
		t.Errorf("tile center = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(2, 98).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("corner = (%d,%d,%d), want background", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGScale(t *testing.T) {
	sc := &scene.Scene{Width: 30, Height: 20}
	data, err := RenderPNG(sc, WithScale(1), WithTransparentBackground())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 20 {
		t.Errorf("size = %dx%d, want 30x20", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGErrors(t *testing.T) {
	sc := &scene.Scene{Width: 30, Height: 20}
	if _, err := RenderPNG(sc, WithScale(0)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero scale: err = %v, want INVALID_INPUT", err)
	}
	if _, err := RenderPNG(&scene.Scene{}); !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("empty canvas: err = %v, want LAYOUT_ERROR", err)
	}
}
