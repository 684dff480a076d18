package funnel

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/geom"
)

const tol = 1e-9

func TestWidths(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		base     Base
		minWidth float64
		want     []float64
		ref      float64
	}{
		{"first base", []float64{100, 80, 50, 20}, BaseFirst, 0, []float64{1, 0.8, 0.5, 0.2}, 100},
		{"max base", []float64{50, 200, 100}, BaseMax, 0, []float64{0.25, 1, 0.5}, 200},
		{"first base clamps growth", []float64{50, 200}, BaseFirst, 0, []float64{1, 1}, 50},
		{"min width", []float64{1000, 1}, BaseFirst, 0.02, []float64{1, 0.02}, 1000},
		{"single stage", []float64{7}, BaseMax, 0.02, []float64{1}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ref, err := Widths(tt.values, tt.base, tt.minWidth)
			if err != nil {
				t.Fatalf("Widths() error = %v", err)
			}
			if ref != tt.ref {
				t.Errorf("base = %v, want %v", ref, tt.ref)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > tol {
					t.Errorf("Widths() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestWidthsMonotone(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 2))
	for c := 0; c < 200; c++ {
		values := make([]float64, 1+rng.IntN(10))
		for i := range values {
			values[i] = 0.001 + rng.Float64()*1000
		}
		slices.SortFunc(values, func(a, b float64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			}
			return 0
		})
		for _, base := range []Base{BaseFirst, BaseMax} {
			got, _, err := Widths(values, base, DefaultMinWidth)
			if err != nil {
				t.Fatal(err)
			}
			for i := 1; i < len(got); i++ {
				if got[i] > got[i-1] {
					t.Fatalf("case %d base %v: widths %v not non-increasing", c, base, got)
				}
			}
		}
	}
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig(1000, 500)
	res, err := Build([]float64{100, 80, 50, 20}, cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(res.Stages) != 4 || len(res.Silhouette) != 3 {
		t.Fatalf("stages=%d silhouette=%d", len(res.Stages), len(res.Silhouette))
	}

	// 4 bars of 60 and 3 gaps of 30: 330 tall, centered in 500.
	wantY := []float64{85, 175, 265, 355}
	wantW := []float64{1000, 800, 500, 200}
	for i, s := range res.Stages {
		if math.Abs(s.Rect.Y-wantY[i]) > tol || math.Abs(s.Rect.H-60) > tol {
			t.Errorf("stage %d y=%v h=%v, want y=%v h=60", i, s.Rect.Y, s.Rect.H, wantY[i])
		}
		if math.Abs(s.Rect.W-wantW[i]) > tol {
			t.Errorf("stage %d w=%v, want %v", i, s.Rect.W, wantW[i])
		}
		if math.Abs(s.Rect.Center().X-500) > tol {
			t.Errorf("stage %d not centered: %v", i, s.Rect.Center().X)
		}
	}

	trap := res.Silhouette[0]
	want := []geom.Point{{X: 0, Y: 115}, {X: 1000, Y: 115}, {X: 900, Y: 205}, {X: 100, Y: 205}}
	for i, p := range trap.Points {
		if math.Abs(p.X-want[i].X) > tol || math.Abs(p.Y-want[i].Y) > tol {
			t.Errorf("trapezoid = %v, want %v", trap.Points, want)
			break
		}
	}
}

func TestBuildWithoutSilhouette(t *testing.T) {
	cfg := DefaultConfig(100, 100)
	cfg.Silhouette = false
	res, err := Build([]float64{3, 2, 1}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Silhouette != nil {
		t.Errorf("Silhouette = %v, want none", res.Silhouette)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		cfg    func(*Config)
		code   errors.Code
	}{
		{"empty", nil, nil, errors.ErrCodeInvalidShape},
		{"zero", []float64{10, 0}, nil, errors.ErrCodeInvalidShape},
		{"negative", []float64{-1}, nil, errors.ErrCodeInvalidShape},
		{"flat extent", []float64{1}, func(c *Config) { c.Height = 0 }, errors.ErrCodeLayout},
		{"zero bar", []float64{1}, func(c *Config) { c.BarHeight = 0 }, errors.ErrCodeLayout},
		{"min width above one", []float64{1}, func(c *Config) { c.MinWidth = 1.5 }, errors.ErrCodeLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(100, 100)
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			res, err := Build(tt.values, cfg)
			if err == nil {
				t.Fatalf("Build() = %+v, want error", res)
			}
			if res != nil {
				t.Error("partial result returned")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}
