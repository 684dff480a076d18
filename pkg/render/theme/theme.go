// Package theme holds the colors and stroke settings used to paint charts.
//
// A [Theme] is passed explicitly to every chart build; nothing here is
// process-wide. [Default] reproduces the stock palette, and [Load] overlays
// a TOML file on top of it so a theme file only needs the keys it changes:
//
//	name = "dark"
//	background = "#111827"
//	palette = ["#60A5FA", "#34D399", "#FBBF24"]
//
//	[sunburst]
//	base = "#1D4ED8"
//	strong = "#059669"
package theme

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/chartgeom/pkg/errors"
)

// TypeStyle paints one flow node type.
type TypeStyle struct {
	Shape string `toml:"shape" json:"shape"`
	Fill  string `toml:"fill" json:"fill"`
	Text  string `toml:"text" json:"text"`
}

// Treemap settings.
type Treemap struct {
	Groups map[string]string `toml:"groups" json:"groups,omitempty"`
	Border string            `toml:"border" json:"border"`
	Radius float64           `toml:"radius" json:"radius"`
	Text   string            `toml:"text" json:"text"`
}

// Sankey settings.
type Sankey struct {
	NodeFill    string  `toml:"node_fill" json:"node_fill"`
	NodeStroke  string  `toml:"node_stroke" json:"node_stroke"`
	LinkOpacity float64 `toml:"link_opacity" json:"link_opacity"`
	Text        string  `toml:"text" json:"text"`
}

// Flow settings.
type Flow struct {
	Types      map[string]TypeStyle `toml:"types" json:"types,omitempty"`
	ArrowColor string               `toml:"arrow_color" json:"arrow_color"`
	ArrowWidth float64              `toml:"arrow_width" json:"arrow_width"`
	LabelColor string               `toml:"label_color" json:"label_color"`
}

// Sunburst settings. Wedge colors blend from Base at the root to Strong at
// the deepest ring.
type Sunburst struct {
	Base   string `toml:"base" json:"base"`
	Strong string `toml:"strong" json:"strong"`
	Edge   string `toml:"edge" json:"edge"`
	Text   string `toml:"text" json:"text"`
}

// Funnel settings.
type Funnel struct {
	Top               string  `toml:"top" json:"top"`
	Others            string  `toml:"others" json:"others"`
	Text              string  `toml:"text" json:"text"`
	Silhouette        string  `toml:"silhouette" json:"silhouette"`
	SilhouetteOpacity float64 `toml:"silhouette_opacity" json:"silhouette_opacity"`
	Radius            float64 `toml:"radius" json:"radius"`
}

// Theme is the full set of paint settings.
type Theme struct {
	Name       string   `toml:"name" json:"name"`
	Background string   `toml:"background" json:"background"`
	Palette    []string `toml:"palette" json:"palette"`
	Text       string   `toml:"text" json:"text"`
	FontSize   float64  `toml:"font_size" json:"font_size"`

	Treemap  Treemap  `toml:"treemap" json:"treemap"`
	Sankey   Sankey   `toml:"sankey" json:"sankey"`
	Flow     Flow     `toml:"flow" json:"flow"`
	Sunburst Sunburst `toml:"sunburst" json:"sunburst"`
	Funnel   Funnel   `toml:"funnel" json:"funnel"`
}

// Default returns the stock theme.
func Default() Theme {
	return Theme{
		Name:       "default",
		Background: "#FFFFFF",
		Palette:    []string{"#4080FF", "#57A9FB", "#37D4CF", "#23C343", "#FBE842", "#FF9A2E", "#A9AEB8"},
		Text:       "#111827",
		FontSize:   11,
		Treemap: Treemap{
			Border: "#FFFFFF",
			Radius: 6,
			Text:   "#FFFFFF",
		},
		Sankey: Sankey{
			NodeFill:    "#E5E7EB",
			NodeStroke:  "#9CA3AF",
			LinkOpacity: 0.7,
			Text:        "#111827",
		},
		Flow: Flow{
			Types: map[string]TypeStyle{
				"start":    {Shape: "ellipse", Fill: "#23C343", Text: "#FFFFFF"},
				"end":      {Shape: "ellipse", Fill: "#FF9A2E", Text: "#FFFFFF"},
				"process":  {Shape: "roundrect", Fill: "#FBE842", Text: "#374151"},
				"decision": {Shape: "diamond", Fill: "#4080FF", Text: "#FFFFFF"},
			},
			ArrowColor: "#9CA3AF",
			ArrowWidth: 1.8,
			LabelColor: "#6B7280",
		},
		Sunburst: Sunburst{
			Base:   "#4080FF",
			Strong: "#23C343",
			Edge:   "#FFFFFF",
			Text:   "#374151",
		},
		Funnel: Funnel{
			Top:               "#4080FF",
			Others:            "#57A9FB",
			Text:              "#1D4ED8",
			Silhouette:        "#93C5FD",
			SilhouetteOpacity: 0.18,
			Radius:            8,
		},
	}
}

// Load reads a TOML theme file and overlays it on [Default].
func Load(path string) (Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Theme{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "theme %s", path)
		}
		return Theme{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a TOML theme and overlays it on [Default].
func Decode(r io.Reader) (Theme, error) {
	t := Default()
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "decode theme")
	}
	if err := t.Validate(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Validate checks that every color parses and the palette is not empty.
func (t Theme) Validate() error {
	if len(t.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "palette is empty")
	}
	check := func(what, c string) error {
		if c == "" {
			return nil
		}
		if !ValidColor(c) {
			return errors.New(errors.ErrCodeInvalidTheme, "%s: invalid color %q", what, c)
		}
		return nil
	}

	colors := []struct{ what, c string }{
		{"background", t.Background},
		{"text", t.Text},
		{"treemap.border", t.Treemap.Border},
		{"treemap.text", t.Treemap.Text},
		{"sankey.node_fill", t.Sankey.NodeFill},
		{"sankey.node_stroke", t.Sankey.NodeStroke},
		{"sankey.text", t.Sankey.Text},
		{"flow.arrow_color", t.Flow.ArrowColor},
		{"flow.label_color", t.Flow.LabelColor},
		{"sunburst.base", t.Sunburst.Base},
		{"sunburst.strong", t.Sunburst.Strong},
		{"sunburst.edge", t.Sunburst.Edge},
		{"sunburst.text", t.Sunburst.Text},
		{"funnel.top", t.Funnel.Top},
		{"funnel.others", t.Funnel.Others},
		{"funnel.text", t.Funnel.Text},
		{"funnel.silhouette", t.Funnel.Silhouette},
	}
	for i, c := range t.Palette {
		colors = append(colors, struct{ what, c string }{fmt.Sprintf("palette[%d]", i), c})
	}
	for g, c := range t.Treemap.Groups {
		colors = append(colors, struct{ what, c string }{"treemap.groups." + g, c})
	}
	for typ, s := range t.Flow.Types {
		if !ValidShape(s.Shape) {
			return errors.New(errors.ErrCodeInvalidTheme, "flow.types.%s.shape: unknown shape %q", typ, s.Shape)
		}
		colors = append(colors,
			struct{ what, c string }{"flow.types." + typ + ".fill", s.Fill},
			struct{ what, c string }{"flow.types." + typ + ".text", s.Text},
		)
	}
	for _, c := range colors {
		if err := check(c.what, c.c); err != nil {
			return err
		}
	}
	return nil
}

// ValidColor reports whether c is a hex color such as "#4080FF" or "#48F".
func ValidColor(c string) bool {
	_, err := colorful.Hex(c)
	return err == nil
}

// ValidShape reports whether s names a flow node shape. The empty string
// means the default shape.
func ValidShape(s string) bool {
	switch s {
	case "", "roundrect", "ellipse", "diamond":
		return true
	}
	return false
}

// PaletteAt cycles through the palette.
func (t Theme) PaletteAt(i int) string {
	if len(t.Palette) == 0 {
		return Default().Palette[i%len(Default().Palette)]
	}
	return t.Palette[i%len(t.Palette)]
}

// Blend mixes two hex colors in RGB space; t=0 yields a and t=1 yields b.
// t is clamped to [0, 1].
func Blend(a, b string, t float64) (string, error) {
	ca, err := colorful.Hex(a)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidTheme, "invalid color %q", a)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidTheme, "invalid color %q", b)
	}
	t = min(max(t, 0), 1)
	return ca.BlendRgb(cb, t).Hex(), nil
}

// DepthColor returns the sunburst color for a ring at depth out of
// maxDepth levels.
func (t Theme) DepthColor(depth, maxDepth int) (string, error) {
	return Blend(t.Sunburst.Base, t.Sunburst.Strong, float64(depth)/float64(max(1, maxDepth)))
}
