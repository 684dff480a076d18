// Package scene describes render-ready charts.
//
// A [Scene] is an ordered list of styled geometric items produced by the
// chart builder. Items are painted in order, so later items sit on top.
// Sinks in [github.com/matzehuels/chartgeom/pkg/render/sink] turn a scene
// into SVG, PNG, PDF or JSON without knowing which chart produced it.
package scene

import "github.com/matzehuels/chartgeom/pkg/geom"

// Kind is the geometric primitive an item carries.
type Kind string

// Item kinds.
const (
	KindRect     Kind = "rect"
	KindWedge    Kind = "wedge"
	KindRibbon   Kind = "ribbon"
	KindPolyline Kind = "polyline"
	KindPolygon  Kind = "polygon"
	KindEllipse  Kind = "ellipse"
	KindText     Kind = "text"
)

// Anchor is the horizontal alignment of a text item.
type Anchor string

// Text anchors.
const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Style is the paint applied to an item. Colors are CSS hex strings; an
// empty color means none.
type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"` // 0 means opaque
	Radius      float64 `json:"radius,omitempty"`  // Corner radius for rects
	FontSize    float64 `json:"font_size,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
}

// Alpha returns the effective opacity in [0, 1].
func (s Style) Alpha() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// Item is one painted element. Exactly one geometry field matching Kind
// is set. Text items use Text and At.
type Item struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id,omitempty"`
	Role  string `json:"role,omitempty"` // e.g. "tile", "link", "edge", "arrow", "label"
	Style Style  `json:"style"`

	Rect     *geom.Rect     `json:"rect,omitempty"`
	Wedge    *geom.Wedge    `json:"wedge,omitempty"`
	Center   *geom.Point    `json:"center,omitempty"` // Wedge and ellipse center
	Ribbon   *geom.Ribbon   `json:"ribbon,omitempty"`
	Polyline *geom.Polyline `json:"polyline,omitempty"`
	Polygon  *geom.Polygon  `json:"polygon,omitempty"`

	Text   string     `json:"text,omitempty"`
	At     geom.Point `json:"at"`
	Anchor Anchor     `json:"anchor,omitempty"`
}

// Diagnostics carries layout facts worth surfacing to users.
type Diagnostics struct {
	// Converged is set for flow charts and reports whether lane
	// assignment reached a fixed point.
	Converged *bool    `json:"converged,omitempty"`
	Passes    int      `json:"passes,omitempty"`
	Cycles    []string `json:"cycles,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Scene is a complete chart ready for a sink.
type Scene struct {
	ID          string      `json:"id,omitempty"`
	Kind        string      `json:"kind"`
	Title       string      `json:"title,omitempty"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Background  string      `json:"background,omitempty"`
	Items       []Item      `json:"items"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Add appends items in paint order.
func (s *Scene) Add(items ...Item) { s.Items = append(s.Items, items...) }

// Counts returns the number of items of each kind.
func (s *Scene) Counts() map[Kind]int {
	out := make(map[Kind]int)
	for _, it := range s.Items {
		out[it.Kind]++
	}
	return out
}

// Shapes returns the items that are not text.
func (s *Scene) Shapes() []Item {
	out := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Kind != KindText {
			out = append(out, it)
		}
	}
	return out
}

// Rect returns a rectangle item.
func Rect(role, id string, r geom.Rect, st Style) Item {
	return Item{Kind: KindRect, Role: role, ID: id, Rect: &r, Style: st}
}

// Wedge returns a wedge item centered on c.
func Wedge(role, id string, w geom.Wedge, c geom.Point, st Style) Item {
	return Item{Kind: KindWedge, Role: role, ID: id, Wedge: &w, Center: &c, Style: st}
}

// Ribbon returns a ribbon item.
func Ribbon(role, id string, r geom.Ribbon, st Style) Item {
	return Item{Kind: KindRibbon, Role: role, ID: id, Ribbon: &r, Style: st}
}

// Polyline returns an open path item.
func Polyline(role, id string, l geom.Polyline, st Style) Item {
	return Item{Kind: KindPolyline, Role: role, ID: id, Polyline: &l, Style: st}
}

// Polygon returns a closed path item.
func Polygon(role, id string, p geom.Polygon, st Style) Item {
	return Item{Kind: KindPolygon, Role: role, ID: id, Polygon: &p, Style: st}
}

// Ellipse returns an ellipse inscribed in bounds.
func Ellipse(role, id string, bounds geom.Rect, st Style) Item {
	c := bounds.Center()
	return Item{Kind: KindEllipse, Role: role, ID: id, Rect: &bounds, Center: &c, Style: st}
}

// Text returns a label item anchored at p.
func Text(role, id, text string, p geom.Point, anchor Anchor, st Style) Item {
	return Item{Kind: KindText, Role: role, ID: id, Text: text, At: p, Anchor: anchor, Style: st}
}
