package chart

// Kind identifies a chart type.
type Kind string

// Supported chart kinds.
const (
	KindTreemap  Kind = "treemap"
	KindSankey   Kind = "sankey"
	KindFlow     Kind = "flow"
	KindSunburst Kind = "sunburst"
	KindFunnel   Kind = "funnel"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindTreemap, KindSankey, KindFlow, KindSunburst, KindFunnel}

// Valid reports whether k is a supported chart kind.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// Payload is a chart request. Only the fields of its Kind are read.
type Payload struct {
	Kind    Kind    `json:"kind" yaml:"kind" toml:"kind"`
	Title   string  `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Options Options `json:"options" yaml:"options,omitempty" toml:"options,omitempty"`

	Items  []Item    `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`    // treemap
	Nodes  []Node    `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`    // sankey, flow
	Links  []Link    `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`    // sankey
	Edges  []Edge    `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`    // flow
	Root   *HierNode `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`       // sunburst
	Stages []Stage   `json:"stages,omitempty" yaml:"stages,omitempty" toml:"stages,omitempty"` // funnel
}

// Item is a treemap tile.
type Item struct {
	Label string  `json:"label" yaml:"label" toml:"label"`
	Value float64 `json:"value" yaml:"value" toml:"value"`
	Group string  `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`
}

// Node is a Sankey or flow node. Sankey nodes use Col and Color; flow nodes
// use Type and Fill.
type Node struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Col   *int   `json:"col,omitempty" yaml:"col,omitempty" toml:"col,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Fill  string `json:"fill,omitempty" yaml:"fill,omitempty" toml:"fill,omitempty"`
}

// Link is a Sankey flow.
type Link struct {
	Source string  `json:"source" yaml:"source" toml:"source"`
	Target string  `json:"target" yaml:"target" toml:"target"`
	Value  float64 `json:"value" yaml:"value" toml:"value"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
}

// Edge is a flow chart connection.
type Edge struct {
	From  string `json:"from" yaml:"from" toml:"from"`
	To    string `json:"to" yaml:"to" toml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// HierNode is a sunburst tree node.
type HierNode struct {
	Label    string     `json:"label" yaml:"label" toml:"label"`
	Value    float64    `json:"value" yaml:"value" toml:"value"`
	Children []HierNode `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Stage is a funnel step.
type Stage struct {
	Label string  `json:"label" yaml:"label" toml:"label"`
	Value float64 `json:"value" yaml:"value" toml:"value"`
}

// TypeStyle overrides the look of a flow node type.
type TypeStyle struct {
	Shape string `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
	Fill  string `json:"fill,omitempty" yaml:"fill,omitempty" toml:"fill,omitempty"`
	Text  string `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
}

// Options are per-chart settings. Nil fields take the defaults of the
// chart kind.
type Options struct {
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty" hcl:"width,optional"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty" hcl:"height,optional"`
	Labels *bool    `json:"show_labels,omitempty" yaml:"show_labels,omitempty" toml:"show_labels,omitempty" hcl:"show_labels,optional"`

	// Treemap
	PaddingPx *float64          `json:"padding_px,omitempty" yaml:"padding_px,omitempty" toml:"padding_px,omitempty" hcl:"padding_px,optional"`
	Palette   map[string]string `json:"palette,omitempty" yaml:"palette,omitempty" toml:"palette,omitempty" hcl:"palette,optional"`

	// Sankey
	NodeWidth   *float64 `json:"node_width,omitempty" yaml:"node_width,omitempty" toml:"node_width,omitempty" hcl:"node_width,optional"`
	NodePadding *float64 `json:"node_padding,omitempty" yaml:"node_padding,omitempty" toml:"node_padding,omitempty" hcl:"node_padding,optional"`
	Curvature   *float64 `json:"curvature,omitempty" yaml:"curvature,omitempty" toml:"curvature,omitempty" hcl:"curvature,optional"`
	Alpha       *float64 `json:"alpha,omitempty" yaml:"alpha,omitempty" toml:"alpha,omitempty" hcl:"alpha,optional"`

	// Flow
	LaneSpacing  *float64             `json:"lane_spacing_px,omitempty" yaml:"lane_spacing_px,omitempty" toml:"lane_spacing_px,omitempty" hcl:"lane_spacing_px,optional"`
	RowSpacing   *float64             `json:"row_spacing_px,omitempty" yaml:"row_spacing_px,omitempty" toml:"row_spacing_px,omitempty" hcl:"row_spacing_px,optional"`
	LaneOverride map[string]int       `json:"lane_override,omitempty" yaml:"lane_override,omitempty" toml:"lane_override,omitempty" hcl:"lane_override,optional"`
	TypeStyles   map[string]TypeStyle `json:"type_styles,omitempty" yaml:"type_styles,omitempty" toml:"type_styles,omitempty"`
	MaxPasses    *int                 `json:"max_passes,omitempty" yaml:"max_passes,omitempty" toml:"max_passes,omitempty" hcl:"max_passes,optional"`
	Strict       bool                 `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty" hcl:"strict,optional"`
	ArrowColor   string               `json:"arrow_color,omitempty" yaml:"arrow_color,omitempty" toml:"arrow_color,omitempty" hcl:"arrow_color,optional"`

	// Sunburst
	StartAngle    *float64 `json:"start_angle,omitempty" yaml:"start_angle,omitempty" toml:"start_angle,omitempty" hcl:"start_angle,optional"` // degrees
	RingThickness *float64 `json:"ring_thickness,omitempty" yaml:"ring_thickness,omitempty" toml:"ring_thickness,omitempty" hcl:"ring_thickness,optional"`
	InnerHoleFrac *float64 `json:"inner_hole_frac,omitempty" yaml:"inner_hole_frac,omitempty" toml:"inner_hole_frac,omitempty" hcl:"inner_hole_frac,optional"`
	GapDeg        *float64 `json:"gap_deg,omitempty" yaml:"gap_deg,omitempty" toml:"gap_deg,omitempty" hcl:"gap_deg,optional"`
	MaxDepth      *int     `json:"max_depth,omitempty" yaml:"max_depth,omitempty" toml:"max_depth,omitempty" hcl:"max_depth,optional"`
	ColorsBase    string   `json:"colors_base,omitempty" yaml:"colors_base,omitempty" toml:"colors_base,omitempty" hcl:"colors_base,optional"`
	ColorsStrong  string   `json:"colors_strong,omitempty" yaml:"colors_strong,omitempty" toml:"colors_strong,omitempty" hcl:"colors_strong,optional"`

	// Funnel
	Normalize       *bool    `json:"normalize,omitempty" yaml:"normalize,omitempty" toml:"normalize,omitempty" hcl:"normalize,optional"`
	BarHeight       *float64 `json:"bar_height,omitempty" yaml:"bar_height,omitempty" toml:"bar_height,omitempty" hcl:"bar_height,optional"`
	Gap             *float64 `json:"gap,omitempty" yaml:"gap,omitempty" toml:"gap,omitempty" hcl:"gap,optional"`
	MinWidth        *float64 `json:"min_width,omitempty" yaml:"min_width,omitempty" toml:"min_width,omitempty" hcl:"min_width,optional"`
	Silhouette      *bool    `json:"show_funnel_silhouette,omitempty" yaml:"show_funnel_silhouette,omitempty" toml:"show_funnel_silhouette,omitempty" hcl:"show_funnel_silhouette,optional"`
	ColorTop        string   `json:"color_top,omitempty" yaml:"color_top,omitempty" toml:"color_top,omitempty" hcl:"color_top,optional"`
	ColorOthers     string   `json:"color_others,omitempty" yaml:"color_others,omitempty" toml:"color_others,omitempty" hcl:"color_others,optional"`
	SilhouetteColor string   `json:"silhouette_color,omitempty" yaml:"silhouette_color,omitempty" toml:"silhouette_color,omitempty" hcl:"silhouette_color,optional"`
	SilhouetteAlpha *float64 `json:"silhouette_alpha,omitempty" yaml:"silhouette_alpha,omitempty" toml:"silhouette_alpha,omitempty" hcl:"silhouette_alpha,optional"`
	RoundPx         *float64 `json:"round_px,omitempty" yaml:"round_px,omitempty" toml:"round_px,omitempty" hcl:"round_px,optional"`
	TextColor       string   `json:"text_color,omitempty" yaml:"text_color,omitempty" toml:"text_color,omitempty" hcl:"text_color,optional"`
}

// Default canvas size.
const (
	DefaultWidth  = 880.0
	DefaultHeight = 640.0
)

// Size returns the canvas size, applying defaults.
func (o Options) Size() (w, h float64) {
	return floatOr(o.Width, DefaultWidth), floatOr(o.Height, DefaultHeight)
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
