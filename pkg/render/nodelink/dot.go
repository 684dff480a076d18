package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/chartgeom/pkg/chart"
	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/layout/flow"
	"github.com/matzehuels/chartgeom/pkg/render"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
)

// Options configures DOT export.
type Options struct {
	// Detailed adds the node type and lane to each label.
	// When false, only the node label is shown.
	Detailed bool
}

// ToDOT converts a flow payload to Graphviz DOT. Lanes are assigned the
// same way the native flow layout assigns them and become rank=same
// groups, laid out left to right. Node shapes and fills follow the
// payload's type styles on top of the theme.
func ToDOT(p chart.Payload, th theme.Theme, opts Options) (string, error) {
	if p.Kind != chart.KindFlow {
		return "", errors.New(errors.ErrCodeInvalidKind, "graphviz engine supports flow charts only, got %q", p.Kind)
	}
	if err := chart.Validate(p); err != nil {
		return "", err
	}

	nodes, edges, cfg := chart.FlowInput(p, th)
	lanes := flow.AssignLanes(nodes, edges, cfg.MaxPasses)
	if cfg.Strict && !lanes.Converged {
		return "", errors.Layout("lane assignment did not settle after %d passes", lanes.Passes)
	}
	styles := chart.FlowStyles(p.Options, th)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  bgcolor=%s;\n", quote(th.Background))
	if p.Title != "" {
		fmt.Fprintf(&buf, "  label=%s;\n  labelloc=t;\n  fontsize=16;\n", quote(p.Title))
	}
	fmt.Fprintf(&buf, "  node [style=filled, penwidth=0, fontname=\"sans-serif\", fontsize=%s, margin=\"0.2,0.1\"];\n", num(th.FontSize))
	fmt.Fprintf(&buf, "  edge [color=%s, penwidth=%s, fontcolor=%s, fontname=\"sans-serif\", fontsize=%s];\n",
		quote(stringOr(p.Options.ArrowColor, th.Flow.ArrowColor)), num(th.Flow.ArrowWidth),
		quote(th.Flow.LabelColor), num(th.FontSize))
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for i, n := range p.Nodes {
		ts := styles[n.Type]
		attrs := []string{
			"label=" + quote(fmtLabel(n, lanes.Lane[n.ID], opts.Detailed)),
			"fillcolor=" + quote(stringOr(n.Fill, stringOr(ts.Fill, th.PaletteAt(i)))),
			"fontcolor=" + quote(stringOr(ts.Text, th.Text)),
		}
		attrs = append(attrs, shapeAttrs(cfg.ShapeOf(n.Type))...)
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, lane := range laneGroups(p.Nodes, lanes.Lane) {
		ids := make([]string, len(lane))
		for i, id := range lane {
			ids[i] = quote(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", quote(e.From), quote(e.To), quote(e.Label))
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.From), quote(e.To))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(n chart.Node, lane int, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	parts := []string{label, fmt.Sprintf("lane: %d", lane)}
	if n.Type != "" {
		parts = append(parts, "type: "+n.Type)
	}
	return strings.Join(parts, "\n")
}

func shapeAttrs(s flow.Shape) []string {
	switch s {
	case flow.ShapeEllipse:
		return []string{"shape=ellipse"}
	case flow.ShapeDiamond:
		return []string{"shape=diamond"}
	default:
		return []string{"shape=box", `style="rounded,filled"`}
	}
}

// laneGroups returns node ids grouped by lane, lanes ascending and ids in
// input order.
func laneGroups(nodes []chart.Node, lane map[string]int) [][]string {
	byLane := make(map[int][]string)
	for _, n := range nodes {
		byLane[lane[n.ID]] = append(byLane[lane[n.ID]], n.ID)
	}
	keys := make([]int, 0, len(byLane))
	for k := range byLane {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([][]string, len(keys))
	for i, k := range keys {
		out[i] = byLane[k]
	}
	return out
}

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func stringOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one
// sized in user units so the output scales like native scenes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
