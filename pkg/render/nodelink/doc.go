// Package nodelink renders flow charts through Graphviz.
//
// # Overview
//
// This is the alternate engine for flow payloads (engine = "graphviz").
// Instead of the native lane layout and orthogonal routing, the chart is
// exported as DOT and laid out by Graphviz's dot algorithm. Lanes are
// still computed the native way and passed to Graphviz as rank=same
// groups, so both engines agree on which nodes share a column.
//
// # Usage
//
//	dot, err := nodelink.ToDOT(payload, theme.Default(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
