// Package render turns chart scenes into output formats.
//
// # Overview
//
// Layout packages produce geometry; [github.com/matzehuels/chartgeom/pkg/chart]
// styles it into a [scene.Scene]. This package and its subpackages take it
// from there:
//
//   - [sink]: SVG, JSON, PNG and PDF writers for any scene
//   - [theme]: colors and stroke settings passed to every chart build
//   - [nodelink]: Graphviz rendering of flow charts as an alternative engine
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG to other formats with the external
// rsvg-convert tool (from librsvg). PDF output always goes through it; PNG
// output only does for Graphviz SVG, since scenes are rasterized natively.
//
//	svg := sink.RenderSVG(sc)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [scene.Scene]: github.com/matzehuels/chartgeom/pkg/scene.Scene
// [sink]: github.com/matzehuels/chartgeom/pkg/render/sink
// [theme]: github.com/matzehuels/chartgeom/pkg/render/theme
// [nodelink]: github.com/matzehuels/chartgeom/pkg/render/nodelink
package render
