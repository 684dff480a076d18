// Package sink writes chart scenes in output formats.
//
// # Overview
//
// A "sink" turns a [scene.Scene] into bytes. Every sink works on any scene,
// whatever chart produced it:
//
//   - SVG: hand-written markup; wedges become arc paths and ribbons cubic paths
//   - JSON: the scene itself, for external renderers and caching
//   - PNG: rasterized in-process with github.com/gogpu/gg
//   - PDF: SVG converted by rsvg-convert
//
// Basic usage:
//
//	svg := sink.RenderSVG(sc, sink.WithHover())
//	png, err := sink.RenderPNG(sc, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(ctx, sc)
//
// PNG output skips text items. PDF output requires librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [scene.Scene]: github.com/matzehuels/chartgeom/pkg/scene.Scene
package sink
