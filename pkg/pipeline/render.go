package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/chartgeom/pkg/chart"
	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/render/nodelink"
	"github.com/matzehuels/chartgeom/pkg/render/sink"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// RenderScene renders a scene with the native sinks in every requested
// format. It does not consult any cache.
func RenderScene(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sceneJSON, err := sink.RenderJSON(sc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize scene")
	}
	return renderNative(ctx, sc, sceneJSON, opts)
}

func renderNative(ctx context.Context, sc *scene.Scene, sceneJSON []byte, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(sc, svgOpts...)
		case FormatPNG:
			pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
			if opts.Transparent {
				pngOpts = append(pngOpts, sink.WithTransparentBackground())
			}
			data, err = sink.RenderPNG(sc, pngOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, sc, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data = sceneJSON
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderGraphviz renders a flow payload through Graphviz. JSON output is
// still the native scene so both engines share one geometry export.
func renderGraphviz(ctx context.Context, p chart.Payload, sceneJSON []byte, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.ToDOT(p, opts.ResolvedTheme(), nodelink.Options{})
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data = sceneJSON
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported graphviz format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildSVGOptions maps pipeline options to SVG sink options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Hover {
		svgOpts = append(svgOpts, sink.WithHover())
	}
	if opts.IDs {
		svgOpts = append(svgOpts, sink.WithIDs())
	}
	if opts.Transparent {
		svgOpts = append(svgOpts, sink.WithoutBackground())
	}
	return svgOpts
}
