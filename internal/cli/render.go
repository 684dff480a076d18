package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartgeom/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file (single format) or base path
	formats     string  // comma-separated output formats
	scale       float64 // PNG scale factor
	hover       bool    // SVG hover titles
	ids         bool    // SVG element ids
	transparent bool    // omit the background
	watch       bool    // re-render when the payload or theme changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro = renderOpts{scale: pipeline.DefaultScale}
		rf renderFlags
		cf cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "render [payload]",
		Short: "Render a chart to SVG, PNG, PDF or scene JSON",
		Long: `Render a chart to SVG, PNG, PDF or scene JSON.

Output files are named after the payload unless -o is given:

  chartgeom render sales.yaml -f svg,png    # sales.svg, sales.png
  chartgeom render flow.json -o out/flow.svg
  chartgeom render flow.json --engine graphviz

With --watch the chart is rebuilt every time the payload or theme changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := pipeline.ParseFormats(ro.formats)
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if ro.watch {
				if args[0] == "-" {
					return fmt.Errorf("--watch needs a payload file, not stdin")
				}
				return c.watchRender(cmd.Context(), args[0], formats, ro, rf, cf)
			}
			return c.runRender(cmd.Context(), args[0], formats, ro, rf, cf)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&ro.scale, "scale", ro.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&ro.hover, "hover", false, "add hover titles to SVG shapes")
	cmd.Flags().BoolVar(&ro.ids, "ids", false, "emit element ids in SVG output")
	cmd.Flags().BoolVar(&ro.transparent, "transparent", false, "omit the background")
	cmd.Flags().BoolVarP(&ro.watch, "watch", "w", false, "re-render when the payload or theme changes")
	rf.register(cmd)
	cf.register(cmd)

	return cmd
}

// runRender executes the pipeline once and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, formats []string, ro renderOpts, rf renderFlags, cf cacheFlags) error {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	return c.renderOnce(ctx, runner, input, formats, ro, rf)
}

// renderOnce loads the payload and renders it with an existing runner.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, input string, formats []string, ro renderOpts, rf renderFlags) error {
	p, err := pipeline.Load(input, rf.input, os.Stdin)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	opts, err := rf.options()
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.Scale = ro.scale
	opts.Hover = ro.hover
	opts.IDs = ro.ids
	opts.Transparent = ro.transparent

	paths, err := outputPaths(ro.output, input, formats)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", p.Kind))
	spinner.Start()
	result, err := runner.Execute(ctx, p, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	for _, f := range formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Rendered %s chart", p.Kind)
	for _, f := range formats {
		printFile(paths[f])
	}
	printStats(result.Scene, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printWarnings(result.Scene)
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses it as given; otherwise files share a base path. A
// derived JSON path that would land on a .json payload becomes
// <base>.scene.json, and any other path equal to the payload is refused.
func outputPaths(output, input string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
	} else {
		base := basePath(output, input)
		for _, f := range formats {
			paths[f] = base + "." + f
			if f == pipeline.FormatJSON && samePath(paths[f], input) {
				paths[f] = base + ".scene.json"
			}
		}
	}
	for _, p := range paths {
		if samePath(p, input) {
			return nil, fmt.Errorf("output %s would overwrite the payload", p)
		}
	}
	return paths, nil
}

// samePath reports whether two file paths name the same location.
func samePath(a, b string) bool {
	if a == "-" || b == "-" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input; if output has a
// format extension (.svg, .pdf, ...), that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
