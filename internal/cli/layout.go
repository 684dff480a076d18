package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartgeom/pkg/pipeline"
	"github.com/matzehuels/chartgeom/pkg/render/sink"
)

// layoutCommand creates the layout command for computing chart geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		rf     renderFlags
		cf     cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [payload]",
		Short: "Compute chart geometry and write it as scene JSON",
		Long: `Compute chart geometry and write it as scene JSON.

The scene lists every rectangle, wedge, ribbon, polyline, polygon and label
with absolute coordinates (origin top-left, y down). It is the same document
'render -f json' produces.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, rf, cf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json, - for stdout)")
	rf.register(cmd)
	cf.register(cmd)

	return cmd
}

// runLayout loads the payload, builds the scene, and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input, output string, rf renderFlags, cf cacheFlags) error {
	p, err := pipeline.Load(input, rf.input, os.Stdin)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	opts, err := rf.options()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	sc, cacheHit, err := runner.Layout(ctx, p, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	data, err := sink.RenderJSON(sc)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = sceneOutputPath(input)
	}
	if outputPath == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done("Built " + string(p.Kind) + " scene")

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(sc, cacheHit)
	printWarnings(sc)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}

// sceneOutputPath derives the scene file name from the payload path.
func sceneOutputPath(input string) string {
	if input == "-" {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".scene.json"
}
