package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartgeom/pkg/pipeline"
)

// inspectCommand creates the inspect command for browsing scene items.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain bool
		rf    renderFlags
		cf    cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [payload]",
		Short: "Browse the primitives of a chart in the terminal",
		Long: `Browse the primitives of a chart in the terminal.

Every item of the built scene is listed with its kind, role, id and geometry.
Use --plain to print a static listing (e.g. when piping).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], plain, rf, cf)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the item listing without the interactive view")
	rf.register(cmd)
	cf.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, plain bool, rf renderFlags, cf cacheFlags) error {
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

	sc, cacheHit, err := runner.Layout(ctx, p, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	if plain {
		fmt.Println(StyleTitle.Render(sceneHeading(sc)))
		for i, it := range sc.Items {
			fmt.Printf("%4d  %-8s %-10s %-16s %s\n", i, it.Kind, it.Role, it.ID, itemSummary(it))
		}
		printStats(sc, cacheHit)
		printWarnings(sc)
		return nil
	}

	model := NewSceneModel(sc)
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
