package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartgeom/pkg/chart"
	"github.com/matzehuels/chartgeom/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate [payload]",
		Short: "Check a chart payload without building it",
		Long: `Check a chart payload without building it.

The payload may be JSON, YAML, TOML or HCL; the format is taken from the file
extension unless --input is given. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.Load(args[0], input, os.Stdin)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if err := chart.Validate(p); err != nil {
				printError("%s is invalid", args[0])
				return err
			}
			printSuccess("%s is a valid %s chart", args[0], p.Kind)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "payload format: json, yaml, toml, hcl (default: from extension)")

	return cmd
}
