package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartgeom/internal/server"
	"github.com/matzehuels/chartgeom/pkg/buildinfo"
	"github.com/matzehuels/chartgeom/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		themePath string
		maxBody   int64
		cf        cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render HTTP API",
		Long: `Serve the layout and render HTTP API.

Routes:
  GET  /healthz
  POST /v1/validate
  POST /v1/layout
  POST /v1/render?format=svg|png|pdf|json

Payloads may be sent as JSON, YAML, TOML or HCL (Content-Type or ?input=).
The server stops gracefully on ctrl+c.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, cf)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := []server.Option{server.WithMaxBody(maxBody)}
			th, err := pipeline.LoadTheme(themePath)
			if err != nil {
				return err
			}
			if th != nil {
				opts = append(opts, server.WithTheme(th))
			}

			srv := server.New(runner, c.Logger, opts...)
			printKeyValue("version", buildinfo.Version)
			printKeyValue("listening", StyleLink.Render("http://"+displayAddr(addr)))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&themePath, "theme", "", "default theme file (TOML)")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body size in bytes")
	cf.register(cmd)

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
