// Package cli implements the chartgeom command-line interface.
//
// # Commands
//
//   - validate: check a payload without building it
//   - layout: build the scene and write it as JSON
//   - render: write SVG, PNG, PDF or JSON artifacts (optionally on every change)
//   - inspect: browse the produced primitives in a terminal table
//   - serve: run the HTTP API
//   - cache: manage the local render cache
//
// All commands accept --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartgeom/pkg/buildinfo"
	"github.com/matzehuels/chartgeom/pkg/cache"
	"github.com/matzehuels/chartgeom/pkg/observability"
	"github.com/matzehuels/chartgeom/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used in help and hints.
const appName = "chartgeom"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also routes pipeline
// hook events to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.SetPipelineHooks(observability.LogPipelineHooks{Logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "chartgeom computes chart geometry",
		Long:         `chartgeom lays out treemaps, Sankey diagrams, flow graphs, sunbursts and funnels, and renders the resulting geometry to SVG, PNG, PDF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backing a runner.
type cacheFlags struct {
	noCache bool
	url     string // redis://... or empty for the file cache
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.url, "cache", "", "cache backend: redis://... URL or a directory (default: user cache dir)")
}

// newRunner creates a pipeline runner for CLI use. Keys are scoped by the
// build so upgrades never read stale geometry.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case isRedisURL(f.url):
		return cache.NewRedisCache(ctx, f.url, cache.DefaultRedisPrefix)
	case f.url != "":
		return cache.NewFileCache(f.url)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func isRedisURL(s string) bool {
	return strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://")
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags holds the flags shared by commands that run the pipeline.
type renderFlags struct {
	themePath string
	engine    string
	input     string // payload format override
	refresh   bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.themePath, "theme", "", "theme file (TOML)")
	cmd.Flags().StringVar(&f.engine, "engine", pipeline.EngineNative, "layout engine: native, graphviz (flow only)")
	cmd.Flags().StringVar(&f.input, "input", "", "payload format: json, yaml, toml, hcl (default: from extension)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options builds pipeline options from the shared flags.
func (f *renderFlags) options() (pipeline.Options, error) {
	th, err := pipeline.LoadTheme(f.themePath)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Engine:  f.engine,
		Theme:   th,
		Refresh: f.refresh,
	}, nil
}
