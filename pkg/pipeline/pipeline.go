// Package pipeline provides the decode -> validate -> build -> render
// pipeline shared by the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of two cached stages:
//
//  1. Layout: validate the payload and build a [scene.Scene] with
//     [chart.Build]. The scene is cached under a key derived from the
//     payload, the theme and the engine.
//  2. Render: turn the scene into artifacts (SVG, PNG, PDF, JSON). Each
//     artifact is cached under a key derived from the scene and the
//     render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg", "png"}}
//	result, err := runner.Execute(ctx, payload, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run the layout stage alone:
//
//	sc, hit, err := runner.Layout(ctx, payload, opts)
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/chartgeom/pkg/cache"
	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/render/sink"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Engine constants. The graphviz engine applies to flow charts only.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// DefaultScale is the default PNG scale factor.
const DefaultScale = sink.DefaultScale

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// contentTypes maps formats to HTTP content types.
var contentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	Engine  string   `json:"engine,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG only

	// SVG options
	Hover       bool `json:"hover,omitempty"`
	IDs         bool `json:"ids,omitempty"`
	Transparent bool `json:"transparent,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	// Theme overrides the default theme.
	Theme *theme.Theme `json:"theme,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the built chart geometry.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene JSON.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Kind       string
	Items      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, e.g. "svg,png".
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// Validate applies defaults and checks every field.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "options")
	}
	if o.Theme != nil {
		return o.Theme.Validate()
	}
	return nil
}

// ResolvedTheme returns the theme override or the default theme.
func (o *Options) ResolvedTheme() theme.Theme {
	if o.Theme != nil {
		return *o.Theme
	}
	return theme.Default()
}

// SceneKeyOpts returns cache key options for the layout stage.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	th, _ := marshalJSON(o.ResolvedTheme())
	return cache.SceneKeyOpts{Theme: cache.Hash(th), Engine: o.Engine}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Engine: o.Engine}
	if format == FormatJSON {
		return k
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	var flags []string
	if o.Hover {
		flags = append(flags, "hover")
	}
	if o.IDs {
		flags = append(flags, "ids")
	}
	if o.Transparent {
		flags = append(flags, "transparent")
	}
	k.Flags = strings.Join(flags, ",")
	return k
}
