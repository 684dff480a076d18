package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/chartgeom/pkg/cache"
	"github.com/matzehuels/chartgeom/pkg/chart"
	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/observability"
	"github.com/matzehuels/chartgeom/pkg/render/sink"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout -> render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, p chart.Payload, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	layoutStart := time.Now()
	sc, layoutHit, err := r.Layout(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = sc
	result.Stats.Kind = sc.Kind
	result.Stats.Items = len(sc.Items)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("built scene",
		"kind", sc.Kind,
		"items", len(sc.Items),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, sceneHash, renderHit, err := r.render(ctx, p, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.SceneHash = sceneHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout validates the payload and builds its scene, consulting the cache
// first. It reports whether the scene came from the cache.
func (r *Runner) Layout(ctx context.Context, p chart.Payload, opts Options) (*scene.Scene, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	if opts.Engine == EngineGraphviz && p.Kind != chart.KindFlow {
		return nil, false, errors.New(errors.ErrCodeInvalidKind, "graphviz engine supports flow charts only, got %q", p.Kind)
	}

	payloadJSON, err := marshalJSON(p)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "serialize payload for cache key")
	}
	key := r.Keyer.SceneKey(cache.Hash(payloadJSON), opts.SceneKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if sc, ok := r.cachedScene(ctx, key); ok {
			hooks.OnCacheHit(ctx, "scene")
			r.reportDiagnostics(sc)
			return sc, true, nil
		}
		hooks.OnCacheMiss(ctx, "scene")
	}

	ph := observability.Pipeline()
	ph.OnLayoutStart(ctx, string(p.Kind), payloadSize(p))
	start := time.Now()
	sc, err := chart.Build(p, opts.ResolvedTheme())
	ph.OnLayoutComplete(ctx, string(p.Kind), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	sc.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
	r.reportDiagnostics(sc)

	if data, err := sink.RenderJSON(sc); err == nil {
		r.store(ctx, "scene", key, data, cache.TTLScene)
	}
	return sc, false, nil
}

// Render produces artifacts for a built scene with caching. The payload is
// only consulted by the graphviz engine.
func (r *Runner) Render(ctx context.Context, p chart.Payload, sc *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.render(ctx, p, sc, opts)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, p chart.Payload, sc *scene.Scene, opts Options) (map[string][]byte, string, bool, error) {
	sceneJSON, err := sink.RenderJSON(sc)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize scene for cache key")
	}
	sceneHash := cache.Hash(sceneJSON)
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, "artifact")
				break
			}
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, sceneHash, true, nil
		}
	}

	ph := observability.Pipeline()
	ph.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	var rendered map[string][]byte
	if opts.Engine == EngineGraphviz {
		rendered, err = renderGraphviz(ctx, p, sceneJSON, opts)
	} else {
		rendered, err = renderNative(ctx, sc, sceneJSON, opts)
	}
	ph.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, sceneHash, false, nil
}

func (r *Runner) cachedScene(ctx context.Context, key string) (*scene.Scene, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	sc, err := sink.ParseJSON(data)
	if err != nil {
		// Stale or corrupt entry; rebuild.
		r.Logger.Debug("discarding cached scene", "key", key, "err", err)
		return nil, false
	}
	return sc, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// reportDiagnostics logs layout facts that users should see.
func (r *Runner) reportDiagnostics(sc *scene.Scene) {
	d := sc.Diagnostics
	if d.Converged != nil && !*d.Converged {
		r.Logger.Warn("flow layering did not converge",
			"passes", d.Passes,
			"cycles", d.Cycles)
	} else if len(d.Cycles) > 0 {
		r.Logger.Debug("flow graph has cycles", "cycles", d.Cycles)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// payloadSize counts the input records that drive the layout cost.
func payloadSize(p chart.Payload) int {
	switch p.Kind {
	case chart.KindTreemap:
		return len(p.Items)
	case chart.KindSankey:
		return len(p.Links)
	case chart.KindFlow:
		return len(p.Nodes) + len(p.Edges)
	case chart.KindFunnel:
		return len(p.Stages)
	case chart.KindSunburst:
		if p.Root == nil {
			return 0
		}
		n := 0
		stack := []*chart.HierNode{p.Root}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n++
			for i := range cur.Children {
				stack = append(stack, &cur.Children[i])
			}
		}
		return n
	}
	return 0
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
