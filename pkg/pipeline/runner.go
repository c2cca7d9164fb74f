package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridstitch/pkg/cache"
	"github.com/matzehuels/gridstitch/pkg/constraint"
	"github.com/matzehuels/gridstitch/pkg/diagram"
	"github.com/matzehuels/gridstitch/pkg/observability"
)

// Runner encapsulates layout passes with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - every call
// builds its own engines. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out d, serving the layout from the cache when the same
// document was laid out before with the same options.
func (r *Runner) Execute(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	l, hash, hit, err := r.LayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Layout:      l,
		DiagramHash: hash,
		Stats: Stats{
			BlockCount:     len(l.Blocks),
			ConnectorCount: len(l.Connectors),
			TileCount:      len(l.Tiles),
			Dropped:        len(l.Dropped),
			LayoutTime:     time.Since(start),
		},
		CacheInfo: CacheInfo{LayoutHit: hit},
	}

	r.Logger.Info("computed layout",
		"blocks", result.Stats.BlockCount,
		"connectors", result.Stats.ConnectorCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)
	return result, nil
}

// LayoutWithCacheInfo lays out d with caching and returns the diagram hash
// and whether the cache was hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d *diagram.Diagram, opts Options) (diagram.Layout, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return diagram.Layout{}, "", false, err
	}
	if err := d.Validate(); err != nil {
		return diagram.Layout{}, "", false, err
	}

	// Compute cache key
	data, err := diagram.Marshal(d)
	if err != nil {
		return diagram.Layout{}, "", false, fmt.Errorf("serialize diagram for cache key: %w", err)
	}
	hash := cache.Hash(data)
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	hooks := observability.Cache()

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := diagram.UnmarshalLayout(data)
		if err == nil {
			hooks.OnCacheHit(ctx, "layout")
			return cached, hash, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
		r.Logger.Debug("discarding unreadable cached layout", "key", cacheKey, "error", err)
	} else if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
	}
	hooks.OnCacheMiss(ctx, "layout")

	l, err := Layout(ctx, d, opts)
	if err != nil {
		return diagram.Layout{}, hash, false, err
	}

	// Cache the result
	if data, err := diagram.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, hash, false, nil // Cache miss
}

// RenderConstraintsSVG renders the solved constraint graph of d to SVG,
// caching the result by the graph's DOT text.
func (r *Runner) RenderConstraintsSVG(ctx context.Context, d *diagram.Diagram, opts Options) ([]byte, error) {
	r.applyLogger(&opts)
	g, err := Solve(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	return r.RenderGraphSVG(ctx, g)
}

// RenderGraphSVG renders a solved constraint graph to SVG through the
// artifact cache.
func (r *Runner) RenderGraphSVG(ctx context.Context, g *constraint.Graph) ([]byte, error) {
	dot := g.ToDOT()
	cacheKey := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: "svg"})
	hooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		hooks.OnCacheHit(ctx, "artifact")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "artifact")

	svg, err := constraint.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render constraint graph: %w", err)
	}
	if err := r.Cache.Set(ctx, cacheKey, svg, cache.TTLArtifact); err == nil {
		hooks.OnCacheSet(ctx, "artifact", len(svg))
	}
	return svg, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
