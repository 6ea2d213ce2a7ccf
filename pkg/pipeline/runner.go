package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblepack/pkg/cache"
	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/observability"
)

// keyTypeLayout labels layout entries in cache hooks.
const keyTypeLayout = "layout"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
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

// Execute computes a layout with caching and encodes it in every requested
// format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	layoutStart := time.Now()
	snap, hit, err := r.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.CacheHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.CircleCount = len(snap.Circles)
	result.Stats.CellCount = len(snap.Cells)

	r.Logger.Info("computed layout",
		"mode", snap.Mode,
		"circles", len(snap.Circles),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	encodeStart := time.Now()
	artifacts, err := Encode(snap, opts.Formats)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.EncodeTime = time.Since(encodeStart)

	return result, nil
}

// LayoutWithCacheInfo computes a layout snapshot with caching and reports
// whether it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (engine.Snapshot, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return engine.Snapshot{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			snap, err := DecodeSnapshot(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return snap, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", cacheKey, "error", err)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Mode, opts.Count)
	start := time.Now()
	snap, err := GenerateLayout(opts)
	hooks.OnLayoutComplete(ctx, opts.Mode, time.Since(start), err)
	if err != nil {
		return engine.Snapshot{}, false, err
	}
	for _, reg := range snap.Stats.Regions {
		hooks.OnSolve(ctx, reg.Region, reg.Circles, reg.Iterations, reg.Converged)
	}

	// Snapshot IDs are per engine; a cached layout is keyed by its options.
	if data, err := encodeOne(snap, FormatJSON); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return snap, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (engine.Snapshot, error) {
	snap, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return snap, err
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
