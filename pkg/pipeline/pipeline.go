// Package pipeline runs one-shot bubble layouts for bubblepack.
//
// The CLI's layout command and the API's stateless endpoints share this
// package, so a request with the same options is computed, cached and
// encoded the same way regardless of entry point.
//
// # Architecture
//
// A pipeline run has two stages:
//
//  1. Layout: build an [engine.Engine], drive it into the requested mode and
//     take a snapshot
//  2. Encode: serialise the snapshot in the requested formats (JSON, YAML)
//
// The [Runner] wraps the layout stage with a cache lookup keyed on the
// options, since layouts are deterministic for a given seed.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Mode:    "grouped",
//	    Count:   200,
//	    Groups:  40,
//	    Formats: []string{"json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["json"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblepack/pkg/cache"
	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	DefaultCount     = engine.DefaultCount
	DefaultGroups    = engine.DefaultGroups
	DefaultColumns   = engine.DefaultColumns
	DefaultMinRadius = engine.DefaultMinRadius
	DefaultMaxRadius = engine.DefaultMaxRadius
	DefaultWidth     = engine.DefaultWidth
	DefaultHeight    = engine.DefaultHeight
	DefaultSeed      = uint64(engine.DefaultSeed)
)

// DefaultMode is the layout mode used when none is requested.
var DefaultMode = engine.Clustered.String()

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a layout run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Mode      string  `json:"mode,omitempty"`
	Count     int     `json:"count,omitempty"`
	Groups    int     `json:"groups,omitempty"`
	Columns   int     `json:"columns,omitempty"`
	MinRadius float64 `json:"min_radius,omitempty"`
	MaxRadius float64 `json:"max_radius,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	ScrollTop float64 `json:"scroll_top,omitempty"`
	Seed      uint64  `json:"seed,omitempty"`

	// Empty means zero circles rather than the default count.
	Empty bool `json:"empty,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the engine state after the requested mode was reached.
	Snapshot engine.Snapshot

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the snapshot came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CircleCount int
	CellCount   int
	LayoutTime  time.Duration
	EncodeTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, yaml)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills every zero field with its default.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Count == 0 && !o.Empty {
		o.Count = DefaultCount
	}
	if o.Groups == 0 {
		o.Groups = DefaultGroups
		if o.Count > 0 {
			o.Groups = min(o.Groups, o.Count)
		}
	}
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.MinRadius == 0 && o.MaxRadius == 0 {
		o.MinRadius, o.MaxRadius = DefaultMinRadius, DefaultMaxRadius
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	mode, err := engine.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	o.Mode = mode.String()
	if err := errors.ValidateCount(o.Count); err != nil {
		return err
	}
	if err := errors.ValidateGroups(o.Groups, o.Count); err != nil {
		return err
	}
	if err := errors.ValidateColumns(o.Columns); err != nil {
		return err
	}
	if err := errors.ValidateRadiusRange(o.MinRadius, o.MaxRadius); err != nil {
		return err
	}
	if err := errors.ValidateViewport(o.Width, o.Height, o.ScrollTop); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Range returns the radius range.
func (o *Options) Range() bubble.Range {
	return bubble.Range{Min: o.MinRadius, Max: o.MaxRadius}
}

// Viewport returns the viewport.
func (o *Options) Viewport() engine.Viewport {
	return engine.Viewport{Width: o.Width, Height: o.Height, ScrollTop: o.ScrollTop}
}

// EngineOptions returns the engine options equivalent to o.
func (o *Options) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithCount(o.Count),
		engine.WithGroups(o.Groups),
		engine.WithColumns(o.Columns),
		engine.WithRange(o.Range()),
		engine.WithViewport(o.Viewport()),
		engine.WithSeed(o.Seed),
		engine.WithLogger(o.Logger),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Mode:      o.Mode,
		Count:     o.Count,
		Groups:    o.Groups,
		Columns:   o.Columns,
		MinRadius: o.MinRadius,
		MaxRadius: o.MaxRadius,
		Width:     o.Width,
		Height:    o.Height,
		ScrollTop: o.ScrollTop,
		Seed:      o.Seed,
	}
}
