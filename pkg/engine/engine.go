// Package engine maintains a bubble layout across mode changes.
//
// An [Engine] owns a set of circles and keeps them packed in one of three
// modes: a single cluster centred in the viewport, one packed group per grid
// cell, or the transient converging state that merges the groups back into a
// cluster. Every operation is serialised on the engine's mutex, so callers
// may drive it from several goroutines (for example an HTTP handler and the
// converge fallback timer).
//
// # Usage
//
//	e, err := engine.New(engine.WithCount(200), engine.WithGroups(40))
//	if err != nil {
//	    return err
//	}
//	if err := e.EnterGrouped(); err != nil {
//	    return err
//	}
//	snap := e.Snapshot()
package engine

import (
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/core/geom"
	"github.com/matzehuels/bubblepack/pkg/core/grid"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// Defaults applied by [New].
const (
	DefaultCount           = 200
	DefaultGroups          = 40
	DefaultColumns         = 5
	DefaultMinRadius       = 12.0
	DefaultMaxRadius       = 36.0
	DefaultWidth           = 1200.0
	DefaultHeight          = 800.0
	DefaultSeed            = 42
	DefaultConvergeTimeout = 700 * time.Millisecond
)

// MinClusterHeight is the smallest height of the clustered layout region.
const MinClusterHeight = 400.0

// Viewport is the visible window onto the layout.
type Viewport struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ScrollTop float64 `json:"scroll_top"`
}

// Validate checks the viewport dimensions.
func (v Viewport) Validate() error {
	return errors.ValidateViewport(v.Width, v.Height, v.ScrollTop)
}

// Engine is the layout mode controller. The zero value is not usable; create
// engines with [New].
type Engine struct {
	mu sync.Mutex

	id     string
	logger *log.Logger
	rng    *rand.Rand
	seed   uint64

	count    int
	circles  bubble.Set
	mode     Mode
	viewport Viewport
	radius   bubble.Range
	limits   bubble.Limits
	groups   int
	columns  int

	convergeTimeout time.Duration
	generation      uint64

	// last layout
	bounds geom.Rect
	focal  geom.Point
	grid   *grid.Layout
	stats  Stats
}

// Option configures an [Engine].
type Option func(*Engine)

// WithCount sets the number of circles.
func WithCount(n int) Option { return func(e *Engine) { e.count = n } }

// WithGroups sets the number of groups.
func WithGroups(n int) Option { return func(e *Engine) { e.groups = n } }

// WithColumns sets the grid column count for grouped mode.
func WithColumns(n int) Option { return func(e *Engine) { e.columns = n } }

// WithRange sets the radius range.
func WithRange(r bubble.Range) Option { return func(e *Engine) { e.radius = r } }

// WithLimits bounds later radius range edits. See [bubble.Range.Enforce].
func WithLimits(l bubble.Limits) Option { return func(e *Engine) { e.limits = l } }

// WithViewport sets the initial viewport.
func WithViewport(v Viewport) Option { return func(e *Engine) { e.viewport = v } }

// WithSeed seeds the engine's random source. Engines built with equal
// options and seeds produce identical layouts.
func WithSeed(seed uint64) Option { return func(e *Engine) { e.seed = seed } }

// WithLogger sets the logger. Engines log nothing by default.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConvergeTimeout sets the fallback used by [Engine.AwaitConverge] when
// it is called with a zero timeout.
func WithConvergeTimeout(d time.Duration) Option {
	return func(e *Engine) { e.convergeTimeout = d }
}

// New creates an engine in Clustered mode and runs the initial layout.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		id:              uuid.NewString(),
		count:           DefaultCount,
		groups:          DefaultGroups,
		columns:         DefaultColumns,
		radius:          bubble.Range{Min: DefaultMinRadius, Max: DefaultMaxRadius},
		viewport:        Viewport{Width: DefaultWidth, Height: DefaultHeight},
		seed:            DefaultSeed,
		convergeTimeout: DefaultConvergeTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.logger = e.logger.With("engine", e.id[:8])

	if err := e.viewport.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidateColumns(e.columns); err != nil {
		return nil, err
	}
	e.rng = bubble.NewRNG(e.seed)
	circles, err := bubble.NewSet(e.count, e.groups, e.radius, e.rng)
	if err != nil {
		return nil, err
	}
	e.circles = circles

	e.layoutClustered()
	return e, nil
}

// ID returns the engine's unique identifier.
func (e *Engine) ID() string { return e.id }

// Mode returns the active mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Generation returns the current converge generation. It increases every
// time a converge begins or is abandoned.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}
