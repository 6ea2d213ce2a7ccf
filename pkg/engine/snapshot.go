package engine

import (
	"slices"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/core/geom"
	"github.com/matzehuels/bubblepack/pkg/core/grid"
)

// Snapshot is a copy of the engine state a renderer needs.
type Snapshot struct {
	ID       string       `json:"id"`
	Mode     Mode         `json:"mode"`
	Viewport Viewport     `json:"viewport"`
	Range    bubble.Range `json:"range"`
	Groups   int          `json:"groups"`
	Columns  int          `json:"columns"`

	// Bounds is the region of the last layout: the cluster area, or the
	// whole grid in grouped mode. Focal is its attraction point.
	Bounds geom.Rect  `json:"bounds"`
	Focal  geom.Point `json:"focal"`

	// ContentHeight is the height a scrollable container needs.
	ContentHeight float64 `json:"content_height"`

	Circles []bubble.Circle `json:"circles"`
	Cells   []grid.Cell     `json:"cells,omitempty"`
	Stats   Stats           `json:"stats"`

	Generation uint64 `json:"generation"`
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		ID:            e.id,
		Mode:          e.mode,
		Viewport:      e.viewport,
		Range:         e.radius,
		Groups:        e.groups,
		Columns:       e.columns,
		Bounds:        e.bounds,
		Focal:         e.focal,
		ContentHeight: e.bounds.Height(),
		Circles:       make([]bubble.Circle, len(e.circles)),
		Stats:         e.stats,
		Generation:    e.generation,
	}
	for i, c := range e.circles {
		s.Circles[i] = *c
	}
	if e.grid != nil {
		s.ContentHeight = e.grid.ContentHeight
		s.Cells = slices.Clone(e.grid.Cells)
	}
	s.Stats.Regions = slices.Clone(e.stats.Regions)
	return s
}

// Range returns the radius range in effect.
func (e *Engine) Range() bubble.Range {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.radius
}

// Viewport returns the last recorded viewport.
func (e *Engine) Viewport() Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// Stats returns statistics for the most recent layout.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.stats
	st.Regions = slices.Clone(e.stats.Regions)
	return st
}
