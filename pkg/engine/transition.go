package engine

import (
	"context"
	"time"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// =============================================================================
// Mode transitions
// =============================================================================

// EnterClustered switches to the clustered layout. Leaving Grouped scatters
// every circle onto a ring around the focal point first; from Converging it
// behaves as [Engine.FinishConverge]. In Clustered it re-runs the layout from
// the current positions.
func (e *Engine) EnterClustered() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.mode {
	case Converging:
		e.finish()
		return
	case Grouped:
		bounds, focal := e.clusterRegion()
		e.circles.SeedRing(focal, bounds, bubble.RingInner, bubble.RingOuter, e.rng)
	}
	e.setMode(Clustered)
	e.layoutClustered()
}

// EnterGrouped switches to the grouped layout, reseeding every group around
// its cell centre. Entering from Converging abandons the converge.
func (e *Engine) EnterGrouped() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.mode
	if prev == Converging {
		e.generation++
	}
	e.setMode(Grouped)
	if err := e.layoutGrouped(); err != nil {
		e.setMode(prev)
		return err
	}
	return nil
}

// BeginConverge starts merging the groups back into one cluster. It is only
// valid in Grouped mode. The circles are packed once around the viewport
// centre with [relax.Converge], starting from their grouped positions, and
// the engine stays in Converging until the converge is finished. The
// returned generation identifies this converge for [Engine.AwaitConverge].
func (e *Engine) BeginConverge() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Grouped {
		return 0, errors.New(errors.ErrCodeInvalidTransition, "cannot converge from %s mode", e.mode)
	}
	e.generation++
	e.setMode(Converging)
	e.layoutConverge()
	return e.generation, nil
}

// FinishConverge completes a converge: the engine switches to Clustered and
// lays out the cluster from the converged positions. It reports whether a
// converge was active; extra calls are no-ops.
func (e *Engine) FinishConverge() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Converging {
		return false
	}
	e.finish()
	return true
}

// AwaitConverge blocks until finished is closed (or receives) or timeout
// elapses, then finishes converge generation gen. A zero timeout uses the
// engine's fallback. If the engine has since left that converge the call does
// nothing and reports false.
func (e *Engine) AwaitConverge(ctx context.Context, gen uint64, finished <-chan struct{}, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		timeout = e.convergeTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-finished:
	case <-timer.C:
		e.logger.Debug("converge fallback fired", "generation", gen, "timeout", timeout)
	case <-ctx.Done():
		return false, ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Converging || e.generation != gen {
		return false, nil
	}
	e.finish()
	return true, nil
}

func (e *Engine) finish() {
	e.setMode(Clustered)
	e.layoutClustered()
}

func (e *Engine) setMode(m Mode) {
	if e.mode != m {
		e.logger.Debug("mode", "from", e.mode, "to", m)
	}
	e.mode = m
}

// =============================================================================
// Inputs
// =============================================================================

// Recompute records a new viewport and re-runs the active layout. While
// Converging the viewport is recorded but nothing is solved, and an error
// with code CONVERGING is returned.
func (e *Engine) Recompute(v Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.viewport = v
	if e.mode == Converging {
		return errors.New(errors.ErrCodeConverging, "layout is converging; viewport recorded")
	}
	return e.relayout()
}

// Relayout re-runs the active layout with the current viewport.
func (e *Engine) Relayout() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == Converging {
		return errors.New(errors.ErrCodeConverging, "layout is converging")
	}
	return e.relayout()
}

// SetRange changes the radius range after an edit to one of its sides. The
// range is repaired with [bubble.Range.Enforce] against the engine's limits;
// every radius is recomputed from its size fraction. It returns the range in
// effect.
func (e *Engine) SetRange(r bubble.Range, edited bubble.Side) (bubble.Range, error) {
	r = r.Enforce(edited, e.limits)
	if err := errors.ValidateRadiusRange(r.Min, r.Max); err != nil {
		return e.Range(), err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.radius = r
	e.circles.Resize(r)
	return r, e.relayout()
}

// SetColumns changes the grid column count.
func (e *Engine) SetColumns(n int) error {
	if err := errors.ValidateColumns(n); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.columns = n
	return e.relayout()
}

// SetGroups reassigns the circles to n groups. Circles keep their size and
// position.
func (e *Engine) SetGroups(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.circles.AssignGroups(n); err != nil {
		return err
	}
	e.groups = n
	return e.relayout()
}

// SetCount replaces the circles with n fresh ones. The group count must not
// exceed n.
func (e *Engine) SetCount(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	circles, err := bubble.NewSet(n, e.groups, e.radius, e.rng)
	if err != nil {
		return err
	}
	e.count = n
	e.circles = circles
	return e.relayout()
}
