package engine

import (
	"sync"

	"github.com/matzehuels/bubblepack/pkg/errors"
)

// Coalescer collapses bursts of viewport changes (scrolling, resizing) into
// at most one recompute per frame. Request records the newest viewport;
// Flush, called on the frame tick, applies it.
type Coalescer struct {
	engine *Engine

	mu      sync.Mutex
	pending *Viewport
}

// NewCoalescer returns a coalescer driving e.
func NewCoalescer(e *Engine) *Coalescer {
	return &Coalescer{engine: e}
}

// Request schedules a recompute for v, replacing any pending one.
func (c *Coalescer) Request(v Viewport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &v
}

// Pending reports whether a recompute is scheduled.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Flush runs the pending recompute, if any, and reports whether a layout ran.
// A request that lands while the engine is converging only updates the
// recorded viewport.
func (c *Coalescer) Flush() (bool, error) {
	c.mu.Lock()
	v := c.pending
	c.pending = nil
	c.mu.Unlock()

	if v == nil {
		return false, nil
	}
	if err := c.engine.Recompute(*v); err != nil {
		if errors.Is(err, errors.ErrCodeConverging) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
