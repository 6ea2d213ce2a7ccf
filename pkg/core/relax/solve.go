// Package relax packs circles inside a rectangle without overlap.
//
// The solver is an iterative Gauss-Seidel relaxation. Each round runs a
// pairwise separation pass, where every overlapping pair is pushed apart
// symmetrically along the line between their centres, followed by a
// centripetal pass pulling circles toward a focal point and a clamp back
// into the region. Updates are applied in place, so later pairs in a pass
// see the corrections made by earlier ones.
//
// The solver stops early once a separation pass finds no overlapping pair.
// If the round budget runs out first, a settle phase of spring-free
// separation passes removes the residual overlap the centripetal pull keeps
// reintroducing.
//
// # Usage
//
//	cfg := relax.Tune(relax.Density(set.TotalArea(), bounds.Area()), set.MeanRadius(),
//	    relax.ClusterIterBase, relax.ClusterIterMax)
//	res := relax.Solve(set, bounds, bounds.Center(), cfg, rng)
package relax

import (
	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/core/geom"
)

// SettleMargin is the extra clearance a settle pass adds when it separates a
// pair, so neighbouring corrections do not immediately undo it.
const SettleMargin = 0.05

// settleFactor scales MaxIterations into the settle phase budget.
const settleFactor = 2

// Result reports how a solve ended.
type Result struct {
	Iterations   int     `json:"iterations"`
	SettlePasses int     `json:"settle_passes,omitempty"`
	Converged    bool    `json:"converged"`
	MaxOverlap   float64 `json:"max_overlap"`
}

// Solve relaxes circles inside bounds toward focal. Circles are moved in
// place and marked placed. rng breaks ties between coincident centres.
//
// Every circle ends inside bounds inset by its radius plus cfg.Padding,
// unless the region is too small for it, in which case it sits on the
// region's midline. When Converged is set no pair overlaps by more than
// geom.Epsilon.
func Solve(circles bubble.Set, bounds geom.Rect, focal geom.Point, cfg Config, rng geom.Jitter) Result {
	var res Result
	if len(circles) == 0 {
		res.Converged = true
		return res
	}

	clampAll(circles, bounds, cfg.Padding)

	for res.Iterations < cfg.MaxIterations {
		res.Iterations++
		if !separate(circles, cfg.Padding, 0, rng) {
			res.Converged = true
			return res
		}
		attract(circles, focal, cfg.Spring)
		clampAll(circles, bounds, cfg.Padding)
	}

	for res.SettlePasses < cfg.MaxIterations*settleFactor {
		res.SettlePasses++
		if !separate(circles, cfg.Padding, SettleMargin, rng) {
			res.Converged = true
			return res
		}
		clampAll(circles, bounds, cfg.Padding)
	}

	res.MaxOverlap = MaxOverlap(circles, cfg.Padding)
	res.Converged = res.MaxOverlap <= geom.Epsilon
	return res
}

// MaxOverlap returns the largest pairwise overlap in the set, or 0 when no
// pair overlaps.
func MaxOverlap(circles bubble.Set, padding float64) float64 {
	worst := 0.0
	for i, a := range circles {
		for _, b := range circles[i+1:] {
			worst = max(worst, geom.Overlap(a.Center, a.R, b.Center, b.R, padding))
		}
	}
	return worst
}

// separate runs one in-place pairwise pass and reports whether any pair
// overlapped by more than geom.Epsilon. Each overlapping pair is pushed
// apart by half of (overlap + margin) per circle.
func separate(circles bubble.Set, padding, margin float64, rng geom.Jitter) bool {
	overlapped := false
	for i, a := range circles {
		for _, b := range circles[i+1:] {
			dx, dy, dist := geom.Separation(a.Center, b.Center, rng)
			overlap := a.R + b.R + padding - dist
			if overlap <= geom.Epsilon {
				continue
			}
			overlapped = true
			push := (overlap + margin) / 2
			ux, uy := dx/dist, dy/dist
			a.Center.X -= ux * push
			a.Center.Y -= uy * push
			b.Center.X += ux * push
			b.Center.Y += uy * push
		}
	}
	return overlapped
}

func attract(circles bubble.Set, focal geom.Point, spring float64) {
	for _, c := range circles {
		c.Center = c.Center.Lerp(focal, spring)
	}
}

func clampAll(circles bubble.Set, bounds geom.Rect, padding float64) {
	for _, c := range circles {
		c.Place(geom.ClampPoint(c.Center, bounds, c.R, padding))
	}
}
