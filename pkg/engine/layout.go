package engine

import (
	"fmt"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/core/geom"
	"github.com/matzehuels/bubblepack/pkg/core/grid"
	"github.com/matzehuels/bubblepack/pkg/core/relax"
)

// Stats describes the most recent layout run.
type Stats struct {
	Solves       int           `json:"solves"`
	Iterations   int           `json:"iterations"`
	SettlePasses int           `json:"settle_passes"`
	Unconverged  int           `json:"unconverged"`
	MaxOverlap   float64       `json:"max_overlap"`
	Regions      []RegionStats `json:"regions,omitempty"`
}

// RegionStats is the solver outcome for one region.
type RegionStats struct {
	Region  string       `json:"region"`
	Circles int          `json:"circles"`
	Config  relax.Config `json:"config"`
	relax.Result
}

// clusterRegion returns the bounds and focal point shared by the clustered
// and converging layouts. The focal point follows the scroll offset.
func (e *Engine) clusterRegion() (geom.Rect, geom.Point) {
	v := e.viewport
	bounds := geom.R(0, 0, v.Width, max(MinClusterHeight, v.Height))
	focal := geom.Pt(v.Width/2, v.ScrollTop+v.Height/2)
	return bounds, focal
}

func (e *Engine) layoutClustered() {
	bounds, focal := e.clusterRegion()
	e.resetLayout(bounds, focal, nil)
	e.circles.SeedRingUnplaced(focal, bounds, e.rng)
	cfg := relax.Tune(
		relax.Density(e.circles.TotalArea(), bounds.Area()),
		e.circles.MeanRadius(),
		relax.ClusterIterBase, relax.ClusterIterMax,
	)
	e.solve("cluster", e.circles, bounds, focal, cfg)
}

func (e *Engine) layoutConverge() {
	bounds, focal := e.clusterRegion()
	e.resetLayout(bounds, focal, nil)
	e.circles.SeedRingUnplaced(focal, bounds, e.rng)
	e.solve("converge", e.circles, bounds, focal, relax.Converge)
}

func (e *Engine) layoutGrouped() error {
	groups := e.circles.Groups(e.groups)
	l, err := grid.Partition(groups, grid.Options{
		Width:         e.viewport.Width,
		Columns:       e.columns,
		MinCellHeight: grid.MinCellHeight(e.radius.Max),
	})
	if err != nil {
		return err
	}
	bounds := l.Bounds()
	e.resetLayout(bounds, bounds.Center(), l)

	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		cell := l.Cells[i].Bounds
		g.SeedCell(cell, e.rng)
		cfg := relax.Tune(
			relax.Density(g.TotalArea(), cell.Area()),
			g.MeanRadius(),
			relax.GroupIterBase, relax.GroupIterMax,
		)
		e.solve(fmt.Sprintf("group/%d", i), g, cell, cell.Center(), cfg)
	}
	return nil
}

func (e *Engine) resetLayout(bounds geom.Rect, focal geom.Point, l *grid.Layout) {
	e.bounds = bounds
	e.focal = focal
	e.grid = l
	e.stats = Stats{}
}

func (e *Engine) solve(region string, circles bubble.Set, bounds geom.Rect, focal geom.Point, cfg relax.Config) {
	res := relax.Solve(circles, bounds, focal, cfg, e.rng)

	e.stats.Solves++
	e.stats.Iterations += res.Iterations
	e.stats.SettlePasses += res.SettlePasses
	e.stats.MaxOverlap = max(e.stats.MaxOverlap, res.MaxOverlap)
	if !res.Converged {
		e.stats.Unconverged++
		e.logger.Warn("region did not converge", "region", region, "circles", len(circles), "max_overlap", res.MaxOverlap)
	}
	e.stats.Regions = append(e.stats.Regions, RegionStats{
		Region:  region,
		Circles: len(circles),
		Config:  cfg,
		Result:  res,
	})
	e.logger.Debug("solved", "region", region, "circles", len(circles),
		"iterations", res.Iterations, "settle", res.SettlePasses, "converged", res.Converged)
}

// relayout re-runs the layout of the active mode. Converging never solves.
func (e *Engine) relayout() error {
	switch e.mode {
	case Clustered:
		e.layoutClustered()
	case Grouped:
		return e.layoutGrouped()
	}
	return nil
}
