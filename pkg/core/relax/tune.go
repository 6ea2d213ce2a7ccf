package relax

import (
	"math"

	"github.com/matzehuels/bubblepack/pkg/core/geom"
)

// Config holds the solver parameters for one region.
type Config struct {
	// Padding is the minimum gap enforced between circle edges and between
	// circles and the region boundary.
	Padding float64 `json:"padding"`

	// Spring is the fraction of the remaining distance to the focal point
	// each circle moves per round.
	Spring float64 `json:"spring"`

	// MaxIterations caps the number of relaxation rounds. A solve that
	// exhausts it runs up to twice as many spring-free settle passes.
	MaxIterations int `json:"max_iterations"`
}

// Iteration budgets used by the engine's layout modes.
const (
	GroupIterBase   = 80
	GroupIterMax    = 260
	ClusterIterBase = 90
	ClusterIterMax  = 240
)

// Converge is the fixed configuration used when all circles are merged
// toward a single focal point at the end of grouped mode.
var Converge = Config{Padding: 2, Spring: 0.05, MaxIterations: 80}

// Density returns the share of region covered by circles, clamped to [0, 1].
// A region without area counts as fully dense.
func Density(totalArea, regionArea float64) float64 {
	if regionArea <= 0 {
		return 1
	}
	return geom.Clamp01(totalArea / regionArea)
}

// MaxPadding returns the largest padding [Tune] picks for circles of the
// given mean radius, at any density.
func MaxPadding(meanRadius float64) float64 {
	return max(6, meanRadius*0.35)
}

// Tune derives solver parameters from a region's density and the mean circle
// radius. Denser regions get a wider minimum gap, a gentler spring and more
// rounds, interpolated linearly between iterBase and iterMax.
func Tune(density, meanRadius float64, iterBase, iterMax int) Config {
	density = geom.Clamp01(density)
	padding := max(3, min(MaxPadding(meanRadius), meanRadius*(0.12+0.25*density)))
	spring := 0.04 + (1-density)*0.08
	iters := math.Round(float64(iterBase) + density*float64(iterMax-iterBase))
	return Config{
		Padding:       padding,
		Spring:        spring,
		MaxIterations: int(iters),
	}
}
