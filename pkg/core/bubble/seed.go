package bubble

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/bubblepack/pkg/core/geom"
)

// Ring radii for scattering circles around a focal point before a cluster
// is packed.
const (
	RingInner = 180.0
	RingOuter = 300.0
)

// JitterFraction scales the seeding radius around a grid cell's centre.
const JitterFraction = 0.3

// NewRNG returns the deterministic generator used for seeding and for the
// solver's coincident-centre escape.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// SeedRing places every circle at a random point in the ring [inner, outer]
// around focal, clamped so the circle stays inside bounds.
func (s Set) SeedRing(focal geom.Point, bounds geom.Rect, inner, outer float64, rng *rand.Rand) {
	for _, c := range s {
		angle := rng.Float64() * 2 * math.Pi
		rad := inner + rng.Float64()*(outer-inner)
		c.Place(geom.ClampPoint(focal.Polar(angle, rad), bounds, c.R, 0))
	}
}

// SeedRingUnplaced ring-seeds only circles that have no position yet.
func (s Set) SeedRingUnplaced(focal geom.Point, bounds geom.Rect, rng *rand.Rand) {
	var fresh Set
	for _, c := range s {
		if !c.Placed {
			fresh = append(fresh, c)
		}
	}
	fresh.SeedRing(focal, bounds, RingInner, RingOuter, rng)
}

// SeedCell places every circle at a random point within
// JitterFraction·min(width, height) of the cell's centre.
func (s Set) SeedCell(cell geom.Rect, rng *rand.Rand) {
	center := cell.Center()
	spread := min(cell.Width(), cell.Height()) * JitterFraction
	for _, c := range s {
		angle := rng.Float64() * 2 * math.Pi
		c.Place(center.Polar(angle, rng.Float64()*spread))
	}
}
