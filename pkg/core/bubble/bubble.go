// Package bubble defines the circle model packed by the layout engine.
//
// A [Circle] carries a normalised size fraction T in [0, 1]. Its radius is
// always derived from T and the current [Range], so editing the range keeps
// every circle's relative rank:
//
//	r := bubble.Range{Min: 24, Max: 72}
//	c := bubble.Circle{T: 0.5}
//	c.Resize(r) // c.R == 48
//
// Circles are created in bulk by [NewSet], which also assigns group indices.
package bubble

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/bubblepack/pkg/core/geom"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// Circle is one bubble. Center is meaningful only when Placed is true.
type Circle struct {
	ID     int        `json:"id"`
	T      float64    `json:"t"`
	R      float64    `json:"r"`
	Center geom.Point `json:"center"`
	Group  int        `json:"group"`
	Placed bool       `json:"placed"`
}

// Resize recomputes the radius from T for the given range.
func (c *Circle) Resize(r Range) { c.R = r.Radius(c.T) }

// Place sets the centre and marks the circle as positioned.
func (c *Circle) Place(p geom.Point) {
	c.Center = p
	c.Placed = true
}

// Area returns the circle's area.
func (c *Circle) Area() float64 { return geom.Area(c.R) }

// Set is an ordered collection of circles. Order is significant: the solver
// resolves pairs in index order.
type Set []*Circle

// NewSet creates count circles with random size fractions drawn from rng,
// sized from r and assigned to groups (see [AssignGroups]).
func NewSet(count, groups int, r Range, rng *rand.Rand) (Set, error) {
	if err := errors.ValidateCount(count); err != nil {
		return nil, err
	}
	if err := errors.ValidateRadiusRange(r.Min, r.Max); err != nil {
		return nil, err
	}
	s := make(Set, count)
	for i := range s {
		c := &Circle{ID: i, T: rng.Float64()}
		c.Resize(r)
		s[i] = c
	}
	if err := s.AssignGroups(groups); err != nil {
		return nil, err
	}
	return s, nil
}

// AssignGroups spreads the circles over groups contiguous buckets:
// circle i belongs to group floor(i / (count/groups)).
func (s Set) AssignGroups(groups int) error {
	if err := errors.ValidateGroups(groups, len(s)); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	per := float64(len(s)) / float64(groups)
	for i, c := range s {
		c.Group = min(groups-1, int(math.Floor(float64(i)/per)))
	}
	return nil
}

// Resize recomputes every radius for the given range.
func (s Set) Resize(r Range) {
	for _, c := range s {
		c.Resize(r)
	}
}

// Groups buckets the circles by group index. The result always has groups
// entries; empty groups are empty slices.
func (s Set) Groups(groups int) []Set {
	out := make([]Set, groups)
	for _, c := range s {
		if c.Group >= 0 && c.Group < groups {
			out[c.Group] = append(out[c.Group], c)
		}
	}
	return out
}

// TotalArea returns the summed area of all circles.
func (s Set) TotalArea() float64 {
	var a float64
	for _, c := range s {
		a += c.Area()
	}
	return a
}

// MeanRadius returns the average radius, zero for an empty set.
func (s Set) MeanRadius() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, c := range s {
		sum += c.R
	}
	return sum / float64(len(s))
}

// Unplace forgets every circle's position.
func (s Set) Unplace() {
	for _, c := range s {
		c.Placed = false
	}
}
