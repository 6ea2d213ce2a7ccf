// Package geom provides the 2D primitives used by the bubble layout engine.
//
// Coordinates are in a y-down space (screen pixels): Top < Bottom for a
// rectangle with positive height. All types are small values and safe to copy.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance below which an overlap is treated as resolved.
// Pairs pushed apart to exactly touching can differ from the target distance
// by a few ulps; those must not count as overlapping.
const Epsilon = 1e-9

// Point is a position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Lerp moves p a fraction t of the way toward o.
func (p Point) Lerp(o Point, t float64) Point {
	return Point{X: p.X + (o.X-p.X)*t, Y: p.Y + (o.Y-p.Y)*t}
}

// Polar returns the point at distance r from p in direction angle (radians).
func (p Point) Polar(angle, r float64) Point {
	s, c := math.Sincos(angle)
	return Point{X: p.X + c*r, Y: p.Y + s*r}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// R returns the rectangle with origin (x, y) and the given size.
func R(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns Right − Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom − Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Area returns the rectangle's area, zero for degenerate rectangles.
func (r Rect) Area() float64 { return max(0, r.Width()) * max(0, r.Height()) }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Inset shrinks the rectangle by d on every side. Negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{Left: r.Left + d, Top: r.Top + d, Right: r.Right - d, Bottom: r.Bottom - d}
}

// Contains reports whether p lies inside r, boundary included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ContainsCircle reports whether the circle at c with radius rad, inflated
// by padding, lies inside r within tolerance tol.
func (r Rect) ContainsCircle(c Point, rad, padding, tol float64) bool {
	d := rad + padding
	return c.X-d >= r.Left-tol && c.X+d <= r.Right+tol &&
		c.Y-d >= r.Top-tol && c.Y+d <= r.Bottom+tol
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g → %g,%g]", r.Left, r.Top, r.Right, r.Bottom)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Overlap returns how far two circles intrude into each other's padded
// space: (ra + rb + padding) − distance. Positive means overlapping.
func Overlap(a Point, ra float64, b Point, rb float64, padding float64) float64 {
	return ra + rb + padding - Distance(a, b)
}

// Area returns the area of a circle with radius r.
func Area(r float64) float64 { return math.Pi * r * r }

// Clamp restricts v to [lo, hi]. If the interval is empty the midpoint is used.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return min(hi, max(lo, v))
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 { return min(1, max(0, v)) }

// ClampPoint restricts a circle's centre so the circle, inflated by padding,
// stays inside bounds. When bounds are too small on an axis the centre is
// placed in the middle of that axis.
func ClampPoint(p Point, bounds Rect, r, padding float64) Point {
	d := r + padding
	return Point{
		X: Clamp(p.X, bounds.Left+d, bounds.Right-d),
		Y: Clamp(p.Y, bounds.Top+d, bounds.Bottom-d),
	}
}

// Jitter supplies random displacements for coincident centres.
// *math/rand/v2.Rand satisfies it.
type Jitter interface {
	Float64() float64
}

// Separation returns the vector from a to b and its length. When the centres
// coincide a tiny random displacement (each component in ±0.005) is used
// instead so a push direction always exists. The result length is never zero.
func Separation(a, b Point, rng Jitter) (dx, dy, dist float64) {
	dx, dy = b.X-a.X, b.Y-a.Y
	dist = math.Hypot(dx, dy)
	for dist == 0 {
		dx = (rng.Float64() - 0.5) * 0.01
		dy = (rng.Float64() - 0.5) * 0.01
		dist = math.Hypot(dx, dy)
	}
	return dx, dy, dist
}
