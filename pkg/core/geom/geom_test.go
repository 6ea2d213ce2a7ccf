package geom

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Pt(3, 4), Pt(3, 4), 0},
		{"3-4-5", Pt(0, 0), Pt(3, 4), 5},
		{"negative", Pt(-1, -1), Pt(-4, -5), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Point
		ra, rb  float64
		padding float64
		want    float64
	}{
		{"touching", Pt(0, 0), Pt(20, 0), 10, 10, 0, 0},
		{"touching with padding", Pt(0, 0), Pt(20, 0), 10, 10, 4, 4},
		{"apart", Pt(0, 0), Pt(30, 0), 10, 10, 0, -10},
		{"concentric", Pt(5, 5), Pt(5, 5), 3, 2, 1, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(tt.a, tt.ra, tt.b, tt.rb, tt.padding); got != tt.want {
				t.Errorf("Overlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampPoint(t *testing.T) {
	bounds := Rect{Left: 0, Top: 0, Right: 100, Bottom: 50}
	tests := []struct {
		name string
		p    Point
		r    float64
		pad  float64
		want Point
	}{
		{"inside", Pt(50, 25), 5, 2, Pt(50, 25)},
		{"left edge", Pt(1, 25), 5, 2, Pt(7, 25)},
		{"bottom right", Pt(200, 200), 5, 2, Pt(93, 43)},
		{"too tall", Pt(50, 0), 30, 0, Pt(50, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPoint(tt.p, bounds, tt.r, tt.pad); got != tt.want {
				t.Errorf("ClampPoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeparationCoincident(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	dx, dy, dist := Separation(Pt(10, 10), Pt(10, 10), rng)
	if dist <= 0 {
		t.Fatalf("dist = %v, want > 0", dist)
	}
	if math.Abs(dx) > 0.005 || math.Abs(dy) > 0.005 {
		t.Errorf("displacement (%v, %v) exceeds epsilon escape", dx, dy)
	}
	if got := math.Hypot(dx, dy); math.Abs(got-dist) > 1e-15 {
		t.Errorf("dist = %v, want %v", dist, got)
	}
}

func TestRect(t *testing.T) {
	r := R(10, 20, 100, 50)
	if r.Width() != 100 || r.Height() != 50 {
		t.Errorf("size = %vx%v, want 100x50", r.Width(), r.Height())
	}
	if r.Area() != 5000 {
		t.Errorf("Area() = %v, want 5000", r.Area())
	}
	if c := r.Center(); c != Pt(60, 45) {
		t.Errorf("Center() = %v, want (60, 45)", c)
	}
	if !r.ContainsCircle(Pt(60, 45), 20, 5, 0) {
		t.Error("ContainsCircle() = false for centred circle")
	}
	if r.ContainsCircle(Pt(15, 45), 20, 5, 0) {
		t.Error("ContainsCircle() = true for circle crossing left edge")
	}
	if got := (Rect{Right: -5, Bottom: 5}).Area(); got != 0 {
		t.Errorf("degenerate Area() = %v, want 0", got)
	}
}

func TestLerpPolar(t *testing.T) {
	if got := Pt(0, 0).Lerp(Pt(10, 20), 0.5); got != Pt(5, 10) {
		t.Errorf("Lerp() = %v, want (5, 10)", got)
	}
	p := Pt(1, 1).Polar(math.Pi/2, 2)
	if math.Abs(p.X-1) > 1e-12 || math.Abs(p.Y-3) > 1e-12 {
		t.Errorf("Polar() = %v, want (1, 3)", p)
	}
}
