package relax

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/core/geom"
)

func scatter(t *testing.T, count int, r bubble.Range, bounds geom.Rect, seed uint64) bubble.Set {
	t.Helper()
	rng := bubble.NewRNG(seed)
	s, err := bubble.NewSet(count, 1, r, rng)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range s {
		c.Place(geom.Pt(
			bounds.Left+rng.Float64()*bounds.Width(),
			bounds.Top+rng.Float64()*bounds.Height(),
		))
	}
	return s
}

func assertNoOverlap(t *testing.T, s bubble.Set, padding float64) {
	t.Helper()
	for i, a := range s {
		for _, b := range s[i+1:] {
			if o := geom.Overlap(a.Center, a.R, b.Center, b.R, padding); o > geom.Epsilon {
				t.Errorf("circles %d and %d overlap by %v", a.ID, b.ID, o)
			}
		}
	}
}

func assertInBounds(t *testing.T, s bubble.Set, bounds geom.Rect, padding float64) {
	t.Helper()
	for _, c := range s {
		if !bounds.ContainsCircle(c.Center, c.R, padding, 1e-9) {
			t.Errorf("circle %d at %v (r=%v) escapes %v", c.ID, c.Center, c.R, bounds)
		}
	}
}

func TestSolveNoOverlap(t *testing.T) {
	bounds := geom.R(0, 0, 600, 600)
	for _, seed := range []uint64{1, 2, 3, 4, 5} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			s := scatter(t, 60, bubble.Range{Min: 12, Max: 30}, bounds, seed)
			d := Density(s.TotalArea(), bounds.Area())
			if d > 0.6 {
				t.Fatalf("density %v too high for a feasible packing", d)
			}
			cfg := Tune(d, s.MeanRadius(), ClusterIterBase, ClusterIterMax)

			res := Solve(s, bounds, bounds.Center(), cfg, bubble.NewRNG(seed))

			if !res.Converged {
				t.Fatalf("Solve() did not converge: %+v", res)
			}
			if res.MaxOverlap > geom.Epsilon {
				t.Errorf("MaxOverlap = %v", res.MaxOverlap)
			}
			assertNoOverlap(t, s, cfg.Padding)
			assertInBounds(t, s, bounds, cfg.Padding)
		})
	}
}

func TestSolveKeepsCirclesInBounds(t *testing.T) {
	bounds := geom.R(100, 50, 300, 200)
	s := scatter(t, 40, bubble.Range{Min: 10, Max: 40}, geom.R(-500, -500, 2000, 2000), 9)
	cfg := Config{Padding: 4, Spring: 0.1, MaxIterations: 20}

	Solve(s, bounds, bounds.Center(), cfg, bubble.NewRNG(9))

	assertInBounds(t, s, bounds, cfg.Padding)
	for _, c := range s {
		if !c.Placed {
			t.Errorf("circle %d not marked placed", c.ID)
		}
	}
}

func TestSolveRegionTooSmall(t *testing.T) {
	s := bubble.Set{{ID: 0, R: 50, Center: geom.Pt(5, 90)}}
	bounds := geom.R(0, 0, 60, 60)

	Solve(s, bounds, bounds.Center(), Config{Padding: 2, Spring: 0.1, MaxIterations: 5}, bubble.NewRNG(1))

	if s[0].Center != geom.Pt(30, 30) {
		t.Errorf("oversized circle at %v, want region midpoint", s[0].Center)
	}
}

func TestSolveEarlyTermination(t *testing.T) {
	s := bubble.Set{
		{ID: 0, R: 10, Center: geom.Pt(100, 100)},
		{ID: 1, R: 10, Center: geom.Pt(300, 100)},
		{ID: 2, R: 10, Center: geom.Pt(200, 300)},
	}
	bounds := geom.R(0, 0, 400, 400)
	before := []geom.Point{s[0].Center, s[1].Center, s[2].Center}

	res := Solve(s, bounds, bounds.Center(), Config{Padding: 2, Spring: 0.1, MaxIterations: 50}, bubble.NewRNG(1))

	if !res.Converged || res.Iterations != 1 || res.SettlePasses != 0 {
		t.Errorf("Solve() = %+v, want convergence after the first pass", res)
	}
	for i, c := range s {
		if c.Center != before[i] {
			t.Errorf("circle %d moved from %v to %v", i, before[i], c.Center)
		}
	}
}

func TestSolveSettleBudget(t *testing.T) {
	s := bubble.Set{
		{ID: 0, R: 20, Center: geom.Pt(20, 20)},
		{ID: 1, R: 20, Center: geom.Pt(40, 20)},
		{ID: 2, R: 20, Center: geom.Pt(20, 40)},
		{ID: 3, R: 20, Center: geom.Pt(40, 40)},
	}
	bounds := geom.R(0, 0, 60, 60)
	cfg := Config{Padding: 2, Spring: 0.1, MaxIterations: 5}

	res := Solve(s, bounds, bounds.Center(), cfg, bubble.NewRNG(1))

	if res.Converged {
		t.Fatalf("Solve() converged in an infeasible region: %+v", res)
	}
	if res.Iterations != cfg.MaxIterations || res.SettlePasses != 2*cfg.MaxIterations {
		t.Errorf("Solve() = %+v, want %d rounds and %d settle passes", res, cfg.MaxIterations, 2*cfg.MaxIterations)
	}
	if res.MaxOverlap <= 0 {
		t.Errorf("MaxOverlap = %v, want residual overlap reported", res.MaxOverlap)
	}
}

func TestSolveEmpty(t *testing.T) {
	res := Solve(nil, geom.R(0, 0, 10, 10), geom.Pt(5, 5), Converge, bubble.NewRNG(1))
	if !res.Converged || res.Iterations != 0 {
		t.Errorf("Solve(nil) = %+v", res)
	}
}

func TestSolveCoincidentCentres(t *testing.T) {
	var s bubble.Set
	for i := range 5 {
		s = append(s, &bubble.Circle{ID: i, R: 10, Center: geom.Pt(200, 200)})
	}
	bounds := geom.R(0, 0, 400, 400)
	cfg := Config{Padding: 2, Spring: 0.05, MaxIterations: 80}

	res := Solve(s, bounds, bounds.Center(), cfg, bubble.NewRNG(3))

	if !res.Converged {
		t.Fatalf("Solve() = %+v, want converged", res)
	}
	assertNoOverlap(t, s, cfg.Padding)
	for _, c := range s {
		if math.IsNaN(c.Center.X) || math.IsNaN(c.Center.Y) {
			t.Fatalf("circle %d has NaN centre", c.ID)
		}
	}
}

func TestTune(t *testing.T) {
	tests := []struct {
		name       string
		density    float64
		meanRadius float64
		want       Config
	}{
		{"sparse small", 0, 10, Config{Padding: 3, Spring: 0.12, MaxIterations: 80}},
		{"dense large", 1, 40, Config{Padding: 14, Spring: 0.04, MaxIterations: 260}},
		{"half", 0.5, 20, Config{Padding: 4.9, Spring: 0.08, MaxIterations: 170}},
		{"clamped above", 3, 40, Config{Padding: 14, Spring: 0.04, MaxIterations: 260}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tune(tt.density, tt.meanRadius, GroupIterBase, GroupIterMax)
			if !near(got.Padding, tt.want.Padding) || !near(got.Spring, tt.want.Spring) ||
				got.MaxIterations != tt.want.MaxIterations {
				t.Errorf("Tune() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTuneMonotonic(t *testing.T) {
	lo := Tune(0.1, 30, GroupIterBase, GroupIterMax)
	hi := Tune(0.9, 30, GroupIterBase, GroupIterMax)
	if hi.MaxIterations <= lo.MaxIterations {
		t.Errorf("iterations: dense %d <= sparse %d", hi.MaxIterations, lo.MaxIterations)
	}
	if hi.Spring >= lo.Spring {
		t.Errorf("spring: dense %v >= sparse %v", hi.Spring, lo.Spring)
	}
	if hi.Padding < lo.Padding {
		t.Errorf("padding: dense %v < sparse %v", hi.Padding, lo.Padding)
	}
}

func TestMaxPadding(t *testing.T) {
	if got := MaxPadding(10); got != 6 {
		t.Errorf("MaxPadding(10) = %v, want floor 6", got)
	}
	if got := MaxPadding(40); !near(got, 14) {
		t.Errorf("MaxPadding(40) = %v, want 14", got)
	}
	for _, r := range []float64{2, 10, 24, 48, 90} {
		for _, d := range []float64{0, 0.25, 0.5, 0.75, 1} {
			if p := Tune(d, r, GroupIterBase, GroupIterMax).Padding; p > MaxPadding(r) {
				t.Errorf("Tune(%v, %v).Padding = %v exceeds MaxPadding %v", d, r, p, MaxPadding(r))
			}
		}
	}
}

func TestDensity(t *testing.T) {
	if got := Density(50, 100); got != 0.5 {
		t.Errorf("Density(50, 100) = %v", got)
	}
	if got := Density(500, 100); got != 1 {
		t.Errorf("Density(500, 100) = %v, want clamped to 1", got)
	}
	if got := Density(10, 0); got != 1 {
		t.Errorf("Density over empty region = %v, want 1", got)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func ExampleSolve() {
	a := &bubble.Circle{R: 10, Center: geom.Pt(50, 50)}
	b := &bubble.Circle{ID: 1, R: 10, Center: geom.Pt(60, 50)}
	bounds := geom.R(0, 0, 200, 200)

	res := Solve(bubble.Set{a, b}, bounds, bounds.Center(),
		Config{Padding: 2, MaxIterations: 10}, bubble.NewRNG(1))

	fmt.Println(a.Center, b.Center)
	fmt.Println("converged:", res.Converged, "iterations:", res.Iterations)
	// Output:
	// (44, 50) (66, 50)
	// converged: true iterations: 2
}
