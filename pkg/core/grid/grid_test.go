package grid

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/core/geom"
	"github.com/matzehuels/bubblepack/pkg/core/relax"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

func groupsOf(t *testing.T, count, groups int, r bubble.Range) []bubble.Set {
	t.Helper()
	s, err := bubble.NewSet(count, groups, r, bubble.NewRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	return s.Groups(groups)
}

func TestPartitionRowHeights(t *testing.T) {
	groups := groupsOf(t, 80, 8, bubble.Range{Min: 10, Max: 40})
	baseH := MinCellHeight(40)
	l, err := Partition(groups, Options{Width: 1200, Columns: 4, MinCellHeight: baseH})
	if err != nil {
		t.Fatal(err)
	}

	if l.Rows != 2 {
		t.Fatalf("Rows = %d, want 2", l.Rows)
	}
	var sum float64
	for r, h := range l.RowHeights {
		if h < baseH {
			t.Errorf("row %d height %v below floor %v", r, h, baseH)
		}
		for _, g := range groups[r*4 : r*4+4] {
			if fp := Footprint(g.TotalArea(), baseH, DefaultMargin); fp > h {
				t.Errorf("row %d height %v smaller than member footprint %v", r, h, fp)
			}
			if sh := ShelfHeight(g, l.CellWidth, relax.MaxPadding(g.MeanRadius())); sh+DefaultMargin > h {
				t.Errorf("row %d height %v smaller than member shelf height %v", r, h, sh+DefaultMargin)
			}
		}
		sum += h
	}
	if l.ContentHeight != sum {
		t.Errorf("ContentHeight = %v, want %v", l.ContentHeight, sum)
	}
	if d := cmp.Diff([]float64{0, l.RowHeights[0]}, l.RowTops); d != "" {
		t.Errorf("RowTops mismatch (-want +got):\n%s", d)
	}
}

func TestPartitionCells(t *testing.T) {
	groups := groupsOf(t, 200, 40, bubble.Range{Min: 24, Max: 72})
	l, err := Partition(groups, Options{Width: 1200, Columns: 5, MinCellHeight: MinCellHeight(72)})
	if err != nil {
		t.Fatal(err)
	}
	if l.Rows != 8 || len(l.Cells) != 40 {
		t.Fatalf("Rows = %d, cells = %d, want 8 rows and 40 cells", l.Rows, len(l.Cells))
	}
	if l.CellWidth != 240 {
		t.Errorf("CellWidth = %v, want 240", l.CellWidth)
	}
	for i, c := range l.Cells {
		if c.Group != i || c.Row != i/5 || c.Col != i%5 {
			t.Errorf("cell %d = group %d at (%d, %d)", i, c.Group, c.Row, c.Col)
		}
		want := geom.R(float64(c.Col)*240, l.RowTops[c.Row], 240, l.RowHeights[c.Row])
		if c.Bounds != want {
			t.Errorf("cell %d bounds = %v, want %v", i, c.Bounds, want)
		}
	}
	if got := l.Bounds(); got != geom.R(0, 0, 1200, l.ContentHeight) {
		t.Errorf("Bounds() = %v", got)
	}
}

func TestPartitionEmptyGroupUsesFloor(t *testing.T) {
	groups := []bubble.Set{nil, nil, nil}
	l, err := Partition(groups, Options{Width: 600, Columns: 2, MinCellHeight: 160})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{160, 160}, l.RowHeights); d != "" {
		t.Errorf("RowHeights mismatch (-want +got):\n%s", d)
	}
	if l.ContentHeight != 320 {
		t.Errorf("ContentHeight = %v, want 320", l.ContentHeight)
	}
}

func TestPartitionZeroGroups(t *testing.T) {
	l, err := Partition(nil, Options{Width: 800, Columns: 3, MinCellHeight: 160})
	if err != nil {
		t.Fatal(err)
	}
	if l.Rows != 0 || len(l.Cells) != 0 || l.ContentHeight != 0 {
		t.Errorf("Partition(nil) = %+v, want empty", l)
	}
}

func TestPartitionValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"zero columns", Options{Width: 800}, errors.ErrCodeInvalidColumns},
		{"zero width", Options{Columns: 2}, errors.ErrCodeInvalidViewport},
		{"nan width", Options{Width: math.NaN(), Columns: 2}, errors.ErrCodeInvalidViewport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Partition(nil, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("Partition() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFootprint(t *testing.T) {
	// A single circle of radius 100 needs its diameter plus the margin.
	if got := Footprint(geom.Area(100), 160, 36); math.Abs(got-236) > 1e-9 {
		t.Errorf("Footprint() = %v, want 236", got)
	}
	if got := Footprint(geom.Area(10), 160, 36); got != 160 {
		t.Errorf("Footprint() = %v, want floor 160", got)
	}
	if got := MinCellHeight(72); got != 224 {
		t.Errorf("MinCellHeight(72) = %v, want 224", got)
	}
}

func TestShelfHeight(t *testing.T) {
	circles := func(radii ...float64) bubble.Set {
		s := make(bubble.Set, len(radii))
		for i, r := range radii {
			s[i] = &bubble.Circle{ID: i, R: r}
		}
		return s
	}
	tests := []struct {
		name    string
		g       bubble.Set
		width   float64
		padding float64
		want    float64
	}{
		{"empty", nil, 200, 5, 0},
		{"two shelves", circles(10, 30, 40, 20), 200, 5, 115},
		{"wider than cell", circles(150), 200, 5, 310},
		{"one per shelf", circles(50, 50, 50), 120, 10, 340},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShelfHeight(tt.g, tt.width, tt.padding); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ShelfHeight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartitionNarrowCells(t *testing.T) {
	// Three circles of radius 50 cannot sit side by side in a 120px cell,
	// so the row must stack them even though their area alone is small.
	g := bubble.Set{{ID: 0, R: 50}, {ID: 1, R: 50}, {ID: 2, R: 50}}
	l, err := Partition([]bubble.Set{g}, Options{Width: 120, Columns: 1, MinCellHeight: 160})
	if err != nil {
		t.Fatal(err)
	}
	// padding = MaxPadding(50) = 17.5; 17.5 + 3·117.5 + DefaultMargin
	if want := 406.0; math.Abs(l.RowHeights[0]-want) > 1e-9 {
		t.Errorf("RowHeights[0] = %v, want %v", l.RowHeights[0], want)
	}
	if area := Footprint(g.TotalArea(), 160, DefaultMargin); area >= l.RowHeights[0] {
		t.Errorf("area footprint %v should be below the shelf estimate", area)
	}
}
