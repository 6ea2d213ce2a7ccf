// Package grid tiles circle groups over a fixed-width grid.
//
// Groups fill the grid row-major. All cells share the same width; each row is
// as tall as the largest footprint among its groups, floored at a minimum
// cell height. A group's footprint is the larger of two estimates plus a
// margin: the diameter of the disc with the group's total circle area, and
// the height of a shelf packing of the group at the cell width. The shelf
// estimate keeps groups of circles that are large relative to the cell width
// packable.
package grid

import (
	"math"
	"slices"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/core/geom"
	"github.com/matzehuels/bubblepack/pkg/core/relax"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// DefaultMargin is the slack added to every group footprint.
const DefaultMargin = 36.0

// Options configures a partition.
type Options struct {
	Width         float64 // grid width; cells are Width/Columns wide
	Columns       int
	MinCellHeight float64 // floor for every row
	Margin        float64 // added to each footprint; zero means DefaultMargin
}

// MinCellHeight is the row floor the engine uses for circles no larger than
// maxRadius: max(160, 2·maxRadius + 80).
func MinCellHeight(maxRadius float64) float64 {
	return max(160, 2*maxRadius+80)
}

// Cell is the region assigned to one group.
type Cell struct {
	Group  int       `json:"group"`
	Row    int       `json:"row"`
	Col    int       `json:"col"`
	Bounds geom.Rect `json:"bounds"`
}

// Layout is the result of [Partition].
type Layout struct {
	Columns       int       `json:"columns"`
	Rows          int       `json:"rows"`
	CellWidth     float64   `json:"cell_width"`
	RowHeights    []float64 `json:"row_heights"`
	RowTops       []float64 `json:"row_tops"`
	ContentHeight float64   `json:"content_height"`
	Cells         []Cell    `json:"cells"`
}

// Footprint returns the vertical space a group of the given total area needs.
func Footprint(area, minHeight, margin float64) float64 {
	return max(minHeight, 2*math.Sqrt(area/math.Pi)+margin)
}

// ShelfHeight returns the height of a shelf packing of g into a cell of the
// given width. Circles go largest first, left to right, with padding between
// circles and along the cell edges; a circle that does not fit on the current
// shelf opens a new one. A circle wider than the cell gets a shelf of its own.
func ShelfHeight(g bubble.Set, width, padding float64) float64 {
	if len(g) == 0 {
		return 0
	}
	radii := make([]float64, len(g))
	for i, c := range g {
		radii[i] = c.R
	}
	slices.Sort(radii)
	slices.Reverse(radii)

	height := padding
	var shelf, x float64
	for i, r := range radii {
		d := 2*r + padding
		if i == 0 || x+d > width {
			height += shelf
			shelf, x = d, padding
		}
		x += d
	}
	return height + shelf
}

// groupFootprint is the row height g needs in a cell of the given width. The
// shelf estimate uses the widest padding the solver may choose for g.
func groupFootprint(g bubble.Set, cellWidth, minHeight, margin float64) float64 {
	fp := Footprint(g.TotalArea(), minHeight, margin)
	if len(g) == 0 {
		return fp
	}
	return max(fp, ShelfHeight(g, cellWidth, relax.MaxPadding(g.MeanRadius()))+margin)
}

// Partition assigns every group a cell. Empty groups still get a cell and
// contribute only the minimum height to their row. Zero groups yield an empty
// layout.
func Partition(groups []bubble.Set, opts Options) (*Layout, error) {
	if err := errors.ValidateColumns(opts.Columns); err != nil {
		return nil, err
	}
	if opts.Width <= 0 || math.IsNaN(opts.Width) || math.IsInf(opts.Width, 0) {
		return nil, errors.New(errors.ErrCodeInvalidViewport, "grid width must be positive, got %v", opts.Width)
	}
	margin := opts.Margin
	if margin == 0 {
		margin = DefaultMargin
	}

	l := &Layout{
		Columns:   opts.Columns,
		CellWidth: opts.Width / float64(opts.Columns),
	}
	if len(groups) == 0 {
		return l, nil
	}

	l.Rows = (len(groups) + opts.Columns - 1) / opts.Columns
	l.RowHeights = make([]float64, l.Rows)
	for i, g := range groups {
		row := i / opts.Columns
		l.RowHeights[row] = max(l.RowHeights[row], groupFootprint(g, l.CellWidth, opts.MinCellHeight, margin))
	}

	l.RowTops = make([]float64, l.Rows)
	for r, h := range l.RowHeights {
		l.RowTops[r] = l.ContentHeight
		l.ContentHeight += h
	}

	l.Cells = make([]Cell, len(groups))
	for i := range groups {
		row, col := i/opts.Columns, i%opts.Columns
		l.Cells[i] = Cell{
			Group:  i,
			Row:    row,
			Col:    col,
			Bounds: geom.R(float64(col)*l.CellWidth, l.RowTops[row], l.CellWidth, l.RowHeights[row]),
		}
	}
	return l, nil
}

// Bounds returns the rectangle covering the whole grid.
func (l *Layout) Bounds() geom.Rect {
	return geom.R(0, 0, l.CellWidth*float64(l.Columns), l.ContentHeight)
}
