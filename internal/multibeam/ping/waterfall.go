package ping

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Waterfall holds accepted rows. Rows are stored in arrival order and read
// newest first: index 0 is always the most recent ping.
type Waterfall struct {
	rows  []Row
	width int
}

// Push adds the newest row.
func (w *Waterfall) Push(r Row) {
	w.rows = append(w.rows, r)
	if len(r.Depth) > w.width {
		w.width = len(r.Depth)
	}
}

// Len returns the number of rows.
func (w *Waterfall) Len() int { return len(w.rows) }

// Width returns the beam count of the widest row.
func (w *Waterfall) Width() int { return w.width }

// Row returns row i counting from the newest ping.
func (w *Waterfall) Row(i int) Row {
	return w.rows[len(w.rows)-1-i]
}

// Rows returns rows [start, end) newest first.
func (w *Waterfall) Rows(start, end int) []Row {
	out := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, w.Row(i))
	}
	return out
}

// Grid stacks rows [start, end) newest first into a matrix with one row per
// ping and one column per beam. Narrow pings are padded with zero, which
// downstream stages treat as no data.
func (w *Waterfall) Grid(start, end int) (*mat.Dense, error) {
	if start < 0 || end > len(w.rows) || start >= end {
		return nil, fmt.Errorf("row range [%d, %d) outside waterfall of %d rows", start, end, len(w.rows))
	}
	if w.width == 0 {
		return nil, fmt.Errorf("waterfall rows carry no beams")
	}
	g := mat.NewDense(end-start, w.width, nil)
	for i, row := range w.Rows(start, end) {
		g.SetRow(i, padded(row.Depth, w.width))
	}
	return g, nil
}

func padded(v []float64, n int) []float64 {
	if len(v) == n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}
