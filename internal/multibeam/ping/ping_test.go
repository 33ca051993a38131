package ping

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/waterfall.report/internal/multibeam/datagram"
	"github.com/banshee-data/waterfall.report/internal/multibeam/navigation"
)

var t0 = time.Date(2021, time.March, 3, 8, 0, 0, 0, time.UTC)

func ping(depth, across []float64, td float64) datagram.Depth {
	return datagram.Depth{BeamCount: len(depth), Depth: depth, AcrossTrack: across, TransducerDepth: td}
}

// --- Extents ---

func TestExtents_ZeroValue(t *testing.T) {
	t.Parallel()
	var e Extents
	lo, hi := e.DepthRange()
	assert.True(t, math.IsInf(lo, 1))
	assert.True(t, math.IsInf(hi, -1))
	assert.Zero(t, e.AcrossResolution())
	assert.Zero(t, e.BeamCount)
}

func TestExtents_ObserveCorrectsDepth(t *testing.T) {
	t.Parallel()
	nav := &navigation.Sample{Sequence: 0}
	var e Extents
	e, row, ok := e.Observe(ping([]float64{10, 12, 11}, []float64{-5, 0, 5}, 1.5), 3, t0, nav)
	require.True(t, ok)

	assert.Equal(t, []float64{11.5, 13.5, 12.5}, row.Depth)
	assert.Equal(t, []float64{-5, 0, 5}, row.AcrossTrack)
	assert.Equal(t, 3, row.Sequence)
	assert.Same(t, nav, row.Nav)

	lo, hi := e.DepthRange()
	assert.Equal(t, 11.5, lo)
	assert.Equal(t, 13.5, hi)
	assert.Equal(t, 3, e.BeamCount)
	assert.Equal(t, 1, e.Pings)
	// Zero across-track entries are ignored: spacing is |5 - -5|.
	assert.InDelta(t, 10.0, e.AcrossResolution(), 1e-12)
}

func TestExtents_ObserveDoesNotAliasInput(t *testing.T) {
	t.Parallel()
	depth := []float64{1, 2}
	var e Extents
	_, row, ok := e.Observe(ping(depth, []float64{-1, 1}, 0), 0, t0, nil)
	require.True(t, ok)
	row.Depth[0] = 99
	assert.Equal(t, 1.0, depth[0])
}

func TestExtents_RejectsDegeneratePings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   datagram.Depth
	}{
		{"single beam", datagram.Depth{BeamCount: 1, Depth: []float64{4}, AcrossTrack: []float64{0}}},
		{"zero beams", datagram.Depth{}},
		{"empty depth", datagram.Depth{BeamCount: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Extents
			next, row, ok := e.Observe(tt.in, 0, t0, nil)
			assert.False(t, ok)
			assert.Nil(t, row.Depth)
			assert.Equal(t, 1, next.Rejected)
			assert.Zero(t, next.Pings)
		})
	}
}

func TestExtents_FlatSwathKeepsDepthOnly(t *testing.T) {
	t.Parallel()
	var e Extents
	e, _, ok := e.Observe(ping([]float64{3, 4}, []float64{0, 0}, 0), 0, t0, nil)
	require.True(t, ok)
	assert.Zero(t, e.SpacingSamples())
	lo, hi := e.DepthRange()
	assert.Equal(t, 3.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestExtents_MonotonicRange(t *testing.T) {
	t.Parallel()
	var e Extents
	e, _, _ = e.Observe(ping([]float64{5, 6}, []float64{-1, 1}, 0), 0, t0, nil)
	e, _, _ = e.Observe(ping([]float64{2, 9}, []float64{-1, 1}, 0), 1, t0, nil)
	e, _, _ = e.Observe(ping([]float64{4, 4}, []float64{-1, 1}, 0), 2, t0, nil)
	lo, hi := e.DepthRange()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 9.0, hi)
}

func TestExtents_ResolutionIsMeanOfPingMeans(t *testing.T) {
	t.Parallel()
	var e Extents
	// Spacings: 4, then (2+1)/2; the third ping has one non-zero distance.
	e, _, _ = e.Observe(ping([]float64{1, 1, 1}, []float64{-2, 0, 2}, 0), 0, t0, nil)
	e, _, _ = e.Observe(ping([]float64{1, 1, 1}, []float64{-1, 1, 2}, 0), 1, t0, nil)
	e, _, _ = e.Observe(ping([]float64{1, 1, 1, 1}, []float64{0, 0, 0, 7}, 0), 2, t0, nil)
	assert.Equal(t, 2, e.SpacingSamples())
	assert.InDelta(t, (4+1.5)/2, e.AcrossResolution(), 1e-12)
	assert.Equal(t, 4, e.BeamCount)

	left, right := e.SwathEdges()
	assert.InDelta(t, (-2-1+7)/3.0, left, 1e-12)
	assert.InDelta(t, (2+2+7)/3.0, right, 1e-12)
}

// --- Waterfall ---

func TestWaterfall_NewestFirst(t *testing.T) {
	t.Parallel()
	var w Waterfall
	for i, d := range [][]float64{{1, 1}, {2, 2}, {3, 3}} {
		w.Push(Row{Sequence: i, Depth: d})
	}
	require.Equal(t, 3, w.Len())
	assert.Equal(t, 2, w.Row(0).Sequence)
	assert.Equal(t, 0, w.Row(2).Sequence)

	rows := w.Rows(0, 3)
	got := []int{rows[0].Sequence, rows[1].Sequence, rows[2].Sequence}
	assert.Equal(t, []int{2, 1, 0}, got)

	rows = w.Rows(1, 2)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Sequence)
}

func TestWaterfall_RejectedPingLeavesBufferUnchanged(t *testing.T) {
	t.Parallel()
	var (
		w Waterfall
		e Extents
	)
	e, row, ok := e.Observe(ping([]float64{1, 2}, []float64{-1, 1}, 0), 0, t0, nil)
	require.True(t, ok)
	w.Push(row)

	_, _, ok = e.Observe(datagram.Depth{BeamCount: 1, Depth: []float64{5}}, 1, t0, nil)
	assert.False(t, ok)
	assert.Equal(t, 1, w.Len())
}

func TestWaterfall_GridPadsRaggedRows(t *testing.T) {
	t.Parallel()
	var w Waterfall
	w.Push(Row{Depth: []float64{1, 2}})
	w.Push(Row{Depth: []float64{3, 4, 5}})
	assert.Equal(t, 3, w.Width())

	g, err := w.Grid(0, 2)
	require.NoError(t, err)
	want := mat.NewDense(2, 3, []float64{
		3, 4, 5,
		1, 2, 0,
	})
	assert.True(t, mat.Equal(want, g), "got %v", mat.Formatted(g))

	g, err = w.Grid(1, 2)
	require.NoError(t, err)
	r, c := g.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, g.At(0, 0))
}

func TestWaterfall_GridRange(t *testing.T) {
	t.Parallel()
	var w Waterfall
	_, err := w.Grid(0, 0)
	assert.Error(t, err)

	w.Push(Row{Depth: []float64{1, 2}})
	for _, r := range [][2]int{{-1, 1}, {0, 2}, {1, 1}} {
		_, err := w.Grid(r[0], r[1])
		assert.Error(t, err, "range %v", r)
	}
}
