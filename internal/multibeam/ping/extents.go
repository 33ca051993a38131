// Package ping accumulates multibeam depth pings into a waterfall.
//
// Extents.Observe is a pure state transition: it consumes one depth record
// and returns the updated running statistics plus the corrected Row, which
// the caller pushes onto a Waterfall.
//
// Dependency rule: ping depends on datagram and navigation only.
package ping

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/waterfall.report/internal/multibeam/datagram"
	"github.com/banshee-data/waterfall.report/internal/multibeam/navigation"
)

// Row is one accepted ping.
type Row struct {
	Sequence int
	Time     time.Time
	// Depth is beam depth plus transducer depth, indexed by beam.
	Depth       []float64
	AcrossTrack []float64
	// Nav is the most recent navigation sample when the ping arrived.
	Nav *navigation.Sample
}

// Extents are the running statistics over all accepted pings. The zero
// value is ready to use.
type Extents struct {
	hasDepth bool
	minDepth float64
	maxDepth float64

	// BeamCount is the widest accepted ping.
	BeamCount int
	// Pings counts accepted rows; Rejected counts discarded records.
	Pings    int
	Rejected int

	spacingSum   float64
	spacingCount int

	leftSum   float64
	rightSum  float64
	edgeCount int
}

// Observe folds one depth record into the extents. It returns the corrected
// row and true when the ping is accepted; pings with a beam count of one or
// less, or with no depth values, are rejected and leave the row empty.
//
// The across-track spacing of a ping is the mean absolute difference between
// consecutive non-zero across-track distances. Pings with fewer than two
// non-zero distances contribute depth but not spacing.
func (e Extents) Observe(d datagram.Depth, seq int, t time.Time, nav *navigation.Sample) (Extents, Row, bool) {
	if d.BeamCount <= 1 || len(d.Depth) == 0 {
		e.Rejected++
		return e, Row{}, false
	}

	across := nonZero(d.AcrossTrack)
	if len(across) >= 2 {
		steps := make([]float64, len(across)-1)
		for i := range steps {
			steps[i] = math.Abs(across[i+1] - across[i])
		}
		e.spacingSum += stat.Mean(steps, nil)
		e.spacingCount++
	}
	if len(across) > 0 {
		e.leftSum += floats.Min(across)
		e.rightSum += floats.Max(across)
		e.edgeCount++
	}

	if len(d.Depth) > e.BeamCount {
		e.BeamCount = len(d.Depth)
	}

	depth := make([]float64, len(d.Depth))
	copy(depth, d.Depth)
	floats.AddConst(d.TransducerDepth, depth)

	lo, hi := floats.Min(depth), floats.Max(depth)
	if !e.hasDepth {
		e.minDepth, e.maxDepth = lo, hi
		e.hasDepth = true
	} else {
		e.minDepth = math.Min(e.minDepth, lo)
		e.maxDepth = math.Max(e.maxDepth, hi)
	}
	e.Pings++

	acrossCopy := make([]float64, len(d.AcrossTrack))
	copy(acrossCopy, d.AcrossTrack)
	return e, Row{Sequence: seq, Time: t, Depth: depth, AcrossTrack: acrossCopy, Nav: nav}, true
}

func nonZero(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if x != 0 {
			out = append(out, x)
		}
	}
	return out
}

// DepthRange returns the minimum and maximum corrected depth seen. Before any
// ping is accepted it returns +Inf and -Inf.
func (e Extents) DepthRange() (min, max float64) {
	if !e.hasDepth {
		return math.Inf(1), math.Inf(-1)
	}
	return e.minDepth, e.maxDepth
}

// AcrossResolution is the mean of the per-ping across-track spacings. It is
// zero when no ping had usable geometry.
func (e Extents) AcrossResolution() float64 {
	if e.spacingCount == 0 {
		return 0
	}
	return e.spacingSum / float64(e.spacingCount)
}

// SpacingSamples returns how many pings contributed to AcrossResolution.
func (e Extents) SpacingSamples() int { return e.spacingCount }

// SwathEdges returns the mean port (left) and starboard (right) across-track
// extents over all pings with geometry.
func (e Extents) SwathEdges() (left, right float64) {
	if e.edgeCount == 0 {
		return 0, 0
	}
	return e.leftSum / float64(e.edgeCount), e.rightSum / float64(e.edgeCount)
}
