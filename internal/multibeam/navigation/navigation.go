// Package navigation tracks vehicle position across a record stream.
//
// The tracker is a value-typed state machine: State.Observe consumes one
// position record and returns the next State together with the Sample it
// produced. The caller owns the Track the samples are appended to.
//
// Dependency rule: navigation depends on datagram and geodesy only.
package navigation

import (
	"time"

	"github.com/banshee-data/waterfall.report/internal/geodesy"
	"github.com/banshee-data/waterfall.report/internal/multibeam/datagram"
)

// Sample is one accepted navigation fix.
type Sample struct {
	// Sequence is the record index of the fix within the stream.
	Sequence   int
	Time       time.Time
	Heading    float64
	HasHeading bool
	Latitude   float64
	Longitude  float64
	// East and North are metres from the state's origin.
	East  float64
	North float64
}

// State is the tracker state between records. The zero State has no origin.
type State struct {
	frame     geodesy.Frame
	hasOrigin bool
	previous  geodesy.LatLon

	// Distance is the cumulative great-circle distance travelled, metres.
	Distance float64
	// Count is the number of fixes observed.
	Count int
	// PositioningSystem is the descriptor of the first fix observed.
	PositioningSystem string
}

// Origin returns the fixed ENU origin and whether it has been set.
func (s State) Origin() (geodesy.LatLon, bool) {
	if !s.hasOrigin {
		return geodesy.LatLon{}, false
	}
	return s.frame.Origin(), true
}

// Observe folds one fix into the state. The first fix becomes the origin and
// the previous position; the origin is never changed afterwards.
func (s State) Observe(p datagram.Position, seq int, t time.Time) (State, Sample) {
	here := geodesy.LatLon{Lat: p.Latitude, Lon: p.Longitude}
	if !s.hasOrigin {
		s.frame = geodesy.NewFrame(here)
		s.hasOrigin = true
		s.previous = here
		s.PositioningSystem = p.Descriptor
	}

	s.Distance += geodesy.Range(s.previous, here)

	east, north, _ := s.frame.ENU(here, 0)
	sample := Sample{
		Sequence:   seq,
		Time:       t,
		Heading:    p.Heading,
		HasHeading: p.HasHeading,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		East:       east,
		North:      north,
	}

	s.previous = here
	s.Count++
	return s, sample
}
