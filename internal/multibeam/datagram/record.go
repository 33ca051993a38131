package datagram

import (
	"fmt"
	"time"
)

// Kind identifies what a record carries.
type Kind int

const (
	// KindUnknown records are skipped by consumers.
	KindUnknown Kind = iota
	// KindPosition records carry a navigation fix.
	KindPosition
	// KindDepth is a depth datagram ('D').
	KindDepth
	// KindXYZ is an XYZ 88 datagram ('X'); it is handled exactly like KindDepth.
	KindXYZ
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindDepth:
		return "depth"
	case KindXYZ:
		return "xyz"
	default:
		return "unknown"
	}
}

// IsDepth reports whether records of this kind carry a ping.
func (k Kind) IsDepth() bool {
	return k == KindDepth || k == KindXYZ
}

// Position is a navigation fix.
type Position struct {
	Latitude   float64
	Longitude  float64
	Heading    float64
	HasHeading bool
	// Descriptor names the positioning system that produced the fix.
	Descriptor string
}

// Depth is one multibeam ping. Depth and AcrossTrack are indexed by beam;
// a zero across-track distance marks a beam without valid geometry.
type Depth struct {
	BeamCount       int
	Depth           []float64
	AcrossTrack     []float64
	TransducerDepth float64
}

// Record is a single decoded datagram. Exactly one of Position or Depth is
// set for known kinds; both are nil for KindUnknown.
type Record struct {
	Kind     Kind
	Time     time.Time
	Position *Position
	Depth    *Depth
}

// PositionRecord builds a KindPosition record.
func PositionRecord(t time.Time, p Position) Record {
	return Record{Kind: KindPosition, Time: t, Position: &p}
}

// DepthRecord builds a depth record of the given kind. It panics if kind is
// not a depth kind.
func DepthRecord(kind Kind, t time.Time, d Depth) Record {
	if !kind.IsDepth() {
		panic(fmt.Sprintf("datagram: %s is not a depth kind", kind))
	}
	return Record{Kind: kind, Time: t, Depth: &d}
}
