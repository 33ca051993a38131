package navigation

// Track is the ordered, append-only list of navigation samples.
type Track struct {
	samples []Sample
}

// Append adds s to the end of the track.
func (t *Track) Append(s Sample) {
	t.samples = append(t.samples, s)
}

// Len returns the number of samples.
func (t *Track) Len() int { return len(t.samples) }

// Last returns the most recent sample, or nil if the track is empty. The
// returned pointer refers to a copy.
func (t *Track) Last() *Sample {
	if len(t.samples) == 0 {
		return nil
	}
	s := t.samples[len(t.samples)-1]
	return &s
}

// Samples returns a copy of all samples in arrival order.
func (t *Track) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// LatLon returns the latitude and longitude sequences.
func (t *Track) LatLon() (lat, lon []float64) {
	lat = make([]float64, len(t.samples))
	lon = make([]float64, len(t.samples))
	for i, s := range t.samples {
		lat[i], lon[i] = s.Latitude, s.Longitude
	}
	return lat, lon
}

// ENU returns the east and north sequences in metres.
func (t *Track) ENU() (east, north []float64) {
	east = make([]float64, len(t.samples))
	north = make([]float64, len(t.samples))
	for i, s := range t.samples {
		east[i], north[i] = s.East, s.North
	}
	return east, north
}
