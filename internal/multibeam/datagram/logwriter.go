package datagram

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

const defaultTalker = "GP"

// LogWriter writes records in the survey log format read by LogSource.
// Positions with a heading are written as RMC (heading as course over
// ground), positions without one as GGA.
type LogWriter struct {
	w io.Writer
}

// NewLogWriter returns a writer that emits one sentence per line to w.
func NewLogWriter(w io.Writer) *LogWriter {
	return &LogWriter{w: w}
}

// WriteRecord writes r. KindUnknown records are ignored.
func (lw *LogWriter) WriteRecord(r Record) error {
	switch {
	case r.Kind == KindPosition && r.Position != nil:
		return lw.WritePosition(r.Time, *r.Position)
	case r.Kind.IsDepth() && r.Depth != nil:
		return lw.WriteDepth(r.Kind, r.Time, *r.Depth)
	}
	return nil
}

// WritePosition writes a navigation fix taken at t.
func (lw *LogWriter) WritePosition(t time.Time, p Position) error {
	talker := p.Descriptor
	if len(talker) != 2 {
		talker = defaultTalker
	}
	t = t.UTC()
	lat, ns := formatLatitude(p.Latitude)
	lon, ew := formatLongitude(p.Longitude)

	var body string
	if p.HasHeading {
		body = fmt.Sprintf("%sRMC,%s,A,%s,%s,%s,%s,0.0,%s,%s,,,A",
			talker, formatClock(t), lat, ns, lon, ew,
			strconv.FormatFloat(p.Heading, 'f', 2, 64), t.Format("020106"))
	} else {
		body = fmt.Sprintf("%sGGA,%s,%s,%s,%s,%s,1,08,0.9,0.0,M,0.0,M,,",
			talker, formatClock(t), lat, ns, lon, ew)
	}
	_, err := fmt.Fprintln(lw.w, sentence(body))
	return err
}

// WriteDepth writes a depth ping of the given depth kind taken at t.
func (lw *LogWriter) WriteDepth(kind Kind, t time.Time, d Depth) error {
	if !kind.IsDepth() {
		return fmt.Errorf("datagram: cannot write %s record as depth", kind)
	}
	_, err := fmt.Fprintln(lw.w, formatMBD(kind, t, d))
	return err
}

func formatClock(t time.Time) string {
	return fmt.Sprintf("%02d%02d%02d.%02d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e7)
}

// formatLatitude renders ddmm.mmmmmm plus hemisphere.
func formatLatitude(v float64) (string, string) {
	hemi := "N"
	if v < 0 {
		hemi = "S"
	}
	d, m := degMin(math.Abs(v))
	return fmt.Sprintf("%02d%09.6f", d, m), hemi
}

// formatLongitude renders dddmm.mmmmmm plus hemisphere.
func formatLongitude(v float64) (string, string) {
	hemi := "E"
	if v < 0 {
		hemi = "W"
	}
	d, m := degMin(math.Abs(v))
	return fmt.Sprintf("%03d%09.6f", d, m), hemi
}

func degMin(v float64) (int, float64) {
	d := math.Floor(v)
	m := (v - d) * 60
	// Rounding can push minutes to 60.000000.
	if m >= 59.9999995 {
		d++
		m = 0
	}
	return int(d), m
}
