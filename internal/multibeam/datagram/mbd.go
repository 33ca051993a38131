package datagram

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
)

// TypeMBD is the sentence type of a multibeam depth sentence. Lines look like
//
//	$SDMBD,<unix_seconds>,<D|X>,<transducer_depth>,<beam_count>,<depth_1>,<across_1>,...*CS
//
// with one depth/across-track pair per beam.
const TypeMBD = "MBD"

// mbdTalker is the NMEA talker id for depth sounders.
const mbdTalker = "SD"

const mbdFixedFields = 4

// MBD is a decoded $SDMBD sentence.
type MBD struct {
	nmea.BaseSentence
	Time            float64
	PingKind        string
	TransducerDepth float64
	BeamCount       int64
	Depth           []float64
	AcrossTrack     []float64
}

func init() {
	if err := nmea.RegisterParser(TypeMBD, parseMBD); err != nil {
		panic(err)
	}
}

func parseMBD(s nmea.BaseSentence) (nmea.Sentence, error) {
	if len(s.Fields) < mbdFixedFields {
		return nil, fmt.Errorf("nmea: %s expected at least %d fields, got %d", TypeMBD, mbdFixedFields, len(s.Fields))
	}
	if (len(s.Fields)-mbdFixedFields)%2 != 0 {
		return nil, fmt.Errorf("nmea: %s beam fields must come in depth/across pairs", TypeMBD)
	}

	p := nmea.NewParser(s)
	m := MBD{
		BaseSentence:    s,
		Time:            p.Float64(0, "time"),
		PingKind:        p.String(1, "kind"),
		TransducerDepth: p.Float64(2, "transducer depth"),
		BeamCount:       p.Int64(3, "beam count"),
	}

	beams := (len(s.Fields) - mbdFixedFields) / 2
	m.Depth = make([]float64, beams)
	m.AcrossTrack = make([]float64, beams)
	for i := 0; i < beams; i++ {
		m.Depth[i] = p.Float64(mbdFixedFields+2*i, "depth")
		m.AcrossTrack[i] = p.Float64(mbdFixedFields+2*i+1, "across track")
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if m.PingKind != "D" && m.PingKind != "X" {
		return nil, fmt.Errorf("nmea: %s invalid ping kind %q", TypeMBD, m.PingKind)
	}
	return m, nil
}

// record converts the sentence into a depth record.
func (m MBD) record() Record {
	kind := KindDepth
	if m.PingKind == "X" {
		kind = KindXYZ
	}
	return DepthRecord(kind, unixSeconds(m.Time), Depth{
		BeamCount:       int(m.BeamCount),
		Depth:           m.Depth,
		AcrossTrack:     m.AcrossTrack,
		TransducerDepth: m.TransducerDepth,
	})
}

func unixSeconds(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC()
}

// formatMBD renders a depth ping as a complete $SDMBD sentence.
func formatMBD(kind Kind, t time.Time, d Depth) string {
	code := "D"
	if kind == KindXYZ {
		code = "X"
	}
	var b strings.Builder
	b.WriteString(mbdTalker + TypeMBD)
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 3, 64))
	b.WriteByte(',')
	b.WriteString(code)
	b.WriteByte(',')
	b.WriteString(formatFloat(d.TransducerDepth))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(d.BeamCount))
	for i := range d.Depth {
		across := 0.0
		if i < len(d.AcrossTrack) {
			across = d.AcrossTrack[i]
		}
		b.WriteByte(',')
		b.WriteString(formatFloat(d.Depth[i]))
		b.WriteByte(',')
		b.WriteString(formatFloat(across))
	}
	return sentence(b.String())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sentence wraps body with the leading '$' and trailing checksum.
func sentence(body string) string {
	return "$" + body + "*" + nmea.Checksum(body)
}
