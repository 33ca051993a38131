package datagram

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
)

const maxLogLine = 1024 * 1024

// LogSource reads a survey log: one NMEA sentence per line. GGA and RMC
// sentences carrying a fix become position records, $SDMBD sentences become
// depth records and every other line, including no-fix GGA and void RMC,
// becomes a KindUnknown record. A HDT sentence carries its heading onto the
// next position record.
//
// Blank lines and lines starting with '#' are ignored entirely.
type LogSource struct {
	r       io.ReadSeeker
	closer  io.Closer
	scanner *bufio.Scanner

	line    string
	hasLine bool
	err     error
	closed  bool

	current        time.Time
	date           nmea.Date
	pendingHeading *float64
	malformed      int
}

// OpenLog opens a survey log file.
func OpenLog(path string) (*LogSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey log: %w", err)
	}
	src := NewLogSource(f)
	src.closer = f
	return src, nil
}

// NewLogSource reads a survey log from r. Rewind seeks r back to the start.
func NewLogSource(r io.ReadSeeker) *LogSource {
	s := &LogSource{r: r}
	s.reset()
	return s
}

func (s *LogSource) reset() {
	s.scanner = bufio.NewScanner(s.r)
	s.scanner.Buffer(make([]byte, 64*1024), maxLogLine)
	s.current = time.Time{}
	s.date = nmea.Date{}
	s.pendingHeading = nil
	s.malformed = 0
	s.err = nil
	s.advance()
}

// advance moves the lookahead onto the next meaningful line.
func (s *LogSource) advance() {
	s.hasLine = false
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.line = line
		s.hasLine = true
		return
	}
	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("failed to read survey log: %w", err)
	}
}

func (s *LogSource) HasMore() bool {
	return !s.closed && (s.hasLine || s.err != nil)
}

func (s *LogSource) ReadNext() (Record, error) {
	if s.closed {
		return Record{}, ErrClosed
	}
	if !s.hasLine {
		if s.err != nil {
			err := s.err
			s.err = nil
			return Record{}, err
		}
		return Record{}, io.EOF
	}
	line := s.line
	s.advance()

	rec := s.decode(line)
	if !rec.Time.IsZero() {
		s.current = rec.Time
	}
	return rec, nil
}

func (s *LogSource) decode(line string) Record {
	sent, err := nmea.Parse(line)
	if err != nil {
		s.malformed++
		return Record{Kind: KindUnknown, Time: s.current}
	}

	switch m := sent.(type) {
	case MBD:
		return m.record()
	case nmea.RMC:
		if m.Date.Valid {
			s.date = m.Date
		}
		if m.Validity != nmea.ValidRMC {
			break
		}
		p := Position{
			Latitude:   m.Latitude,
			Longitude:  m.Longitude,
			Heading:    m.Course,
			HasHeading: true,
			Descriptor: m.Talker,
		}
		return PositionRecord(s.fixTime(m.Time), s.applyHeading(p))
	case nmea.GGA:
		if m.FixQuality == nmea.Invalid {
			break
		}
		p := Position{
			Latitude:   m.Latitude,
			Longitude:  m.Longitude,
			Descriptor: m.Talker,
		}
		return PositionRecord(s.fixTime(m.Time), s.applyHeading(p))
	case nmea.HDT:
		h := m.Heading
		s.pendingHeading = &h
	}
	return Record{Kind: KindUnknown, Time: s.current}
}

func (s *LogSource) applyHeading(p Position) Position {
	if s.pendingHeading != nil {
		p.Heading = *s.pendingHeading
		p.HasHeading = true
		s.pendingHeading = nil
	}
	return p
}

// fixTime combines an NMEA time of day with the most recent RMC date.
func (s *LogSource) fixTime(t nmea.Time) time.Time {
	if !t.Valid {
		return s.current
	}
	year, month, day := 1970, time.January, 1
	if s.date.Valid {
		year, month, day = 2000+s.date.YY, time.Month(s.date.MM), s.date.DD
	}
	return time.Date(year, month, day, t.Hour, t.Minute, t.Second, t.Millisecond*int(time.Millisecond), time.UTC)
}

func (s *LogSource) CurrentTimestamp() time.Time { return s.current }

// Malformed returns how many lines since the last rewind failed to parse.
func (s *LogSource) Malformed() int { return s.malformed }

func (s *LogSource) Rewind() error {
	if s.closed {
		return ErrClosed
	}
	if _, err := s.r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind survey log: %w", err)
	}
	s.reset()
	return nil
}

func (s *LogSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
