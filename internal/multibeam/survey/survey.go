package survey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/waterfall.report/internal/config"
	"github.com/banshee-data/waterfall.report/internal/geodesy"
	"github.com/banshee-data/waterfall.report/internal/monitoring"
	"github.com/banshee-data/waterfall.report/internal/multibeam/datagram"
	"github.com/banshee-data/waterfall.report/internal/multibeam/navigation"
	"github.com/banshee-data/waterfall.report/internal/multibeam/ping"
)

var (
	// ErrNoData is returned when rendering an empty waterfall.
	ErrNoData = errors.New("no ping data available")
	// ErrRowRange is returned when a row selection falls outside the waterfall.
	ErrRowRange = errors.New("row range outside waterfall")
	// ErrNoNavigation is returned when no position has been observed.
	ErrNoNavigation = errors.New("no navigation samples")
	// ErrTooFewSamples is returned when local coordinates are requested with
	// fewer samples than the configured minimum.
	ErrTooFewSamples = errors.New("too few navigation samples for local coordinates")
)

// Stats are the finalised results of Run.
type Stats struct {
	// XResolution is the mean across-track beam spacing, metres.
	XResolution float64
	// YResolution is distance travelled per record read, metres.
	YResolution  float64
	TotalRecords int
}

// Survey accumulates one record stream. It is not safe for concurrent use
// while Run is in progress.
type Survey struct {
	name   string
	cfg    *config.WaterfallConfig
	logf   func(format string, v ...interface{})
	debugf func(format string, v ...interface{})

	nav       navigation.State
	track     navigation.Track
	extents   ping.Extents
	waterfall ping.Waterfall

	records int
	skipped int
	stats   Stats
}

// Option configures a Survey.
type Option func(*Survey)

// WithLogger routes the survey's warnings and progress through logf instead
// of the monitoring package logger. Progress lines are only emitted while
// monitoring debug output is enabled.
func WithLogger(logf func(format string, v ...interface{})) Option {
	return func(s *Survey) {
		if logf == nil {
			logf = func(string, ...interface{}) {}
		}
		s.logf = logf
		s.debugf = func(format string, v ...interface{}) {
			if monitoring.DebugEnabled() {
				logf("[debug] "+format, v...)
			}
		}
	}
}

// WithConfig sets the tuning used by Run, Navigation and Render.
func WithConfig(cfg *config.WaterfallConfig) Option {
	return func(s *Survey) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// New returns an empty survey. name identifies the source in logs and in the
// catalogue.
func New(name string, opts ...Option) *Survey {
	s := &Survey{
		name:   name,
		cfg:    config.EmptyWaterfallConfig(),
		logf:   func(format string, v ...interface{}) { monitoring.Logf(format, v...) },
		debugf: monitoring.Debugf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the name given to New.
func (s *Survey) Name() string { return s.name }

// Run reads src until it is exhausted, the record count exceeds maxRecords
// (0 reads everything), or ctx is cancelled, so a cap of N reads N+1
// records. Records are dispatched strictly in order. Run may be called again with another source; state carries over.
//
// The returned Stats are also kept for Render. On error, the state
// accumulated so far stays valid and Stats reflect it.
func (s *Survey) Run(ctx context.Context, src datagram.Source, maxRecords int) (Stats, error) {
	every := s.cfg.GetProgressEvery()
	read := 0
	var runErr error
	for src.HasMore() {
		if maxRecords > 0 && read > maxRecords {
			s.debugf("%s: stopping after %d records", s.name, read)
			break
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		rec, err := src.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			runErr = fmt.Errorf("reading record %d of %s: %w", s.records, s.name, err)
			break
		}
		s.observe(rec)
		read++
		if every > 0 && s.records%every == 0 {
			s.debugf("%s: %d records, %d pings, %.1f m travelled", s.name, s.records, s.waterfall.Len(), s.nav.Distance)
		}
	}

	s.finalize()
	return s.stats, runErr
}

func (s *Survey) observe(rec datagram.Record) {
	seq := s.records
	s.records++
	switch {
	case rec.Kind == datagram.KindPosition && rec.Position != nil:
		var sample navigation.Sample
		s.nav, sample = s.nav.Observe(*rec.Position, seq, rec.Time)
		s.track.Append(sample)
	case rec.Kind.IsDepth() && rec.Depth != nil:
		var (
			row ping.Row
			ok  bool
		)
		s.extents, row, ok = s.extents.Observe(*rec.Depth, seq, rec.Time, s.track.Last())
		if ok {
			s.waterfall.Push(row)
		}
	default:
		s.skipped++
	}
}

func (s *Survey) finalize() {
	s.stats = Stats{
		XResolution:  s.extents.AcrossResolution(),
		TotalRecords: s.records,
	}
	if s.records == 0 {
		s.logf("%s: no records read; resolution is undefined", s.name)
		return
	}
	s.stats.YResolution = s.nav.Distance / float64(s.records)
	if s.extents.SpacingSamples() == 0 {
		s.logf("%s: no ping had usable across-track geometry", s.name)
	}
}

// Stats returns the statistics of the last Run.
func (s *Survey) Stats() Stats { return s.stats }

// Extents returns the running ping statistics.
func (s *Survey) Extents() ping.Extents { return s.extents }

// Waterfall returns the ping buffer, newest row first.
func (s *Survey) Waterfall() *ping.Waterfall { return &s.waterfall }

// Track returns the navigation track.
func (s *Survey) Track() *navigation.Track { return &s.track }

// Origin returns the local coordinate origin, if a position has been seen.
func (s *Survey) Origin() (geodesy.LatLon, bool) { return s.nav.Origin() }

// Distance returns the cumulative distance travelled, metres.
func (s *Survey) Distance() float64 { return s.nav.Distance }

// PositioningSystem returns the descriptor of the first position observed.
func (s *Survey) PositioningSystem() string { return s.nav.PositioningSystem }

// Skipped returns how many records were ignored as unknown.
func (s *Survey) Skipped() int { return s.skipped }

// Navigation returns the track as (latitude, longitude) or, when local is
// set, as (east, north) metres from the origin. Local coordinates need at
// least min_enu_samples samples.
func (s *Survey) Navigation(local bool) ([]float64, []float64, error) {
	n := s.track.Len()
	if n == 0 {
		return nil, nil, ErrNoNavigation
	}
	if local {
		if need := s.cfg.GetMinENUSamples(); n < need {
			s.logf("%s: %d navigation samples, need %d for local coordinates", s.name, n, need)
			return nil, nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewSamples, n, need)
		}
		east, north := s.track.ENU()
		return east, north, nil
	}
	lat, lon := s.track.LatLon()
	return lat, lon, nil
}

func (s *Survey) String() string {
	lo, hi := s.extents.DepthRange()
	left, right := s.extents.SwathEdges()
	var b strings.Builder
	fmt.Fprintf(&b, "survey %s\n", s.name)
	fmt.Fprintf(&b, "  records:        %d (%d skipped)\n", s.stats.TotalRecords, s.skipped)
	fmt.Fprintf(&b, "  pings:          %d (%d rejected)\n", s.waterfall.Len(), s.extents.Rejected)
	fmt.Fprintf(&b, "  beams:          %d\n", s.extents.BeamCount)
	fmt.Fprintf(&b, "  depth:          %.2f .. %.2f m\n", lo, hi)
	fmt.Fprintf(&b, "  swath:          %.2f .. %.2f m\n", left, right)
	fmt.Fprintf(&b, "  x resolution:   %.3f m\n", s.stats.XResolution)
	fmt.Fprintf(&b, "  y resolution:   %.3f m\n", s.stats.YResolution)
	fmt.Fprintf(&b, "  distance:       %.1f m\n", s.nav.Distance)
	fmt.Fprintf(&b, "  positioning:    %s (%d fixes)", s.nav.PositioningSystem, s.track.Len())
	return b.String()
}
