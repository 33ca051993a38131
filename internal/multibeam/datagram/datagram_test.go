package datagram

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2020, time.April, 30, 10, 15, 0, 0, time.UTC)

func readAll(t *testing.T, src Source) []Record {
	t.Helper()
	var out []Record
	for src.HasMore() {
		r, err := src.ReadNext()
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

// ---------------------------------------------------------------------------
// Kinds and records
// ---------------------------------------------------------------------------

func TestKind(t *testing.T) {
	t.Parallel()
	assert.True(t, KindDepth.IsDepth())
	assert.True(t, KindXYZ.IsDepth())
	assert.False(t, KindPosition.IsDepth())
	assert.False(t, KindUnknown.IsDepth())
	assert.Equal(t, "xyz", KindXYZ.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestDepthRecord_PanicsOnPositionKind(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { DepthRecord(KindPosition, t0, Depth{}) })
}

// ---------------------------------------------------------------------------
// MemorySource
// ---------------------------------------------------------------------------

func TestMemorySource(t *testing.T) {
	t.Parallel()
	recs := []Record{
		PositionRecord(t0, Position{Latitude: 1, Longitude: 2}),
		DepthRecord(KindDepth, t0.Add(time.Second), Depth{BeamCount: 2, Depth: []float64{1, 2}}),
	}
	src := NewMemorySource(recs)

	assert.True(t, src.CurrentTimestamp().IsZero())
	got := readAll(t, src)
	assert.Len(t, got, 2)
	assert.Equal(t, t0.Add(time.Second), src.CurrentTimestamp())

	_, err := src.ReadNext()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, src.Rewind())
	assert.True(t, src.HasMore())
	assert.True(t, src.CurrentTimestamp().IsZero())

	require.NoError(t, src.Close())
	assert.False(t, src.HasMore())
	_, err = src.ReadNext()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, src.Rewind(), ErrClosed)
}

// ---------------------------------------------------------------------------
// Survey log
// ---------------------------------------------------------------------------

func TestLogWriterAndSource_RoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := NewLogWriter(&buf)

	require.NoError(t, w.WritePosition(t0, Position{Latitude: -12.5, Longitude: 130.84, Heading: 91.5, HasHeading: true, Descriptor: "IN"}))
	require.NoError(t, w.WriteDepth(KindXYZ, t0.Add(500*time.Millisecond), Depth{
		BeamCount:       3,
		Depth:           []float64{10.5, 11, 12.25},
		AcrossTrack:     []float64{-5, 0, 5},
		TransducerDepth: 0.75,
	}))
	require.NoError(t, w.WritePosition(t0.Add(time.Second), Position{Latitude: -12.5001, Longitude: 130.8401}))

	src := NewLogSource(bytes.NewReader(buf.Bytes()))
	recs := readAll(t, src)
	require.Len(t, recs, 3)

	pos := recs[0]
	require.Equal(t, KindPosition, pos.Kind)
	assert.Equal(t, t0, pos.Time)
	assert.InDelta(t, -12.5, pos.Position.Latitude, 1e-8)
	assert.InDelta(t, 130.84, pos.Position.Longitude, 1e-8)
	assert.InDelta(t, 91.5, pos.Position.Heading, 1e-9)
	assert.True(t, pos.Position.HasHeading)
	assert.Equal(t, "IN", pos.Position.Descriptor)

	ping := recs[1]
	require.Equal(t, KindXYZ, ping.Kind)
	assert.Equal(t, t0.Add(500*time.Millisecond), ping.Time)
	assert.Equal(t, 3, ping.Depth.BeamCount)
	assert.Equal(t, []float64{10.5, 11, 12.25}, ping.Depth.Depth)
	assert.Equal(t, []float64{-5, 0, 5}, ping.Depth.AcrossTrack)
	assert.Equal(t, 0.75, ping.Depth.TransducerDepth)

	gga := recs[2]
	require.Equal(t, KindPosition, gga.Kind)
	assert.False(t, gga.Position.HasHeading)
	assert.Equal(t, "GP", gga.Position.Descriptor)
	// GGA carries no date; the RMC date seen earlier is reused.
	assert.Equal(t, t0.Add(time.Second), gga.Time)
	assert.Equal(t, t0.Add(time.Second), src.CurrentTimestamp())
}

func TestLogSource_SkipsAndUnknowns(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	buf.WriteString("# survey header\n\n")
	buf.WriteString("$GPZZZ,not,a,sentence*00\n")
	buf.WriteString(sentence("SDMBD,1.0,Q,0,2,1,1,2,2") + "\n") // bad ping kind
	buf.WriteString(sentence("HEHDT,275.0,T") + "\n")
	w := NewLogWriter(&buf)
	require.NoError(t, w.WritePosition(t0, Position{Latitude: 1, Longitude: 1}))

	src := NewLogSource(bytes.NewReader(buf.Bytes()))
	recs := readAll(t, src)
	require.Len(t, recs, 4)

	assert.Equal(t, KindUnknown, recs[0].Kind)
	assert.Equal(t, KindUnknown, recs[1].Kind)
	assert.Equal(t, KindUnknown, recs[2].Kind, "HDT is not itself a record")
	require.Equal(t, KindPosition, recs[3].Kind)
	assert.True(t, recs[3].Position.HasHeading)
	assert.Equal(t, 275.0, recs[3].Position.Heading)
	assert.Equal(t, 2, src.Malformed())
}

func TestLogSource_NoFixIsUnknown(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	buf.WriteString(sentence("HEHDT,90.0,T") + "\n")
	buf.WriteString(sentence("GPGGA,120000.00,,,,,0,00,99.99,,,,,,") + "\n")
	buf.WriteString(sentence("GPRMC,120000.00,V,,,,,,,030321,,,N") + "\n")
	w := NewLogWriter(&buf)
	require.NoError(t, w.WritePosition(t0, Position{Latitude: -12.5, Longitude: 130.8}))

	src := NewLogSource(bytes.NewReader(buf.Bytes()))
	recs := readAll(t, src)
	require.Len(t, recs, 4)

	assert.Equal(t, KindUnknown, recs[1].Kind, "GGA without a fix")
	assert.Nil(t, recs[1].Position)
	assert.Equal(t, KindUnknown, recs[2].Kind, "void RMC")
	assert.Nil(t, recs[2].Position)
	assert.Zero(t, src.Malformed())

	// The first real fix keeps its coordinates and the pending heading.
	require.Equal(t, KindPosition, recs[3].Kind)
	assert.InDelta(t, -12.5, recs[3].Position.Latitude, 1e-6)
	assert.InDelta(t, 130.8, recs[3].Position.Longitude, 1e-6)
	assert.True(t, recs[3].Position.HasHeading)
	assert.Equal(t, 90.0, recs[3].Position.Heading)
}

func TestLogSource_RewindAndClose(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "survey.log")
	var buf bytes.Buffer
	w := NewLogWriter(&buf)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.WriteDepth(KindDepth, t0.Add(time.Duration(i)*time.Second), Depth{
			BeamCount: 2, Depth: []float64{1, 2}, AcrossTrack: []float64{-1, 1},
		}))
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	src, err := OpenLog(path)
	require.NoError(t, err)
	first := readAll(t, src)
	require.Len(t, first, 3)

	require.NoError(t, src.Rewind())
	second := readAll(t, src)
	assert.Equal(t, first, second)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.False(t, src.HasMore())
	_, err = src.ReadNext()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenLog_Missing(t *testing.T) {
	t.Parallel()
	_, err := OpenLog(filepath.Join(t.TempDir(), "nope.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open survey log")
}

func TestLogSource_WidePing(t *testing.T) {
	t.Parallel()
	// A ping this wide produces a line beyond bufio's default token size.
	n := 4096
	d := Depth{BeamCount: n, Depth: make([]float64, n), AcrossTrack: make([]float64, n)}
	for i := 0; i < n; i++ {
		d.Depth[i] = 1000.123456 + float64(i)
		d.AcrossTrack[i] = -2500.654321 + float64(i)*10
	}
	var buf bytes.Buffer
	require.NoError(t, NewLogWriter(&buf).WriteDepth(KindDepth, t0, d))

	recs := readAll(t, NewLogSource(strings.NewReader(buf.String())))
	require.Len(t, recs, 1)
	assert.Equal(t, d.Depth, recs[0].Depth.Depth)
	assert.Equal(t, d.AcrossTrack, recs[0].Depth.AcrossTrack)
}

func TestWriteRecord(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := NewLogWriter(&buf)
	require.NoError(t, w.WriteRecord(Record{Kind: KindUnknown}))
	assert.Zero(t, buf.Len())

	require.NoError(t, w.WriteRecord(PositionRecord(t0, Position{Latitude: 0, Longitude: 0.001})))
	assert.True(t, strings.HasPrefix(buf.String(), "$GPGGA,"))

	assert.Error(t, w.WriteDepth(KindPosition, t0, Depth{}))
}
