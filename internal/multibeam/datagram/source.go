package datagram

import (
	"errors"
	"io"
	"time"
)

// Source is a sequential stream of decoded records.
//
// Callers loop on HasMore and ReadNext. ReadNext returns io.EOF when the
// stream is exhausted; any other error is an I/O failure. Records that cannot
// be decoded are returned as KindUnknown rather than as errors.
type Source interface {
	HasMore() bool
	ReadNext() (Record, error)
	// CurrentTimestamp is the time of the record most recently returned by
	// ReadNext, or the zero time before the first read.
	CurrentTimestamp() time.Time
	Rewind() error
	Close() error
}

// ErrClosed is returned by operations on a closed source.
var ErrClosed = errors.New("datagram: source closed")

// MemorySource replays a fixed slice of records. It is primarily used by
// tests and by callers that have already decoded a file.
type MemorySource struct {
	records []Record
	next    int
	current time.Time
	closed  bool
}

// NewMemorySource returns a source over records. The slice is not copied.
func NewMemorySource(records []Record) *MemorySource {
	return &MemorySource{records: records}
}

func (m *MemorySource) HasMore() bool {
	return !m.closed && m.next < len(m.records)
}

func (m *MemorySource) ReadNext() (Record, error) {
	if m.closed {
		return Record{}, ErrClosed
	}
	if m.next >= len(m.records) {
		return Record{}, io.EOF
	}
	r := m.records[m.next]
	m.next++
	m.current = r.Time
	return r, nil
}

func (m *MemorySource) CurrentTimestamp() time.Time { return m.current }

func (m *MemorySource) Rewind() error {
	if m.closed {
		return ErrClosed
	}
	m.next = 0
	m.current = time.Time{}
	return nil
}

func (m *MemorySource) Close() error {
	m.closed = true
	return nil
}
