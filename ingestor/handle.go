package ingestor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/tuplecats/logscope/fieldmap"
	"github.com/tuplecats/logscope/logparser"
	"github.com/tuplecats/logscope/value"
)

// bomSize is the length, in bytes, of the UTF-8 byte-order mark every log
// file is expected to start with. Record offsets are relative to the
// content following it and are shifted by this amount on every seek.
const bomSize = 3

// sharedBuffer guards the single os.File/bufio.Reader pair used to
// rehydrate every record handle drawn from one log file. A read holds the
// lock only for the duration of the seek and the exact-length read.
type sharedBuffer struct {
	mu sync.Mutex
	f  *os.File
	r  *bufio.Reader
}

func openSharedBuffer(path string) (*sharedBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &sharedBuffer{f: f, r: bufio.NewReader(f)}, nil
}

// read seeks to offset+bomSize and reads exactly length bytes.
func (b *sharedBuffer) read(offset, length int64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.f.Seek(offset+bomSize, 0); err != nil {
		return nil, err
	}
	b.r.Reset(b.f)
	buf := make([]byte, length)
	if _, err := readFull(b.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (b *sharedBuffer) close() error {
	return b.f.Close()
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Registry hands out one sharedBuffer per file path, reusing an
// existing one for every record handle carved from the same file. The
// fast concurrent lookup goes through a haxmap; opening a file for the
// first time is serialized by a small mutex layered on top, since haxmap
// has no atomic get-or-insert.
type Registry struct {
	openMu sync.Mutex
	byPath *haxmap.Map[string, *sharedBuffer]
}

func NewRegistry() *Registry {
	return &Registry{byPath: haxmap.New[string, *sharedBuffer](64)}
}

func (reg *Registry) open(path string) (*sharedBuffer, error) {
	if b, ok := reg.byPath.Get(path); ok {
		return b, nil
	}
	reg.openMu.Lock()
	defer reg.openMu.Unlock()
	if b, ok := reg.byPath.Get(path); ok {
		return b, nil
	}
	b, err := openSharedBuffer(path)
	if err != nil {
		return nil, err
	}
	reg.byPath.Set(path, b)
	return b, nil
}

// Close closes every file opened by the registry. Call once the record
// channel returned by Ingest has been fully drained.
func (reg *Registry) Close() {
	reg.closeAll()
}

func (reg *Registry) closeAll() {
	reg.openMu.Lock()
	defer reg.openMu.Unlock()
	reg.byPath.ForEach(func(_ string, b *sharedBuffer) bool {
		b.close()
		return true
	})
}

// RecordHandle is a lightweight reference into a record's byte range
// inside its file. Fields are not materialized until Fields or Get is
// called; only the precomputed time is carried eagerly, since the k-way
// merge needs it to order records without rehydrating every one.
type RecordHandle struct {
	buf    *sharedBuffer
	path   string
	offset int64
	length int64
	time   time.Time
}

// Time returns the record's precomputed DateTime without rehydration.
func (h *RecordHandle) Time() time.Time {
	return h.time
}

// Path is the source file the record was read from.
func (h *RecordHandle) Path() string {
	return h.path
}

// Fields rehydrates the record by seeking the shared reader, reading the
// exact byte range, and running it through the field iterator. The "time"
// key reflects the raw MM:SS.FRACT text as parsed, not the precomputed
// DateTime in Time(); callers that need the latter should augment the map
// themselves (see the collection package's filter evaluation).
func (h *RecordHandle) Fields() (*fieldmap.Map, error) {
	data, err := h.buf.read(h.offset, h.length)
	if err != nil {
		return nil, fmt.Errorf("rehydrate %s@%d+%d: %w", h.path, h.offset, h.length, err)
	}
	return logparser.BuildFieldMap(data)
}

// Get resolves name against the record. "time" is special-cased to return
// the precomputed DateTime without rehydration; any other name triggers a
// rehydrate-and-scan.
func (h *RecordHandle) Get(name string) (value.Value, bool) {
	if name == "time" {
		return value.DateTime(h.time), true
	}
	m, err := h.Fields()
	if err != nil {
		return value.Value{}, false
	}
	return m.Get(name)
}

// parseRecordTime combines a file's hour anchor with a record's raw
// "MM:SS.FRACT" text into a full DateTime. The fractional digit count
// selects millisecond (<=3 digits), microsecond (4-6), or nanosecond (>=7)
// precision, matching the tiering the original parser's
// from_hms_milli/micro/nano dispatch encodes.
func parseRecordTime(anchor time.Time, raw string) (time.Time, error) {
	colon := strings.IndexByte(raw, ':')
	if colon < 0 {
		return time.Time{}, fmt.Errorf("malformed record time %q: missing ':'", raw)
	}
	dot := strings.IndexByte(raw[colon+1:], '.')
	if dot < 0 {
		return time.Time{}, fmt.Errorf("malformed record time %q: missing '.'", raw)
	}
	dot += colon + 1

	minutes, err := strconv.Atoi(raw[:colon])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed record time %q: %w", raw, err)
	}
	seconds, err := strconv.Atoi(raw[colon+1 : dot])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed record time %q: %w", raw, err)
	}

	var nanos int64
	if fract := raw[dot+1:]; fract != "" {
		v, err := strconv.ParseInt(fract, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed record time %q: %w", raw, err)
		}
		switch {
		case len(fract) <= 3:
			nanos = v * 1_000_000
		case len(fract) <= 6:
			nanos = v * 1_000
		default:
			nanos = v
		}
	}

	return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), anchor.Hour(), minutes, seconds, int(nanos), anchor.Location()), nil
}
