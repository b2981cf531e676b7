// Package collection implements the producer/consumer pipeline that backs
// the browser's row view: an ingest worker appends record handles as they
// arrive, and a filter worker incrementally maintains a row mapping for
// whatever filter is currently in force, restarting the scan from scratch
// whenever the filter changes.
package collection

import (
	"strings"
	"sync"
	"time"

	"github.com/tuplecats/logscope/ingestor"
	"github.com/tuplecats/logscope/query"
	"github.com/tuplecats/logscope/value"
)

// pollInterval is how long the filter worker sleeps when it has caught up
// with the ingested records.
const pollInterval = 100 * time.Millisecond

type pendingFilter struct {
	query *query.Query
	text  string
}

// Collection holds every ingested record and the row mapping produced by
// the currently active filter. All exported methods are safe for
// concurrent use.
type Collection struct {
	mu         sync.RWMutex
	records    []*ingestor.RecordHandle
	filter     *query.Query
	filterText string
	mapping    []int

	pendingMu sync.Mutex
	pending   *pendingFilter

	stopCh    chan struct{}
	closeOnce sync.Once
}

// New starts the ingest and filter workers and returns the Collection they
// feed. records is typically the channel returned by ingestor.Ingest.
func New(records <-chan *ingestor.RecordHandle) *Collection {
	c := &Collection{stopCh: make(chan struct{})}
	go c.ingestWorker(records)
	go c.filterWorker()
	return c
}

func (c *Collection) ingestWorker(records <-chan *ingestor.RecordHandle) {
	for r := range records {
		c.mu.Lock()
		c.records = append(c.records, r)
		c.mu.Unlock()
	}
}

// filterWorker runs the cancel-and-restart state machine: Idle polls for a
// pending filter change, Rebuild rescans from the start of records under
// the new filter, Steady resumes scanning newly appended records under the
// filter already in force.
func (c *Collection) filterWorker() {
	next := 0
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		if p := c.takePending(); p != nil {
			c.mu.Lock()
			c.filter = p.query
			c.filterText = p.text
			c.mapping = c.mapping[:0]
			c.mu.Unlock()
			next = 0
		}

		c.mu.RLock()
		total := len(c.records)
		c.mu.RUnlock()
		if next >= total {
			select {
			case <-c.stopCh:
				return
			case <-time.After(pollInterval):
			}
			continue
		}

		c.mu.RLock()
		rec := c.records[next]
		filter := c.filter
		c.mu.RUnlock()

		if acceptRecord(filter, rec) {
			c.mu.Lock()
			c.mapping = append(c.mapping, next)
			c.mu.Unlock()
		}
		next++
	}
}

func (c *Collection) takePending() *pendingFilter {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	p := c.pending
	c.pending = nil
	return p
}

// acceptRecord rehydrates rec and evaluates filter against it, augmenting
// the rehydrated field map with the record's precomputed time per the
// filter evaluation contract. An absent filter always accepts; a
// rehydration failure never does.
func acceptRecord(filter *query.Query, rec *ingestor.RecordHandle) bool {
	if filter == nil {
		return true
	}
	m, err := rec.Fields()
	if err != nil {
		return false
	}
	m.Set("time", value.DateTime(rec.Time()))
	return filter.Accept(m)
}

// SetFilter compiles text and installs it as the active filter. Empty text
// clears the filter, making the mapping an identity over all current and
// future records. A text that fails to compile leaves the current filter
// untouched and returns the compile error. If text compiles to the same
// query already in force, the filter worker is not disturbed.
func (c *Collection) SetFilter(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		c.mu.RLock()
		clear := c.filter == nil
		c.mu.RUnlock()
		if clear {
			return nil
		}
		c.signal(nil, "")
		return nil
	}

	q, err := query.Compile(trimmed, time.Now())
	if err != nil {
		return err
	}

	c.mu.RLock()
	unchanged := c.filter != nil && c.filterText == q.Text()
	c.mu.RUnlock()
	if unchanged {
		return nil
	}

	c.signal(q, q.Text())
	return nil
}

func (c *Collection) signal(q *query.Query, text string) {
	c.pendingMu.Lock()
	c.pending = &pendingFilter{query: q, text: text}
	c.pendingMu.Unlock()
}

// Rows returns the mapping length when a filter is active, else the total
// record count.
func (c *Collection) Rows() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.filter != nil {
		return len(c.mapping)
	}
	return len(c.records)
}

// Line returns the row-th visible record, resolving through the mapping
// when a filter is active.
func (c *Collection) Line(row int) (*ingestor.RecordHandle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.filter != nil {
		if row < 0 || row >= len(c.mapping) {
			return nil, false
		}
		return c.records[c.mapping[row]], true
	}
	if row < 0 || row >= len(c.records) {
		return nil, false
	}
	return c.records[row], true
}

// FilterText returns the text of the currently active filter, or "" if no
// filter is set.
func (c *Collection) FilterText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filterText
}

// Close stops the filter worker. The ingest worker exits on its own once
// the record channel closes.
func (c *Collection) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCh)
	})
}
