package ingestor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tuplecats/logscope/logparser"
)

// fileCursor scans one tier member's content sequentially, exposing the
// next not-yet-emitted record without rehydrating its full field map.
type fileCursor struct {
	path   string
	anchor time.Time
	data   []byte
	offset int
	done   bool
}

func openCursor(path string, anchor time.Time) (*fileCursor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < bomSize {
		return nil, io.ErrUnexpectedEOF
	}
	return &fileCursor{path: path, anchor: anchor, data: data[bomSize:]}, nil
}

// peekRecord parses just enough of the next unread record to know its time
// and byte span, without advancing past it. Call advance to consume it
// once it has been emitted or skipped.
func (c *fileCursor) peekRecord() (recTime time.Time, length int, ok bool, err error) {
	if c.done || c.offset >= len(c.data) {
		c.done = true
		return time.Time{}, 0, false, nil
	}
	it := logparser.New(c.data[c.offset:])
	_, rawTime, nextErr, more := it.Next()
	if nextErr != nil {
		return time.Time{}, 0, false, nextErr
	}
	if !more {
		c.done = true
		return time.Time{}, 0, false, nil
	}
	for {
		_, _, nextErr, more = it.Next()
		if nextErr != nil {
			return time.Time{}, 0, false, nextErr
		}
		if !more {
			break
		}
	}
	recTime, err = parseRecordTime(c.anchor, rawTime)
	if err != nil {
		return time.Time{}, 0, false, err
	}
	return recTime, it.Pos(), true, nil
}

func (c *fileCursor) advance(length int) {
	c.offset += length
}

// mergeTier performs the k-way merge described for one anchor tier: each
// member's next unread record is peeked, the smallest time wins (ties
// broken by file order within the tier), and the winner is emitted as a
// RecordHandle. A member that fails to open, or whose current record is
// malformed, is dropped from the tier; its siblings continue.
func mergeTier(tier []candidate, from time.Time, registry *Registry, out chan<- *RecordHandle, diagnostics io.Writer) {
	cursors := make([]*fileCursor, 0, len(tier))
	bufs := make([]*sharedBuffer, 0, len(tier))
	for _, f := range tier {
		cur, err := openCursor(f.path, f.anchor)
		if err != nil {
			fmt.Fprintf(diagnostics, "skipping file: %v\n", &SkippedFile{Path: f.path, Reason: err})
			continue
		}
		buf, err := registry.open(f.path)
		if err != nil {
			fmt.Fprintf(diagnostics, "skipping file: %v\n", &SkippedFile{Path: f.path, Reason: err})
			continue
		}
		cursors = append(cursors, cur)
		bufs = append(bufs, buf)
	}

	type pending struct {
		recTime time.Time
		length  int
		valid   bool
	}
	pendings := make([]pending, len(cursors))

	for {
		anyAlive := false
		for i, cur := range cursors {
			if cur == nil || pendings[i].valid {
				if cur != nil {
					anyAlive = true
				}
				continue
			}
			for {
				recTime, length, ok, err := cur.peekRecord()
				if err != nil {
					fmt.Fprintf(diagnostics, "skipping malformed record: path=%s offset=%d error=%v\n", cur.path, cur.offset, err)
					cursors[i] = nil
					break
				}
				if !ok {
					cursors[i] = nil
					break
				}
				if !from.IsZero() && recTime.Before(from) {
					cur.advance(length)
					continue
				}
				pendings[i] = pending{recTime: recTime, length: length, valid: true}
				anyAlive = true
				break
			}
		}

		if !anyAlive {
			return
		}

		minIdx := -1
		for i := range cursors {
			if cursors[i] == nil || !pendings[i].valid {
				continue
			}
			if minIdx == -1 || pendings[i].recTime.Before(pendings[minIdx].recTime) {
				minIdx = i
			}
		}
		if minIdx == -1 {
			return
		}

		cur := cursors[minIdx]
		p := pendings[minIdx]
		out <- &RecordHandle{
			buf:    bufs[minIdx],
			path:   cur.path,
			offset: int64(cur.offset),
			length: int64(p.length),
			time:   p.recTime,
		}
		cur.advance(p.length)
		pendings[minIdx] = pending{}
	}
}
