package uiadapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tuplecats/logscope/collection"
	"github.com/tuplecats/logscope/ingestor"
)

const bom = "\xef\xbb\xbf"

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not satisfied before timeout")
}

func newTestModel(t *testing.T) *CollectionModel {
	t.Helper()
	dir := t.TempDir()
	content := bom + "00:00.000-0,BOOT,0,process=\"initd\"\n"
	if err := os.WriteFile(filepath.Join(dir, "24031510.log"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing log file: %v", err)
	}
	records, registry, err := ingestor.Ingest(dir, time.Time{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(registry.Close)
	c := collection.New(records)
	t.Cleanup(c.Close)
	return New(c)
}

func TestColumnsAreFixedAndOrdered(t *testing.T) {
	want := []string{"time", "event", "duration", "process", "OSThread", "stack"}
	if len(Columns) != len(want) {
		t.Fatalf("unexpected column count: %d", len(Columns))
	}
	for i, c := range want {
		if Columns[i] != c {
			t.Fatalf("column %d: got %q, want %q", i, Columns[i], c)
		}
	}
}

func TestHeaderIndexRoundTrip(t *testing.T) {
	m := newTestModel(t)
	idx, ok := m.HeaderIndex("process")
	if !ok {
		t.Fatal("expected process column to resolve")
	}
	name, ok := m.Header(idx)
	if !ok || name != "process" {
		t.Fatalf("unexpected header round trip: %q, %v", name, ok)
	}
}

func TestDataReadsThroughCollection(t *testing.T) {
	m := newTestModel(t)
	waitFor(t, 2*time.Second, func() bool { return m.Rows() == 1 })

	eventCol, _ := m.HeaderIndex("event")
	v, ok := m.Data(0, eventCol)
	if !ok || v.Text() != "BOOT" {
		t.Fatalf("unexpected event value: %+v, ok=%v", v, ok)
	}

	processCol, _ := m.HeaderIndex("process")
	v, ok = m.Data(0, processCol)
	if !ok || v.Text() != "initd" {
		t.Fatalf("unexpected process value: %+v, ok=%v", v, ok)
	}
}

func TestDataOutOfRangeFails(t *testing.T) {
	m := newTestModel(t)
	if _, ok := m.Data(0, len(Columns)); ok {
		t.Fatal("expected out-of-range column to fail")
	}
}
