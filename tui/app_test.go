package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tuplecats/logscope/collection"
	"github.com/tuplecats/logscope/ingestor"
	"github.com/tuplecats/logscope/uiadapter"
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

func newTestApp(t *testing.T, initialFilter string) *App {
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
	model := uiadapter.New(c)
	waitFor(t, 2*time.Second, func() bool { return model.Rows() == 1 })
	return New(model, initialFilter)
}

func TestNewBuildsFocusableWidgets(t *testing.T) {
	a := newTestApp(t, "")
	if len(a.focusableItems) != 3 {
		t.Fatalf("expected 3 focusable widgets, got %d", len(a.focusableItems))
	}
	if a.getFocusedItem() != a.table {
		t.Fatal("expected the table to be focused initially")
	}
}

func TestPopulateTableRendersHeaderAndRows(t *testing.T) {
	a := newTestApp(t, "")
	a.populateTable()

	name, _ := a.model.Header(1)
	if name != "event" {
		t.Fatalf("unexpected header name: %q", name)
	}
	if got := a.table.GetCell(0, 1).Text; got != "event" {
		t.Fatalf("unexpected header cell text: %q", got)
	}
	if got := a.table.GetCell(1, 1).Text; got != "BOOT" {
		t.Fatalf("unexpected event cell text: %q", got)
	}
}

func TestUpdateDetailViewShowsFields(t *testing.T) {
	a := newTestApp(t, "")
	a.populateTable()
	a.updateDetailView(1)

	text := a.detailView.GetText(true)
	if !containsAll(text, []string{"event:", "BOOT", "process:", "initd"}) {
		t.Fatalf("detail view missing expected content: %q", text)
	}
}

func TestUpdateDetailViewOutOfRangeClears(t *testing.T) {
	a := newTestApp(t, "")
	a.populateTable()
	a.updateDetailView(99)
	if text := a.detailView.GetText(true); text != "" {
		t.Fatalf("expected empty detail view, got %q", text)
	}
}

func TestShowAndClearFilterError(t *testing.T) {
	a := newTestApp(t, "")
	a.showFilterError(errParseStub{})
	if !a.filterHasError {
		t.Fatal("expected filterHasError to be set")
	}
	a.clearFilterError()
	if a.filterHasError {
		t.Fatal("expected filterHasError to be cleared")
	}
}

func TestInitialFilterAppliedAtConstruction(t *testing.T) {
	a := newTestApp(t, `WHERE event = "BOOT"`)
	if a.filterHasError {
		t.Fatal("expected a valid initial filter to apply without error")
	}
	if got := a.filterBox.GetText(); got != `WHERE event = "BOOT"` {
		t.Fatalf("unexpected filter box text: %q", got)
	}
}

func TestInitialFilterRejectedShowsError(t *testing.T) {
	a := newTestApp(t, `WHERE event =`)
	if !a.filterHasError {
		t.Fatal("expected a malformed initial filter to surface an error")
	}
}

type errParseStub struct{}

func (errParseStub) Error() string { return "stub parse error" }

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (sub == "" || indexOf(s, sub) >= 0)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
