package tui

import (
	"testing"
	"time"

	"github.com/tuplecats/logscope/value"
)

func TestFormatLiteralText(t *testing.T) {
	if got := formatLiteral(value.Text("hi")); got != `"hi"` {
		t.Fatalf("got %q", got)
	}
}

func TestFormatLiteralNumber(t *testing.T) {
	if got := formatLiteral(value.Number(42)); got != "42" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatLiteralDateTime(t *testing.T) {
	dt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	if got := formatLiteral(value.DateTime(dt)); got != "'2024-03-15 10:00:00'" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatLiteralMultiUsesFirstElement(t *testing.T) {
	m := value.MultiOf(value.Number(1), value.Number(2))
	if got := formatLiteral(m); got != "1" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendClauseOnEmptyFilter(t *testing.T) {
	got := appendClause("", "event", value.Text("BOOT"))
	if got != `WHERE event = "BOOT"` {
		t.Fatalf("got %q", got)
	}
}

func TestAppendClauseOnExistingWhere(t *testing.T) {
	got := appendClause(`WHERE event = "BOOT"`, "process", value.Text("initd"))
	if got != `WHERE event = "BOOT" AND process = "initd"` {
		t.Fatalf("got %q", got)
	}
}

func TestAppendClauseReplacesBareRegex(t *testing.T) {
	got := appendClause("/boot/", "event", value.Text("BOOT"))
	if got != `WHERE event = "BOOT"` {
		t.Fatalf("got %q", got)
	}
}
