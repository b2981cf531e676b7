// Package uiadapter exposes the collection as a fixed-column table model:
// the boundary the terminal widgets read rows and cells through (§4.7 of
// the browser's data model).
package uiadapter

import (
	"github.com/tuplecats/logscope/collection"
	"github.com/tuplecats/logscope/ingestor"
	"github.com/tuplecats/logscope/value"
)

// Columns is the fixed, ordered column set every table view renders.
var Columns = []string{"time", "event", "duration", "process", "OSThread", "stack"}

// Model is the widget-facing read/write surface over a collection.
type Model interface {
	Rows() int
	Cols() int
	Header(col int) (string, bool)
	HeaderIndex(name string) (int, bool)
	Data(row, col int) (value.Value, bool)
	SetFilter(text string) error
	Line(row int) (*ingestor.RecordHandle, bool)
}

// CollectionModel adapts a *collection.Collection to Model.
type CollectionModel struct {
	c *collection.Collection
}

func New(c *collection.Collection) *CollectionModel {
	return &CollectionModel{c: c}
}

func (m *CollectionModel) Rows() int { return m.c.Rows() }

func (m *CollectionModel) Cols() int { return len(Columns) }

func (m *CollectionModel) Header(col int) (string, bool) {
	if col < 0 || col >= len(Columns) {
		return "", false
	}
	return Columns[col], true
}

func (m *CollectionModel) HeaderIndex(name string) (int, bool) {
	for i, c := range Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Data reads through the collection and record handle: column 0 ("time")
// resolves without rehydration, every other column triggers a
// rehydrate-and-scan on the underlying record.
func (m *CollectionModel) Data(row, col int) (value.Value, bool) {
	name, ok := m.Header(col)
	if !ok {
		return value.Value{}, false
	}
	rec, ok := m.c.Line(row)
	if !ok {
		return value.Value{}, false
	}
	return rec.Get(name)
}

func (m *CollectionModel) SetFilter(text string) error {
	return m.c.SetFilter(text)
}

func (m *CollectionModel) Line(row int) (*ingestor.RecordHandle, bool) {
	return m.c.Line(row)
}
