package logparser

import (
	"github.com/tuplecats/logscope/fieldmap"
	"github.com/tuplecats/logscope/value"
)

// BuildFieldMap drains an Iterator over data into a field map, promoting
// each raw textual value via value.FromText.
func BuildFieldMap(data []byte) (*fieldmap.Map, error) {
	m := fieldmap.New()
	it := New(data)
	for {
		k, v, err, more := it.Next()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		m.Insert(k, value.FromText(v))
	}
	return m, nil
}
