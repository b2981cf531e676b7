// Package fieldmap implements the insertion-ordered key/value map that
// backs every parsed record: a key that repeats on insert is upgraded to a
// Multi value rather than overwritten, matching the field map described by
// the data model.
package fieldmap

import "github.com/tuplecats/logscope/value"

type entry struct {
	key string
	val value.Value
}

// Pair is one flattened (key, value) observation, as produced by Pairs and
// GetByIndex: a Multi entry under key k contributes one Pair per element,
// all sharing k.
type Pair struct {
	Key   string
	Value value.Value
}

// Map is an insertion-ordered key/value map with Multi-upgrade-on-duplicate
// semantics. The zero value is not usable; construct with New.
type Map struct {
	entries []entry
	index   map[string]int
}

func New() *Map {
	return &Map{index: make(map[string]int, 16)}
}

// Insert adds value under key. A key that already maps to a non-Multi value
// is upgraded to Multi and the new value appended; inserting again into an
// already-Multi key appends.
func (m *Map) Insert(key string, v value.Value) {
	if i, ok := m.index[key]; ok {
		existing := m.entries[i].val
		if existing.Kind() == value.KindMulti {
			elems := make([]value.Value, existing.Len(), existing.Len()+1)
			for j := 0; j < existing.Len(); j++ {
				elems[j] = existing.At(j)
			}
			m.entries[i].val = value.MultiOf(append(elems, v)...)
		} else {
			m.entries[i].val = value.MultiOf(existing, v)
		}
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, val: v})
}

// Set overwrites key in place without the Multi-upgrade rule, inserting it
// if absent. Used only to augment a rehydrated map's "time" field with the
// record handle's precomputed DateTime.
func (m *Map) Set(key string, v value.Value) {
	if i, ok := m.index[key]; ok {
		m.entries[i].val = v
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, val: v})
}

// Get resolves key to its stored Value (a Multi if the key repeated).
func (m *Map) Get(key string) (value.Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return value.Value{}, false
	}
	return m.entries[i].val, true
}

// Len is the total flattened count of values: Multi entries count their
// element length.
func (m *Map) Len() int {
	total := 0
	for _, e := range m.entries {
		total += e.val.Len()
	}
	return total
}

// GetByIndex returns the i-th flattened (key, value) pair.
func (m *Map) GetByIndex(i int) (string, value.Value, bool) {
	offset := 0
	for _, e := range m.entries {
		n := e.val.Len()
		if offset+n > i {
			return e.key, e.val.At(i - offset), true
		}
		offset += n
	}
	return "", value.Value{}, false
}

// Pairs returns every (key, value) observation flattened across Multi
// entries, in insertion order.
func (m *Map) Pairs() []Pair {
	pairs := make([]Pair, 0, m.Len())
	for _, e := range m.entries {
		for i := 0; i < e.val.Len(); i++ {
			pairs = append(pairs, Pair{Key: e.key, Value: e.val.At(i)})
		}
	}
	return pairs
}
