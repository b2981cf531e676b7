// Package value implements the tagged dynamic scalar used throughout the
// browser: every field read from a log record is Text, Number, DateTime or
// Multi, and every literal in a filter expression is one of those or Regex.
package value

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind tags the active variant of a Value.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDateTime
	KindMulti
	KindRegex
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDateTime:
		return "datetime"
	case KindMulti:
		return "multi"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar: Text, Number, DateTime, Regex, or Multi (an
// ordered sequence of the other variants, used when a key repeats on one
// record). Comparison and equality are defined only within the same
// variant; a comparison across variants is unequal and unordered. Regex is
// a filter-literal-only variant — it never appears as field data, only as
// the right-hand side of a `field = /re/` condition.
type Value struct {
	kind  Kind
	text  string
	num   float64
	dt    time.Time
	re    *regexp.Regexp
	multi []Value
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

func DateTime(t time.Time) Value {
	return Value{kind: KindDateTime, dt: t}
}

func MultiOf(values ...Value) Value {
	return Value{kind: KindMulti, multi: values}
}

// Regex wraps an already-compiled regular expression literal.
func Regex(re *regexp.Regexp) Value {
	return Value{kind: KindRegex, re: re}
}

// FromText builds a Value from raw record text, promoting to Number iff the
// entire trimmed content parses as a finite float64; otherwise the value
// stays Text. Mirrors the original source's `impl From<&str> for Value`.
func FromText(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed != "" {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return Number(n)
		}
	}
	return Text(s)
}

func (v Value) Kind() Kind { return v.kind }

// Len is 1 for scalars, the element count for Multi.
func (v Value) Len() int {
	if v.kind == KindMulti {
		return len(v.multi)
	}
	return 1
}

// At returns the i-th element of a Multi value. For a scalar, At(0) returns
// the value itself (mirrors the original's Index<usize> impl).
func (v Value) At(i int) Value {
	if v.kind == KindMulti {
		return v.multi[i]
	}
	return v
}

func (v Value) Text() string          { return v.text }
func (v Value) Number() float64       { return v.num }
func (v Value) DateTimeValue() time.Time { return v.dt }
func (v Value) Regexp() *regexp.Regexp { return v.re }

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindDateTime:
		return v.dt.Format("2006-01-02 15:04:05")
	case KindRegex:
		return "/" + v.re.String() + "/"
	case KindMulti:
		parts := make([]string, len(v.multi))
		for i, e := range v.multi {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// Equal compares same-variant scalars directly; a Multi is equal to another
// Multi of the same length with pairwise-equal elements in order (element-
// wise semantics per the data model). Any other cross-variant pairing,
// including scalar-vs-Multi, is unequal.
func (v Value) Equal(other Value) bool {
	if v.kind == KindMulti || other.kind == KindMulti {
		if v.kind != KindMulti || other.kind != KindMulti {
			return false
		}
		if len(v.multi) != len(other.multi) {
			return false
		}
		for i := range v.multi {
			if !v.multi[i].Equal(other.multi[i]) {
				return false
			}
		}
		return true
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindDateTime:
		return v.dt.Equal(other.dt)
	case KindRegex:
		return v.re.String() == other.re.String()
	}
	return false
}

// Compare orders same-variant, non-Multi values: negative, zero, or positive
// for less/equal/greater. ok is false across variants or when either side is
// Multi — ordering is undefined for Multi per the data model.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if v.kind == KindMulti || other.kind == KindMulti || v.kind != other.kind {
		return 0, false
	}
	switch v.kind {
	case KindText:
		return strings.Compare(v.text, other.text), true
	case KindNumber:
		switch {
		case v.num < other.num:
			return -1, true
		case v.num > other.num:
			return 1, true
		default:
			return 0, true
		}
	case KindDateTime:
		switch {
		case v.dt.Before(other.dt):
			return -1, true
		case v.dt.After(other.dt):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func (v Value) Less(other Value) bool {
	cmp, ok := v.Compare(other)
	return ok && cmp < 0
}

func (v Value) LessEqual(other Value) bool {
	cmp, ok := v.Compare(other)
	return ok && cmp <= 0
}

func (v Value) Greater(other Value) bool {
	cmp, ok := v.Compare(other)
	return ok && cmp > 0
}

func (v Value) GreaterEqual(other Value) bool {
	cmp, ok := v.Compare(other)
	return ok && cmp >= 0
}
