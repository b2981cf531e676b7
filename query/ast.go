package query

import (
	"regexp"

	"github.com/tuplecats/logscope/fieldmap"
	"github.com/tuplecats/logscope/value"
)

// node is a compiled boolean expression over a record's field map.
type node interface {
	eval(m *fieldmap.Map) bool
}

type andNode struct {
	left, right node
}

func (n *andNode) eval(m *fieldmap.Map) bool {
	return n.left.eval(m) && n.right.eval(m)
}

type orNode struct {
	left, right node
}

func (n *orNode) eval(m *fieldmap.Map) bool {
	return n.left.eval(m) || n.right.eval(m)
}

// condNode is a leaf comparison: ident op literal.
type condNode struct {
	field string
	op    tokenKind
	lit   value.Value
}

func (n *condNode) eval(m *fieldmap.Map) bool {
	fieldVal, ok := m.Get(n.field)
	if !ok {
		return false
	}
	return evalScalar(fieldVal, n.lit, n.op)
}

// evalScalar resolves m.get(k) against a literal. A Multi field satisfies
// equality/inequality if any of its entries does; ordering comparisons
// against a Multi field are always false.
func evalScalar(field value.Value, lit value.Value, op tokenKind) bool {
	if field.Kind() == value.KindMulti {
		if isOrderingOp(op) {
			return false
		}
		for i := 0; i < field.Len(); i++ {
			if evalSingle(field.At(i), lit, op) {
				return true
			}
		}
		return false
	}
	return evalSingle(field, lit, op)
}

func isOrderingOp(op tokenKind) bool {
	switch op {
	case tokLess, tokGreater, tokLE, tokGE:
		return true
	default:
		return false
	}
}

// evalSingle compares two scalar values. Cross-variant comparisons are
// always false, including "!=" — per the filter language's documented
// semantics, a variant mismatch makes every comparison operator false.
func evalSingle(a, lit value.Value, op tokenKind) bool {
	if lit.Kind() == value.KindRegex {
		return a.Kind() == value.KindText && lit.Regexp().MatchString(a.Text())
	}
	switch op {
	case tokEqual:
		return a.Equal(lit)
	case tokNE:
		if a.Kind() != lit.Kind() {
			return false
		}
		return !a.Equal(lit)
	case tokLess:
		cmp, ok := a.Compare(lit)
		return ok && cmp < 0
	case tokGreater:
		cmp, ok := a.Compare(lit)
		return ok && cmp > 0
	case tokLE:
		cmp, ok := a.Compare(lit)
		return ok && cmp <= 0
	case tokGE:
		cmp, ok := a.Compare(lit)
		return ok && cmp >= 0
	default:
		return false
	}
}

// regexScanFields lists the fields a bare regex_literal query scans, per
// the original source's LogString text scan (event, process, and any
// text-valued field) when no WHERE clause is present.
var regexScanFields = []string{"event", "process"}

// regexNode matches a bare regex literal query against event/process and
// any Text-kind field in the record.
type regexNode struct {
	re *regexp.Regexp
}

func (n *regexNode) eval(m *fieldmap.Map) bool {
	for _, field := range regexScanFields {
		if v, ok := m.Get(field); ok && scanMatches(n.re, v) {
			return true
		}
	}
	for i := 0; ; i++ {
		_, v, ok := m.GetByIndex(i)
		if !ok {
			break
		}
		if v.Kind() == value.KindText && n.re.MatchString(v.Text()) {
			return true
		}
	}
	return false
}

func scanMatches(re *regexp.Regexp, v value.Value) bool {
	if v.Kind() == value.KindMulti {
		for i := 0; i < v.Len(); i++ {
			if scanMatches(re, v.At(i)) {
				return true
			}
		}
		return false
	}
	return v.Kind() == value.KindText && re.MatchString(v.Text())
}
