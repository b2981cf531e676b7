package tui

import (
	"strconv"
	"strings"

	"github.com/tuplecats/logscope/value"
)

// formatLiteral renders v as a filter-language literal suitable for
// splicing into a query text: quoted text, a bare number, or a quoted
// date-time. A Multi value is represented by its first element, since the
// filter grammar has no Multi literal of its own.
func formatLiteral(v value.Value) string {
	if v.Kind() == value.KindMulti {
		if v.Len() == 0 {
			return `""`
		}
		return formatLiteral(v.At(0))
	}
	switch v.Kind() {
	case value.KindText:
		return strconv.Quote(v.Text())
	case value.KindNumber:
		return strconv.FormatFloat(v.Number(), 'g', -1, 64)
	case value.KindDateTime:
		return "'" + v.DateTimeValue().Format("2006-01-02 15:04:05") + "'"
	default:
		return strconv.Quote(v.String())
	}
}

// appendClause adds a `field = literal` clause to current, mirroring the
// 'F' key binding's "add key = value clause to the current filter" action.
// An empty or non-WHERE current filter (a bare regex, for instance) is
// replaced outright rather than combined, since the grammar has no way to
// AND a regex literal with a condition.
func appendClause(current, field string, v value.Value) string {
	clause := field + " = " + formatLiteral(v)
	trimmed := strings.TrimSpace(current)
	if trimmed == "" {
		return "WHERE " + clause
	}
	if strings.HasPrefix(strings.ToUpper(trimmed), "WHERE") {
		return trimmed + " AND " + clause
	}
	return "WHERE " + clause
}
