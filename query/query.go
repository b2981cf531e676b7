// Package query implements the filter language: a small recursive-descent
// compiler over a WHERE-clause boolean expression grammar, plus a bare
// regex_literal shorthand, evaluated against a record's field map.
package query

import (
	"strings"
	"time"

	"github.com/tuplecats/logscope/fieldmap"
)

// Query is a compiled filter expression. It is safe for concurrent use by
// multiple goroutines calling Accept.
type Query struct {
	text string
	root node
}

// Compile parses text as either a bare regex literal or a WHERE expression
// and returns the compiled Query. now anchors any "now"/"now-<n><unit>"
// date literal in text; callers typically pass time.Now() once per call.
func Compile(text string, now time.Time) (*Query, error) {
	trimmed := strings.TrimSpace(text)
	tokens, err := tokenize(trimmed, now)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &ParseError{Kind: UnexpectedEndOfInput, Msg: "unexpected end of input"}
	}

	if tokens[0].kind == tokRegex && len(tokens) == 1 {
		return &Query{text: trimmed, root: &regexNode{re: tokens[0].regexVal}}, nil
	}

	if tokens[0].kind != tokWhere {
		return nil, &ParseError{Kind: UnexpectedToken, Msg: "unexpected token " + tokens[0].describe() + ", expected WHERE or a regex literal"}
	}

	p := &parser{tokens: tokens[1:]}
	root, err := p.compileExpression()
	if err != nil {
		return nil, err
	}
	if t, ok := p.peek(); ok {
		return nil, &ParseError{Kind: UnexpectedToken, Msg: "unexpected trailing token " + t.describe()}
	}
	return &Query{text: trimmed, root: root}, nil
}

// Accept reports whether the record's fields satisfy the compiled filter.
func (q *Query) Accept(m *fieldmap.Map) bool {
	return q.root.eval(m)
}

// Text returns the original filter text the Query was compiled from, used
// to detect a no-op SetFilter call without re-walking the AST.
func (q *Query) Text() string {
	return q.text
}
