package query

import (
	"fmt"
	"regexp"
	"time"
)

type tokenKind int

const (
	tokWhere tokenKind = iota
	tokAnd
	tokOr
	tokAsc
	tokDesc
	tokIdent
	tokString
	tokNumber
	tokDate
	tokRegex
	tokOpenParen
	tokCloseParen
	tokEqual
	tokLess
	tokGreater
	tokLE
	tokGE
	tokNE
)

// token is a single lexical unit. Only the fields relevant to kind are
// populated.
type token struct {
	kind     tokenKind
	str      string
	num      float64
	date     time.Time
	regexVal *regexp.Regexp
}

func (t token) describe() string {
	switch t.kind {
	case tokWhere:
		return "WHERE"
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokAsc:
		return "ASC"
	case tokDesc:
		return "DESC"
	case tokIdent:
		return t.str
	case tokString:
		return fmt.Sprintf("%q", t.str)
	case tokNumber:
		return fmt.Sprintf("%g", t.num)
	case tokDate:
		return fmt.Sprintf("'%s'", t.date.Format("2006-01-02 15:04:05"))
	case tokRegex:
		return "/" + t.regexVal.String() + "/"
	case tokOpenParen:
		return "("
	case tokCloseParen:
		return ")"
	case tokEqual:
		return "="
	case tokLess:
		return "<"
	case tokGreater:
		return ">"
	case tokLE:
		return "<="
	case tokGE:
		return ">="
	case tokNE:
		return "!="
	default:
		return "?"
	}
}
