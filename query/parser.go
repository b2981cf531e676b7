package query

import (
	"fmt"

	"github.com/tuplecats/logscope/value"
)

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t, ok := p.next()
	if !ok {
		return token{}, &ParseError{Kind: UnexpectedEndOfInput, Msg: "unexpected end of input, expected " + what}
	}
	if t.kind != kind {
		return token{}, &ParseError{Kind: UnexpectedToken, Msg: fmt.Sprintf("unexpected token %q, expected %s", t.describe(), what)}
	}
	return t, nil
}

// compileExpression parses expr := term (OR term)*.
func (p *parser) compileExpression() (node, error) {
	left, err := p.compileTerm()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOr {
			return left, nil
		}
		p.next()
		right, err := p.compileTerm()
		if err != nil {
			return nil, err
		}
		left = &orNode{left: left, right: right}
	}
}

// compileTerm parses term := cond (AND cond)*.
func (p *parser) compileTerm() (node, error) {
	left, err := p.compileCondition()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokAnd {
			return left, nil
		}
		p.next()
		right, err := p.compileCondition()
		if err != nil {
			return nil, err
		}
		left = &andNode{left: left, right: right}
	}
}

// compileCondition parses cond := "(" expr ")" | ident op value.
func (p *parser) compileCondition() (node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, &ParseError{Kind: UnexpectedEndOfInput, Msg: "unexpected end of input, expected condition"}
	}
	if t.kind == tokOpenParen {
		p.next()
		inner, err := p.compileExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokCloseParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	ident, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return nil, err
	}
	op, err := p.compileOperator()
	if err != nil {
		return nil, err
	}
	lit, err := p.compileValue()
	if err != nil {
		return nil, err
	}
	if lit.Kind() == value.KindRegex && op != tokEqual {
		return nil, &ParseError{Kind: UnexpectedToken, Msg: "a regex literal may only be compared with '='"}
	}
	return &condNode{field: ident.str, op: op, lit: lit}, nil
}

func (p *parser) compileOperator() (tokenKind, error) {
	t, ok := p.next()
	if !ok {
		return 0, &ParseError{Kind: UnexpectedEndOfInput, Msg: "unexpected end of input, expected operator"}
	}
	switch t.kind {
	case tokEqual, tokNE, tokLess, tokGreater, tokLE, tokGE:
		return t.kind, nil
	default:
		return 0, &ParseError{Kind: UnexpectedToken, Msg: fmt.Sprintf("unexpected token %q, expected an operator", t.describe())}
	}
}

// compileValue parses value := string | number | date | regex.
func (p *parser) compileValue() (value.Value, error) {
	t, ok := p.next()
	if !ok {
		return value.Value{}, &ParseError{Kind: UnexpectedEndOfInput, Msg: "unexpected end of input, expected a value"}
	}
	switch t.kind {
	case tokString:
		return value.Text(t.str), nil
	case tokNumber:
		return value.Number(t.num), nil
	case tokDate:
		return value.DateTime(t.date), nil
	case tokRegex:
		return value.Regex(t.regexVal), nil
	default:
		return value.Value{}, &ParseError{Kind: UnexpectedToken, Msg: fmt.Sprintf("unexpected token %q, expected a value", t.describe())}
	}
}
