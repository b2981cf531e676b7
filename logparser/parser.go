// Package logparser implements the record-level field iterator: a
// single-threaded cooperative byte state machine that turns one record's
// byte range into (key, value) pairs without copying value bytes onto the
// heap unless a quoted value needs escape unfolding.
package logparser

import (
	"bytes"
	"fmt"
	"unsafe"
)

// MalformedRecord is returned when a mandatory separator (':', '.', '-',
// ',', '=') is missing where the grammar requires it, or a closing quote is
// never found.
type MalformedRecord struct {
	Reason string
	Offset int
}

func (e *MalformedRecord) Error() string {
	return fmt.Sprintf("malformed record at byte %d: %s", e.Offset, e.Reason)
}

type state int

const (
	stateStart state = iota
	stateDuration
	stateEvent
	stateMisc
	stateKey
	stateValue
	stateDone
)

// Iterator walks one record's bytes, producing the synthetic keys "time",
// "duration", "event" first, then the record's own key=value pairs. Each
// call to Next advances to exactly the next key/value boundary; no I/O
// occurs here, the record must already be materialized in data.
type Iterator struct {
	data  []byte
	pos   int
	state state
	key   string
}

// New wraps data — one record's bytes, BOM and record-range slicing already
// applied by the caller — for field-by-field iteration.
func New(data []byte) *Iterator {
	return &Iterator{data: data, state: stateStart}
}

// Pos returns the number of bytes consumed from data so far, including the
// terminating CR/LF once the record has been fully drained. Callers that
// scan a multi-record buffer use this to find the next record's start.
func (it *Iterator) Pos() int {
	return it.pos
}

// Next returns the next (key, value) pair. more is false once the record is
// exhausted; err is non-nil only on a grammar violation, at which point the
// iterator must not be called again.
func (it *Iterator) Next() (key string, val string, err error, more bool) {
	for {
		switch it.state {
		case stateStart:
			if it.pos >= len(it.data) {
				it.state = stateDone
				return "", "", nil, false
			}
			start := it.pos
			raw, err := it.readUntil('-')
			if err != nil {
				return "", "", err, false
			}
			colon := bytes.IndexByte(raw, ':')
			if colon < 0 {
				return "", "", &MalformedRecord{Reason: "missing ':' in time", Offset: start}, false
			}
			if bytes.IndexByte(raw[colon+1:], '.') < 0 {
				return "", "", &MalformedRecord{Reason: "missing '.' in time", Offset: start}, false
			}
			it.state = stateDuration
			return "time", bytesToString(raw), nil, true
		case stateDuration:
			raw, err := it.readUntil(',')
			if err != nil {
				return "", "", err, false
			}
			it.state = stateEvent
			return "duration", bytesToString(raw), nil, true
		case stateEvent:
			raw, err := it.readUntil(',')
			if err != nil {
				return "", "", err, false
			}
			it.state = stateMisc
			return "event", bytesToString(raw), nil, true
		case stateMisc:
			if _, err := it.readUntil(','); err != nil {
				return "", "", err, false
			}
			it.state = stateKey
		case stateKey:
			if it.pos >= len(it.data) {
				it.state = stateDone
				return "", "", nil, false
			}
			// A trailing comma leaves the line end where the next key would be.
			if it.data[it.pos] == '\n' || (it.data[it.pos] == '\r' && it.pos+1 < len(it.data) && it.data[it.pos+1] == '\n') {
				if it.data[it.pos] == '\r' {
					it.pos++
				}
				it.pos++
				it.state = stateDone
				return "", "", nil, false
			}
			raw, err := it.readUntil('=')
			if err != nil {
				return "", "", err, false
			}
			it.key = bytesToString(raw)
			it.state = stateValue
		case stateValue:
			val, err := it.readValue()
			if err != nil {
				return "", "", err, false
			}
			return it.key, val, nil, true
		case stateDone:
			return "", "", nil, false
		}
	}
}

// readUntil scans forward for the next occurrence of sep, returning the
// bytes before it without consuming sep into the result.
func (it *Iterator) readUntil(sep byte) ([]byte, error) {
	idx := bytes.IndexByte(it.data[it.pos:], sep)
	if idx < 0 {
		return nil, &MalformedRecord{Reason: fmt.Sprintf("missing %q", sep), Offset: it.pos}
	}
	start := it.pos
	it.pos += idx + 1
	return it.data[start : start+idx], nil
}

type valueState int

const (
	valueBegin valueState = iota
	valueUntilQuote
	valueUntilSep
	valueFinish
)

// readValue implements the value grammar: quoted | bare, with doubled-quote
// escaping inside a matching quoted value. Empty values are legal.
func (it *Iterator) readValue() (string, error) {
	var result string
	var quote byte
	var finishByte byte
	vstate := valueBegin

	for {
		switch vstate {
		case valueBegin:
			if it.pos >= len(it.data) {
				return "", &MalformedRecord{Reason: "unexpected end of record in value", Offset: it.pos}
			}
			c := it.data[it.pos]
			switch {
			case c == '\r' || c == '\n' || c == ',':
				result = ""
				finishByte = c
				it.pos++
				vstate = valueFinish
			case c == '\'' || c == '"':
				quote = c
				it.pos++
				vstate = valueUntilQuote
			default:
				vstate = valueUntilSep
			}
		case valueUntilQuote:
			begin := it.pos
			closed := false
			for it.pos < len(it.data) {
				c := it.data[it.pos]
				if c == quote {
					if it.pos+1 < len(it.data) && it.data[it.pos+1] == quote {
						it.pos += 2
						continue
					}
					result = unescapeQuoted(it.data[begin:it.pos], quote)
					it.pos++
					closed = true
				}
				if closed {
					break
				}
				it.pos++
			}
			if !closed {
				return "", &MalformedRecord{Reason: "unterminated quoted value", Offset: begin}
			}
			if it.pos >= len(it.data) {
				return "", &MalformedRecord{Reason: "missing terminator after quoted value", Offset: it.pos}
			}
			finishByte = it.data[it.pos]
			it.pos++
			vstate = valueFinish
		case valueUntilSep:
			begin := it.pos
			found := false
			for it.pos < len(it.data) {
				c := it.data[it.pos]
				if c == '\r' || c == '\n' || c == ',' {
					result = bytesToString(it.data[begin:it.pos])
					finishByte = c
					it.pos++
					found = true
					break
				}
				it.pos++
			}
			if !found {
				return "", &MalformedRecord{Reason: "missing terminator after value", Offset: begin}
			}
			vstate = valueFinish
		case valueFinish:
			switch finishByte {
			case '\r':
				if it.pos >= len(it.data) || it.data[it.pos] != '\n' {
					return "", &MalformedRecord{Reason: "CR not followed by LF", Offset: it.pos}
				}
				it.pos++
				it.state = stateDone
			case '\n':
				it.state = stateDone
			case ',':
				it.state = stateKey
			}
			return result, nil
		}
	}
}

// unescapeQuoted collapses a doubled quote into a literal single quote,
// copying only when an escape is actually present.
func unescapeQuoted(raw []byte, quote byte) string {
	doubled := []byte{quote, quote}
	if !bytes.Contains(raw, doubled) {
		return bytesToString(raw)
	}
	return string(bytes.ReplaceAll(raw, doubled, []byte{quote}))
}

// bytesToString converts byte slice to string without copying. The caller
// must not mutate b afterward.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
