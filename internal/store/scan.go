package store

import (
	"errors"
)

var (
	ErrUnbalanced = errors.New("unbalanced brackets")
	ErrStrayText  = errors.New("text outside of a record")
)

// Segment is one top-level bracketed record recovered by ScanRecords, or a
// run of bytes that could not belong to one (Err set).
type Segment struct {
	Offset int
	Data   []byte
	Err    error
}

// ScanRecords splits run file content into top-level JSON arrays by tracking
// [ ] depth. Brackets inside string literals do not count. The writer never
// emits a raw line break inside a record, so a line break or the end of input
// while an array is still open marks it unbalanced and scanning resumes on
// the next line. A closing bracket at depth zero and anything else between
// records, other than whitespace and commas, is reported as an invalid
// segment and scanning resumes at the next byte.
func ScanRecords(content []byte) []Segment {
	var (
		segs     []Segment
		depth    int
		start    = -1
		inString bool
		escaped  bool

		junkStart = -1
		junkErr   error
	)

	flushJunk := func(end int) {
		if junkStart < 0 {
			return
		}
		segs = append(segs, Segment{Offset: junkStart, Data: content[junkStart:end], Err: junkErr})
		junkStart, junkErr = -1, nil
	}
	markJunk := func(i int, err error) {
		if junkStart < 0 {
			junkStart, junkErr = i, err
		}
		if errors.Is(err, ErrUnbalanced) {
			junkErr = err
		}
	}

	for i := 0; i < len(content); i++ {
		c := content[i]

		if c == '\n' || c == '\r' {
			if depth > 0 {
				segs = append(segs, Segment{Offset: start, Data: content[start:i], Err: ErrUnbalanced})
				depth, start, inString, escaped = 0, -1, false, false
			}
			flushJunk(i)
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '[':
			if depth == 0 {
				flushJunk(i)
				start = i
			}
			depth++
		case c == ']':
			if depth == 0 {
				markJunk(i, ErrUnbalanced)
				continue
			}
			depth--
			if depth == 0 {
				segs = append(segs, Segment{Offset: start, Data: content[start : i+1]})
				start = -1
			}
		case depth > 0:
			if c == '"' {
				inString = true
			}
		case c == ' ' || c == '\t' || c == ',':
		default:
			markJunk(i, ErrStrayText)
		}
	}

	flushJunk(len(content))
	if depth > 0 {
		segs = append(segs, Segment{Offset: start, Data: content[start:], Err: ErrUnbalanced})
	}
	return segs
}
