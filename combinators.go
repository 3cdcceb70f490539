package odata

import (
	"fmt"
	"strconv"
	"strings"

	p "github.com/vektah/goparsify"
)

// repeatZeroOrMore matches zero or more parsers and returns the value as
// .Child[n]. An optional separator can be provided and will be consumed but
// not returned.
func repeatZeroOrMore(ps p.Parserish, sep ...p.Parserish) p.Parser {
	return p.Some(ps, sep...)
}

// fixedLengthInt parses exactly 'length' decimal digits, e.g. the 4-digit
// year or 2-digit month/day/hour/minute/second fields of a temporal
// literal.
func fixedLengthInt(length int) p.Parser {
	description := fmt.Sprintf("%d digit number", length)
	return p.NewParser(description, func(ps *p.State, node *p.Result) {
		start := ps.Pos
		end := start + length
		if end > len(ps.Input) {
			ps.ErrorHere(description)
			return
		}
		for i := start; i < end; i++ {
			c := ps.Input[i]
			if c < '0' || c > '9' {
				ps.ErrorHere(description)
				return
			}
		}
		v, err := strconv.Atoi(ps.Input[start:end])
		if err != nil {
			ps.ErrorHere(description)
			return
		}
		node.Result = v
		node.Token = ps.Input[start:end]
		ps.Pos = end
	})
}

// uint64Literal parses an unbroken run of decimal digits as a uint64. No
// sign is permitted; $top/$skip/$levels are the only productions needing
// this shape.
func uint64Literal() p.Parser {
	return p.NewParser("non-negative integer", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		end := start
		for end < len(ps.Input) && ps.Input[end] >= '0' && ps.Input[end] <= '9' {
			end++
		}
		if end == start {
			ps.ErrorHere("non-negative integer")
			return
		}
		v, err := strconv.ParseUint(ps.Input[start:end], 10, 64)
		if err != nil {
			ps.ErrorHere("non-negative integer")
			return
		}
		node.Result = v
		node.Token = ps.Input[start:end]
		ps.Pos = end
	})
}

// withWhitespace sets the auto-whitespace strategy to ws for parserish and
// everything it calls, restoring the caller's prior setting once parserish
// returns. odataWS (see lex.go) needs this so that $filter/$search bodies
// use OData's own RWS rule instead of whatever whitespace strategy the
// surrounding query-option grammar is using.
func withWhitespace(ws p.VoidParser, parserish p.Parserish) p.Parser {
	parser := p.Parsify(parserish)
	return func(ps *p.State, node *p.Result) {
		oldWS := ps.WS
		ps.WS = ws
		parser(ps, node)
		ps.WS = oldWS
	}
}

// ignoreCase returns a parser that matches 'match' exactly, ignoring case.
// Used for the keyword tokens (and/or/not/eq/asc/desc/...) that OData
// defines as case-sensitive lowercase in the ABNF but that this port
// chooses to accept case-insensitively for robustness against hand-typed
// queries -- the Raw captured is always the literal source text.
func ignoreCase(match string) p.Parser {
	lenMatch := len(match)
	return p.NewParser("'"+match+"'", func(ps *p.State, r *p.Result) {
		in := ps.Get()
		if len(in) < lenMatch || !strings.EqualFold(match, in[:lenMatch]) {
			ps.ErrorHere(match)
			return
		}
		ps.Advance(lenMatch)
		r.Token = in[:lenMatch]
	})
}

// tok builds a Token from a matched goparsify Result, using the State's
// input to recover the absolute source interval: goparsify tracks only
// the current cursor, so the start position has to be captured by the
// caller before invoking the sub-parser.
func tok(kind Kind, startPos int, ps *p.State, value interface{}) *Token {
	return newToken(kind, startPos, ps.Pos, ps.Input[startPos:ps.Pos], value)
}
