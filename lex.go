package odata

import (
	p "github.com/vektah/goparsify"
)

// isAlpha reports whether b is an ASCII letter (ABNF ALPHA).
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isDigit reports whether b is an ASCII decimal digit (ABNF DIGIT).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isHexDig reports whether b is an ASCII hex digit (ABNF HEXDIG).
func isHexDig(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// isUnreserved reports whether b is an unreserved URI character, per
// RFC 3986: ALPHA / DIGIT / "-" / "." / "_" / "~".
func isUnreserved(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '-' || b == '.' || b == '_' || b == '~'
}

// odataWS matches OData's RWS/BWS whitespace: a run of space or tab
// characters. The percent-encoded forms %20/%09 are not recognised, since
// percent decoding is the caller's responsibility.
func odataWS(ps *p.State) {
	for ps.Pos < len(ps.Input) && (ps.Input[ps.Pos] == ' ' || ps.Input[ps.Pos] == '\t') {
		ps.Pos++
	}
}

// noWS never consumes anything: a whitespace strategy for contexts where
// OData forbids whitespace. No parser in this package currently installs
// it.
func noWS(ps *p.State) {}

// requiredWS consumes one-or-more OData whitespace characters, per the RWS
// production, and fails (without consuming) if none are present.
func requiredWS() p.Parser {
	return p.NewParser("whitespace", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		odataWS(ps)
		if ps.Pos == start {
			ps.ErrorHere("whitespace")
			return
		}
	})
}

// isIdentifierStart reports whether r may start an odataIdentifier:
// ALPHA or "_", or any Unicode letter.
func isIdentifierStart(r rune) bool {
	if r == '_' {
		return true
	}
	return isUnicodeLetter(r)
}

// isIdentifierChar reports whether r may continue an odataIdentifier:
// Unicode letter, digit, mark, or underscore.
func isIdentifierChar(r rune) bool {
	return r == '_' || isUnicodeLetter(r) || isUnicodeDigit(r) || isUnicodeMark(r)
}
