package odata

import (
	"strings"
	"unicode"
	"unicode/utf8"

	p "github.com/vektah/goparsify"
	"golang.org/x/text/unicode/norm"
)

// maxIdentifierLength is the ABNF's "*127" bound on odataIdentifier's
// continuation characters (128 characters total, including the first).
const maxIdentifierLength = 128

func isUnicodeLetter(r rune) bool { return unicode.IsLetter(r) }
func isUnicodeDigit(r rune) bool  { return unicode.IsDigit(r) }
func isUnicodeMark(r rune) bool   { return unicode.IsMark(r) }

// normalizeIdentifier applies Unicode NFC normalization to an identifier's
// text, so combining-mark sequences compare equal regardless of how a
// caller's source text composed them.
func normalizeIdentifier(s string) string {
	return norm.NFC.String(s)
}

// odataIdentifier parses `(ALPHA / "_") *127(identifierCharacter)`.
func odataIdentifier() p.Parser {
	return p.NewParser("identifier", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		input := ps.Input[start:]
		if len(input) == 0 {
			ps.ErrorHere("identifier")
			return
		}
		r, size := utf8.DecodeRuneInString(input)
		if r == utf8.RuneError || !isIdentifierStart(r) {
			ps.ErrorHere("identifier")
			return
		}
		pos := size
		count := 1
		for count < maxIdentifierLength && pos < len(input) {
			r, size = utf8.DecodeRuneInString(input[pos:])
			if r == utf8.RuneError || !isIdentifierChar(r) {
				break
			}
			pos += size
			count++
		}
		ps.Pos = start + pos
		node.Token = ps.Input[start:ps.Pos]
		node.Result = normalizeIdentifier(node.Token)
	})
}

var pIdentifier = odataIdentifier()

// identifierToken wraps pIdentifier so that callers needing a *Token (with
// Kind == KindODataIdentifier) rather than a bare normalized string can
// compose it directly into a Seq().
func identifierToken() p.Parser {
	return p.NewParser("identifier", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		res := p.Result{}
		pIdentifier(ps, &res)
		if ps.Errored() {
			return
		}
		node.Result = tok(KindODataIdentifier, start, ps, res.Result)
		node.Token = res.Token
	})
}

var pIdentifierToken = identifierToken()

// namespace parses `odataIdentifier *("." odataIdentifier)`.
func namespaceParser() p.Parser {
	return p.Seq(pIdentifier, repeatZeroOrMore(p.Seq(".", pIdentifier))).Map(func(n *p.Result) {
		n.Result = n.Token
	})
}

var pNamespace = namespaceParser()

// qualifiedTypeName parses `namespace "." odataIdentifier`, used for both
// qualifiedEntityTypeName and qualifiedComplexTypeName: the grammar for
// both is identical, and telling them apart needs metadata this core
// doesn't resolve.
func qualifiedTypeNameParser(kind Kind) p.Parser {
	return p.NewParser(string(kind), func(ps *p.State, node *p.Result) {
		start := ps.Pos
		ns := p.Result{}
		pNamespace(ps, &ns)
		if ps.Errored() {
			return
		}
		// namespace greedily consumes the whole dotted run, folding what is
		// semantically the trailing type-name segment into itself, so a
		// qualified name is recognised by the presence of a dot in what it
		// matched rather than by a further ".identifier" suffix -- there is
		// none left to consume.
		if !strings.Contains(ns.Token, ".") {
			ps.Pos = start
			ps.ErrorHere(string(kind))
			return
		}
		node.Result = tok(kind, start, ps, ps.Input[start:ps.Pos])
	})
}

var (
	pQualifiedEntityTypeName  = qualifiedTypeNameParser(KindQualifiedEntityType)
	pQualifiedComplexTypeName = qualifiedTypeNameParser(KindQualifiedComplexType)
	pQualifiedEnumTypeName    = qualifiedTypeNameParser(KindQualifiedEnumType)
)

// primitiveTypeNames is the fixed set of EDM primitive type names matched
// by the primitiveTypeName production (pPrimitiveTypeName). isof()/cast()
// arguments are parsed as ordinary expressions and do not go through it.
var primitiveTypeNames = []string{
	"Edm.Binary", "Edm.Boolean", "Edm.Byte", "Edm.Date", "Edm.DateTimeOffset",
	"Edm.Decimal", "Edm.Double", "Edm.Duration", "Edm.Guid", "Edm.Int16",
	"Edm.Int32", "Edm.Int64", "Edm.SByte", "Edm.Single", "Edm.Stream",
	"Edm.String", "Edm.TimeOfDay",
	"Edm.Geography", "Edm.GeographyPoint", "Edm.GeographyLineString",
	"Edm.GeographyPolygon", "Edm.GeographyMultiPoint",
	"Edm.GeographyMultiLineString", "Edm.GeographyMultiPolygon",
	"Edm.GeographyCollection",
	"Edm.Geometry", "Edm.GeometryPoint", "Edm.GeometryLineString",
	"Edm.GeometryPolygon", "Edm.GeometryMultiPoint",
	"Edm.GeometryMultiLineString", "Edm.GeometryMultiPolygon",
	"Edm.GeometryCollection",
}

func primitiveTypeNameParser() p.Parser {
	// Longest-match first so "Edm.Geography" doesn't shadow
	// "Edm.GeographyPoint".
	sorted := make([]string, len(primitiveTypeNames))
	copy(sorted, primitiveTypeNames)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if len(sorted[j]) > len(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	alts := make([]p.Parserish, len(sorted))
	for i, s := range sorted {
		alts[i] = p.Exact(s)
	}
	return p.NewParser("primitive type name", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		any := p.Any(alts...)
		res := p.Result{}
		any(ps, &res)
		if ps.Errored() {
			return
		}
		node.Result = tok(KindPrimitiveTypeName, start, ps, ps.Input[start:ps.Pos])
	})
}

var pPrimitiveTypeName = primitiveTypeNameParser()
