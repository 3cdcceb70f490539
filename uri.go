package odata

import (
	p "github.com/vektah/goparsify"
)

// odataUri parses `serviceRoot ["/" resourcePath] ["?" queryOptions]`.
//
// Distinguishing where a caller's service root ends and the resource path
// begins needs entity-set/singleton metadata this core doesn't resolve: the
// text before "?" is parsed wholesale as resourcePath, with ServiceRoot
// left empty. A caller that knows its own service-root prefix strips it
// before calling ParseODataURI.
func odataUriParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	pathStart := ps.Pos
	for ps.Pos < len(ps.Input) && ps.Input[ps.Pos] != '?' {
		ps.Pos++
	}
	pathText := ps.Input[pathStart:ps.Pos]

	var resourcePath *Token
	if pathText != "" {
		pathState := p.NewState(pathText)
		pathRes := p.Result{}
		pResourcePath(pathState, &pathRes)
		if pathState.Errored() || pathState.Pos < len(pathText) {
			ps.Pos = start
			ps.ErrorHere("resource path")
			return
		}
		resourcePath = pathRes.Result.(*Token)
	}

	var queryOpts *Token
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '?' {
		ps.Pos++
		qRes := p.Result{}
		pQueryOptions(ps, &qRes)
		if ps.Errored() {
			return
		}
		queryOpts = qRes.Result.(*Token)
	}

	node.Result = tok(KindODataURI, start, ps, &URIValue{
		ResourcePath: resourcePath,
		QueryOptions: queryOpts,
	})
}

var pODataURI p.Parser = odataUriParser

// run drives a parser against the full text of input, converting an empty
// input or unconsumed trailing text into a typed error. It is the single
// choke point every public entry point funnels through. opts is threaded only as
// far as resolving a config; no combinator in this core currently consults
// it (name resolution against metadata is a downstream concern), but the
// plumbing is here so a caller's Metadata reaches any combinator that
// chooses to.
func run(parser p.Parser, input string, opts []Option) (*Token, error) {
	_ = buildConfig(opts)
	ps := p.NewState(input)
	ps.WS(ps)
	res := p.Result{}
	parser(ps, &res)
	if ps.Errored() || res.Result == nil {
		return nil, &EmptyParseError{Input: input}
	}
	tk, ok := res.Result.(*Token)
	if !ok {
		return nil, &EmptyParseError{Input: input}
	}
	ps.WS(ps)
	if ps.Pos < len(input) {
		return nil, &TrailingInputError{Input: input, Position: ps.Pos}
	}
	return tk, nil
}

// ParseODataURI parses an OData URI: an optional resource path and
// optional "?"-prefixed query options. No service root is recognised: the
// text before "?" is parsed as the resource path and URIValue.ServiceRoot
// is left empty.
func ParseODataURI(s string, opts ...Option) (*Token, error) {
	return run(pODataURI, s, opts)
}

// ParseResourcePath parses the resource-path segment of a URI (the part
// between the service root and the "?").
func ParseResourcePath(s string, opts ...Option) (*Token, error) {
	return run(pResourcePath, s, opts)
}

// ParseQueryOptions parses the text following a URI's "?", a sequence of
// "&"-separated query options.
func ParseQueryOptions(s string, opts ...Option) (*Token, error) {
	return run(pQueryOptions, s, opts)
}

// ParseFilter parses a single $filter expression body.
func ParseFilter(s string, opts ...Option) (*Token, error) {
	return run(commonExprParser, s, opts)
}

// ParseKeys parses a `(...)` key predicate, as it would appear appended to
// an entity-set segment.
func ParseKeys(s string, opts ...Option) (*Token, error) {
	return run(keyPredicateParser, s, opts)
}

// ParseLiteral parses a single primitive literal.
func ParseLiteral(s string, opts ...Option) (*Token, error) {
	return run(pLiteral, s, opts)
}
