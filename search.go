package odata

import (
	p "github.com/vektah/goparsify"
)

// $search has its own, much smaller mini-grammar, independent of the
// $filter expression grammar (no "eq"/"gt"/paths/methods -- just free-text
// terms combined with implicit-AND, explicit OR, and NOT):
//
//	searchExpr    = searchOrExpr
//	searchOrExpr  = searchAndExpr *("OR" searchAndExpr)
//	searchAndExpr = searchTerm *([RWS] "AND" RWS searchTerm | RWS searchTerm)
//	searchTerm    = ["NOT" RWS] (searchPhrase | searchWord)

func searchExpr() p.Parser {
	return searchOrExprParser
}

var pSearch = searchExpr()

func searchOrExprParserImpl(ps *p.State, node *p.Result) {
	start := ps.Pos
	firstRes := p.Result{}
	searchAndExprParser(ps, &firstRes)
	if ps.Errored() {
		return
	}
	left := firstRes.Result.(*Token)
	for {
		save := ps.Pos
		ps.WS(ps)
		opRes := p.Result{}
		requireWS(ignoreCase("OR"))(ps, &opRes)
		if ps.Errored() {
			ps.Pos = save
			ps.Error = p.Error{}
			break
		}
		ps.WS(ps)
		rhsRes := p.Result{}
		searchAndExprParser(ps, &rhsRes)
		if ps.Errored() {
			ps.Pos = save
			ps.Error = p.Error{}
			break
		}
		left = tok(KindSearchOrExpression, start, ps, &BinaryValue{Left: left, Right: rhsRes.Result.(*Token)})
	}
	node.Result = left
}

var searchOrExprParser p.Parser = searchOrExprParserImpl

func searchAndExprParserImpl(ps *p.State, node *p.Result) {
	start := ps.Pos
	firstRes := p.Result{}
	searchTermParser(ps, &firstRes)
	if ps.Errored() {
		return
	}
	left := firstRes.Result.(*Token)
	for {
		save := ps.Pos
		wsStart := ps.Pos
		ps.WS(ps)
		hadWS := ps.Pos > wsStart

		// Stop if the next token is "OR": that belongs to the enclosing
		// searchOrExpr, not an implicit-AND continuation.
		orProbe := p.Result{}
		orSave := ps.Pos
		requireWS(ignoreCase("OR"))(ps, &orProbe)
		ps.Pos = orSave
		if !ps.Errored() {
			ps.Pos = save
			break
		}
		ps.Error = p.Error{}

		andProbe := p.Result{}
		requireWS(ignoreCase("AND"))(ps, &andProbe)
		if !ps.Errored() {
			ps.WS(ps)
		} else {
			ps.Error = p.Error{}
			if !hadWS {
				ps.Pos = save
				break
			}
		}

		rhsRes := p.Result{}
		termStart := ps.Pos
		searchTermParser(ps, &rhsRes)
		if ps.Errored() {
			ps.Pos = save
			ps.Error = p.Error{}
			break
		}
		_ = termStart
		left = tok(KindSearchAndExpression, start, ps, &BinaryValue{Left: left, Right: rhsRes.Result.(*Token)})
	}
	node.Result = left
}

var searchAndExprParser p.Parser = searchAndExprParserImpl

// searchTermParser parses `["NOT" RWS] (searchPhrase | searchWord)`.
func searchTermParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	notRes := p.Result{}
	requireWS(ignoreCase("NOT"))(ps, &notRes)
	hasNot := !ps.Errored()
	if hasNot {
		ps.WS(ps)
	} else {
		ps.Error = p.Error{}
	}

	var inner *Token
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '"' {
		phraseRes := p.Result{}
		searchPhraseParser(ps, &phraseRes)
		if ps.Errored() {
			return
		}
		inner = phraseRes.Result.(*Token)
	} else {
		wordRes := p.Result{}
		searchWordParser(ps, &wordRes)
		if ps.Errored() {
			return
		}
		inner = wordRes.Result.(*Token)
	}
	if hasNot {
		node.Result = tok(KindSearchNotExpression, start, ps, inner)
		return
	}
	node.Result = inner
}

// searchPhraseParser parses a double-quoted phrase. The phrase ends at the
// first closing '"'; no escape form for an embedded quote is recognised.
func searchPhraseParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '"' {
		ps.ErrorHere("\"")
		return
	}
	pos := ps.Pos + 1
	for {
		if pos >= len(ps.Input) {
			ps.ErrorHere("closing quote")
			return
		}
		if ps.Input[pos] == '"' {
			pos++
			break
		}
		pos++
	}
	ps.Pos = pos
	node.Result = tok(KindSearchPhrase, start, ps, ps.Input[start+1:pos-1])
}

// searchWordParser parses a run of non-whitespace, non-reserved characters
// that isn't one of the reserved words AND/OR/NOT.
func searchWordParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	pos := start
	for pos < len(ps.Input) && ps.Input[pos] != ' ' && ps.Input[pos] != '\t' &&
		ps.Input[pos] != '(' && ps.Input[pos] != ')' && ps.Input[pos] != '"' {
		pos++
	}
	if pos == start {
		ps.ErrorHere("search term")
		return
	}
	word := ps.Input[start:pos]
	if word == "AND" || word == "OR" || word == "NOT" {
		ps.ErrorHere("search term")
		return
	}
	ps.Pos = pos
	node.Result = tok(KindSearchWord, start, ps, word)
}
