package odata

import (
	"strings"
	"sync"

	p "github.com/vektah/goparsify"
)

// queryOptions parses `option ("&" option)*`. Each option is tried in the
// fixed order $filter/$select/$expand/$orderby/$top/$skip/$count/$search/
// $format/$skiptoken/$levels, then customQueryOption. A "$"-prefixed
// option that matches none of the system names fails outright rather than
// falling through to customQueryOption.
func queryOptions() p.Parser {
	return p.NewParser("query options", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		var opts []*Token
		for {
			optRes := p.Result{}
			queryOptionParser(ps, &optRes)
			if ps.Errored() {
				return
			}
			opts = append(opts, optRes.Result.(*Token))
			if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '&' {
				ps.Pos++
				continue
			}
			break
		}
		node.Result = tok(KindQueryOptions, start, ps, &OptionsValue{Options: opts})
	})
}

var pQueryOptions = queryOptions()

// expandQueryOptions is the restricted set of options legal inside a
// $expand item's nested parenthesised option list: $filter, $select,
// $expand, $orderby, $top, $skip, $levels, $search. $count is explicitly
// excluded.
func expandQueryOptions() p.Parser {
	return p.NewParser("expand options", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		var opts []*Token
		for {
			optRes := p.Result{}
			expandNestedOptionParser(ps, &optRes)
			if ps.Errored() {
				return
			}
			opts = append(opts, optRes.Result.(*Token))
			if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ';' {
				ps.Pos++
				continue
			}
			break
		}
		node.Result = tok(KindQueryOptions, start, ps, &OptionsValue{Options: opts})
	})
}

var (
	pExpandQueryOptionsOnce sync.Once
	pExpandQueryOptionsImpl p.Parser
)

// pExpandQueryOptions is lazily initialized (rather than a plain package
// var) to break the initialization cycle that would otherwise result from
// expandItemParser calling back into it.
func pExpandQueryOptions(ps *p.State, node *p.Result) {
	pExpandQueryOptionsOnce.Do(func() { pExpandQueryOptionsImpl = expandQueryOptions() })
	pExpandQueryOptionsImpl(ps, node)
}

func expandNestedOptionParser(ps *p.State, node *p.Result) {
	for _, opt := range []struct {
		name  string
		parse func(*p.State, *p.Result)
	}{
		{"$filter", filterOptionParser},
		{"$select", selectOptionParser},
		{"$expand", expandOptionParser},
		{"$orderby", orderByOptionParser},
		{"$top", topOptionParser},
		{"$skip", skipOptionParser},
		{"$levels", levelsOptionParser},
		{"$search", searchOptionParser},
	} {
		save := ps.Pos
		if matchKeyword(ps, opt.name) && ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '=' {
			ps.Pos++
			opt.parse(ps, node)
			return
		}
		ps.Pos = save
	}
	ps.ErrorHere("expand option")
}

// queryOptionParser tries each system query option in order, then falls
// back to customQueryOption.
func queryOptionParser(ps *p.State, node *p.Result) {
	for _, opt := range []struct {
		name  string
		parse func(*p.State, *p.Result)
	}{
		{"$filter", filterOptionParser},
		{"$select", selectOptionParser},
		{"$expand", expandOptionParser},
		{"$orderby", orderByOptionParser},
		{"$top", topOptionParser},
		{"$skip", skipOptionParser},
		{"$count", countOptionParser},
		{"$search", searchOptionParser},
		{"$format", formatOptionParser},
		{"$skiptoken", skiptokenOptionParser},
		{"$levels", levelsOptionParser},
	} {
		save := ps.Pos
		if matchKeyword(ps, opt.name) && ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '=' {
			ps.Pos++
			opt.parse(ps, node)
			return
		}
		ps.Pos = save
	}
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '$' {
		ps.ErrorHere("query option")
		return
	}
	customQueryOptionParser(ps, node)
}

func optionValueText(ps *p.State) string {
	start := ps.Pos
	end := start
	for end < len(ps.Input) && ps.Input[end] != '&' {
		end++
	}
	ps.Pos = end
	return ps.Input[start:end]
}

// filterOptionParser wraps a $filter value with odataWS/RWS active, per
// combinators.go's withWhitespace helper, since $filter bodies use OData's own
// whitespace rule rather than whatever the surrounding URI grammar uses.
func filterOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	exprRes := p.Result{}
	withWhitespace(p.VoidParser(odataWS), commonExprParser)(ps, &exprRes)
	if ps.Errored() {
		return
	}
	node.Result = tok(KindFilter, start, ps, &FilterValue{Expr: exprRes.Result.(*Token)})
}

// selectOptionParser parses `selectItem *("," selectItem)`, where each item
// is a bare path (property/navigation names joined by "/", or "*").
func selectOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	var items []*Token
	for {
		itemStart := ps.Pos
		if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '*' {
			ps.Pos++
			items = append(items, tok(KindSelectItem, itemStart, ps, ps.Input[itemStart:ps.Pos]))
		} else {
			segRes := p.Result{}
			pIdentifierToken(ps, &segRes)
			if ps.Errored() {
				return
			}
			for ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '/' {
				ps.Pos++
				nextRes := p.Result{}
				pIdentifierToken(ps, &nextRes)
				if ps.Errored() {
					return
				}
			}
			items = append(items, tok(KindSelectItem, itemStart, ps, ps.Input[itemStart:ps.Pos]))
		}
		if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ',' {
			ps.Pos++
			continue
		}
		break
	}
	node.Result = tok(KindSelect, start, ps, &CollectionValue{Items: items})
}

// expandOptionParser parses `expandItem *("," expandItem)`.
func expandOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	var items []*Token
	for {
		itemRes := p.Result{}
		expandItemParser(ps, &itemRes)
		if ps.Errored() {
			return
		}
		items = append(items, itemRes.Result.(*Token))
		if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ',' {
			ps.Pos++
			continue
		}
		break
	}
	node.Result = tok(KindExpand, start, ps, &CollectionValue{Items: items})
}

// expandItemParser parses `path ["(" expandOption (";" expandOption)* ")"]`.
func expandItemParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	pathStart := ps.Pos
	segRes := p.Result{}
	pIdentifierToken(ps, &segRes)
	if ps.Errored() {
		return
	}
	for ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '/' {
		ps.Pos++
		nextRes := p.Result{}
		pIdentifierToken(ps, &nextRes)
		if ps.Errored() {
			return
		}
	}
	path := tok(KindExpandPath, pathStart, ps, ps.Input[pathStart:ps.Pos])

	var options *Token
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '(' {
		save := ps.Pos
		ps.Pos++
		optsRes := p.Result{}
		pExpandQueryOptions(ps, &optsRes)
		if ps.Errored() {
			ps.Pos = save
			ps.Error = p.Error{}
		} else if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ')' {
			ps.Pos++
			options = optsRes.Result.(*Token)
		} else {
			ps.Pos = save
		}
	}
	node.Result = tok(KindExpandItem, start, ps, &ExpandItemValue{Path: path, Options: options})
}

// orderByOptionParser parses `orderByItem *("," orderByItem)`.
func orderByOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	var items []*Token
	for {
		itemStart := ps.Pos
		exprRes := p.Result{}
		commonExprParser(ps, &exprRes)
		if ps.Errored() {
			return
		}
		direction := Ascending
		save := ps.Pos
		ps.WS(ps)
		kwRes := p.Result{}
		ignoreCase("desc")(ps, &kwRes)
		if !ps.Errored() {
			direction = Descending
		} else {
			ps.Error = p.Error{}
			ps.Pos = save
			ps.WS(ps)
			ignoreCase("asc")(ps, &kwRes)
			if ps.Errored() {
				ps.Error = p.Error{}
				ps.Pos = save
			}
		}
		items = append(items, tok(KindOrderByItem, itemStart, ps, &OrderByItemValue{
			Expr: exprRes.Result.(*Token), Direction: direction,
		}))
		if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ',' {
			ps.Pos++
			continue
		}
		break
	}
	node.Result = tok(KindOrderBy, start, ps, &CollectionValue{Items: items})
}

// nonNegativeIntOption backs $top/$skip/$levels, all of which require a
// bare non-negative integer; it's built on the uint64Literal combinator
// (combinators.go), an unbounded run of decimal digits.
func nonNegativeIntOption(ps *p.State, kind Kind) (*Token, bool) {
	start := ps.Pos
	res := p.Result{}
	uint64Literal()(ps, &res)
	if ps.Errored() {
		ps.Error = p.Error{}
		return nil, false
	}
	v := res.Result.(uint64)
	return tok(kind, start, ps, &ScalarValue{Raw: res.Token, Int: &v}), true
}

func topOptionParser(ps *p.State, node *p.Result) {
	t, ok := nonNegativeIntOption(ps, KindTop)
	if !ok {
		ps.ErrorHere("$top")
		return
	}
	node.Result = t
}

func skipOptionParser(ps *p.State, node *p.Result) {
	t, ok := nonNegativeIntOption(ps, KindSkip)
	if !ok {
		ps.ErrorHere("$skip")
		return
	}
	node.Result = t
}

func countOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if matchKeyword(ps, "true") {
		node.Result = tok(KindCount, start, ps, &ScalarValue{Raw: "true"})
		return
	}
	if matchKeyword(ps, "false") {
		node.Result = tok(KindCount, start, ps, &ScalarValue{Raw: "false"})
		return
	}
	ps.ErrorHere("$count")
}

// searchOptionParser wraps the $search mini-grammar in a Search Token.
func searchOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	exprRes := p.Result{}
	withWhitespace(p.VoidParser(odataWS), pSearch)(ps, &exprRes)
	if ps.Errored() {
		return
	}
	node.Result = tok(KindSearch, start, ps, &SearchValue{Expr: exprRes.Result.(*Token)})
}

// formatOptionParser accepts any value that contains no "/" (the short-form
// tokens such as json/xml/atom; the value itself is not checked against a
// list); media-type forms (e.g. "application/json") are rejected rather than
// guessed at, since disambiguating them needs content-negotiation rules
// this core doesn't carry.
func formatOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	value := optionValueText(ps)
	if strings.Contains(value, "/") {
		ps.Pos = start
		ps.ErrorHere("$format")
		return
	}
	node.Result = tok(KindFormat, start, ps, &ScalarValue{Raw: value})
}

func skiptokenOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	value := optionValueText(ps)
	node.Result = tok(KindSkiptoken, start, ps, &ScalarValue{Raw: value})
}

// levelsOptionParser accepts a non-negative integer or the literal word
// "max".
func levelsOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if matchKeyword(ps, "max") {
		node.Result = tok(KindLevels, start, ps, &ScalarValue{Raw: "max"})
		return
	}
	t, ok := nonNegativeIntOption(ps, KindLevels)
	if !ok {
		ps.ErrorHere("$levels")
		return
	}
	node.Result = t
}

// customQueryOptionParser parses a bare `key=value` pair whose key does not
// begin with "$" (reserved for system options).
func customQueryOptionParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	keyStart := ps.Pos
	for ps.Pos < len(ps.Input) && ps.Input[ps.Pos] != '=' && ps.Input[ps.Pos] != '&' {
		ps.Pos++
	}
	if ps.Pos == keyStart {
		ps.Pos = start
		ps.ErrorHere("custom query option")
		return
	}
	key := ps.Input[keyStart:ps.Pos]
	if strings.HasPrefix(key, "$") {
		ps.Pos = start
		ps.ErrorHere("custom query option")
		return
	}
	var value string
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '=' {
		ps.Pos++
		value = optionValueText(ps)
	}
	node.Result = tok(KindCustomQueryOption, start, ps, &KeyValueValue{Key: key, Value: value})
}
