package odata

import (
	p "github.com/vektah/goparsify"
)

// resourcePath parses the segment chain following the service root:
// an entitySetName or singletonName, optionally followed by a key
// predicate, followed by zero or more "/" navigation/cast/function
// segments. This core doesn't distinguish entity sets from singletons by
// name (that needs metadata resolution it doesn't perform) -- both parse
// to KindEntitySetName and are disambiguated, if at all, by the caller's
// Metadata.
func resourcePath() p.Parser {
	return p.NewParser("resource path", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		firstRes := p.Result{}
		pIdentifierToken(ps, &firstRes)
		if ps.Errored() {
			return
		}
		segment := firstRes.Result.(*Token)
		segment.Kind = KindEntitySetName

		keyRes := p.Result{}
		keyPredicateParser(ps, &keyRes)
		var key *Token
		if !ps.Errored() {
			key = keyRes.Result.(*Token)
		} else {
			ps.Error = p.Error{}
		}

		current := tok(KindCollectionNavigation, start, ps, &NavigationValue{Segment: segment, Key: key})
		for {
			save := ps.Pos
			if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '/' {
				break
			}
			ps.Pos++
			next := navigationSegmentParser(ps, current)
			if ps.Errored() {
				ps.Pos = save
				ps.Error = p.Error{}
				break
			}
			current = next
		}
		node.Result = tok(KindResourcePath, start, ps, current)
	})
}

var pResourcePath = resourcePath()

// navigationSegmentParser parses one "/"-delimited segment following an
// existing path: a qualified type-cast name, a bound function/action call,
// or a plain navigation property (optionally keyed).
func navigationSegmentParser(ps *p.State, prior *Token) *Token {
	start := ps.Pos

	if qualRes := tryQualifiedSegment(ps, start, prior); qualRes != nil {
		return qualRes
	}

	nameRes := p.Result{}
	pIdentifierToken(ps, &nameRes)
	if ps.Errored() {
		return nil
	}
	segment := nameRes.Result.(*Token)

	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '(' {
		fn := boundFunctionCallParser(ps, start, segment)
		if fn != nil {
			return fn
		}
		ps.Error = p.Error{}
	}

	keyRes := p.Result{}
	keyPredicateParser(ps, &keyRes)
	var key *Token
	if !ps.Errored() {
		key = keyRes.Result.(*Token)
	} else {
		ps.Error = p.Error{}
	}
	kind := KindSingleNavigation
	if key == nil {
		kind = KindCollectionNavigation
	}
	return tok(kind, start, ps, &NavigationValue{Segment: segment, Key: key, Next: prior})
}

// tryQualifiedSegment recognises a "Namespace.Name" segment: syntactically
// the same production serves both a type-cast and a bound function/action
// call, disambiguated only by whether an argument list immediately follows.
func tryQualifiedSegment(ps *p.State, start int, prior *Token) *Token {
	save := ps.Pos
	res := p.Result{}
	pQualifiedEntityTypeName(ps, &res)
	if ps.Errored() {
		ps.Pos = save
		ps.Error = p.Error{}
		return nil
	}
	seg := res.Result.(*Token)
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '(' {
		seg.Kind = KindODataIdentifier
		if fn := boundFunctionCallParser(ps, start, seg); fn != nil {
			return fn
		}
		ps.Pos = save
		ps.Error = p.Error{}
		return nil
	}
	seg.Kind = KindTypeCastSegment
	return tok(KindTypeCastSegment, start, ps, &NavigationValue{Segment: seg, Next: prior})
}

// boundFunctionCallParser parses `name "(" [param *("," param)] ")"` where
// each param is `paramName "=" literal`.
func boundFunctionCallParser(ps *p.State, start int, name *Token) *Token {
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '(' {
		return nil
	}
	save := ps.Pos
	ps.Pos++
	ps.WS(ps)
	var params []*Token
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] != ')' {
		for {
			pRes := p.Result{}
			functionParameterParser(ps, &pRes)
			if ps.Errored() {
				ps.Pos = save
				ps.Error = p.Error{}
				return nil
			}
			params = append(params, pRes.Result.(*Token))
			ps.WS(ps)
			if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ',' {
				ps.Pos++
				ps.WS(ps)
				continue
			}
			break
		}
	}
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != ')' {
		ps.Pos = save
		return nil
	}
	ps.Pos++
	return tok(KindBoundFunctionCall, start, ps, &FunctionCallValue{Name: name, Parameters: params})
}

// functionParameterParser parses `paramName "=" literal`.
func functionParameterParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	nameRes := p.Result{}
	pIdentifierToken(ps, &nameRes)
	if ps.Errored() {
		return
	}
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '=' {
		ps.ErrorHere("=")
		return
	}
	ps.Pos++
	valRes := p.Result{}
	pLiteral(ps, &valRes)
	if ps.Errored() {
		return
	}
	node.Result = tok(KindFunctionParameter, start, ps, &KeyValuePairValue{
		Name: nameRes.Result.(*Token), Value: valRes.Result.(*Token),
	})
}

// keyPredicateParser parses `"(" (simpleKey | compoundKey) ")"`. A
// simpleKey is a bare literal; a compoundKey is one or more comma-separated
// `name "=" value` pairs.
func keyPredicateParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '(' {
		ps.ErrorHere("(")
		return
	}
	save := ps.Pos
	ps.Pos++
	ps.WS(ps)

	// Try compoundKey first: it requires "name=" before the value, which
	// simpleKey's bare literal never has.
	compoundStart := ps.Pos
	var pairs []*Token
	ok := true
	for {
		pairStart := ps.Pos
		nameRes := p.Result{}
		pIdentifierToken(ps, &nameRes)
		if ps.Errored() || ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '=' {
			ok = false
			ps.Error = p.Error{}
			break
		}
		ps.Pos++
		valRes := p.Result{}
		pLiteral(ps, &valRes)
		if ps.Errored() {
			ok = false
			ps.Error = p.Error{}
			break
		}
		pairs = append(pairs, tok(KindKeyValuePair, pairStart, ps, &KeyValuePairValue{
			Name: nameRes.Result.(*Token), Value: valRes.Result.(*Token),
		}))
		ps.WS(ps)
		if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ',' {
			ps.Pos++
			ps.WS(ps)
			continue
		}
		break
	}
	if ok && len(pairs) > 0 && ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ')' {
		ps.Pos++
		node.Result = tok(KindCompoundKey, start, ps, &CollectionValue{Items: pairs})
		return
	}

	// Fall back to simpleKey: a single bare value.
	ps.Pos = compoundStart
	valRes := p.Result{}
	pLiteral(ps, &valRes)
	if ps.Errored() {
		ps.Pos = save
		return
	}
	ps.WS(ps)
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != ')' {
		ps.Pos = save
		ps.ErrorHere(")")
		return
	}
	ps.Pos++
	node.Result = tok(KindSimpleKey, start, ps, valRes.Result.(*Token))
}
