package odata

import (
	p "github.com/vektah/goparsify"
)

// The expression grammar is a standard precedence-climbing ladder: each
// precedence level is a left-associative Seq(next, *(op next)) that folds
// its repetitions into a left-leaning BinaryValue chain, bottoming out at
// unary and then primary.
//
//	commonExpr  = orExpr
//	orExpr      = andExpr *("or" andExpr)
//	andExpr     = comparisonExpr *("and" comparisonExpr)
//	comparisonExpr = addExpr [compOp addExpr]
//	addExpr     = mulExpr *(("add"|"sub") mulExpr)
//	mulExpr     = unaryExpr *(("mul"|"div"|"divby"|"mod") unaryExpr)
//	unaryExpr   = ("-" / "not") unaryExpr / primaryExpr
//	primaryExpr = parenExpr / literal / root / methodCall / firstMemberExpr
//
// cast and isof are among methodCall's names; lambda range variables are
// parsed as firstMemberExpr paths.

// binaryOp names one operator at a given precedence level: its ABNF keyword
// (or symbol) and the Kind its BinaryValue Token should carry.
type binaryOp struct {
	keyword string
	kind    Kind
}

// leftAssocLevel builds a Parser for a left-associative binary level: next
// matches one operand, then zero-or-more (op operand) pairs are folded
// left-to-right into nested BinaryValue Tokens.
func leftAssocLevel(next p.Parser, ops []binaryOp) p.Parser {
	opAlts := make([]p.Parserish, len(ops))
	for i, o := range ops {
		opAlts[i] = requireWS(ignoreCase(o.keyword))
	}
	opParser := p.Any(opAlts...)
	return p.NewParser("expression", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		first := p.Result{}
		next(ps, &first)
		if ps.Errored() {
			return
		}
		left := first.Result.(*Token)
		for {
			save := ps.Pos
			opRes := p.Result{}
			opParser(ps, &opRes)
			if ps.Errored() {
				ps.Error = p.Error{}
				ps.Pos = save
				break
			}
			opText := opRes.Token
			rhs := p.Result{}
			next(ps, &rhs)
			if ps.Errored() {
				ps.Pos = save
				ps.Error = p.Error{}
				break
			}
			kind := kindForOp(ops, opText)
			right := rhs.Result.(*Token)
			left = tok(kind, start, ps, &BinaryValue{Left: left, Right: right})
		}
		node.Result = left
	})
}

func kindForOp(ops []binaryOp, text string) Kind {
	for _, o := range ops {
		if len(text) == len(o.keyword) {
			match := true
			for i := 0; i < len(text); i++ {
				c1, c2 := text[i], o.keyword[i]
				if c1 >= 'A' && c1 <= 'Z' {
					c1 += 'a' - 'A'
				}
				if c2 >= 'A' && c2 <= 'Z' {
					c2 += 'a' - 'A'
				}
				if c1 != c2 {
					match = false
					break
				}
			}
			if match {
				return o.kind
			}
		}
	}
	return ""
}

// requireWS wraps a keyword parser so it only matches when followed by a
// non-identifier character (so "and" doesn't match a prefix of "android"),
// mirroring parseKeywordLiteral's same guard in literal.go.
func requireWS(parser p.Parser) p.Parser {
	return p.NewParser("keyword", func(ps *p.State, node *p.Result) {
		start := ps.Pos
		parser(ps, node)
		if ps.Errored() {
			return
		}
		if ps.Pos < len(ps.Input) && isIdentifierCharByte(ps.Input[ps.Pos]) {
			ps.Pos = start
			ps.ErrorHere("keyword")
			return
		}
	})
}

var commonExprParser p.Parser

func commonExpr() p.Parser {
	return p.NewParser("expression", func(ps *p.State, node *p.Result) {
		orExprParser(ps, node)
	})
}

var orExprParser = leftAssocLevelLazy(func() p.Parser { return andExprParser }, []binaryOp{
	{"or", KindOrExpression},
})

var andExprParser = leftAssocLevelLazy(func() p.Parser { return comparisonExprParser }, []binaryOp{
	{"and", KindAndExpression},
})

// leftAssocLevelLazy defers resolving `next` until first invocation, since
// Go's package-level var initialisation order can't express the mutual
// recursion between orExpr/andExpr/comparisonExpr/... otherwise.
func leftAssocLevelLazy(next func() p.Parser, ops []binaryOp) p.Parser {
	var built p.Parser
	return func(ps *p.State, node *p.Result) {
		if built == nil {
			built = leftAssocLevel(next(), ops)
		}
		built(ps, node)
	}
}

// comparisonExpr is not left-repeating (OData comparisons don't chain:
// "a eq b eq c" is not a legal production), so it gets its own shape rather
// than reusing leftAssocLevel.
func comparisonExprParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	lhsRes := p.Result{}
	addExprParser(ps, &lhsRes)
	if ps.Errored() {
		return
	}
	left := lhsRes.Result.(*Token)
	ops := []binaryOp{
		{"eq", KindEqualsExpression}, {"ne", KindNotEqualsExpression},
		{"le", KindLesserOrEqualsExpression}, {"lt", KindLesserThanExpression},
		{"ge", KindGreaterOrEqualsExpression}, {"gt", KindGreaterThanExpression},
		{"has", KindHasExpression}, {"in", KindInExpression},
	}
	opAlts := make([]p.Parserish, len(ops))
	for i, o := range ops {
		opAlts[i] = requireWS(ignoreCase(o.keyword))
	}
	save := ps.Pos
	opRes := p.Result{}
	p.Any(opAlts...)(ps, &opRes)
	if ps.Errored() {
		ps.Pos = save
		ps.Error = p.Error{}
		node.Result = left
		return
	}
	rhsRes := p.Result{}
	addExprParser(ps, &rhsRes)
	if ps.Errored() {
		ps.Pos = save
		ps.Error = p.Error{}
		node.Result = left
		return
	}
	kind := kindForOp(ops, opRes.Token)
	node.Result = tok(kind, start, ps, &BinaryValue{Left: left, Right: rhsRes.Result.(*Token)})
}

var addExprParser = leftAssocLevelLazy(func() p.Parser { return mulExprParser }, []binaryOp{
	{"add", KindAddExpression}, {"sub", KindSubExpression},
})

var mulExprParser = leftAssocLevelLazy(func() p.Parser { return unaryExprParser }, []binaryOp{
	{"mul", KindMulExpression}, {"divby", KindDivByExpression},
	{"div", KindDivExpression}, {"mod", KindModExpression},
})

// unaryExpr parses a leading "-" (negate) or "not" applied to a further
// unaryExpr, so prefixes nest ("--A", "-not A"); without a prefix it parses
// a primaryExpr.
func unaryExprParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '-' {
		save := ps.Pos
		ps.Pos++
		inner := p.Result{}
		unaryExprParser(ps, &inner)
		if !ps.Errored() {
			node.Result = tok(KindNegateExpression, start, ps, inner.Result.(*Token))
			return
		}
		ps.Pos = save
		ps.Error = p.Error{}
	}
	notRes := p.Result{}
	requireWS(ignoreCase("not"))(ps, &notRes)
	if !ps.Errored() {
		inner := p.Result{}
		unaryExprParser(ps, &inner)
		if ps.Errored() {
			return
		}
		node.Result = tok(KindNotExpression, start, ps, inner.Result.(*Token))
		return
	}
	ps.Error = p.Error{}
	primaryExprParser(ps, node)
}

// primaryExpr dispatches the leaves of the expression grammar: literals,
// parenthesised sub-expressions, the $root root, method calls, and
// member/property paths (which also cover lambda range variables). Method calls and bare
// identifiers both start with an odataIdentifier, so the dispatcher probes
// for a following "(" before committing to one or the other.
func primaryExprParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if ps.Pos >= len(ps.Input) {
		ps.ErrorHere("expression")
		return
	}
	switch ps.Input[ps.Pos] {
	case '(':
		parenExprParser(ps, node)
		return
	}
	// literal is tried before any identifier-shaped production, since
	// "true"/"false"/"null" and numeric/date/GUID literals would otherwise
	// be mistaken for member paths.
	litRes := p.Result{}
	pLiteral(ps, &litRes)
	if !ps.Errored() {
		node.Result = litRes.Result
		return
	}
	ps.Error = p.Error{}
	ps.Pos = start

	rootRes := p.Result{}
	rootExprParser(ps, &rootRes)
	if !ps.Errored() {
		node.Result = rootRes.Result
		return
	}
	ps.Error = p.Error{}
	ps.Pos = start

	methodRes := p.Result{}
	methodCallExprParser(ps, &methodRes)
	if !ps.Errored() {
		node.Result = methodRes.Result
		return
	}
	ps.Error = p.Error{}
	ps.Pos = start

	firstMemberExprParser(ps, node)
}

// parenExpr parses "(" commonExpr ")".
func parenExprParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '(' {
		ps.ErrorHere("(")
		return
	}
	ps.Pos++
	ps.WS(ps)
	inner := p.Result{}
	commonExprParser(ps, &inner)
	if ps.Errored() {
		return
	}
	ps.WS(ps)
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != ')' {
		ps.ErrorHere(")")
		return
	}
	ps.Pos++
	node.Result = tok(KindParenExpression, start, ps, inner.Result.(*Token))
}

// rootExpr parses the "$root" segment, a resource-path-rooted reference
// used inside $filter/$expand expressions to reach back to the service
// root rather than the current entity.
func rootExprParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	if !matchKeyword(ps, "$root") {
		ps.ErrorHere("$root")
		return
	}
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '/' {
		ps.Pos++
		pathRes := p.Result{}
		pResourcePath(ps, &pathRes)
		if ps.Errored() {
			return
		}
		node.Result = tok(KindRootExpression, start, ps, pathRes.Result.(*Token))
		return
	}
	node.Result = tok(KindRootExpression, start, ps, nil)
}

func matchKeyword(ps *p.State, kw string) bool {
	end := ps.Pos + len(kw)
	if end > len(ps.Input) || ps.Input[ps.Pos:end] != kw {
		return false
	}
	ps.Pos = end
	return true
}

// builtinMethods is the fixed set of method names recognised by
// methodCallExpr, grouped loosely by category for readability; case
// matters for OData (the ABNF defines these as lowercase keywords).
var builtinMethods = map[string]bool{
	"contains": true, "startswith": true, "endswith": true,
	"length": true, "indexof": true, "substring": true,
	"tolower": true, "toupper": true, "trim": true, "concat": true,
	"year": true, "month": true, "day": true, "hour": true,
	"minute": true, "second": true, "fractionalseconds": true,
	"date": true, "time": true, "totaloffsetminutes": true,
	"now": true, "mindatetime": true, "maxdatetime": true,
	"round": true, "floor": true, "ceiling": true,
	"cast": true, "isof": true,
	"geo.distance": true, "geo.length": true, "geo.intersects": true,
}

// methodCallExpr parses `methodName "(" [commonExpr *("," commonExpr)] ")"`,
// including the "any"/"all" lambda forms which have their own predicate
// shape instead of a flat parameter list.
func methodCallExprParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	name, nameOK := scanMethodName(ps)
	if !nameOK {
		ps.ErrorHere("method name")
		return
	}
	ps.WS(ps)
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '(' {
		ps.Pos = start
		ps.ErrorHere("(")
		return
	}
	if name == "any" || name == "all" {
		lambdaTailParser(ps, node, start, name)
		return
	}
	if !builtinMethods[name] {
		ps.Pos = start
		ps.ErrorHere("method name")
		return
	}
	ps.Pos++ // "("
	ps.WS(ps)
	var params []*Token
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] != ')' {
		for {
			ps.WS(ps)
			argRes := p.Result{}
			commonExprParser(ps, &argRes)
			if ps.Errored() {
				return
			}
			params = append(params, argRes.Result.(*Token))
			ps.WS(ps)
			if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ',' {
				ps.Pos++
				continue
			}
			break
		}
	}
	ps.WS(ps)
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != ')' {
		ps.ErrorHere(")")
		return
	}
	ps.Pos++
	node.Result = tok(KindMethodCallExpression, start, ps, &MethodCallValue{Method: name, Parameters: params})
}

// scanMethodName scans an identifier-like method name, including the single
// "." geo.* method family (geo.distance/geo.length/geo.intersects), without
// going through pIdentifier (which stops at "." for ordinary identifiers).
func scanMethodName(ps *p.State) (string, bool) {
	start := ps.Pos
	if ps.Pos >= len(ps.Input) || !isIdentifierStartByte(ps.Input[ps.Pos]) {
		return "", false
	}
	pos := ps.Pos + 1
	for pos < len(ps.Input) && isIdentifierCharByte(ps.Input[pos]) {
		pos++
	}
	if pos < len(ps.Input) && ps.Input[pos] == '.' {
		dotPos := pos + 1
		if dotPos < len(ps.Input) && isIdentifierStartByte(ps.Input[dotPos]) {
			end := dotPos + 1
			for end < len(ps.Input) && isIdentifierCharByte(ps.Input[end]) {
				end++
			}
			pos = end
		}
	}
	ps.Pos = pos
	return ps.Input[start:pos], true
}

func isIdentifierStartByte(b byte) bool {
	return isAlpha(b) || b == '_'
}

// lambdaTailParser parses the remainder of an any/all call after the
// opening "(" has been located: either the empty form `any()`/`all()`, or
// `any(var:predicate)`/`all(var:predicate)`. name is "any" or "all"; the
// Collection field of the resulting LambdaValue is populated by the caller
// (memberExpr), since the lambda's collection is whatever path preceded it.
func lambdaTailParser(ps *p.State, node *p.Result, start int, name string) {
	ps.Pos++ // "("
	ps.WS(ps)
	kind := KindAnyExpression
	if name == "all" {
		kind = KindAllExpression
	}
	if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == ')' {
		ps.Pos++
		node.Result = tok(kind, start, ps, &LambdaValue{})
		return
	}
	varRes := p.Result{}
	pIdentifierToken(ps, &varRes)
	if ps.Errored() {
		return
	}
	variable := varRes.Result.(*Token)
	variable.Kind = KindLambdaVariable
	ps.WS(ps)
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != ':' {
		ps.ErrorHere(":")
		return
	}
	ps.Pos++
	ps.WS(ps)
	predRes := p.Result{}
	commonExprParser(ps, &predRes)
	if ps.Errored() {
		return
	}
	ps.WS(ps)
	if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != ')' {
		ps.ErrorHere(")")
		return
	}
	ps.Pos++
	node.Result = tok(kind, start, ps, &LambdaValue{Variable: variable, Predicate: predRes.Result.(*Token)})
}

// firstMemberExpr parses a (possibly qualified) property/navigation path:
// odataIdentifier *("/" odataIdentifier), where any segment may itself be
// an any()/all() lambda call bound to the path accumulated so far. Other
// call segments (such as cast() or isof()) are not recognised inside a path.
func firstMemberExprParser(ps *p.State, node *p.Result) {
	start := ps.Pos
	firstRes := p.Result{}
	pIdentifierToken(ps, &firstRes)
	if ps.Errored() {
		return
	}
	current := firstRes.Result.(*Token)
	current.Kind = KindMemberExpression
	for {
		ps.WS(ps)
		if ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '(' {
			// a lambda bound to the path accumulated so far: path/any(...)
			if current.Raw == "any" || current.Raw == "all" {
				break
			}
		}
		if ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '/' {
			break
		}
		save := ps.Pos
		ps.Pos++
		ps.WS(ps)
		segStart := ps.Pos
		segRes := p.Result{}
		segName, segOK := scanMethodName(ps)
		if !segOK {
			ps.Pos = save
			break
		}
		if (segName == "any" || segName == "all") && ps.Pos < len(ps.Input) && ps.Input[ps.Pos] == '(' {
			ps.Pos = segStart
			lambdaTailParser(ps, &segRes, segStart, segName)
			if ps.Errored() {
				return
			}
			lv := segRes.Result.(*Token).Value.(*LambdaValue)
			lv.Collection = current
			current = tok(segRes.Result.(*Token).Kind, start, ps, lv)
			continue
		}
		ps.Pos = segStart
		nextSeg := p.Result{}
		pIdentifierToken(ps, &nextSeg)
		if ps.Errored() {
			ps.Pos = save
			ps.Error = p.Error{}
			break
		}
		seg := nextSeg.Result.(*Token)
		seg.Kind = KindMemberExpression
		current = tok(KindMemberExpression, start, ps, &NavigationValue{Segment: current, Next: seg})
	}
	node.Result = current
}

func init() {
	commonExprParser = commonExpr()
}
