package odata

import "fmt"

// Token is a node of the AST produced by this package. It is immutable
// once returned; there is no shared mutable state across combinators.
type Token struct {
	// Position is the start index (inclusive) in the source buffer.
	Position int
	// Next is the end index (exclusive). Next > Position for a non-empty
	// match; Next == Position is reserved for explicitly optional/empty
	// productions.
	Next int
	// Kind discriminates the shape of Value.
	Kind Kind
	// Raw is buffer[Position:Next], materialised as text.
	Raw string
	// Value's shape is determined by Kind. See the Value* types below.
	Value interface{}
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Raw
}

// BinaryValue is the payload of every binary expression Token (comparison,
// logical, and arithmetic). The operator itself is implicit in the Kind.
type BinaryValue struct {
	Left  *Token
	Right *Token
}

// MethodCallValue is the payload of a MethodCallExpression Token.
type MethodCallValue struct {
	Method     string
	Parameters []*Token
}

// LambdaValue is the payload of an AnyExpression/AllExpression Token. The
// outer Collection is the navigation path the lambda is applied to;
// Predicate is nil for the permitted empty `any()`/`all()` form.
type LambdaValue struct {
	Collection *Token
	Variable   *Token
	Predicate  *Token
}

// CollectionValue is the payload of order-significant collection Tokens
// (Select, Expand, OrderBy, a compound KeyPredicate).
type CollectionValue struct {
	Items []*Token
}

// OptionsValue is the payload of a QueryOptions Token. Order matches
// source order; duplicate options are permitted at parse time.
type OptionsValue struct {
	Options []*Token
}

// ScalarValue is the payload of Top/Skip/Levels/InlineCount/Format/
// Skiptoken. Int is populated for Top/Skip and for Levels when it is not
// the literal word "max".
type ScalarValue struct {
	Raw string
	Int *uint64
}

// KeyValueValue is the payload of a CustomQueryOption Token.
type KeyValueValue struct {
	Key   string
	Value string
}

// FilterValue is the payload of a Filter Token.
type FilterValue struct {
	Expr *Token
}

// SearchValue is the payload of a Search Token.
type SearchValue struct {
	Expr *Token
}

// OrderByItemValue is the payload of an OrderByItem Token.
type OrderByItemValue struct {
	Expr      *Token
	Direction SortDirection
}

// ExpandItemValue is the payload of an ExpandItem Token.
type ExpandItemValue struct {
	Path    *Token
	Options *Token // Kind == KindQueryOptions, or nil when no nested options were given.
}

// KeyValuePairValue is the payload of a KeyValuePair Token inside a
// CompoundKey.
type KeyValuePairValue struct {
	Name  *Token
	Value *Token
}

// NavigationValue is the payload of CollectionNavigation/SingleNavigation/
// TypeCastSegment Tokens and of multi-segment member paths in expressions.
// In a resource path, Segment is the newest segment (with its optional key
// predicate) and Next is the path that precedes it. In an expression member
// path, Segment is the path accumulated so far and Next is the segment that
// follows it.
type NavigationValue struct {
	Segment *Token
	Key     *Token // KeyPredicate, or nil.
	Next    *Token // preceding path (resource path) or following segment (member path), or nil.
}

// FunctionCallValue is the payload of BoundFunctionCall/BoundActionCall
// Tokens.
type FunctionCallValue struct {
	Name       *Token
	Parameters []*Token
}

// URIValue is the payload of the top-level ODataUri Token.
type URIValue struct {
	ServiceRoot  string
	ResourcePath *Token // nil when absent
	QueryOptions *Token // nil when absent
}

// Walk returns t's direct AST children, in source order, by switching on
// Value's concrete payload type. It gives visitor/translator code a single
// place to add a new payload's fan-out instead of hand-rolling child
// extraction against Value's concrete type at every call site.
func (t *Token) Walk() []*Token {
	if t == nil || t.Value == nil {
		return nil
	}
	switch v := t.Value.(type) {
	case *BinaryValue:
		return []*Token{v.Left, v.Right}
	case *Token:
		return []*Token{v}
	case *MethodCallValue:
		return append([]*Token{}, v.Parameters...)
	case *LambdaValue:
		out := []*Token{v.Collection, v.Variable}
		if v.Predicate != nil {
			out = append(out, v.Predicate)
		}
		return out
	case *CollectionValue:
		return append([]*Token{}, v.Items...)
	case *OptionsValue:
		return append([]*Token{}, v.Options...)
	case *FilterValue:
		return []*Token{v.Expr}
	case *SearchValue:
		return []*Token{v.Expr}
	case *OrderByItemValue:
		return []*Token{v.Expr}
	case *ExpandItemValue:
		if v.Options != nil {
			return []*Token{v.Path, v.Options}
		}
		return []*Token{v.Path}
	case *KeyValuePairValue:
		return []*Token{v.Name, v.Value}
	case *NavigationValue:
		// In a resource path Next is the preceding path, so it comes first.
		nextFirst := v.Next != nil && v.Next.Position < v.Segment.Position
		var out []*Token
		if nextFirst {
			out = append(out, v.Next)
		}
		out = append(out, v.Segment)
		if v.Key != nil {
			out = append(out, v.Key)
		}
		if v.Next != nil && !nextFirst {
			out = append(out, v.Next)
		}
		return out
	case *FunctionCallValue:
		out := []*Token{v.Name}
		return append(out, v.Parameters...)
	case *URIValue:
		var out []*Token
		if v.ResourcePath != nil {
			out = append(out, v.ResourcePath)
		}
		if v.QueryOptions != nil {
			out = append(out, v.QueryOptions)
		}
		return out
	default:
		return nil
	}
}

// LiteralKind returns the EDM type name carried by a Literal Token's Value,
// or "" if t is not a Literal Token.
func (t *Token) LiteralKind() string {
	lv, ok := t.Value.(*LiteralValue)
	if !ok {
		return ""
	}
	return lv.Type
}

func newToken(kind Kind, position, next int, raw string, value interface{}) *Token {
	return &Token{Position: position, Next: next, Kind: kind, Raw: raw, Value: value}
}

// assertInterval reports whether t's Position/Next interval is malformed --
// a programmer error, not a grammar mismatch. It's only ever invoked from
// tests; it never runs on the parse path.
func assertInterval(t *Token) error {
	if t.Position < 0 || t.Position > t.Next {
		return fmt.Errorf("odata: invalid token interval [%d,%d) for %s", t.Position, t.Next, t.Kind)
	}
	return nil
}
