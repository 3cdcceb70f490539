// Package odata is a recursive-descent parser for the OASIS OData v4 URI
// grammar. It is a pure function from query text to a typed AST (Token
// tree); it does not validate against an EDM model, translate to any
// storage query language, or execute anything. Downstream planners and
// translators are expected to walk the Token tree this package produces.
//
// The parser is built from small combinator functions over
// github.com/vektah/goparsify, in the same style used throughout this
// module: each combinator either consumes a prefix of the input and
// returns a Token, or fails and leaves the cursor untouched so the caller
// can try an alternative.
package odata
