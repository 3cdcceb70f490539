package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken_StringIsRaw(t *testing.T) {
	tok, err := ParseFilter("Name eq 'x'")
	assert.NoError(t, err)
	assert.Equal(t, tok.Raw, tok.String())
}

func TestToken_StringNil(t *testing.T) {
	var tok *Token
	assert.Equal(t, "<nil>", tok.String())
}

func TestToken_WalkBinary(t *testing.T) {
	tok, err := ParseFilter("Price gt 5")
	assert.NoError(t, err)
	assert.Equal(t, KindGreaterThanExpression, tok.Kind)
	children := tok.Walk()
	assert.Len(t, children, 2)
	assert.Equal(t, "Price", children[0].Raw)
	assert.Equal(t, "5", children[1].Raw)
}

func TestToken_WalkCollection(t *testing.T) {
	tok, err := ParseQueryOptions("$select=Name,Price")
	assert.NoError(t, err)
	opts := tok.Value.(*OptionsValue).Options
	assert.Len(t, opts, 1)
	selectTok := opts[0]
	assert.Equal(t, KindSelect, selectTok.Kind)
	items := selectTok.Walk()
	assert.Len(t, items, 2)
}

func TestToken_LiteralKind(t *testing.T) {
	tok, err := ParseLiteral("42")
	assert.NoError(t, err)
	assert.Equal(t, "Edm.Int32", tok.LiteralKind())

	notLiteral, err := ParseFilter("Name")
	assert.NoError(t, err)
	assert.Equal(t, "", notLiteral.LiteralKind())
}

func TestAssertInterval(t *testing.T) {
	good := &Token{Position: 0, Next: 3, Kind: KindLiteral}
	assert.NoError(t, assertInterval(good))

	bad := &Token{Position: 5, Next: 3, Kind: KindLiteral}
	assert.Error(t, assertInterval(bad))
}
