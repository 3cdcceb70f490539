package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryOptions_SearchImplicitAnd(t *testing.T) {
	tok, err := ParseQueryOptions("$search=blue coffee")
	require.NoError(t, err)
	sv := tok.Value.(*OptionsValue).Options[0].Value.(*SearchValue)
	require.Equal(t, KindSearchAndExpression, sv.Expr.Kind)
	bv := sv.Expr.Value.(*BinaryValue)
	assert.Equal(t, "blue", bv.Left.Value)
	assert.Equal(t, "coffee", bv.Right.Value)
}

func TestParseQueryOptions_SearchExplicitOr(t *testing.T) {
	tok, err := ParseQueryOptions("$search=blue OR green")
	require.NoError(t, err)
	sv := tok.Value.(*OptionsValue).Options[0].Value.(*SearchValue)
	assert.Equal(t, KindSearchOrExpression, sv.Expr.Kind)
}

func TestParseQueryOptions_SearchOrBindsLooserThanAnd(t *testing.T) {
	tok, err := ParseQueryOptions("$search=a b OR c")
	require.NoError(t, err)
	sv := tok.Value.(*OptionsValue).Options[0].Value.(*SearchValue)
	require.Equal(t, KindSearchOrExpression, sv.Expr.Kind)
	bv := sv.Expr.Value.(*BinaryValue)
	assert.Equal(t, KindSearchAndExpression, bv.Left.Kind)
}

func TestParseQueryOptions_SearchNot(t *testing.T) {
	tok, err := ParseQueryOptions("$search=NOT blue")
	require.NoError(t, err)
	sv := tok.Value.(*OptionsValue).Options[0].Value.(*SearchValue)
	assert.Equal(t, KindSearchNotExpression, sv.Expr.Kind)
	assert.Equal(t, "blue", sv.Expr.Value.(*Token).Value)
}

func TestParseQueryOptions_SearchPhrase(t *testing.T) {
	tok, err := ParseQueryOptions(`$search="blue bottle"`)
	require.NoError(t, err)
	sv := tok.Value.(*OptionsValue).Options[0].Value.(*SearchValue)
	assert.Equal(t, KindSearchPhrase, sv.Expr.Kind)
	assert.Equal(t, "blue bottle", sv.Expr.Value)
}

func TestParseQueryOptions_SearchRejectsBareReservedWord(t *testing.T) {
	_, err := ParseQueryOptions("$search=AND")
	assert.Error(t, err)
}
