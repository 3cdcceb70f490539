package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_ComparisonAndLogical(t *testing.T) {
	tok, err := ParseFilter("Price gt 5 and Name eq 'x'")
	require.NoError(t, err)
	assert.Equal(t, KindAndExpression, tok.Kind)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, KindGreaterThanExpression, bv.Left.Kind)
	assert.Equal(t, KindEqualsExpression, bv.Right.Kind)
}

func TestParseFilter_OrBindsLooserThanAnd(t *testing.T) {
	tok, err := ParseFilter("A eq 1 and B eq 2 or C eq 3")
	require.NoError(t, err)
	require.Equal(t, KindOrExpression, tok.Kind)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, KindAndExpression, bv.Left.Kind)
	assert.Equal(t, KindEqualsExpression, bv.Right.Kind)
}

func TestParseFilter_AddBindsTighterThanComparison(t *testing.T) {
	tok, err := ParseFilter("A add 1 gt 2")
	require.NoError(t, err)
	require.Equal(t, KindGreaterThanExpression, tok.Kind)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, KindAddExpression, bv.Left.Kind)
}

func TestParseFilter_MulBindsTighterThanAdd(t *testing.T) {
	tok, err := ParseFilter("A add B mul C")
	require.NoError(t, err)
	require.Equal(t, KindAddExpression, tok.Kind)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, KindMulExpression, bv.Right.Kind)
}

func TestParseFilter_LeftAssociativeAdd(t *testing.T) {
	tok, err := ParseFilter("A add B add C")
	require.NoError(t, err)
	require.Equal(t, KindAddExpression, tok.Kind)
	outer := tok.Value.(*BinaryValue)
	assert.Equal(t, KindAddExpression, outer.Left.Kind)
	assert.Equal(t, "C", outer.Right.Raw)
}

func TestParseFilter_ComparisonDoesNotChain(t *testing.T) {
	_, err := ParseFilter("A eq B eq C")
	assert.Error(t, err)
}

func TestParseFilter_Negate(t *testing.T) {
	tok, err := ParseFilter("-A")
	require.NoError(t, err)
	assert.Equal(t, KindNegateExpression, tok.Kind)
}

func TestParseFilter_Not(t *testing.T) {
	tok, err := ParseFilter("not A")
	require.NoError(t, err)
	assert.Equal(t, KindNotExpression, tok.Kind)
}

func TestParseFilter_DoubleNegate(t *testing.T) {
	tok, err := ParseFilter("--A")
	require.NoError(t, err)
	assert.Equal(t, KindNegateExpression, tok.Kind)
	inner := tok.Value.(*Token)
	assert.Equal(t, KindNegateExpression, inner.Kind)
}

func TestParseFilter_NegateNot(t *testing.T) {
	tok, err := ParseFilter("-not A")
	require.NoError(t, err)
	assert.Equal(t, KindNegateExpression, tok.Kind)
	inner := tok.Value.(*Token)
	assert.Equal(t, KindNotExpression, inner.Kind)
}

func TestParseFilter_ParenOverridesPrecedence(t *testing.T) {
	tok, err := ParseFilter("(A add B) mul C")
	require.NoError(t, err)
	require.Equal(t, KindMulExpression, tok.Kind)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, KindParenExpression, bv.Left.Kind)
}

func TestParseFilter_MethodCall(t *testing.T) {
	tok, err := ParseFilter("contains(Name,'abc')")
	require.NoError(t, err)
	require.Equal(t, KindMethodCallExpression, tok.Kind)
	mv := tok.Value.(*MethodCallValue)
	assert.Equal(t, "contains", mv.Method)
	assert.Len(t, mv.Parameters, 2)
}

func TestParseFilter_GeoMethodCall(t *testing.T) {
	tok, err := ParseFilter("geo.distance(Location, geography'POINT(1 2)') lt 10")
	require.NoError(t, err)
	require.Equal(t, KindLesserThanExpression, tok.Kind)
	left := tok.Value.(*BinaryValue).Left
	assert.Equal(t, KindMethodCallExpression, left.Kind)
	assert.Equal(t, "geo.distance", left.Value.(*MethodCallValue).Method)
}

func TestParseFilter_MemberPath(t *testing.T) {
	tok, err := ParseFilter("Address/City eq 'Seattle'")
	require.NoError(t, err)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, KindMemberExpression, bv.Left.Kind)
	nav := bv.Left.Value.(*NavigationValue)
	assert.Equal(t, "Address", nav.Segment.Raw)
	assert.Equal(t, "City", nav.Next.Raw)
}

func TestParseFilter_AnyLambda(t *testing.T) {
	tok, err := ParseFilter("Items/any(i:i/Price gt 10)")
	require.NoError(t, err)
	require.Equal(t, KindAnyExpression, tok.Kind)
	lv := tok.Value.(*LambdaValue)
	assert.Equal(t, "Items", lv.Collection.Raw)
	assert.Equal(t, "i", lv.Variable.Raw)
	assert.NotNil(t, lv.Predicate)
}

func TestParseFilter_EmptyAnyLambda(t *testing.T) {
	tok, err := ParseFilter("Items/any()")
	require.NoError(t, err)
	require.Equal(t, KindAnyExpression, tok.Kind)
	lv := tok.Value.(*LambdaValue)
	assert.Nil(t, lv.Predicate)
}

func TestParseFilter_AllLambda(t *testing.T) {
	tok, err := ParseFilter("Items/all(i:i/Price gt 10)")
	require.NoError(t, err)
	assert.Equal(t, KindAllExpression, tok.Kind)
}

func TestParseFilter_Root(t *testing.T) {
	tok, err := ParseFilter("$root/Products(1)/Name eq 'x'")
	require.NoError(t, err)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, KindRootExpression, bv.Left.Kind)
}

func TestParseFilter_CaseInsensitiveKeyword(t *testing.T) {
	tok, err := ParseFilter("A AND B")
	require.NoError(t, err)
	assert.Equal(t, KindAndExpression, tok.Kind)
	assert.Equal(t, "AND", tok.Raw[2:5])
}

func TestParseFilter_KeywordNotPrefixOfIdentifier(t *testing.T) {
	tok, err := ParseFilter("android eq 1")
	require.NoError(t, err)
	assert.Equal(t, KindEqualsExpression, tok.Kind)
	bv := tok.Value.(*BinaryValue)
	assert.Equal(t, "android", bv.Left.Raw)
}
