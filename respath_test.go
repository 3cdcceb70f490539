package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourcePath_BareEntitySet(t *testing.T) {
	tok, err := ParseResourcePath("Products")
	require.NoError(t, err)
	require.Equal(t, KindResourcePath, tok.Kind)
	nav := tok.Value.(*Token).Value.(*NavigationValue)
	assert.Equal(t, "Products", nav.Segment.Raw)
	assert.Nil(t, nav.Key)
}

func TestParseResourcePath_SimpleKey(t *testing.T) {
	tok, err := ParseResourcePath("Products(1)")
	require.NoError(t, err)
	nav := tok.Value.(*Token).Value.(*NavigationValue)
	require.NotNil(t, nav.Key)
	assert.Equal(t, KindSimpleKey, nav.Key.Kind)
	lit := nav.Key.Value.(*Token)
	assert.Equal(t, "Edm.Int32", lit.Value.(*LiteralValue).Type)
}

func TestParseResourcePath_CompoundKey(t *testing.T) {
	tok, err := ParseResourcePath("OrderLines(OrderID=1,LineNumber=2)")
	require.NoError(t, err)
	nav := tok.Value.(*Token).Value.(*NavigationValue)
	require.NotNil(t, nav.Key)
	assert.Equal(t, KindCompoundKey, nav.Key.Kind)
	cv := nav.Key.Value.(*CollectionValue)
	require.Len(t, cv.Items, 2)
	p0 := cv.Items[0].Value.(*KeyValuePairValue)
	assert.Equal(t, "OrderID", p0.Name.Raw)
}

func TestParseResourcePath_Navigation(t *testing.T) {
	tok, err := ParseResourcePath("Products(1)/Category")
	require.NoError(t, err)
	outer := tok.Value.(*Token)
	assert.Equal(t, KindCollectionNavigation, outer.Kind)
	nv := outer.Value.(*NavigationValue)
	assert.Equal(t, "Category", nv.Segment.Raw)
	require.NotNil(t, nv.Next)
	assert.Equal(t, "Products", nv.Next.Value.(*NavigationValue).Segment.Raw)
}

func TestParseResourcePath_TypeCast(t *testing.T) {
	tok, err := ParseResourcePath("Products/Sales.PremiumProduct")
	require.NoError(t, err)
	outer := tok.Value.(*Token)
	assert.Equal(t, KindTypeCastSegment, outer.Kind)
	nv := outer.Value.(*NavigationValue)
	assert.Equal(t, "Sales.PremiumProduct", nv.Segment.Raw)
}

func TestParseResourcePath_BoundFunctionCall(t *testing.T) {
	tok, err := ParseResourcePath("Products/Sales.MostExpensive(count=5)")
	require.NoError(t, err)
	outer := tok.Value.(*Token)
	assert.Equal(t, KindBoundFunctionCall, outer.Kind)
	fv := outer.Value.(*FunctionCallValue)
	assert.Equal(t, "Sales.MostExpensive", fv.Name.Raw)
	require.Len(t, fv.Parameters, 1)
	kv := fv.Parameters[0].Value.(*KeyValuePairValue)
	assert.Equal(t, "count", kv.Name.Raw)
}

func TestParseKeys_SimpleKey(t *testing.T) {
	tok, err := ParseKeys("(42)")
	require.NoError(t, err)
	assert.Equal(t, KindSimpleKey, tok.Kind)
}
