package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryOptions_SelectAndFilter(t *testing.T) {
	tok, err := ParseQueryOptions("$select=Name,Price&$filter=Price gt 5")
	require.NoError(t, err)
	opts := tok.Value.(*OptionsValue).Options
	require.Len(t, opts, 2)
	assert.Equal(t, KindSelect, opts[0].Kind)
	assert.Equal(t, KindFilter, opts[1].Kind)

	sv := opts[0].Value.(*CollectionValue)
	require.Len(t, sv.Items, 2)
	assert.Equal(t, "Name", sv.Items[0].Raw)

	fv := opts[1].Value.(*FilterValue)
	assert.Equal(t, KindGreaterThanExpression, fv.Expr.Kind)
}

func TestParseQueryOptions_SelectStar(t *testing.T) {
	tok, err := ParseQueryOptions("$select=*")
	require.NoError(t, err)
	sv := tok.Value.(*OptionsValue).Options[0].Value.(*CollectionValue)
	assert.Equal(t, "*", sv.Items[0].Raw)
}

func TestParseQueryOptions_ExpandWithNestedOptions(t *testing.T) {
	tok, err := ParseQueryOptions("$expand=Orders($filter=Amount gt 100;$top=5)")
	require.NoError(t, err)
	opts := tok.Value.(*OptionsValue).Options
	require.Len(t, opts, 1)
	assert.Equal(t, KindExpand, opts[0].Kind)
	ev := opts[0].Value.(*CollectionValue)
	require.Len(t, ev.Items, 1)
	item := ev.Items[0].Value.(*ExpandItemValue)
	assert.Equal(t, "Orders", item.Path.Value)
	require.NotNil(t, item.Options)
	nested := item.Options.Value.(*OptionsValue).Options
	require.Len(t, nested, 2)
	assert.Equal(t, KindFilter, nested[0].Kind)
	assert.Equal(t, KindTop, nested[1].Kind)
}

func TestParseQueryOptions_ExpandRejectsCount(t *testing.T) {
	_, err := ParseQueryOptions("$expand=Orders($count=true)")
	assert.Error(t, err)
}

func TestParseQueryOptions_OrderByDirections(t *testing.T) {
	tok, err := ParseQueryOptions("$orderby=Name desc,Price asc")
	require.NoError(t, err)
	ov := tok.Value.(*OptionsValue).Options[0].Value.(*CollectionValue)
	require.Len(t, ov.Items, 2)
	assert.Equal(t, Descending, ov.Items[0].Value.(*OrderByItemValue).Direction)
	assert.Equal(t, Ascending, ov.Items[1].Value.(*OrderByItemValue).Direction)
}

func TestParseQueryOptions_OrderByDefaultsAscending(t *testing.T) {
	tok, err := ParseQueryOptions("$orderby=Name")
	require.NoError(t, err)
	ov := tok.Value.(*OptionsValue).Options[0].Value.(*CollectionValue)
	assert.Equal(t, Ascending, ov.Items[0].Value.(*OrderByItemValue).Direction)
}

func TestParseQueryOptions_TopSkipCount(t *testing.T) {
	tok, err := ParseQueryOptions("$top=10&$skip=5&$count=true")
	require.NoError(t, err)
	opts := tok.Value.(*OptionsValue).Options
	require.Len(t, opts, 3)
	top := opts[0].Value.(*ScalarValue)
	require.NotNil(t, top.Int)
	assert.Equal(t, uint64(10), *top.Int)
	skip := opts[1].Value.(*ScalarValue)
	assert.Equal(t, uint64(5), *skip.Int)
	assert.Equal(t, "true", opts[2].Value.(*ScalarValue).Raw)
}

func TestParseQueryOptions_Levels(t *testing.T) {
	tok, err := ParseQueryOptions("$levels=3")
	require.NoError(t, err)
	lv := tok.Value.(*OptionsValue).Options[0].Value.(*ScalarValue)
	require.NotNil(t, lv.Int)
	assert.Equal(t, uint64(3), *lv.Int)

	tok, err = ParseQueryOptions("$levels=max")
	require.NoError(t, err)
	lv = tok.Value.(*OptionsValue).Options[0].Value.(*ScalarValue)
	assert.Nil(t, lv.Int)
	assert.Equal(t, "max", lv.Raw)
}

func TestParseQueryOptions_FormatShortForm(t *testing.T) {
	tok, err := ParseQueryOptions("$format=json")
	require.NoError(t, err)
	fv := tok.Value.(*OptionsValue).Options[0].Value.(*ScalarValue)
	assert.Equal(t, "json", fv.Raw)
}

func TestParseQueryOptions_FormatRejectsMediaType(t *testing.T) {
	_, err := ParseQueryOptions("$format=application/json")
	assert.Error(t, err)
}

func TestParseQueryOptions_Skiptoken(t *testing.T) {
	tok, err := ParseQueryOptions("$skiptoken=abc123")
	require.NoError(t, err)
	sv := tok.Value.(*OptionsValue).Options[0].Value.(*ScalarValue)
	assert.Equal(t, "abc123", sv.Raw)
}

func TestParseQueryOptions_CustomOption(t *testing.T) {
	tok, err := ParseQueryOptions("foo=bar")
	require.NoError(t, err)
	kv := tok.Value.(*OptionsValue).Options[0].Value.(*KeyValueValue)
	assert.Equal(t, "foo", kv.Key)
	assert.Equal(t, "bar", kv.Value)
}

func TestParseQueryOptions_UnknownDollarOptionRejected(t *testing.T) {
	_, err := ParseQueryOptions("$bogus=1")
	assert.Error(t, err)
}

func TestParseQueryOptions_CustomOptionRejectsDollarPrefix(t *testing.T) {
	_, err := ParseQueryOptions("$foo=bar")
	assert.Error(t, err)
}
