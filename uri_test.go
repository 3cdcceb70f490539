package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseODataURI_ResourcePathAndQueryOptions(t *testing.T) {
	tok, err := ParseODataURI("Products(1)/Category?$select=Name&$top=5")
	require.NoError(t, err)
	uv := tok.Value.(*URIValue)
	require.NotNil(t, uv.ResourcePath)
	require.NotNil(t, uv.QueryOptions)
	opts := uv.QueryOptions.Value.(*OptionsValue).Options
	require.Len(t, opts, 2)
	assert.Equal(t, KindSelect, opts[0].Kind)
}

func TestParseODataURI_QueryOptionsOnly(t *testing.T) {
	tok, err := ParseODataURI("?$count=true")
	require.NoError(t, err)
	uv := tok.Value.(*URIValue)
	assert.Nil(t, uv.ResourcePath)
	require.NotNil(t, uv.QueryOptions)
}

func TestParseODataURI_ResourcePathOnly(t *testing.T) {
	tok, err := ParseODataURI("Products")
	require.NoError(t, err)
	uv := tok.Value.(*URIValue)
	require.NotNil(t, uv.ResourcePath)
	assert.Nil(t, uv.QueryOptions)
}

func TestParseODataURI_InvalidResourcePathErrors(t *testing.T) {
	_, err := ParseODataURI("1nvalid(")
	assert.Error(t, err)
}

func TestRun_TrailingInputMessage(t *testing.T) {
	_, err := ParseLiteral("42abc")
	require.Error(t, err)
	trailing, ok := err.(*TrailingInputError)
	require.True(t, ok)
	assert.Equal(t, 2, trailing.Position)
}

func TestOptions_WithMetadata(t *testing.T) {
	md := &stubMetadata{}
	tok, err := ParseLiteral("42", WithMetadata(md))
	require.NoError(t, err)
	assert.NotNil(t, tok)
}

type stubMetadata struct{}

func (s *stubMetadata) ResolveEntitySet(name string) bool { return false }
func (s *stubMetadata) ResolveType(name string) bool      { return false }
