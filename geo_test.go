package odata

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral_GeographyPoint(t *testing.T) {
	tok, err := ParseLiteral("geography'POINT(-122.3 47.6)'")
	require.NoError(t, err)
	lv := tok.Value.(*LiteralValue)
	assert.Equal(t, "Edm.GeographyPoint", lv.Type)
	gv := lv.Decoded.(*GeoValue)
	pt := gv.Geometry.(orb.Point)
	assert.InDelta(t, -122.3, pt[0], 1e-9)
	assert.InDelta(t, 47.6, pt[1], 1e-9)
	assert.Equal(t, 0, gv.SRID)
}

func TestParseLiteral_GeometryPolygon(t *testing.T) {
	tok, err := ParseLiteral("geometry'POLYGON((0 0,4 0,4 4,0 4,0 0))'")
	require.NoError(t, err)
	lv := tok.Value.(*LiteralValue)
	assert.Equal(t, "Edm.GeometryPolygon", lv.Type)
}

func TestParseLiteral_GeographyWithSRID(t *testing.T) {
	tok, err := ParseLiteral("geography'SRID=4326;POINT(1 2)'")
	require.NoError(t, err)
	gv := tok.Value.(*LiteralValue).Decoded.(*GeoValue)
	assert.Equal(t, 4326, gv.SRID)
}

func TestParseLiteral_GeographyLineString(t *testing.T) {
	tok, err := ParseLiteral("geography'LINESTRING(0 0,1 1)'")
	require.NoError(t, err)
	assert.Equal(t, "Edm.GeographyLineString", tok.Value.(*LiteralValue).Type)
}
