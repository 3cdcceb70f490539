package odata

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	p "github.com/vektah/goparsify"
)

// GeoValue is the Decoded payload of an Edm.Geography*/Edm.Geometry*
// literal. SRID is 0 (the OData default, WGS84 for geography) when the
// literal's WKT body carries no explicit "SRID=nnnn;" prefix.
type GeoValue struct {
	SRID     int
	Geometry orb.Geometry
}

// parseGeoLiteral parses `geography'<wktBody>'` or `geometry'<wktBody>'`,
// where wktBody is an optional "SRID=nnnn;" prefix followed by well-known
// text (POINT/LINESTRING/POLYGON/MULTIPOINT/MULTILINESTRING/MULTIPOLYGON/
// GEOMETRYCOLLECTION), grounded on github.com/paulmach/orb's WKT codec
// (adopted from the hauke96-simple-osm-queries pack repo, which uses orb
// throughout for OSM geometry handling).
func parseGeoLiteral(ps *p.State) *Token {
	start := ps.Pos
	var edmFamily string
	switch {
	case strings.HasPrefix(ps.Input[start:], "geography'"):
		edmFamily = "Edm.Geography"
	case strings.HasPrefix(ps.Input[start:], "geometry'"):
		edmFamily = "Edm.Geometry"
	default:
		return nil
	}
	prefixLen := len(edmFamily) - len("Edm.") + 1 // "geography'" / "geometry'" length
	quoteStart := start + prefixLen
	end := strings.IndexByte(ps.Input[quoteStart:], '\'')
	if end < 0 {
		return nil
	}
	body := ps.Input[quoteStart : quoteStart+end]
	srid, wktBody, ok := splitSRID(body)
	if !ok {
		return nil
	}
	geom, err := wkt.Unmarshal(wktBody)
	if err != nil {
		return nil
	}
	ps.Pos = quoteStart + end + 1
	edmType := edmFamily + geometryTypeSuffix(geom)
	return literalToken(edmType, start, ps, &GeoValue{SRID: srid, Geometry: geom})
}

// splitSRID strips an optional leading "SRID=nnnn;" from body.
func splitSRID(body string) (srid int, rest string, ok bool) {
	if !strings.HasPrefix(strings.ToUpper(body), "SRID=") {
		return 0, body, true
	}
	semi := strings.IndexByte(body, ';')
	if semi < 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(body[len("SRID="):semi])
	if err != nil {
		return 0, "", false
	}
	return n, body[semi+1:], true
}

// geometryTypeSuffix maps an orb.Geometry to the Edm.Geography*/Edm.Geometry*
// suffix naming its concrete shape.
func geometryTypeSuffix(g orb.Geometry) string {
	switch g.(type) {
	case orb.Point:
		return "Point"
	case orb.LineString:
		return "LineString"
	case orb.Polygon:
		return "Polygon"
	case orb.MultiPoint:
		return "MultiPoint"
	case orb.MultiLineString:
		return "MultiLineString"
	case orb.MultiPolygon:
		return "MultiPolygon"
	case orb.Collection:
		return "Collection"
	default:
		return ""
	}
}
