// Package geometry flattens nested geometries into simple polygons and
// measures their geodesic area on the WGS84 ellipsoid.
package geometry

import "github.com/twpayne/go-geom"

// Flatten reduces a geometry of any tag to a flat sequence of simple
// polygons. Polygons map to themselves, MultiPolygons and
// GeometryCollections are flattened recursively, and anything else (points,
// lines, empty values) contributes nothing. Polygons without a usable outer
// ring are dropped. Flattening an already-simple polygon returns exactly
// that polygon.
func Flatten(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		if t == nil || t.NumLinearRings() == 0 || t.LinearRing(0).NumCoords() < 4 {
			return nil
		}
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		var polys []*geom.Polygon
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, Flatten(t.Polygon(i))...)
		}
		return polys
	case *geom.GeometryCollection:
		var polys []*geom.Polygon
		for _, member := range t.Geoms() {
			polys = append(polys, Flatten(member)...)
		}
		return polys
	default:
		return nil
	}
}

// TypeLabel names a geometry for summary bookkeeping.
func TypeLabel(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "Point"
	case *geom.MultiPoint:
		return "MultiPoint"
	case *geom.LineString:
		return "LineString"
	case *geom.MultiLineString:
		return "MultiLineString"
	case *geom.Polygon:
		return "Polygon"
	case *geom.MultiPolygon:
		return "MultiPolygon"
	case *geom.GeometryCollection:
		return "GeometryCollection"
	default:
		return "Unknown"
	}
}
