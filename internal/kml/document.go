package kml

import (
	"encoding/xml"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// minRingPoints is the smallest closed ring that can enclose an area.
const minRingPoints = 4

// Document is the root of a structurally parsed KML file. The structured
// parser requires the OGC KML 2.2 namespace on the root element; documents
// using other namespaces are left to the raw fallback scan.
type Document struct {
	XMLName xml.Name `xml:"http://www.opengis.net/kml/2.2 kml"`
	Feature
}

// Feature is one node of the document's container tree. Documents, Folders
// and Placemarks all map onto it: a node has an optional name, optional
// geometry and zero or more child nodes of any container kind. The tree is
// one-way parent to child.
type Feature struct {
	Name          string       `xml:"name"`
	Point         *rawGeometry `xml:"Point"`
	LineString    *rawGeometry `xml:"LineString"`
	Polygon       *rawPolygon  `xml:"Polygon"`
	MultiGeometry *rawMulti    `xml:"MultiGeometry"`
	Documents     []Feature    `xml:"Document"`
	Folders       []Feature    `xml:"Folder"`
	Placemarks    []Feature    `xml:"Placemark"`
}

// rawGeometry holds the coordinate text of a point or line element.
type rawGeometry struct {
	Coordinates string `xml:"coordinates"`
}

// rawPolygon mirrors the KML polygon element: one required outer boundary
// and zero or more inner boundary (hole) rings.
type rawPolygon struct {
	Outer boundary   `xml:"outerBoundaryIs"`
	Inner []boundary `xml:"innerBoundaryIs"`
}

type boundary struct {
	Ring linearRing `xml:"LinearRing"`
}

type linearRing struct {
	Coordinates string `xml:"coordinates"`
}

// rawMulti is a KML MultiGeometry container. Nested MultiGeometry elements
// appear in tool exports that flatten layer groups, so the type is recursive.
type rawMulti struct {
	Points      []rawGeometry `xml:"Point"`
	LineStrings []rawGeometry `xml:"LineString"`
	Polygons    []rawPolygon  `xml:"Polygon"`
	Multis      []rawMulti    `xml:"MultiGeometry"`
}

// Geometry converts the node's raw geometry into a go-geom value, or nil
// when the node carries none. Degenerate rings (fewer than four points
// after closing) are dropped rather than reported; a polygon whose outer
// ring is degenerate comes back as an empty polygon so the node still
// registers as geometry-carrying.
func (f *Feature) Geometry() geom.T {
	switch {
	case f.Polygon != nil:
		return buildPolygon(*f.Polygon)
	case f.MultiGeometry != nil:
		return buildMulti(*f.MultiGeometry)
	case f.Point != nil:
		coords := parseTuples(f.Point.Coordinates)
		if len(coords) == 0 {
			return nil
		}
		return geom.NewPointFlat(geom.XY, []float64{coords[0][0], coords[0][1]})
	case f.LineString != nil:
		coords := parseTuples(f.LineString.Coordinates)
		if len(coords) == 0 {
			return nil
		}
		return geom.NewLineStringFlat(geom.XY, flatCoords(coords))
	}
	return nil
}

// buildPolygon constructs a simple polygon from raw boundary rings. Rings
// that are degenerate or rejected by the geometry model are skipped.
func buildPolygon(raw rawPolygon) *geom.Polygon {
	poly := geom.NewPolygon(geom.XY)

	outer := ParseCoordinates(raw.Outer.Ring.Coordinates)
	if len(outer) < minRingPoints {
		return poly
	}
	if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flatCoords(outer))); err != nil {
		zap.L().Debug("kml: skipping malformed outer ring", zap.Error(err))
		return poly
	}

	for _, hole := range raw.Inner {
		ring := ParseCoordinates(hole.Ring.Coordinates)
		if len(ring) < minRingPoints {
			continue
		}
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flatCoords(ring))); err != nil {
			zap.L().Debug("kml: skipping malformed inner ring", zap.Error(err))
			continue
		}
	}
	return poly
}

// buildMulti converts a MultiGeometry element. A container holding only
// polygons becomes a MultiPolygon; mixed or nested content becomes a
// GeometryCollection.
func buildMulti(raw rawMulti) geom.T {
	if len(raw.Polygons) > 0 && len(raw.Points) == 0 && len(raw.LineStrings) == 0 && len(raw.Multis) == 0 {
		mp := geom.NewMultiPolygon(geom.XY)
		for _, rp := range raw.Polygons {
			if err := mp.Push(buildPolygon(rp)); err != nil {
				zap.L().Debug("kml: skipping malformed polygon member", zap.Error(err))
			}
		}
		return mp
	}

	gc := geom.NewGeometryCollection()
	for _, rp := range raw.Points {
		coords := parseTuples(rp.Coordinates)
		if len(coords) == 0 {
			continue
		}
		pushMember(gc, geom.NewPointFlat(geom.XY, []float64{coords[0][0], coords[0][1]}))
	}
	for _, rl := range raw.LineStrings {
		coords := parseTuples(rl.Coordinates)
		if len(coords) == 0 {
			continue
		}
		pushMember(gc, geom.NewLineStringFlat(geom.XY, flatCoords(coords)))
	}
	for _, rp := range raw.Polygons {
		pushMember(gc, buildPolygon(rp))
	}
	for _, rm := range raw.Multis {
		pushMember(gc, buildMulti(rm))
	}
	return gc
}

func pushMember(gc *geom.GeometryCollection, g geom.T) {
	if err := gc.Push(g); err != nil {
		zap.L().Debug("kml: skipping malformed collection member", zap.Error(err))
	}
}

// flatCoords converts a coordinate slice to flat pairs for go-geom.
func flatCoords(coords []geom.Coord) []float64 {
	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	return flat
}
