package geometry

import (
	"math"

	"github.com/pymaxion/geographiclib-go/geodesic"
	"github.com/twpayne/go-geom"
)

const (
	// authalicRadius is the radius of the sphere with the same surface
	// area as the WGS84 ellipsoid, in meters.
	authalicRadius = 6371007.1809

	squareMetersPerHectare = 10_000
)

// AreaSquareMeters returns the ellipsoidal surface area of a simple
// polygon: the outer ring's geodesic area minus each hole's, computed
// independently and clamped so the result is never negative. A hole larger
// than its exterior indicates inconsistent ring winding in the source; the
// subtraction clamps to zero instead of failing. Zero is valid output for
// a degenerate polygon.
func AreaSquareMeters(p *geom.Polygon) float64 {
	if p == nil || p.NumLinearRings() == 0 {
		return 0
	}

	area := geodesicRingArea(p.LinearRing(0).Coords())
	for i := 1; i < p.NumLinearRings(); i++ {
		area -= geodesicRingArea(p.LinearRing(i).Coords())
	}

	// Numerical edge cases (repeated vertices, near-antipodal edges) can
	// push the closed-form result to NaN; re-measure on the authalic
	// sphere from the raw coordinate lists before clamping.
	if math.IsNaN(area) || math.IsInf(area, 0) {
		area = sphericalRingArea(p.LinearRing(0).Coords())
		for i := 1; i < p.NumLinearRings(); i++ {
			area -= sphericalRingArea(p.LinearRing(i).Coords())
		}
	}

	if area < 0 || math.IsNaN(area) {
		return 0
	}
	return area
}

// Hectares converts square meters to hectares.
func Hectares(squareMeters float64) float64 {
	return squareMeters / squareMetersPerHectare
}

// geodesicRingArea computes the unsigned area enclosed by one closed ring
// using the closed-form geodesic polygon algorithm on WGS84.
func geodesicRingArea(ring []geom.Coord) float64 {
	if len(ring) < 4 {
		return 0
	}
	poly := geodesic.NewPolygonArea(geodesic.WGS84, false)
	// The accumulator closes the polygon itself; feeding the explicit
	// closing vertex would add a zero-length edge.
	for _, c := range ring[:len(ring)-1] {
		poly.AddPoint(c[1], c[0])
	}
	result := poly.Compute(false, true)
	return math.Abs(result.Area)
}

// sphericalRingArea computes the unsigned ring area on the authalic sphere
// via the spherical-excess line integral of Chamberlain and Duquette.
func sphericalRingArea(ring []geom.Coord) float64 {
	if len(ring) < 4 {
		return 0
	}
	var sum float64
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		sum += (radians(b[0]) - radians(a[0])) *
			(2 + math.Sin(radians(a[1])) + math.Sin(radians(b[1])))
	}
	return math.Abs(sum) * authalicRadius * authalicRadius / 2
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
