package kml

import (
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// parseTuples parses a KML coordinate text blob into (lon, lat) pairs.
// Tuples are "lon,lat[,alt]" separated by whitespace or newlines; altitude
// is discarded. Tuples that do not yield two parseable floats are skipped.
func parseTuples(text string) []geom.Coord {
	var coords []geom.Coord
	for _, token := range strings.Fields(text) {
		parts := strings.Split(token, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			continue
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		coords = append(coords, geom.Coord{lon, lat})
	}
	return coords
}

// ParseCoordinates parses ring coordinate text and closes the ring: if the
// parsed sequence is non-empty and its first and last points differ, the
// first point is appended. Empty or fully malformed input yields an empty
// sequence, which callers treat as degenerate.
func ParseCoordinates(text string) []geom.Coord {
	coords := parseTuples(text)
	if len(coords) > 0 && !coords[0].Equal(geom.XY, coords[len(coords)-1]) {
		coords = append(coords, coords[0])
	}
	return coords
}
