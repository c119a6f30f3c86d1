package kml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestParseCoordinates_ClosesOpenRing(t *testing.T) {
	coords := ParseCoordinates("150.1,-33.5 150.2,-33.5 150.2,-33.6 150.1,-33.6")

	assert.Len(t, coords, 5)
	assert.Equal(t, coords[0], coords[len(coords)-1])
}

func TestParseCoordinates_AlreadyClosed(t *testing.T) {
	coords := ParseCoordinates("150.1,-33.5 150.2,-33.5 150.2,-33.6 150.1,-33.5")

	assert.Len(t, coords, 4)
	assert.Equal(t, coords[0], coords[len(coords)-1])
}

func TestParseCoordinates_DiscardsAltitude(t *testing.T) {
	coords := ParseCoordinates("150.1,-33.5,120.5 150.2,-33.6,98.0 150.3,-33.7,0")

	assert.Equal(t, geom.Coord{150.1, -33.5}, coords[0])
	assert.Equal(t, geom.Coord{150.2, -33.6}, coords[1])
}

func TestParseCoordinates_SkipsMalformedTuples(t *testing.T) {
	coords := ParseCoordinates("150.1,-33.5 garbage 150.2 abc,def 150.2,-33.6 ,")

	// Only the two valid tuples survive, plus the closing point.
	assert.Len(t, coords, 3)
	assert.Equal(t, geom.Coord{150.1, -33.5}, coords[0])
	assert.Equal(t, geom.Coord{150.2, -33.6}, coords[1])
	assert.Equal(t, geom.Coord{150.1, -33.5}, coords[2])
}

func TestParseCoordinates_Empty(t *testing.T) {
	assert.Empty(t, ParseCoordinates(""))
	assert.Empty(t, ParseCoordinates("   \n\t  "))
	assert.Empty(t, ParseCoordinates("not,coordinates at,all"))
}

func TestParseCoordinates_NewlineSeparated(t *testing.T) {
	coords := ParseCoordinates("150.1,-33.5\n150.2,-33.5\n150.2,-33.6\n150.1,-33.5\n")

	assert.Len(t, coords, 4)
}
