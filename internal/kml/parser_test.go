package kml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/rotisserie/eris"
)

const polygonDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark>
        <name>North Block</name>
        <Polygon>
          <outerBoundaryIs>
            <LinearRing>
              <coordinates>
                150.1,-33.5 150.2,-33.5 150.2,-33.6 150.1,-33.6 150.1,-33.5
              </coordinates>
            </LinearRing>
          </outerBoundaryIs>
        </Polygon>
      </Placemark>
    </Folder>
  </Document>
</kml>`

const lineStringDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>Fence Line</name>
      <LineString>
        <coordinates>150.1,-33.5 150.2,-33.6</coordinates>
      </LineString>
    </Placemark>
  </Document>
</kml>`

const multiGeometryDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>Block</name>
      <MultiGeometry>
        <Polygon>
          <outerBoundaryIs><LinearRing><coordinates>150.1,-33.5 150.2,-33.5 150.2,-33.6 150.1,-33.5</coordinates></LinearRing></outerBoundaryIs>
        </Polygon>
        <Polygon>
          <outerBoundaryIs><LinearRing><coordinates>151.1,-34.5 151.2,-34.5 151.2,-34.6 151.1,-34.5</coordinates></LinearRing></outerBoundaryIs>
        </Polygon>
      </MultiGeometry>
    </Placemark>
  </Document>
</kml>`

func TestStructuredExtract_Polygon(t *testing.T) {
	records, err := StructuredExtractor{}.Extract([]byte(polygonDoc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "North Block", records[0].Name)
	poly, ok := records[0].Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 1, poly.NumLinearRings())
	assert.Equal(t, 5, poly.LinearRing(0).NumCoords())
}

func TestStructuredExtract_LineStringYieldsNonPolygonGeometry(t *testing.T) {
	records, err := StructuredExtractor{}.Extract([]byte(lineStringDoc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, ok := records[0].Geometry.(*geom.LineString)
	assert.True(t, ok)
}

func TestStructuredExtract_MultiGeometryBecomesMultiPolygon(t *testing.T) {
	records, err := StructuredExtractor{}.Extract([]byte(multiGeometryDoc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	mp, ok := records[0].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestStructuredExtract_DeepNesting(t *testing.T) {
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document><Folder><Folder><Folder>
    <Placemark>
      <name>Deep</name>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></outerBoundaryIs></Polygon>
    </Placemark>
  </Folder></Folder></Folder></Document>
</kml>`

	records, err := StructuredExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Deep", records[0].Name)
}

func TestStructuredExtract_NestedPlacemarksBothYield(t *testing.T) {
	// Malformed exports nest placemark-like containers; traversal must not
	// stop at the outer geometry.
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2">
  <Placemark>
    <name>Outer</name>
    <Polygon><outerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></outerBoundaryIs></Polygon>
    <Placemark>
      <name>Inner</name>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>3,3 4,3 4,4 3,3</coordinates></LinearRing></outerBoundaryIs></Polygon>
    </Placemark>
  </Placemark>
</kml>`

	records, err := StructuredExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Outer", records[0].Name)
	assert.Equal(t, "Inner", records[1].Name)
}

func TestStructuredExtract_PlacemarkWithoutGeometrySkipped(t *testing.T) {
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark><name>No geometry</name></Placemark>
  </Document>
</kml>`

	records, err := StructuredExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStructuredExtract_DegeneratePolygonStillVisited(t *testing.T) {
	// Two distinct points cannot form a ring; the placemark is still a
	// polygon carrier, it just yields an empty one.
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2">
  <Placemark>
    <name>Sliver</name>
    <Polygon><outerBoundaryIs><LinearRing><coordinates>1,1 2,2</coordinates></LinearRing></outerBoundaryIs></Polygon>
  </Placemark>
</kml>`

	records, err := StructuredExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	poly, ok := records[0].Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 0, poly.NumLinearRings())
}

func TestParseDocument_MalformedBytes(t *testing.T) {
	_, err := ParseDocument([]byte(`<kml xmlns="http://www.opengis.net/kml/2.2"><Document><unclosed`))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMalformedDocument))
}

func TestParseDocument_NotXMLAtAll(t *testing.T) {
	_, err := ParseDocument([]byte("this is not xml at all"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMalformedDocument))
}

func TestParseDocument_WrongNamespaceYieldsEmptyDocument(t *testing.T) {
	// Old Google Earth namespace fails the strict schema but is not
	// malformed; the raw fallback handles it.
	doc := `<kml xmlns="http://earth.google.com/kml/2.2">
  <Placemark><name>Old</name></Placemark>
</kml>`

	parsed, err := ParseDocument([]byte(doc))
	require.NoError(t, err)

	var count int
	for range parsed.PlacemarkRecords() {
		count++
	}
	assert.Zero(t, count)
}

func TestStructuredExtract_PolygonWithHole(t *testing.T) {
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2">
  <Placemark>
    <name>Dam Paddock</name>
    <Polygon>
      <outerBoundaryIs><LinearRing><coordinates>150.0,-33.0 150.1,-33.0 150.1,-33.1 150.0,-33.1 150.0,-33.0</coordinates></LinearRing></outerBoundaryIs>
      <innerBoundaryIs><LinearRing><coordinates>150.04,-33.04 150.06,-33.04 150.06,-33.06 150.04,-33.06 150.04,-33.04</coordinates></LinearRing></innerBoundaryIs>
    </Polygon>
  </Placemark>
</kml>`

	records, err := StructuredExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	poly, ok := records[0].Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 2, poly.NumLinearRings())
}
