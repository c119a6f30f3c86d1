package kml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestRawExtract_UnnamespacedDocument(t *testing.T) {
	// Fails the strict schema, but the raw scan reads it fine.
	doc := `<?xml version="1.0"?>
<kml>
  <Document>
    <Placemark>
      <name>Back Paddock</name>
      <Polygon>
        <outerBoundaryIs><LinearRing><coordinates>150.1,-33.5 150.2,-33.5 150.2,-33.6 150.1,-33.5</coordinates></LinearRing></outerBoundaryIs>
      </Polygon>
    </Placemark>
  </Document>
</kml>`

	records, err := RawExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Back Paddock", records[0].Name)

	poly, ok := records[0].Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 1, poly.NumLinearRings())
}

func TestRawExtract_GoogleEarthNamespace(t *testing.T) {
	doc := `<kml xmlns="http://earth.google.com/kml/2.2">
  <Folder>
    <Placemark>
      <name>Creek Flat</name>
      <Polygon>
        <outerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,2 1,1</coordinates></LinearRing></outerBoundaryIs>
      </Polygon>
    </Placemark>
  </Folder>
</kml>`

	records, err := RawExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Creek Flat", records[0].Name)
}

func TestRawExtract_PolygonInsideMultiGeometry(t *testing.T) {
	doc := `<kml>
  <Placemark>
    <name>Split Block</name>
    <MultiGeometry>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></outerBoundaryIs></Polygon>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>3,3 4,3 4,4 3,3</coordinates></LinearRing></outerBoundaryIs></Polygon>
    </MultiGeometry>
  </Placemark>
</kml>`

	records, err := RawExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	mp, ok := records[0].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestRawExtract_HolesRead(t *testing.T) {
	doc := `<kml>
  <Placemark>
    <Polygon>
      <outerBoundaryIs><LinearRing><coordinates>0,0 1,0 1,1 0,1 0,0</coordinates></LinearRing></outerBoundaryIs>
      <innerBoundaryIs><LinearRing><coordinates>0.4,0.4 0.6,0.4 0.6,0.6 0.4,0.4</coordinates></LinearRing></innerBoundaryIs>
    </Polygon>
  </Placemark>
</kml>`

	records, err := RawExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)

	poly, ok := records[0].Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 2, poly.NumLinearRings())
	assert.Empty(t, records[0].Name)
}

func TestRawExtract_PlacemarkWithoutPolygonSkipped(t *testing.T) {
	doc := `<kml>
  <Placemark>
    <name>Just a pin</name>
    <Point><coordinates>150.1,-33.5</coordinates></Point>
  </Placemark>
</kml>`

	records, err := RawExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRawExtract_NameInsideExtendedDataIgnored(t *testing.T) {
	doc := `<kml>
  <Placemark>
    <ExtendedData><Data><name>wrong</name></Data></ExtendedData>
    <name>Right Name</name>
    <Polygon><outerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></outerBoundaryIs></Polygon>
  </Placemark>
</kml>`

	records, err := RawExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Right Name", records[0].Name)
}

func TestRawExtract_UndecodableBytesYieldNothing(t *testing.T) {
	records, err := RawExtractor{}.Extract([]byte("\x00\x01\x02 definitely not xml"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRawExtract_DegeneratePolygonDropped(t *testing.T) {
	doc := `<kml>
  <Placemark>
    <name>Sliver</name>
    <Polygon><outerBoundaryIs><LinearRing><coordinates>1,1 2,2</coordinates></LinearRing></outerBoundaryIs></Polygon>
  </Placemark>
</kml>`

	records, err := RawExtractor{}.Extract([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, records)
}
