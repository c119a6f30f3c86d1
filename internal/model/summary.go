package model

// ImportSummary aggregates the outcome of a single KML import run.
// It is built incrementally while the document is walked and is not
// mutated after the run returns it.
type ImportSummary struct {
	// Imported is the number of paddocks emitted to the store.
	Imported int `json:"imported"`
	// Placemarks is the total number of geometry-carrying placemarks visited.
	Placemarks int `json:"placemarks"`
	// PolygonPlacemarks counts placemarks that yielded at least one polygon.
	PolygonPlacemarks int `json:"polygon_placemarks"`
	// NonPolygonPlacemarks counts placemarks whose geometry yielded none.
	NonPolygonPlacemarks int `json:"non_polygon_placemarks"`
	// GeomTypes maps geometry type labels to occurrence counts.
	GeomTypes map[string]int `json:"geom_types"`
}

// NewImportSummary returns a summary ready for incremental counting.
func NewImportSummary() *ImportSummary {
	return &ImportSummary{GeomTypes: make(map[string]int)}
}

// CountGeometry records one occurrence of the given geometry type label.
func (s *ImportSummary) CountGeometry(label string) {
	s.GeomTypes[label]++
}
