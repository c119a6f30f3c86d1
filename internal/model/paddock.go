package model

import "time"

// Paddock is a land parcel derived from one imported polygon.
type Paddock struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	AreaHa          float64   `json:"area_ha"`
	BoundaryGeoJSON string    `json:"boundary_geojson"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
