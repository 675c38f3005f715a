package domain

// Landmark is a named checkpoint on a trail, unlocked once cumulative
// trail distance reaches its offset.
type Landmark struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Trail is a predefined virtual route. Read-only reference data
// injected from the catalog, never computed by the core.
type Trail struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Region              string     `json:"region"`
	Description         string     `json:"description"`
	TotalDistanceMeters float64    `json:"total_distance_meters"`
	SuggestedDays       int        `json:"suggested_days"`
	Landmarks           []Landmark `json:"landmarks"` // ordered by distance
}
