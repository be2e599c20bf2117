// Package pipeline orchestrates 3D property-model generation: terrain
// fetch, mesh synthesis, scene composition, and export. It is the
// programmatic entry point used by the surrounding service.
package pipeline

// Coordinates is a geodetic position with optional projected coordinates.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Easting   float64 `json:"easting,omitempty"`
	Northing  float64 `json:"northing,omitempty"`
}

// Building is one building record on a property, as the property registry
// reports it. Type uses the matrikkel vocabulary (enebolig, leilighetsbygg,
// næringsbygg, ...).
type Building struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Floors    int     `json:"floors,omitempty"`
	GrossArea float64 `json:"gross_area,omitempty"`
	Status    string  `json:"status,omitempty"`
}

// Property is the input record for one pipeline run.
type Property struct {
	PropertyID  string      `json:"property_id"`
	Coordinates Coordinates `json:"coordinates"`
	Buildings   []Building  `json:"buildings"`
}

// SuggestedBuilding is one development volume proposed by the analysis
// engine: an axis-aligned box placed at (X, Y), rotated about the vertical
// axis.
type SuggestedBuilding struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Length          float64 `json:"length"`
	Height          float64 `json:"height"`
	RotationDegrees float64 `json:"rotation_degrees"`
}

// AISuggestions is the optional enhancement input: proposed volumes plus
// the analysis summary echoed into the scene metadata.
type AISuggestions struct {
	Summary                string
	EstimatedValueIncrease float64
	Buildings              []SuggestedBuilding
}
