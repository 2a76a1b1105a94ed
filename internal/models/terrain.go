package models

// TerrainCategory is a 5-level severity band over slope percent.
// Boundaries are at 5/15/30/50 percent.
type TerrainCategory string

const (
	TerrainFlat     TerrainCategory = "flat"
	TerrainGentle   TerrainCategory = "gentle"
	TerrainModerate TerrainCategory = "moderate"
	TerrainSteep    TerrainCategory = "steep"
	TerrainExtreme  TerrainCategory = "extreme"
)

// AspectFlat is the sentinel reported instead of a numeric bearing when the
// elevation gradient is too small for a meaningful facing direction.
const AspectFlat = "flat"

// Aspect is the compass facing of a slope. When Flat is true the gradient
// magnitude was below the flatness threshold and Cardinal is AspectFlat.
type Aspect struct {
	Cardinal string  `json:"cardinal"`
	Degrees  float64 `json:"degrees"`
	Flat     bool    `json:"flat"`
}

// RidgeVector points at the nearest known ridgeline from the sample point.
type RidgeVector struct {
	DistanceKm float64 `json:"distance_km"`
	Direction  string  `json:"direction"`
}

// RidgeInfo distinguishes "the point itself is a ridge" from "a ridge is
// nearby". Nearest is nil when the provider knows of no ridge.
type RidgeInfo struct {
	OnRidge bool         `json:"on_ridge"`
	Nearest *RidgeVector `json:"nearest,omitempty"`
}

// ElevationSample is one center-plus-cardinal-neighbors elevation reading,
// in meters. Synthetic marks placeholder data so downstream consumers never
// present it as ground truth.
type ElevationSample struct {
	Center float64
	North  float64
	South  float64
	East   float64
	West   float64

	Synthetic bool
}

// TerrainMetrics is a point-in-time terrain snapshot for one location.
type TerrainMetrics struct {
	Location     Coordinates     `json:"location"`
	ElevationM   float64         `json:"elevation_m"`
	SlopePercent float64         `json:"slope_percent"`
	SlopeDegrees float64         `json:"slope_degrees"`
	Aspect       Aspect          `json:"aspect"`
	Ridge        RidgeInfo       `json:"ridge"`
	Category     TerrainCategory `json:"category"`

	Advantages []string `json:"advantages"`
	Hazards    []string `json:"hazards"`
	Notes      []string `json:"notes"`

	Synthetic bool `json:"synthetic"`
}
