package models

import "time"

// Ring is a closed polygon ring of [longitude, latitude] vertices, in the
// order they appear in the source GeoJSON.
type Ring [][]float64

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RawFirePolygon is one historical perimeter record as loaded from the
// static dataset. It is the source of truth and is never mutated; the
// perimeter processor derives everything else from it.
type RawFirePolygon struct {
	ID          string
	Name        string
	Year        int
	Acres       float64
	Ignition    time.Time // zero when absent from the source record
	Containment time.Time // zero when absent
	// Polygons holds the outer ring of each component polygon. A plain
	// Polygon geometry contributes one entry, a MultiPolygon one per part.
	Polygons []Ring
}

// Direction is one of the eight compass octants used for perimeter extents.
type Direction string

const (
	DirN  Direction = "N"
	DirNE Direction = "NE"
	DirE  Direction = "E"
	DirSE Direction = "SE"
	DirS  Direction = "S"
	DirSW Direction = "SW"
	DirW  Direction = "W"
	DirNW Direction = "NW"
)

// CompassOrder is the canonical enumeration order for the eight octants.
// Dominant-direction ties are broken by the earliest entry in this order.
var CompassOrder = []Direction{DirN, DirNE, DirE, DirSE, DirS, DirSW, DirW, DirNW}

// ProcessedPerimeter is the normalized, metric-bearing form of one raw
// record. Created once during preprocessing or index build, then immutable.
type ProcessedPerimeter struct {
	FireID string  `json:"fire_id"`
	Name   string  `json:"name"`
	Year   int     `json:"year"`
	Acres  float64 `json:"acres"`

	Outer    Ring        `json:"outer"`
	Centroid Coordinates `json:"centroid"`

	Ignition      time.Time `json:"ignition"`
	Containment   time.Time `json:"containment"`
	DurationHours float64   `json:"duration_hours"`

	AreaSqKm    float64 `json:"area_sq_km"`
	PerimeterKm float64 `json:"perimeter_km"`
	AspectRatio float64 `json:"aspect_ratio"`
	Compactness float64 `json:"compactness"`

	// ExtentsKm maps each octant to the farthest vertex seen within
	// +-22.5 degrees of that bearing, in km from the centroid.
	ExtentsKm          map[Direction]float64 `json:"extents_km"`
	DominantBearingDeg float64               `json:"dominant_bearing_deg"`

	GrowthSqKmPerHour float64 `json:"growth_sq_km_per_hour"`
	SpreadRateKmh     float64 `json:"spread_rate_kmh"`
}

// SpreadDirection is the categorical dominant direction of the lighter
// 4-axis spread summary. Unlike Direction it includes UNIFORM, and its
// diagonal values are composed from the N/S and E/W axes.
type SpreadDirection string

const (
	SpreadN       SpreadDirection = "N"
	SpreadS       SpreadDirection = "S"
	SpreadE       SpreadDirection = "E"
	SpreadW       SpreadDirection = "W"
	SpreadNE      SpreadDirection = "NE"
	SpreadNW      SpreadDirection = "NW"
	SpreadSE      SpreadDirection = "SE"
	SpreadSW      SpreadDirection = "SW"
	SpreadUniform SpreadDirection = "UNIFORM"
	SpreadUnknown SpreadDirection = "UNKNOWN"
)

// BoundingBox is an axis-aligned lat/lon box.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// CardinalExtents holds per-axis distances in km from centroid to the
// bounding-box edges.
type CardinalExtents struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// CardinalRates holds per-axis expansion rates in km/h plus their mean.
type CardinalRates struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
	Avg   float64 `json:"avg"`
}

// DirectionalSpread is the 4-direction summary the spread index is built
// over. It deliberately keeps the simpler N/S/E/W dominant-direction logic;
// the 8-way octant scan in ProcessedPerimeter serves a different consumer.
type DirectionalSpread struct {
	FireID   string      `json:"fire_id"`
	FireName string      `json:"fire_name"`
	Year     int         `json:"year"`
	Centroid Coordinates `json:"centroid"`
	BBox     BoundingBox `json:"bbox"`

	ExtentsKm CardinalExtents `json:"extents_km"`
	RatesKmh  CardinalRates   `json:"rates_kmh"`

	AspectRatio float64         `json:"aspect_ratio"`
	Elongation  float64         `json:"elongation"`
	Dominant    SpreadDirection `json:"dominant"`
}

// Confidence grades a prediction by how many historical analogs support it.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// SpreadPrediction is the aggregated directional-expansion estimate for an
// active incident, derived from nearby historical analogs.
type SpreadPrediction struct {
	LikelyDirection SpreadDirection `json:"likely_direction"`
	Confidence      Confidence      `json:"confidence"`
	RatesKmh        CardinalRates   `json:"rates_kmh"`
	MeanElongation  float64         `json:"mean_elongation"`
	AnalogCount     int             `json:"analog_count"`
	Reasoning       []string        `json:"reasoning"`
}
