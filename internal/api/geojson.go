package api

import (
	"github.com/emberwatch/fireline/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// toGeoJSON renders processed perimeters as a feature collection. Each fire
// keeps its normalized outer ring as the polygon geometry; the derived
// metrics ride along as properties.
func toGeoJSON(perimeters []models.ProcessedPerimeter) FeatureCollection {
	features := make([]Feature, 0, len(perimeters))

	for _, p := range perimeters {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Polygon",
				Coordinates: []models.Ring{p.Outer},
			},
			Properties: map[string]any{
				"fire_id":              p.FireID,
				"name":                 p.Name,
				"year":                 p.Year,
				"acres":                p.Acres,
				"centroid":             []float64{p.Centroid.Longitude, p.Centroid.Latitude},
				"duration_hours":       p.DurationHours,
				"area_sq_km":           p.AreaSqKm,
				"perimeter_km":         p.PerimeterKm,
				"aspect_ratio":         p.AspectRatio,
				"compactness":          p.Compactness,
				"extents_km":           p.ExtentsKm,
				"dominant_bearing_deg": p.DominantBearingDeg,
				"spread_rate_kmh":      p.SpreadRateKmh,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
