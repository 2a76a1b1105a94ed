// Package dataset loads the static historical inputs: a GeoJSON feature
// collection of fire perimeters and a pre-extracted IAP JSON file. It only
// decodes; all validation beyond structure belongs to the processor.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/emberwatch/fireline/internal/models"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Properties fireProperties `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type fireProperties struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Acres       float64 `json:"acres"`
	Ignition    string  `json:"ignition"`
	Containment string  `json:"containment"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadFirePerimeters reads a GeoJSON feature collection of historical fire
// perimeters. Unparseable timestamps become zero times so the perimeter
// processor can count the record as skipped rather than the load failing.
func LoadFirePerimeters(path string) ([]models.RawFirePolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read perimeter dataset: %w", err)
	}

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode perimeter dataset: %w", err)
	}

	records := make([]models.RawFirePolygon, 0, len(fc.Features))
	for i, f := range fc.Features {
		rings, err := outerRings(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		id := f.Properties.ID
		if id == "" {
			id = fmt.Sprintf("fire_%d", i)
		}

		records = append(records, models.RawFirePolygon{
			ID:          id,
			Name:        f.Properties.Name,
			Year:        f.Properties.Year,
			Acres:       f.Properties.Acres,
			Ignition:    parseTime(f.Properties.Ignition),
			Containment: parseTime(f.Properties.Containment),
			Polygons:    rings,
		})
	}
	return records, nil
}

// outerRings extracts the outer ring of each component polygon. Holes are
// not part of the extent model and are dropped here.
func outerRings(g geometry) ([]models.Ring, error) {
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("decode polygon coordinates: %w", err)
		}
		if len(coords) == 0 {
			return nil, nil
		}
		return []models.Ring{coords[0]}, nil
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		rings := make([]models.Ring, 0, len(coords))
		for _, poly := range coords {
			if len(poly) > 0 {
				rings = append(rings, poly[0])
			}
		}
		return rings, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// LoadIAPRecords reads the pre-extracted IAP collection. The engine never
// parses source documents itself; this file is the fixed output schema of
// the offline extraction pipeline.
func LoadIAPRecords(path string) ([]models.IAPRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read IAP dataset: %w", err)
	}

	var records []models.IAPRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode IAP dataset: %w", err)
	}
	return records, nil
}
