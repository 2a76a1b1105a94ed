// Package iap scores historical incident action plans against an active
// incident and extracts relevance-ranked tactical excerpts.
package iap

import (
	"math"

	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/terrain"
)

// Rubric weights. Terms are independently clipped to their max and sum to
// 100 (the terrain term only applies to the tactics category).
const (
	fuelExactPoints      = 25
	fuelCompatiblePoints = 12
	windMaxPoints        = 15
	humidityMaxPoints    = 10
	scaleMaxPoints       = 15
	sectionMatchPoints   = 25
	sectionAnyPoints     = 10
	terrainMaxPoints     = 20

	// minScore excludes records below this relevance from the results.
	minScore = 60
)

// fuelCompatibility lists which fuel categories burn comparably enough for
// partial credit.
var fuelCompatibility = map[models.FuelType][]models.FuelType{
	models.FuelGrass:     {models.FuelMixed},
	models.FuelBrush:     {models.FuelChaparral, models.FuelMixed},
	models.FuelMixed:     {models.FuelGrass, models.FuelBrush},
	models.FuelChaparral: {models.FuelBrush},
}

// relevantSections maps each guidance category to the ICS section types
// worth reading for it.
var relevantSections = map[models.InsightCategory][]models.SectionType{
	models.CategoryEvacuation: {models.SectionICS202, models.SectionICS205},
	models.CategoryResources:  {models.SectionICS203, models.SectionICS220},
	models.CategoryTactics:    {models.SectionICS204, models.SectionICS220},
}

func fuelScore(current, historical models.FuelType) float64 {
	if current == historical {
		return fuelExactPoints
	}
	for _, compat := range fuelCompatibility[current] {
		if compat == historical {
			return fuelCompatiblePoints
		}
	}
	return 0
}

// windScore grades wind-speed closeness in banded thresholds (m/s).
func windScore(currentMS, historicalMS float64) float64 {
	switch diff := math.Abs(currentMS - historicalMS); {
	case diff <= 2:
		return windMaxPoints
	case diff <= 5:
		return 10
	case diff <= 8:
		return 5
	default:
		return 0
	}
}

// humidityScore grades relative-humidity closeness in banded thresholds
// (percentage points).
func humidityScore(currentPct, historicalPct float64) float64 {
	switch diff := math.Abs(currentPct - historicalPct); {
	case diff <= 5:
		return humidityMaxPoints
	case diff <= 10:
		return 6
	case diff <= 20:
		return 3
	default:
		return 0
	}
}

// scaleScore is symmetric: min(acres)/max(acres) scaled to the term max,
// always <= scaleMaxPoints.
func scaleScore(currentAcres, historicalAcres float64) float64 {
	if currentAcres <= 0 || historicalAcres <= 0 {
		return 0
	}
	ratio := math.Min(currentAcres, historicalAcres) / math.Max(currentAcres, historicalAcres)
	return scaleMaxPoints * ratio
}

func sectionScore(record models.IAPRecord, category models.InsightCategory) float64 {
	if hasRelevantSection(record, category) {
		return sectionMatchPoints
	}
	if len(record.Sections) > 0 {
		return sectionAnyPoints
	}
	return 0
}

func hasRelevantSection(record models.IAPRecord, category models.InsightCategory) bool {
	for _, s := range record.Sections {
		for _, t := range relevantSections[category] {
			if s.Type == t {
				return true
			}
		}
	}
	return false
}

// terrainScore contributes only for the tactics category when terrain data
// is supplied, scaling the 0-100 text-similarity score into the term max.
func terrainScore(record models.IAPRecord, category models.InsightCategory, tm *models.TerrainMetrics) float64 {
	if category != models.CategoryTactics || tm == nil {
		return 0
	}

	text := record.RawText
	if text == "" {
		for _, s := range record.Sections {
			text += s.Content + " "
		}
	}
	return terrain.TextSimilarity(text, *tm) * terrainMaxPoints / 100
}

// scoreRecord applies the full rubric to one historical plan.
func scoreRecord(incident models.Incident, record models.IAPRecord, category models.InsightCategory, tm *models.TerrainMetrics) float64 {
	score := fuelScore(incident.Fuel, record.FuelType)
	score += windScore(incident.Weather.WindSpeedMS, record.WindSpeedMS)
	score += humidityScore(incident.Weather.HumidityPct, record.HumidityPct)
	score += scaleScore(incident.EstimatedAcres, record.Acres)
	score += sectionScore(record, category)
	score += terrainScore(record, category, tm)
	return score
}
