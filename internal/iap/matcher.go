package iap

import (
	"fmt"
	"sort"

	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/observability"
)

const (
	maxInsights  = 3
	maxReasoning = 3
	minReasoning = 2
)

// Matcher ranks a static IAP collection against an active incident.
// The collection is read-only for the lifetime of the process; insights
// are recreated fresh on every call.
type Matcher struct {
	records []models.IAPRecord
	metrics *observability.Metrics
}

// NewMatcher creates a matcher over the given historical collection.
// metrics may be nil.
func NewMatcher(records []models.IAPRecord, metrics *observability.Metrics) *Matcher {
	return &Matcher{records: records, metrics: metrics}
}

// Match scores every record against the incident context and returns up to
// 3 insights sorted by descending relevance. Records below the 60-point
// floor are excluded entirely; zero qualifying records yields an empty
// slice, never an error.
func (m *Matcher) Match(incident models.Incident, category models.InsightCategory, tm *models.TerrainMetrics) []models.IAPInsight {
	type scored struct {
		record models.IAPRecord
		score  float64
	}

	var candidates []scored
	for _, record := range m.records {
		score := scoreRecord(incident, record, category, tm)
		if score >= minScore {
			candidates = append(candidates, scored{record: record, score: score})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool { return candidates[a].score > candidates[b].score })
	if len(candidates) > maxInsights {
		candidates = candidates[:maxInsights]
	}

	insights := make([]models.IAPInsight, 0, len(candidates))
	for _, c := range candidates {
		section := selectSection(c.record, category)
		insights = append(insights, models.IAPInsight{
			IAPID:        c.record.ID,
			IncidentName: c.record.IncidentName,
			Score:        c.score,
			Snippet:      extractSnippet(c.record, section, category),
			SectionType:  section.Type,
			Reasoning:    buildReasoning(incident, c.record, category, section, c.score),
		})
		if m.metrics != nil {
			m.metrics.IAPMatchScores.Observe(c.score)
		}
	}
	return insights
}

// selectSection picks the first section matching the category's relevant
// list, falling back to the record's first section when none match.
func selectSection(record models.IAPRecord, category models.InsightCategory) models.IAPSection {
	for _, s := range record.Sections {
		for _, t := range relevantSections[category] {
			if s.Type == t {
				return s
			}
		}
	}
	if len(record.Sections) > 0 {
		return record.Sections[0]
	}
	return models.IAPSection{}
}

// buildReasoning produces 2-3 bullets: category-specific first, then the
// universal fuel-match bullet, padded with overall relevance when short.
func buildReasoning(incident models.Incident, record models.IAPRecord, category models.InsightCategory, section models.IAPSection, score float64) []string {
	var bullets []string

	if section.Type != "" && hasRelevantSection(record, category) {
		switch category {
		case models.CategoryEvacuation:
			bullets = append(bullets, fmt.Sprintf("evacuation guidance from %s under comparable wind and humidity", section.Type))
		case models.CategoryResources:
			bullets = append(bullets, fmt.Sprintf("resource assignments in %s from an incident of comparable scale", section.Type))
		case models.CategoryTactics:
			bullets = append(bullets, fmt.Sprintf("tactical assignments in %s on similar fuels and terrain", section.Type))
		}
	}

	switch {
	case incident.Fuel == record.FuelType:
		bullets = append(bullets, fmt.Sprintf("same fuel type: %s", record.FuelType))
	case fuelScore(incident.Fuel, record.FuelType) > 0:
		bullets = append(bullets, fmt.Sprintf("compatible fuel types: %s vs %s", incident.Fuel, record.FuelType))
	}

	if len(bullets) < minReasoning {
		bullets = append(bullets, fmt.Sprintf("overall relevance: %.0f%%", score))
	}
	if len(bullets) > maxReasoning {
		bullets = bullets[:maxReasoning]
	}
	return bullets
}
