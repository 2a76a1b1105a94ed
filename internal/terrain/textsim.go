package terrain

import (
	"strings"

	"github.com/emberwatch/fireline/internal/models"
)

// Keyword-match weights. The total is capped at 100.
const (
	weightSlope       = 30
	weightRidge       = 25
	weightGenericWord = 5
	weightGenericCap  = 15
	weightAspect      = 10
	weightCategory    = 20
)

// slopeDescriptors maps each terrain category to the vocabulary a document
// would use for that kind of ground.
var slopeDescriptors = map[models.TerrainCategory][]string{
	models.TerrainFlat:     {"flat", "level ground", "valley floor"},
	models.TerrainGentle:   {"gentle", "rolling", "mild slope"},
	models.TerrainModerate: {"moderate slope", "hilly", "broken ground"},
	models.TerrainSteep:    {"steep", "sharp slope", "steep ground"},
	models.TerrainExtreme:  {"extreme slope", "cliff", "precipitous", "vertical"},
}

var ridgeWords = []string{"ridge", "ridgeline", "ridgetop", "spur"}

var genericTerrainWords = []string{
	"terrain", "slope", "elevation", "drainage",
	"canyon", "valley", "saddle", "contour",
}

var aspectNames = map[string]string{
	"N": "north", "NE": "northeast", "E": "east", "SE": "southeast",
	"S": "south", "SW": "southwest", "W": "west", "NW": "northwest",
}

// TextSimilarity scores 0-100 how well a block of free text matches the
// given terrain, by keyword co-occurrence across four weighted signals:
// slope descriptors, ridge mentions, generic terrain vocabulary, and an
// aspect-facing phrase.
func TextSimilarity(text string, m models.TerrainMetrics) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	lower := strings.ToLower(text)

	var score float64

	for _, word := range slopeDescriptors[m.Category] {
		if strings.Contains(lower, word) {
			score += weightSlope
			break
		}
	}

	if m.Ridge.OnRidge || m.Ridge.Nearest != nil {
		for _, word := range ridgeWords {
			if strings.Contains(lower, word) {
				score += weightRidge
				break
			}
		}
	}

	var generic float64
	for _, word := range genericTerrainWords {
		if strings.Contains(lower, word) {
			generic += weightGenericWord
		}
	}
	if generic > weightGenericCap {
		generic = weightGenericCap
	}
	score += generic

	if !m.Aspect.Flat {
		name := aspectNames[m.Aspect.Cardinal]
		if name != "" &&
			(strings.Contains(lower, name+"-facing") || strings.Contains(lower, name+" aspect")) {
			score += weightAspect
		}
	}

	// Category named outright, e.g. "steep terrain" in an ICS-204.
	if strings.Contains(lower, string(m.Category)) {
		score += weightCategory
	}

	if score > 100 {
		score = 100
	}
	return score
}
