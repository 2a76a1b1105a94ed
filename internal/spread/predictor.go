package spread

import (
	"context"
	"fmt"

	"github.com/emberwatch/fireline/internal/geo"
	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/observability"
)

const (
	// predictRadiusKm bounds the analog search around the incident.
	predictRadiusKm = 100

	// maxAnalogs caps how many similar fires feed one prediction.
	maxAnalogs = 15
)

// Predictor aggregates nearby historical analogs into an expected
// directional expansion for an active incident.
type Predictor struct {
	index   *Index
	metrics *observability.Metrics
}

// NewPredictor creates a predictor over the given index. metrics may be nil.
func NewPredictor(index *Index, metrics *observability.Metrics) *Predictor {
	return &Predictor{index: index, metrics: metrics}
}

// Predict finds up to 15 similar fires and statistically aggregates them.
// Zero analogs is not an error: the result is an explicit low-confidence
// UNKNOWN with a human-readable reason.
func (p *Predictor) Predict(ctx context.Context, incident models.Incident) (models.SpreadPrediction, error) {
	analogs, err := p.index.FindSimilar(ctx, incident, predictRadiusKm, maxAnalogs)
	if err != nil {
		return models.SpreadPrediction{}, err
	}
	p.observe(len(analogs))

	if len(analogs) == 0 {
		return models.SpreadPrediction{
			LikelyDirection: models.SpreadUnknown,
			Confidence:      models.ConfidenceLow,
			AnalogCount:     0,
			Reasoning: []string{
				fmt.Sprintf("no historical fires found within %d km of the incident", predictRadiusKm),
			},
		}, nil
	}

	n := float64(len(analogs))
	var rates models.CardinalRates
	var elongationSum float64

	counts := make(map[models.SpreadDirection]int)
	var firstSeen []models.SpreadDirection

	for _, a := range analogs {
		rates.North += a.Spread.RatesKmh.North
		rates.South += a.Spread.RatesKmh.South
		rates.East += a.Spread.RatesKmh.East
		rates.West += a.Spread.RatesKmh.West
		elongationSum += a.Spread.Elongation

		dir := a.Spread.Dominant
		if counts[dir] == 0 {
			firstSeen = append(firstSeen, dir)
		}
		counts[dir]++
	}

	rates.North /= n
	rates.South /= n
	rates.East /= n
	rates.West /= n
	rates.Avg = (rates.North + rates.South + rates.East + rates.West) / 4

	// Majority dominant direction; ties go to whichever direction was
	// encountered first during aggregation.
	majority := firstSeen[0]
	for _, dir := range firstSeen[1:] {
		if counts[dir] > counts[majority] {
			majority = dir
		}
	}

	windDeg := incident.Weather.WindBearingDeg
	return models.SpreadPrediction{
		LikelyDirection: majority,
		Confidence:      confidenceFor(len(analogs)),
		RatesKmh:        rates,
		MeanElongation:  elongationSum / n,
		AnalogCount:     len(analogs),
		Reasoning: []string{
			fmt.Sprintf("%d historical analog fires within %d km", len(analogs), predictRadiusKm),
			fmt.Sprintf("majority dominant direction: %s", majority),
			fmt.Sprintf("current wind from %s (%.0f deg)", geo.Cardinal16(windDeg), windDeg),
			fmt.Sprintf("mean expansion rates km/h: N %.2f, S %.2f, E %.2f, W %.2f",
				rates.North, rates.South, rates.East, rates.West),
		},
	}, nil
}

// confidenceFor escalates monotonically with analog count: 1-4 low, 5-9
// medium, >=10 high.
func confidenceFor(analogCount int) models.Confidence {
	switch {
	case analogCount >= 10:
		return models.ConfidenceHigh
	case analogCount >= 5:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func (p *Predictor) observe(analogCount int) {
	if p.metrics != nil {
		p.metrics.PredictionAnalogs.Observe(float64(analogCount))
	}
}
