package spread

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberwatch/fireline/internal/models"
)

// clusteredSpreads drops n analogs right around the given point, all within
// a couple of km of each other.
func clusteredSpreads(n int, lat, lon float64, dominant models.SpreadDirection) []models.DirectionalSpread {
	spreads := make([]models.DirectionalSpread, 0, n)
	for i := 0; i < n; i++ {
		s := testSpread(fmt.Sprintf("Analog%d", i), 2010+i, lat+float64(i)*0.001, lon, dominant)
		spreads = append(spreads, s)
	}
	return spreads
}

func testIncident(lat, lon float64) models.Incident {
	return models.Incident{
		Location:       models.Coordinates{Latitude: lat, Longitude: lon},
		EstimatedAcres: 500,
		Fuel:           models.FuelBrush,
		Weather:        models.Weather{WindSpeedMS: 12, WindBearingDeg: 225, HumidityPct: 15},
	}
}

func TestPredict_NoAnalogs(t *testing.T) {
	source, _ := sliceSource(nil)
	p := NewPredictor(NewIndex(source, nil), nil)

	pred, err := p.Predict(context.Background(), testIncident(38, -120))
	require.NoError(t, err)

	assert.Equal(t, models.SpreadUnknown, pred.LikelyDirection)
	assert.Equal(t, models.ConfidenceLow, pred.Confidence)
	assert.Zero(t, pred.AnalogCount)
	require.Len(t, pred.Reasoning, 1)
	assert.Contains(t, pred.Reasoning[0], "no historical fires")
}

func TestPredict_ConfidenceTiers(t *testing.T) {
	tests := []struct {
		analogs int
		want    models.Confidence
	}{
		{1, models.ConfidenceLow},
		{4, models.ConfidenceLow},
		{5, models.ConfidenceMedium},
		{9, models.ConfidenceMedium},
		{10, models.ConfidenceHigh},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d analogs", tt.analogs), func(t *testing.T) {
			source, _ := sliceSource(clusteredSpreads(tt.analogs, 40, -105, "NE"))
			p := NewPredictor(NewIndex(source, nil), nil)

			pred, err := p.Predict(context.Background(), testIncident(40, -105))
			require.NoError(t, err)
			assert.Equal(t, tt.analogs, pred.AnalogCount)
			assert.Equal(t, tt.want, pred.Confidence)
		})
	}
}

func TestPredict_CapsAnalogs(t *testing.T) {
	source, _ := sliceSource(clusteredSpreads(25, 40, -105, "NE"))
	p := NewPredictor(NewIndex(source, nil), nil)

	pred, err := p.Predict(context.Background(), testIncident(40, -105))
	require.NoError(t, err)
	assert.Equal(t, 15, pred.AnalogCount)
	assert.Equal(t, models.ConfidenceHigh, pred.Confidence)
}

func TestPredict_MajorityDirection(t *testing.T) {
	spreads := clusteredSpreads(4, 40, -105, "NE")
	minority := clusteredSpreads(2, 40.01, -105, "S")
	spreads = append(spreads, minority...)

	source, _ := sliceSource(spreads)
	p := NewPredictor(NewIndex(source, nil), nil)

	pred, err := p.Predict(context.Background(), testIncident(40, -105))
	require.NoError(t, err)
	assert.Equal(t, models.SpreadDirection("NE"), pred.LikelyDirection)
	assert.Equal(t, 6, pred.AnalogCount)
}

func TestPredict_MeanRatesAndReasoning(t *testing.T) {
	// Every fixture analog carries the same rates, so the means equal them.
	source, _ := sliceSource(clusteredSpreads(6, 40, -105, "E"))
	p := NewPredictor(NewIndex(source, nil), nil)

	pred, err := p.Predict(context.Background(), testIncident(40, -105))
	require.NoError(t, err)

	assert.InDelta(t, 0.2, pred.RatesKmh.North, 1e-9)
	assert.InDelta(t, 0.1, pred.RatesKmh.South, 1e-9)
	assert.InDelta(t, 0.3, pred.RatesKmh.East, 1e-9)
	assert.InDelta(t, 0.1, pred.RatesKmh.West, 1e-9)
	assert.InDelta(t, 0.175, pred.RatesKmh.Avg, 1e-9)
	assert.InDelta(t, 1.5, pred.MeanElongation, 1e-9)

	require.Len(t, pred.Reasoning, 4)
	assert.Contains(t, pred.Reasoning[0], "6 historical analog fires")
	assert.Contains(t, pred.Reasoning[1], "E")
	assert.Contains(t, pred.Reasoning[2], "SW") // wind bearing 225
}
