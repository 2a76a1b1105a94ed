package spread

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testSpread(name string, year int, lat, lon float64, dominant models.SpreadDirection) models.DirectionalSpread {
	return models.DirectionalSpread{
		FireID:   "fire_" + name,
		FireName: name,
		Year:     year,
		Centroid: models.Coordinates{Latitude: lat, Longitude: lon},
		RatesKmh: models.CardinalRates{North: 0.2, South: 0.1, East: 0.3, West: 0.1, Avg: 0.175},
		ExtentsKm: models.CardinalExtents{
			North: 2, South: 1, East: 3, West: 1,
		},
		Elongation: 1.5,
		Dominant:   dominant,
	}
}

// sliceSource serves a fixed collection and counts builds.
func sliceSource(spreads []models.DirectionalSpread) (Source, *atomic.Int64) {
	var builds atomic.Int64
	return func(ctx context.Context) ([]models.DirectionalSpread, error) {
		builds.Add(1)
		return spreads, nil
	}, &builds
}

// fixtureSpreads places fires at growing distances north of (38, -120).
// 0.1 deg of latitude is roughly 11 km.
func fixtureSpreads() []models.DirectionalSpread {
	return []models.DirectionalSpread{
		testSpread("Alpha", 2020, 38.0, -120, "NE"),
		testSpread("Bravo", 2018, 38.1, -120, "N"),
		testSpread("Charlie", 2022, 38.2, -120, "NE"),
		testSpread("Delta", 2015, 38.5, -120, "S"),
		testSpread("Echo", 2021, 39.0, -120, "E"),  // ~111 km out
		testSpread("Foxtrot", 2019, 40.0, -120, "W"), // ~222 km out
	}
}

func TestIndex_FindNear(t *testing.T) {
	source, _ := sliceSource(fixtureSpreads())
	ix := NewIndex(source, nil)

	hits, err := ix.FindNear(context.Background(), 38, -120, 60, 0)
	require.NoError(t, err)
	require.Len(t, hits, 4)

	// Ascending by exact distance, nothing past the radius.
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].DistanceKm, hits[i].DistanceKm)
	}
	for _, h := range hits {
		assert.LessOrEqual(t, h.DistanceKm, 60.0)
	}
	assert.Equal(t, "Alpha", hits[0].Spread.FireName)
	assert.InDelta(t, 0, hits[0].DistanceKm, 1e-6)
}

func TestIndex_FindNearLimit(t *testing.T) {
	source, _ := sliceSource(fixtureSpreads())
	ix := NewIndex(source, nil)

	hits, err := ix.FindNear(context.Background(), 38, -120, 300, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Alpha", hits[0].Spread.FireName)
	assert.Equal(t, "Bravo", hits[1].Spread.FireName)
}

func TestIndex_FindByName(t *testing.T) {
	source, _ := sliceSource(fixtureSpreads())
	ix := NewIndex(source, nil)
	ctx := context.Background()

	got, err := ix.FindByName(ctx, "cHaR", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Charlie", got[0].FireName)

	// Substring matching multiple fires keeps insertion order.
	got, err = ix.FindByName(ctx, "o", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Bravo", got[0].FireName)
	assert.Equal(t, "Echo", got[1].FireName)
	assert.Equal(t, "Foxtrot", got[2].FireName)

	got, err = ix.FindByName(ctx, "o", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestIndex_FindByYear(t *testing.T) {
	spreads := fixtureSpreads()
	spreads = append(spreads, testSpread("Golf", 2020, 45, -110, "N"))
	source, _ := sliceSource(spreads)
	ix := NewIndex(source, nil)

	got, err := ix.FindByYear(context.Background(), 2020)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].FireName)
	assert.Equal(t, "Golf", got[1].FireName)

	got, err = ix.FindByYear(context.Background(), 1900)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIndex_FindSimilarPrefersRecentYears(t *testing.T) {
	source, _ := sliceSource(fixtureSpreads())
	ix := NewIndex(source, nil)

	incident := models.Incident{Location: models.Coordinates{Latitude: 38, Longitude: -120}}
	hits, err := ix.FindSimilar(context.Background(), incident, 60, 0)
	require.NoError(t, err)
	require.Len(t, hits, 4)

	years := []int{hits[0].Spread.Year, hits[1].Spread.Year, hits[2].Spread.Year, hits[3].Spread.Year}
	assert.Equal(t, []int{2022, 2020, 2018, 2015}, years)
}

func TestIndex_FindSimilarDefaultRadius(t *testing.T) {
	source, _ := sliceSource(fixtureSpreads())
	ix := NewIndex(source, nil)

	// radius 0 falls back to 100 km, which excludes Echo and Foxtrot.
	incident := models.Incident{Location: models.Coordinates{Latitude: 38, Longitude: -120}}
	hits, err := ix.FindSimilar(context.Background(), incident, 0, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

func TestIndex_QueryCountersAreDisjoint(t *testing.T) {
	source, _ := sliceSource(fixtureSpreads())
	metrics := observability.NewMetricsForTesting()
	ix := NewIndex(source, metrics)
	ctx := context.Background()

	incident := models.Incident{Location: models.Coordinates{Latitude: 38, Longitude: -120}}
	_, err := ix.FindSimilar(ctx, incident, 60, 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IndexQueries.WithLabelValues("similar")))
	assert.Zero(t, testutil.ToFloat64(metrics.IndexQueries.WithLabelValues("near")))

	_, err = ix.FindNear(ctx, 38, -120, 60, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IndexQueries.WithLabelValues("near")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IndexQueries.WithLabelValues("similar")))
}

func TestIndex_BuildsOnceUnderConcurrency(t *testing.T) {
	source, builds := sliceSource(fixtureSpreads())
	ix := NewIndex(source, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ix.FindNear(context.Background(), 38, -120, 50, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), builds.Load())

	n, err := ix.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestIndex_InvalidateTriggersRebuild(t *testing.T) {
	source, builds := sliceSource(fixtureSpreads())
	ix := NewIndex(source, nil)
	ctx := context.Background()

	_, err := ix.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), builds.Load())

	ix.Invalidate()
	_, err = ix.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), builds.Load())

	require.NoError(t, ix.Rebuild(ctx))
	assert.Equal(t, int64(3), builds.Load())
}

func TestIndex_SourceErrorRetriesNextQuery(t *testing.T) {
	var calls atomic.Int64
	boom := errors.New("boom")
	source := func(ctx context.Context) ([]models.DirectionalSpread, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return fixtureSpreads(), nil
	}
	ix := NewIndex(source, nil)
	ctx := context.Background()

	_, err := ix.FindNear(ctx, 38, -120, 50, 0)
	assert.ErrorIs(t, err, boom)

	// A failed build leaves the index unbuilt; the next query retries.
	hits, err := ix.FindNear(ctx, 38, -120, 50, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}
