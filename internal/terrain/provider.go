// Package terrain derives slope, aspect, and ridgeline metrics around a
// point and turns them into tactical guidance.
package terrain

import (
	"context"
	"math"

	"github.com/emberwatch/fireline/internal/geo"
	"github.com/emberwatch/fireline/internal/models"
)

// SampleOffsetDeg is the fixed offset at which the four cardinal neighbor
// elevations are sampled around the center point.
const SampleOffsetDeg = 0.001

// sampleSpacingM is the ground distance of SampleOffsetDeg along a
// meridian, in meters.
const sampleSpacingM = SampleOffsetDeg * geo.KmPerDegreeLat * 1000

// ElevationProvider yields center plus 4-neighbor elevations for a point.
// Real implementations query a DEM or raster tiles; the shipped reference
// implementation is synthetic and flags itself as such.
type ElevationProvider interface {
	Sample(ctx context.Context, lat, lon float64) (models.ElevationSample, error)
}

// RidgeLocator optionally supplies the nearest known ridgeline for
// providers that track them.
type RidgeLocator interface {
	NearestRidge(ctx context.Context, lat, lon float64) (models.RidgeVector, bool, error)
}

// SyntheticProvider is a deterministic placeholder elevation source for
// environments without a real DEM. Every sample carries Synthetic: true so
// downstream consumers never present it as ground truth.
type SyntheticProvider struct{}

func NewSyntheticProvider() *SyntheticProvider { return &SyntheticProvider{} }

func (s *SyntheticProvider) Sample(_ context.Context, lat, lon float64) (models.ElevationSample, error) {
	return models.ElevationSample{
		Center:    syntheticElevation(lat, lon),
		North:     syntheticElevation(lat+SampleOffsetDeg, lon),
		South:     syntheticElevation(lat-SampleOffsetDeg, lon),
		East:      syntheticElevation(lat, lon+SampleOffsetDeg),
		West:      syntheticElevation(lat, lon-SampleOffsetDeg),
		Synthetic: true,
	}, nil
}

// NearestRidge reports a synthetic ridgeline. The placeholder terrain runs
// ridges along every 0.05 degrees of latitude.
func (s *SyntheticProvider) NearestRidge(_ context.Context, lat, lon float64) (models.RidgeVector, bool, error) {
	ridgeLat := math.Round(lat/0.05) * 0.05
	distKm := math.Abs(lat-ridgeLat) * geo.KmPerDegreeLat

	dir := "N"
	if ridgeLat < lat {
		dir = "S"
	}
	return models.RidgeVector{DistanceKm: distKm, Direction: dir}, true, nil
}

// syntheticElevation is a smooth deterministic surface between roughly 100
// and 1900 m, with enough local relief to exercise every slope band.
func syntheticElevation(lat, lon float64) float64 {
	base := 1000 + 600*math.Sin(lat*0.9)*math.Cos(lon*0.7)
	relief := 300 * math.Sin(lat*40) * math.Cos(lon*40)
	return base + relief
}
