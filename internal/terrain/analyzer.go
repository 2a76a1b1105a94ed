package terrain

import (
	"context"
	"fmt"
	"math"

	"github.com/emberwatch/fireline/internal/geo"
	"github.com/emberwatch/fireline/internal/models"
)

const (
	// flatnessThreshold is the gradient magnitude below which aspect is
	// reported as the "flat" sentinel instead of a bearing.
	flatnessThreshold = 0.01

	// ridgeMarginM is how far the center must rise above all four
	// neighbors to qualify as a ridge point.
	ridgeMarginM = 20
)

// Slope band boundaries, in percent.
const (
	slopeGentle   = 5
	slopeModerate = 15
	slopeSteep    = 30
	slopeExtreme  = 50
)

// Analyzer computes terrain metrics from a pluggable elevation source.
type Analyzer struct {
	provider ElevationProvider
}

func NewAnalyzer(provider ElevationProvider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Analyze produces the terrain snapshot for one location. Provider
// failures propagate to the caller; nothing is synthesized to mask them.
func (a *Analyzer) Analyze(ctx context.Context, lat, lon float64) (models.TerrainMetrics, error) {
	sample, err := a.provider.Sample(ctx, lat, lon)
	if err != nil {
		return models.TerrainMetrics{}, fmt.Errorf("elevation provider: %w", err)
	}

	// Central-difference gradient, in m elevation per m ground distance.
	dzdx := (sample.East - sample.West) / (2 * sampleSpacingM)
	dzdy := (sample.North - sample.South) / (2 * sampleSpacingM)
	gradMag := math.Sqrt(dzdx*dzdx + dzdy*dzdy)

	slopePct := gradMag * 100
	slopeDeg := math.Atan(gradMag) * 180 / math.Pi

	m := models.TerrainMetrics{
		Location:     models.Coordinates{Latitude: lat, Longitude: lon},
		ElevationM:   sample.Center,
		SlopePercent: slopePct,
		SlopeDegrees: slopeDeg,
		Aspect:       computeAspect(dzdx, dzdy, gradMag),
		Category:     SlopeCategory(slopePct),
		Synthetic:    sample.Synthetic,
	}

	m.Ridge.OnRidge = sample.Center > sample.North+ridgeMarginM &&
		sample.Center > sample.South+ridgeMarginM &&
		sample.Center > sample.East+ridgeMarginM &&
		sample.Center > sample.West+ridgeMarginM

	if !m.Ridge.OnRidge {
		if locator, ok := a.provider.(RidgeLocator); ok {
			ridge, found, err := locator.NearestRidge(ctx, lat, lon)
			if err != nil {
				return models.TerrainMetrics{}, fmt.Errorf("ridge locator: %w", err)
			}
			if found {
				m.Ridge.Nearest = &ridge
			}
		}
	}

	m.Advantages, m.Hazards, m.Notes = assess(m)
	return m, nil
}

// computeAspect converts the gradient into a compass facing. Aspect is the
// downslope direction; below the flatness threshold it is reported as the
// sentinel to avoid a meaningless bearing on near-level ground.
func computeAspect(dzdx, dzdy, gradMag float64) models.Aspect {
	if gradMag < flatnessThreshold {
		return models.Aspect{Cardinal: models.AspectFlat, Flat: true}
	}

	// The gradient points uphill; aspect follows the downslope vector
	// (-dzdx, -dzdy). atan2 gives the math-convention angle (0 = east,
	// counterclockwise); compass degrees run clockwise from north.
	mathDeg := math.Atan2(-dzdy, -dzdx) * 180 / math.Pi
	compass := geo.NormalizeDeg(90 - mathDeg)

	return models.Aspect{
		Cardinal: geo.Cardinal8(compass),
		Degrees:  compass,
	}
}

// SlopeCategory maps a slope percent into the 5-band severity partition
// with boundaries at 5/15/30/50.
func SlopeCategory(slopePct float64) models.TerrainCategory {
	switch {
	case slopePct < slopeGentle:
		return models.TerrainFlat
	case slopePct < slopeModerate:
		return models.TerrainGentle
	case slopePct < slopeSteep:
		return models.TerrainModerate
	case slopePct < slopeExtreme:
		return models.TerrainSteep
	default:
		return models.TerrainExtreme
	}
}

// assess applies the fixed threshold rules that turn raw metrics into
// tactical advantages, hazards, and notes.
func assess(m models.TerrainMetrics) (advantages, hazards, notes []string) {
	switch m.Category {
	case models.TerrainFlat, models.TerrainGentle:
		advantages = append(advantages, "ground favorable for direct attack with engines and dozers")
	case models.TerrainModerate:
		notes = append(notes, "moderate slopes; expect uneven line production rates")
	case models.TerrainSteep:
		hazards = append(hazards, "steep slopes: rapid uphill runs and increased spotting potential")
	case models.TerrainExtreme:
		hazards = append(hazards, "extreme slopes: rolling material, limited escape routes, aerial support advised")
	}

	if m.Ridge.OnRidge {
		advantages = append(advantages, "position sits on a ridgeline; natural anchor for indirect attack")
	} else if m.Ridge.Nearest != nil && m.Ridge.Nearest.DistanceKm <= 2 {
		advantages = append(advantages,
			fmt.Sprintf("ridgeline %.1f km to the %s; candidate control feature", m.Ridge.Nearest.DistanceKm, m.Ridge.Nearest.Direction))
	}

	if m.Aspect.Flat {
		notes = append(notes, "near-level ground; aspect not meaningful")
	} else if m.Aspect.Degrees >= 135 && m.Aspect.Degrees <= 225 {
		hazards = append(hazards, "south-facing slope: preheated, drier fuels through the burn period")
	}

	if m.Synthetic {
		notes = append(notes, "elevation data is synthetic placeholder, not ground truth")
	}
	return advantages, hazards, notes
}
