// Package perimeter converts raw historical fire polygons into normalized
// perimeters with directional, shape, and growth metrics.
package perimeter

import (
	"errors"
	"fmt"
	"math"

	"github.com/emberwatch/fireline/internal/geo"
	"github.com/emberwatch/fireline/internal/models"
)

const (
	// maxDurationHours rejects records whose burn window exceeds one year.
	// A data-quality guard, not a domain rule.
	maxDurationHours = 8760

	// extentWindowDeg is the half-width of the bearing window a vertex must
	// fall in to count toward an octant's extent.
	extentWindowDeg = 22.5
)

var (
	// ErrIncompleteRecord marks records missing name, timestamps, or
	// acreage. Counted as skipped, never surfaced as a fault.
	ErrIncompleteRecord = errors.New("incomplete record")

	// ErrInvalidDuration marks records whose containment-ignition window is
	// non-positive or longer than a year. Also counted as skipped.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrDegenerateGeometry marks computation faults on malformed polygons.
	// Counted as failed and logged with the record ID.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Process derives a ProcessedPerimeter from one raw record. Multipolygon
// inputs are normalized by keeping only the component ring enclosing the
// largest area; the source record itself is never modified.
func Process(raw models.RawFirePolygon) (models.ProcessedPerimeter, error) {
	if raw.Name == "" || raw.Ignition.IsZero() || raw.Containment.IsZero() || raw.Acres <= 0 {
		return models.ProcessedPerimeter{}, ErrIncompleteRecord
	}

	duration := raw.Containment.Sub(raw.Ignition).Hours()
	if duration <= 0 || duration > maxDurationHours {
		return models.ProcessedPerimeter{}, fmt.Errorf("%w: %.1fh", ErrInvalidDuration, duration)
	}

	outer, err := largestRing(raw.Polygons)
	if err != nil {
		return models.ProcessedPerimeter{}, err
	}

	centroid := ringCentroid(outer)
	perimeterKm := ringPerimeterKm(outer)
	if perimeterKm <= 0 || math.IsNaN(perimeterKm) {
		return models.ProcessedPerimeter{}, fmt.Errorf("%w: zero perimeter", ErrDegenerateGeometry)
	}

	areaSqKm := geo.AcresToSqKm(raw.Acres)
	extents := directionalExtents(centroid, outer)
	dominant := dominantDirection(extents)

	compactness := 4 * math.Pi * areaSqKm / (perimeterKm * perimeterKm)
	if compactness < 0 {
		compactness = 0
	}

	return models.ProcessedPerimeter{
		FireID:             raw.ID,
		Name:               raw.Name,
		Year:               raw.Year,
		Acres:              raw.Acres,
		Outer:              outer,
		Centroid:           centroid,
		Ignition:           raw.Ignition,
		Containment:        raw.Containment,
		DurationHours:      duration,
		AreaSqKm:           areaSqKm,
		PerimeterKm:        perimeterKm,
		AspectRatio:        aspectRatio(extents),
		Compactness:        compactness,
		ExtentsKm:          extents,
		DominantBearingDeg: directionBearing(dominant),
		GrowthSqKmPerHour:  areaSqKm / duration,
		SpreadRateKmh:      math.Sqrt(areaSqKm/math.Pi) / duration,
	}, nil
}

// largestRing picks the component ring with the largest enclosed area.
// Smaller component polygons are discarded from the geometry.
func largestRing(rings []models.Ring) (models.Ring, error) {
	var best models.Ring
	bestArea := -1.0

	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		area := ringPlanarAreaSqKm(ring)
		if area > bestArea {
			bestArea = area
			best = ring
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: no usable ring", ErrDegenerateGeometry)
	}
	for _, v := range best {
		if len(v) < 2 || math.IsNaN(v[0]) || math.IsNaN(v[1]) {
			return nil, fmt.Errorf("%w: malformed vertex", ErrDegenerateGeometry)
		}
	}
	return best, nil
}

// ringPlanarAreaSqKm applies the shoelace formula on a local equirectangular
// projection anchored at the ring's mean latitude. Good enough to rank
// component rings by size; the authoritative area comes from the record's
// acreage.
func ringPlanarAreaSqKm(ring models.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}

	var meanLat float64
	for _, v := range ring {
		if len(v) < 2 {
			return 0
		}
		meanLat += v[1]
	}
	meanLat /= float64(len(ring))

	kmLon := geo.KmPerDegreeLon(meanLat)
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := ring[i][0]*kmLon, ring[i][1]*geo.KmPerDegreeLat
		xj, yj := ring[j][0]*kmLon, ring[j][1]*geo.KmPerDegreeLat
		sum += xi*yj - xj*yi
	}
	return math.Abs(sum) / 2
}

// ringCentroid returns the vertex mean of the ring. The closing vertex is
// dropped when it duplicates the first.
func ringCentroid(ring models.Ring) models.Coordinates {
	n := len(ring)
	if n > 1 && ring[0][0] == ring[n-1][0] && ring[0][1] == ring[n-1][1] {
		n--
	}

	var lat, lon float64
	for i := 0; i < n; i++ {
		lon += ring[i][0]
		lat += ring[i][1]
	}
	return models.Coordinates{
		Latitude:  lat / float64(n),
		Longitude: lon / float64(n),
	}
}

func ringPerimeterKm(ring models.Ring) float64 {
	var total float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += geo.HaversineKm(ring[i][1], ring[i][0], ring[j][1], ring[j][0])
	}
	return total
}

// directionalExtents scans every vertex of the outer ring for each of the
// eight 45-degree-spaced bearings and keeps the maximum great-circle
// distance among vertices within +-22.5 degrees of the target bearing. An
// octant with no vertices in range yields extent 0.
func directionalExtents(centroid models.Coordinates, ring models.Ring) map[models.Direction]float64 {
	extents := make(map[models.Direction]float64, len(models.CompassOrder))

	for i, dir := range models.CompassOrder {
		target := float64(i) * 45
		var maxKm float64
		for _, v := range ring {
			b := geo.BearingDeg(centroid.Latitude, centroid.Longitude, v[1], v[0])
			if geo.AngularDiffDeg(b, target) <= extentWindowDeg {
				d := geo.HaversineKm(centroid.Latitude, centroid.Longitude, v[1], v[0])
				if d > maxKm {
					maxKm = d
				}
			}
		}
		extents[dir] = maxKm
	}
	return extents
}

// dominantDirection returns the octant with the global-maximum extent.
// Ties break toward the earliest octant in compass enumeration order.
func dominantDirection(extents map[models.Direction]float64) models.Direction {
	best := models.CompassOrder[0]
	bestKm := extents[best]
	for _, dir := range models.CompassOrder[1:] {
		if extents[dir] > bestKm {
			best = dir
			bestKm = extents[dir]
		}
	}
	return best
}

func directionBearing(dir models.Direction) float64 {
	for i, d := range models.CompassOrder {
		if d == dir {
			return float64(i) * 45
		}
	}
	return 0
}

// aspectRatio divides the largest nonzero extent by the smallest nonzero
// extent, or 1 when every extent is zero.
func aspectRatio(extents map[models.Direction]float64) float64 {
	minKm := math.Inf(1)
	var maxKm float64

	for _, dir := range models.CompassOrder {
		e := extents[dir]
		if e <= 0 {
			continue
		}
		if e < minKm {
			minKm = e
		}
		if e > maxKm {
			maxKm = e
		}
	}

	if maxKm == 0 || math.IsInf(minKm, 1) {
		return 1
	}
	return maxKm / minKm
}
