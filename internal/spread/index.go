package spread

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emberwatch/fireline/internal/geo"
	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/observability"
)

// cellSizeDeg is the spatial grid cell size in degrees, both axes. A
// deliberate approximation: cells are not equal-area across latitudes.
// Kept as-is pending domain review.
const cellSizeDeg = 0.5

// Source supplies the full historical spread collection on (re)build.
type Source func(ctx context.Context) ([]models.DirectionalSpread, error)

// Neighbor is one radius-search hit with its exact great-circle distance.
type Neighbor struct {
	Spread     models.DirectionalSpread `json:"spread"`
	DistanceKm float64                  `json:"distance_km"`
}

type cellKey struct {
	lat int
	lon int
}

// Index is the lookup structure over historical directional spreads: by
// uppercased name, by coarse grid cell, and by year. It builds lazily on
// first use and rebuilds atomically; readers never observe a partially
// populated index.
type Index struct {
	source  Source
	metrics *observability.Metrics

	mu         sync.RWMutex
	built      bool
	entries    []models.DirectionalSpread
	upperNames []string
	byCell     map[cellKey][]int
	byYear     map[int][]int
}

// NewIndex creates an unbuilt index over the given source. metrics may be
// nil.
func NewIndex(source Source, metrics *observability.Metrics) *Index {
	return &Index{source: source, metrics: metrics}
}

// Invalidate drops the built state; the next query triggers a full rebuild.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.built = false
	ix.entries = nil
	ix.upperNames = nil
	ix.byCell = nil
	ix.byYear = nil
}

// Rebuild forces an immediate rebuild from the source.
func (ix *Index) Rebuild(ctx context.Context) error {
	ix.Invalidate()
	return ix.ensureBuilt(ctx)
}

// Len returns the number of indexed fires, building first if needed.
func (ix *Index) Len(ctx context.Context) (int, error) {
	if err := ix.ensureBuilt(ctx); err != nil {
		return 0, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries), nil
}

// ensureBuilt performs the lazy one-time build. Concurrent callers block on
// the single in-flight build; all four structures are replaced together.
func (ix *Index) ensureBuilt(ctx context.Context) error {
	ix.mu.RLock()
	built := ix.built
	ix.mu.RUnlock()
	if built {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.built {
		return nil
	}

	start := time.Now()
	entries, err := ix.source(ctx)
	if err != nil {
		return fmt.Errorf("build spread index: %w", err)
	}

	upperNames := make([]string, len(entries))
	byCell := make(map[cellKey][]int)
	byYear := make(map[int][]int)

	for i, e := range entries {
		upperNames[i] = strings.ToUpper(e.FireName)
		key := cellOf(e.Centroid.Latitude, e.Centroid.Longitude)
		byCell[key] = append(byCell[key], i)
		byYear[e.Year] = append(byYear[e.Year], i)
	}

	ix.entries = entries
	ix.upperNames = upperNames
	ix.byCell = byCell
	ix.byYear = byYear
	ix.built = true

	if ix.metrics != nil {
		ix.metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	}
	slog.Info("spread index built", "fires", len(entries), "cells", len(byCell), "took", time.Since(start))
	return nil
}

func cellOf(lat, lon float64) cellKey {
	return cellKey{
		lat: int(math.Floor(lat / cellSizeDeg)),
		lon: int(math.Floor(lon / cellSizeDeg)),
	}
}

// FindNear returns fires within radiusKm of the query point, sorted
// ascending by exact great-circle distance and truncated to limit.
// limit <= 0 means no truncation.
func (ix *Index) FindNear(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]Neighbor, error) {
	if err := ix.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	ix.count("near")
	return ix.findNear(lat, lon, radiusKm, limit), nil
}

// findNear is the uncounted radius scan shared by FindNear and FindSimilar,
// so each public query increments exactly one counter.
func (ix *Index) findNear(lat, lon, radiusKm float64, limit int) []Neighbor {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	latDelta := radiusKm / geo.KmPerDegreeLat
	kmLon := geo.KmPerDegreeLon(lat)
	lonDelta := radiusKm / math.Max(kmLon, 1e-6)

	minCell := cellOf(lat-latDelta, lon-lonDelta)
	maxCell := cellOf(lat+latDelta, lon+lonDelta)

	var hits []Neighbor
	for cl := minCell.lat; cl <= maxCell.lat; cl++ {
		for cn := minCell.lon; cn <= maxCell.lon; cn++ {
			for _, i := range ix.byCell[cellKey{lat: cl, lon: cn}] {
				e := ix.entries[i]
				d := geo.HaversineKm(lat, lon, e.Centroid.Latitude, e.Centroid.Longitude)
				if d <= radiusKm {
					hits = append(hits, Neighbor{Spread: e, DistanceKm: d})
				}
			}
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].DistanceKm < hits[b].DistanceKm })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// FindByName returns fires whose name contains the substring, compared
// case-insensitively, in insertion order, truncated to limit.
func (ix *Index) FindByName(ctx context.Context, substring string, limit int) ([]models.DirectionalSpread, error) {
	if err := ix.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	ix.count("name")

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	needle := strings.ToUpper(substring)
	var out []models.DirectionalSpread
	for i, name := range ix.upperNames {
		if strings.Contains(name, needle) {
			out = append(out, ix.entries[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// FindByYear returns every indexed fire from the given year.
func (ix *Index) FindByYear(ctx context.Context, year int) ([]models.DirectionalSpread, error) {
	if err := ix.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	ix.count("year")

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	idxs := ix.byYear[year]
	out := make([]models.DirectionalSpread, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, ix.entries[i])
	}
	return out, nil
}

// FindSimilar finds fires near the incident, preferring recent analogs:
// the radius hits are re-sorted by descending year before truncation.
// radiusKm <= 0 applies the 100 km default.
func (ix *Index) FindSimilar(ctx context.Context, incident models.Incident, radiusKm float64, limit int) ([]Neighbor, error) {
	if radiusKm <= 0 {
		radiusKm = 100
	}

	if err := ix.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	ix.count("similar")

	hits := ix.findNear(incident.Location.Latitude, incident.Location.Longitude, radiusKm, 0)

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Spread.Year > hits[b].Spread.Year })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (ix *Index) count(kind string) {
	if ix.metrics != nil {
		ix.metrics.IndexQueries.WithLabelValues(kind).Inc()
	}
}
