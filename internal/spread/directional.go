// Package spread builds the in-memory index over historical fires and
// derives directional-spread predictions for active incidents.
package spread

import (
	"math"

	"github.com/emberwatch/fireline/internal/geo"
	"github.com/emberwatch/fireline/internal/models"
)

// dominanceRatio is how much larger one axis extent must be than its
// opposite before the axis counts as directional rather than balanced.
const dominanceRatio = 1.2

// FromPerimeter reduces a processed perimeter to the 4-direction summary
// the index stores. The N/S/E/W extents come from the bounding box rather
// than the octant scan; the two paths intentionally keep their distinct
// dominant-direction logic.
func FromPerimeter(pp models.ProcessedPerimeter) models.DirectionalSpread {
	bbox := ringBBox(pp.Outer)
	c := pp.Centroid

	ext := models.CardinalExtents{
		North: geo.HaversineKm(c.Latitude, c.Longitude, bbox.MaxLat, c.Longitude),
		South: geo.HaversineKm(c.Latitude, c.Longitude, bbox.MinLat, c.Longitude),
		East:  geo.HaversineKm(c.Latitude, c.Longitude, c.Latitude, bbox.MaxLon),
		West:  geo.HaversineKm(c.Latitude, c.Longitude, c.Latitude, bbox.MinLon),
	}

	rates := models.CardinalRates{}
	if pp.DurationHours > 0 {
		rates.North = ext.North / pp.DurationHours
		rates.South = ext.South / pp.DurationHours
		rates.East = ext.East / pp.DurationHours
		rates.West = ext.West / pp.DurationHours
		rates.Avg = (rates.North + rates.South + rates.East + rates.West) / 4
	}

	width := ext.East + ext.West
	height := ext.North + ext.South

	return models.DirectionalSpread{
		FireID:      pp.FireID,
		FireName:    pp.Name,
		Year:        pp.Year,
		Centroid:    c,
		BBox:        bbox,
		ExtentsKm:   ext,
		RatesKmh:    rates,
		AspectRatio: safeRatio(width, height),
		Elongation:  elongation(width, height),
		Dominant:    dominantCardinal(ext),
	}
}

func ringBBox(ring models.Ring) models.BoundingBox {
	bbox := models.BoundingBox{
		MinLat: math.Inf(1), MinLon: math.Inf(1),
		MaxLat: math.Inf(-1), MaxLon: math.Inf(-1),
	}
	for _, v := range ring {
		if v[0] < bbox.MinLon {
			bbox.MinLon = v[0]
		}
		if v[0] > bbox.MaxLon {
			bbox.MaxLon = v[0]
		}
		if v[1] < bbox.MinLat {
			bbox.MinLat = v[1]
		}
		if v[1] > bbox.MaxLat {
			bbox.MaxLat = v[1]
		}
	}
	return bbox
}

// dominantCardinal composes the categorical direction from the two axes:
// each axis contributes a letter only when its larger extent beats the
// opposite one by dominanceRatio. Both axes balanced means UNIFORM.
func dominantCardinal(ext models.CardinalExtents) models.SpreadDirection {
	var vert, horz string

	switch {
	case ext.North > ext.South*dominanceRatio:
		vert = "N"
	case ext.South > ext.North*dominanceRatio:
		vert = "S"
	}
	switch {
	case ext.East > ext.West*dominanceRatio:
		horz = "E"
	case ext.West > ext.East*dominanceRatio:
		horz = "W"
	}

	switch {
	case vert != "" && horz != "":
		return models.SpreadDirection(vert + horz)
	case vert != "":
		return models.SpreadDirection(vert)
	case horz != "":
		return models.SpreadDirection(horz)
	default:
		return models.SpreadUniform
	}
}

func safeRatio(a, b float64) float64 {
	if b <= 0 {
		return 1
	}
	return a / b
}

// elongation is the longer axis over the shorter one, always >= 1.
func elongation(width, height float64) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	if width > height {
		return width / height
	}
	return height / width
}
