// Package geo provides the great-circle and compass primitives shared by the
// perimeter processor, spread index, and terrain analyzer. All functions are
// pure and operate on WGS-84 degrees.
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used for haversine distances.
	EarthRadiusKm = 6371.0

	// KmPerDegreeLat is the approximate north-south span of one degree of
	// latitude.
	KmPerDegreeLat = 111.32

	// SqKmPerAcre converts acres to square kilometers.
	SqKmPerAcre = 0.00404686
)

var cardinals16 = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

var cardinals8 = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// HaversineKm returns the great-circle distance in km between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BearingDeg returns the initial great-circle bearing from point 1 to point
// 2 in compass degrees [0, 360), 0 = north.
func BearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dLon := radians(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	return NormalizeDeg(degrees(math.Atan2(y, x)))
}

// NormalizeDeg wraps an angle into [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngularDiffDeg returns the smallest absolute difference between two
// bearings, in [0, 180].
func AngularDiffDeg(a, b float64) float64 {
	d := math.Abs(NormalizeDeg(a) - NormalizeDeg(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Cardinal8 maps a bearing to one of the eight compass octants.
func Cardinal8(deg float64) string {
	idx := int(math.Round(NormalizeDeg(deg)/45)) % 8
	return cardinals8[idx]
}

// Cardinal16 maps a bearing to one of the sixteen compass points.
func Cardinal16(deg float64) string {
	idx := int(math.Round(NormalizeDeg(deg)/22.5)) % 16
	return cardinals16[idx]
}

// AcresToSqKm converts an acreage to square kilometers.
func AcresToSqKm(acres float64) float64 {
	return acres * SqKmPerAcre
}

// KmPerDegreeLon returns the east-west span of one degree of longitude at
// the given latitude.
func KmPerDegreeLon(lat float64) float64 {
	return KmPerDegreeLat * math.Cos(radians(lat))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
