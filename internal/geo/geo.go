// Package geo provides great-circle distance math shared by the query layer
// and the realtime zone filter.
package geo

import "math"

// EarthRadiusKm matches the constant used in the SQL distance expression.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// coordinates using the spherical law of cosines. The acos argument is
// clamped to [-1, 1] because floating-point rounding can push it slightly
// outside the domain for near-identical points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := radians(lat1)
	rlat2 := radians(lat2)
	dlon := radians(lon2) - radians(lon1)

	arg := math.Cos(rlat1)*math.Cos(rlat2)*math.Cos(dlon) + math.Sin(rlat1)*math.Sin(rlat2)
	if arg > 1 {
		arg = 1
	} else if arg < -1 {
		arg = -1
	}
	return EarthRadiusKm * math.Acos(arg)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
