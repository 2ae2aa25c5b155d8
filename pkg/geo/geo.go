// Package geo provides the spherical-earth bearing and distance math used by
// the heading estimator and the node info frame.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean earth radius.
const EarthRadiusMeters = 6371e3

const (
	metersToFeet = 3.28
	milesToFeet  = 5280
)

// Spherical implements bearing and distance on a spherical earth.
// The zero value is ready to use.
type Spherical struct{}

// Bearing returns the initial bearing from point 1 to point 2 in radians,
// clockwise from true north, normalised to [0, 2π).
func (Spherical) Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	return Bearing(lat1, lon1, lat2, lon2)
}

// DistanceMeters returns the great-circle distance between two points.
func (Spherical) DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceMeters(lat1, lon1, lat2, lon2)
}

// Bearing is the package-level form of Spherical.Bearing.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := toRadians(lat1)
	p2 := toRadians(lat2)
	dl := toRadians(lon2 - lon1)

	y := math.Sin(dl) * math.Cos(p2)
	x := math.Cos(p1)*math.Sin(p2) - math.Sin(p1)*math.Cos(p2)*math.Cos(dl)
	b := math.Atan2(y, x)
	if b < 0 {
		b += 2 * math.Pi
	}
	return b
}

// DistanceMeters is the haversine great-circle distance.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := toRadians(lat1)
	p2 := toRadians(lat2)
	dp := p2 - p1
	dl := toRadians(lon2 - lon1)

	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// DegD converts a coordinate in 1e-7 degrees to degrees.
func DegD(i int32) float64 {
	return float64(i) * 1e-7
}

// FormatDistance renders a distance the way the node frame shows it.
func FormatDistance(meters float64, imperial bool) string {
	if imperial {
		feet := meters * metersToFeet
		if feet < 2*milesToFeet {
			return fmt.Sprintf("%.0f ft", feet)
		}
		return fmt.Sprintf("%.1f mi", feet/milesToFeet)
	}
	if meters < 2000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
