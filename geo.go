package tablescout

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
	EarthRadiusMeters = 6371000

	// MilesPerMeter converts a distance in meters to miles.
	MilesPerMeter = 0.000621371

	// metersPerDegree is the length of one degree of arc on the sphere.
	metersPerDegree = EarthRadiusMeters * math.Pi / 180
)

// GeoPoint is a position in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports whether the point lies within the valid coordinate ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Longitude)
	}
	return nil
}

// DistanceMeters returns the great-circle distance from p to q.
func (p GeoPoint) DistanceMeters(q GeoPoint) float64 {
	return Haversine(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
}

// Haversine returns the great-circle distance in meters between two
// points given in decimal degrees, treating the Earth as a sphere of
// radius EarthRadiusMeters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1, lon1 = radians(lat1), radians(lon1)
	lat2, lon2 = radians(lat2), radians(lon2)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	sinLat := math.Sin(dlat / 2)
	sinLon := math.Sin(dlon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// Rounding can push a just outside [0, 1] near antipodes.
	a = math.Min(math.Max(a, 0), 1)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// MetersToMiles converts meters to miles.
func MetersToMiles(m float64) float64 {
	return m * MilesPerMeter
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// boundingBox returns a latitude/longitude box that contains every point
// within radius meters of center. The longitude span widens to the full
// range when the box reaches a pole or crosses the antimeridian.
func boundingBox(center GeoPoint, radius float64) (minLat, maxLat, minLon, maxLon float64) {
	dLat := radius / metersPerDegree
	minLat = math.Max(center.Latitude-dLat, -90)
	maxLat = math.Min(center.Latitude+dLat, 90)

	if minLat <= -90 || maxLat >= 90 {
		return minLat, maxLat, -180, 180
	}

	// Widen by the cosine at the edge nearest the pole.
	edge := math.Max(math.Abs(minLat), math.Abs(maxLat))
	dLon := dLat / math.Cos(radians(edge))
	minLon = center.Longitude - dLon
	maxLon = center.Longitude + dLon
	if minLon < -180 || maxLon > 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, minLon, maxLon
}
