package tablescout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineIdentity(t *testing.T) {
	points := []GeoPoint{
		{0, 0},
		{40.7128, -74.0060},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, Haversine(p.Latitude, p.Longitude, p.Latitude, p.Longitude), "%+v", p)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := GeoPoint{40.7128, -74.0060}
	b := GeoPoint{34.0522, -118.2437}
	assert.InDelta(t, a.DistanceMeters(b), b.DistanceMeters(a), 1e-6)
}

func TestHaversineKnownDistances(t *testing.T) {
	// A quarter meridian.
	assert.InDelta(t, 10007543, Haversine(0, 0, 0, 90), 1)

	// Antipodes are half a circumference apart.
	assert.InDelta(t, math.Pi*EarthRadiusMeters, Haversine(0, 0, 0, 180), 1)

	// New York to Los Angeles, about 3936 km on the sphere.
	assert.InDelta(t, 3935746, Haversine(40.7128, -74.0060, 34.0522, -118.2437), 10000)
}

func TestHaversineAntipodesOffEquator(t *testing.T) {
	half := math.Pi * EarthRadiusMeters
	for lat := -89.0; lat <= 89.0; lat += 0.01 {
		for lon := -179.0; lon <= 0.0; lon += 1 {
			d := Haversine(lat, lon, -lat, lon+180)
			if math.IsNaN(d) || math.Abs(d-half) > 1 {
				t.Fatalf("Haversine(%v, %v, %v, %v) = %v, want %v", lat, lon, -lat, lon+180, d, half)
			}
		}
	}
}

func TestMetersToMiles(t *testing.T) {
	assert.InDelta(t, 0.621371, MetersToMiles(1000), 1e-9)
	assert.Equal(t, 0.0, MetersToMiles(0))
}

func TestGeoPointValidate(t *testing.T) {
	require.NoError(t, GeoPoint{90, -180}.Validate())
	require.NoError(t, GeoPoint{-90, 180}.Validate())

	assert.Error(t, GeoPoint{90.1, 0}.Validate())
	assert.Error(t, GeoPoint{0, -180.5}.Validate())
	assert.Error(t, GeoPoint{math.NaN(), 0}.Validate())
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	center := GeoPoint{40.7128, -74.0060}
	minLat, maxLat, minLon, maxLon := boundingBox(center, 20000)

	assert.Less(t, minLat, center.Latitude)
	assert.Greater(t, maxLat, center.Latitude)
	assert.Less(t, minLon, center.Longitude)
	assert.Greater(t, maxLon, center.Longitude)

	// Every edge lies at least the radius away from the center.
	assert.GreaterOrEqual(t, Haversine(center.Latitude, center.Longitude, maxLat, center.Longitude), 19999.0)
	assert.GreaterOrEqual(t, Haversine(center.Latitude, center.Longitude, minLat, center.Longitude), 19999.0)
	assert.GreaterOrEqual(t, Haversine(center.Latitude, center.Longitude, center.Latitude, maxLon), 19999.0)
	assert.GreaterOrEqual(t, Haversine(center.Latitude, center.Longitude, center.Latitude, minLon), 19999.0)
}

func TestBoundingBoxFullLongitudeNearPoleAndAntimeridian(t *testing.T) {
	_, maxLat, minLon, maxLon := boundingBox(GeoPoint{89.95, 10}, 20000)
	assert.Equal(t, 90.0, maxLat)
	assert.Equal(t, -180.0, minLon)
	assert.Equal(t, 180.0, maxLon)

	_, _, minLon, maxLon = boundingBox(GeoPoint{0, 179.95}, 20000)
	assert.Equal(t, -180.0, minLon)
	assert.Equal(t, 180.0, maxLon)
}
