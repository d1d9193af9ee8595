package routes

import (
	"math"

	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const earthRadiusMeters = 6_371_000.0

// LatLng is a coordinate pair in degrees.
type LatLng = maps.LatLng

// Haversine returns the great-circle distance in meters.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// EncodePolyline encodes points with the Google polyline algorithm at precision 5.
func EncodePolyline(points []LatLng) string {
	return maps.Encode(points)
}

// CalculateBounds returns the bounding box of points, or nil when empty.
func CalculateBounds(points []LatLng) *types.Bounds {
	if len(points) == 0 {
		return nil
	}
	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
	}
	return &types.Bounds{
		SouthWest: [2]float64{minLat, minLng},
		NorthEast: [2]float64{maxLat, maxLng},
	}
}
