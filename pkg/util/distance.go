package util

import (
	"math"
)

const (
	earthRadiusKm = 6371.0
	kmPerMile     = 1.609344
	// one degree of latitude in miles
	milesPerDegreeLat = 69.0
)

// CalculateDistance returns the great-circle distance in kilometers between two points (haversine).
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degToRad(lat1)
	lat2Rad := degToRad(lat2)
	dLat := lat2Rad - lat1Rad
	dLon := degToRad(lon2) - degToRad(lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// DistanceMiles is CalculateDistance converted to statute miles.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	return CalculateDistance(lat1, lon1, lat2, lon2) / kmPerMile
}

// BoundingBox is a lat/lng rectangle used as a cheap SQL prefilter before the exact distance check.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBoxMiles returns the box that contains every point within radius miles of (lat, lng).
func BoundingBoxMiles(lat, lng, radius float64) BoundingBox {
	dLat := radius / milesPerDegreeLat
	cosLat := math.Cos(degToRad(lat))
	// near the poles the longitude span is unbounded
	dLng := 180.0
	if cosLat > 1e-6 {
		dLng = math.Min(180.0, radius/(milesPerDegreeLat*cosLat))
	}
	return BoundingBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
