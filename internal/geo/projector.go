package geo

import (
	"math"

	"github.com/cbwatch/thundercloud-alerts/internal/models"
)

// kmPerDegreeLat is the approximate great-circle distance covered by one
// degree of latitude. Longitude degrees shrink by cos(latitude).
const kmPerDegreeLat = 111.0

// Point is a plain (lat, lon) pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Project returns the point distanceKM away from origin in the given compass
// direction. An unrecognized direction returns the origin unchanged; that is
// a defined no-op, not an error. Deterministic: the result feeds cache keys.
func Project(origin Point, dir models.Direction, distanceKM float64) Point {
	latOffset := distanceKM / kmPerDegreeLat
	lonOffset := distanceKM / (kmPerDegreeLat * math.Cos(origin.Latitude*math.Pi/180))

	switch dir {
	case models.DirectionNorth:
		return Point{Latitude: origin.Latitude + latOffset, Longitude: origin.Longitude}
	case models.DirectionSouth:
		return Point{Latitude: origin.Latitude - latOffset, Longitude: origin.Longitude}
	case models.DirectionEast:
		return Point{Latitude: origin.Latitude, Longitude: origin.Longitude + lonOffset}
	case models.DirectionWest:
		return Point{Latitude: origin.Latitude, Longitude: origin.Longitude - lonOffset}
	default:
		return origin
	}
}
