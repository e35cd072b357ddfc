package geo

import (
	"fmt"
	"math"
	"strconv"
)

// Two precisions are used throughout: 2 decimals (~1 km) for cache keys and
// stored observer locations, 6 decimals for calls to the weather provider.
const (
	CachePrecision = 2
	APIPrecision   = 6
)

// Round rounds v half-up at the given number of decimal places.
func Round(v float64, precision int) float64 {
	shift := math.Pow(10, float64(precision))
	return math.Floor(v*shift+0.5) / shift
}

// CacheKey derives the stable storage key for a coordinate, bounding location
// precision to roughly one kilometer.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather_%.2f_%.2f", Round(lat, CachePrecision), Round(lon, CachePrecision))
}

// DirectionalCacheKey is the composite key holding one observer location's
// full direction/distance structure.
func DirectionalCacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather_directional_%.2f_%.2f", Round(lat, CachePrecision), Round(lon, CachePrecision))
}

// FormatAPICoord formats a coordinate at full precision for provider calls.
func FormatAPICoord(v float64) string {
	return strconv.FormatFloat(Round(v, APIPrecision), 'f', APIPrecision, 64)
}
