package models

// Direction is one of the four compass directions scanned around an observer.
type Direction string

const (
	DirectionNorth Direction = "north"
	DirectionSouth Direction = "south"
	DirectionEast  Direction = "east"
	DirectionWest  Direction = "west"
)

// Directions is the fixed scan order used everywhere a direction set is iterated.
var Directions = []Direction{DirectionNorth, DirectionSouth, DirectionEast, DirectionWest}

// DistancesKM is the fixed distance grid per direction, nearest first. The
// aggregator's tie-break depends on this order.
var DistancesKM = []int{50, 160, 250}

// IndicatorSet holds the convective indicators consumed by the analyzer.
// Fields default to a neutral value when the upstream response omits them.
type IndicatorSet struct {
	CAPE                 float64 `json:"cape"`                  // J/kg
	LiftedIndex          float64 `json:"lifted_index"`          // unitless, lower = more unstable
	ConvectiveInhibition float64 `json:"convective_inhibition"` // J/kg, magnitude of suppression
	Temperature          float64 `json:"temperature"`           // surface temperature, Celsius
	CloudCover           float64 `json:"cloud_cover"`           // total, percent
	CloudCoverMid        float64 `json:"cloud_cover_mid"`       // percent
	CloudCoverHigh       float64 `json:"cloud_cover_high"`      // percent
}

// DefaultIndicators returns the neutral IndicatorSet substituted when a fetch
// fails. Temperature defaults to 20C, everything else to zero.
func DefaultIndicators() IndicatorSet {
	return IndicatorSet{Temperature: 20}
}

// DirectionalData is the nested direction -> distance(km) -> indicators
// structure cached per observer location.
type DirectionalData map[Direction]map[int]IndicatorSet
