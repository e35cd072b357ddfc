package models

type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// AnalysisResult is the derived score for one IndicatorSet. It is recomputed
// on demand and never stored apart from the indicators it came from.
type AnalysisResult struct {
	CAPEScore        float64   `json:"cape_score"`
	LiftedIndexScore float64   `json:"lifted_index_score"`
	CINScore         float64   `json:"cin_score"`
	TemperatureScore float64   `json:"temperature_score"`
	CloudCoverScore  float64   `json:"cloud_cover_score"`
	TotalScore       float64   `json:"total_score"`
	IsLikely         bool      `json:"is_likely"`
	RiskLevel        RiskLevel `json:"risk_level"`
}

// DirectionSample is one (direction, distance) observation with its score.
type DirectionSample struct {
	Direction  Direction      `json:"direction"`
	DistanceKM int            `json:"distance_km"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Indicators IndicatorSet   `json:"indicators"`
	Analysis   AnalysisResult `json:"analysis"`
}
