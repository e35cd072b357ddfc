// Package analyzer scores convective indicator sets and reduces them to
// per-direction assessments. Everything here is pure: same input, same output.
package analyzer

import "github.com/cbwatch/thundercloud-alerts/internal/models"

// Five-indicator weight vector; must sum to 1.0.
const (
	weightCAPE        = 0.40
	weightLiftedIndex = 0.30
	weightCIN         = 0.05
	weightTemperature = 0.10
	weightCloudCover  = 0.15
)

// likelyThreshold is the total score at or above which a sample counts as
// likely cumulonimbus formation.
const likelyThreshold = 0.5

// Score maps an indicator set to per-indicator scores, a weighted total,
// a likelihood flag, and a risk label.
func Score(ind models.IndicatorSet) models.AnalysisResult {
	r := models.AnalysisResult{
		CAPEScore:        scoreCAPE(ind.CAPE),
		LiftedIndexScore: scoreLiftedIndex(ind.LiftedIndex),
		CINScore:         scoreCIN(ind.ConvectiveInhibition),
		TemperatureScore: scoreTemperature(ind.Temperature),
		CloudCoverScore:  scoreCloudCover(ind.CloudCover, ind.CloudCoverMid, ind.CloudCoverHigh),
	}

	r.TotalScore = r.CAPEScore*weightCAPE +
		r.LiftedIndexScore*weightLiftedIndex +
		r.CINScore*weightCIN +
		r.TemperatureScore*weightTemperature +
		r.CloudCoverScore*weightCloudCover

	r.IsLikely = r.TotalScore >= likelyThreshold
	r.RiskLevel = riskLevel(r.TotalScore)

	return r
}

func scoreCAPE(v float64) float64 {
	switch {
	case v >= 2500:
		return 1.0
	case v >= 1000:
		return 0.8
	case v >= 500:
		return 0.6
	case v >= 100:
		return 0.3
	default:
		return 0.0
	}
}

// Lower lifted index means less stable air.
func scoreLiftedIndex(v float64) float64 {
	switch {
	case v <= -6:
		return 1.0
	case v <= -3:
		return 0.8
	case v <= 0:
		return 0.6
	case v <= 3:
		return 0.4
	case v <= 6:
		return 0.2
	default:
		return 0.0
	}
}

// CIN is the magnitude of convective suppression; less suppression scores higher.
func scoreCIN(v float64) float64 {
	switch {
	case v <= 10:
		return 0.3
	case v <= 50:
		return 0.1
	default:
		return 0.0
	}
}

func scoreTemperature(v float64) float64 {
	switch {
	case v >= 30:
		return 1.0
	case v >= 25:
		return 0.8
	case v >= 20:
		return 0.6
	case v >= 15:
		return 0.4
	default:
		return 0.0
	}
}

func scoreCloudCover(total, mid, high float64) float64 {
	v := max(total, max(mid, high))
	switch {
	case v >= 80:
		return 1.0
	case v >= 60:
		return 0.8
	case v >= 40:
		return 0.6
	case v >= 20:
		return 0.3
	default:
		return 0.0
	}
}

func riskLevel(total float64) models.RiskLevel {
	switch {
	case total >= 0.5:
		return models.RiskHigh
	case total >= 0.3:
		return models.RiskMedium
	case total >= 0.15:
		return models.RiskLow
	default:
		return models.RiskNone
	}
}
