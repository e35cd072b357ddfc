package analyzer

import (
	"github.com/cbwatch/thundercloud-alerts/internal/geo"
	"github.com/cbwatch/thundercloud-alerts/internal/models"
)

// Assessment is the per-direction reduction for one observer location.
type Assessment struct {
	Best   map[models.Direction]models.DirectionSample
	Likely []models.Direction // directions whose best sample is likely, in scan order
}

// Assess scores every (direction, distance) sample around origin and keeps,
// per direction, the sample with the highest total score. Ties keep the
// nearest distance because DistancesKM iterates nearest first and a later
// sample must strictly beat the incumbent.
func Assess(origin geo.Point, data models.DirectionalData) Assessment {
	a := Assessment{
		Best: make(map[models.Direction]models.DirectionSample, len(models.Directions)),
	}

	for _, dir := range models.Directions {
		byDistance, ok := data[dir]
		if !ok {
			continue
		}

		var best models.DirectionSample
		found := false
		for _, dist := range models.DistancesKM {
			ind, ok := byDistance[dist]
			if !ok {
				continue
			}
			p := geo.Project(origin, dir, float64(dist))
			sample := models.DirectionSample{
				Direction:  dir,
				DistanceKM: dist,
				Latitude:   p.Latitude,
				Longitude:  p.Longitude,
				Indicators: ind,
				Analysis:   Score(ind),
			}
			if !found || sample.Analysis.TotalScore > best.Analysis.TotalScore {
				best = sample
				found = true
			}
		}

		if found {
			a.Best[dir] = best
			if best.Analysis.IsLikely {
				a.Likely = append(a.Likely, dir)
			}
		}
	}

	return a
}
