package geo

import "github.com/cbwatch/thundercloud-alerts/internal/models"

// GridRef points back from a deduplicated coordinate to one interested
// (observer, direction, distance) triple.
type GridRef struct {
	ObserverIndex int
	Direction     models.Direction
	DistanceKM    int
}

// DedupResult is the unique target coordinate set for one detection cycle
// plus the reverse index used to redistribute fetched values.
//
// Points and Keys are parallel slices in first-seen order; downstream
// result-to-coordinate association is positional, so this order must be
// preserved end to end.
type DedupResult struct {
	Points []Point
	Keys   []string
	Index  map[string][]GridRef
}

// DedupTargets expands every observer over the direction/distance grid and
// collapses coordinates that share a cache key. First writer wins: all
// observers behind one key want the same cached value because the key
// already encodes the 2-decimal location.
func DedupTargets(observers []models.Observer) *DedupResult {
	res := &DedupResult{
		Index: make(map[string][]GridRef),
	}

	for i, obs := range observers {
		origin := Point{Latitude: obs.Latitude, Longitude: obs.Longitude}
		for _, dir := range models.Directions {
			for _, dist := range models.DistancesKM {
				p := Project(origin, dir, float64(dist))
				key := CacheKey(p.Latitude, p.Longitude)
				if _, seen := res.Index[key]; !seen {
					res.Points = append(res.Points, p)
					res.Keys = append(res.Keys, key)
				}
				res.Index[key] = append(res.Index[key], GridRef{
					ObserverIndex: i,
					Direction:     dir,
					DistanceKM:    dist,
				})
			}
		}
	}

	return res
}
