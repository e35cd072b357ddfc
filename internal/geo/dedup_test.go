package geo

import (
	"testing"
	"time"

	"github.com/cbwatch/thundercloud-alerts/internal/models"
)

func observerAt(token string, lat, lon float64) models.Observer {
	return models.Observer{
		Token:       token,
		Latitude:    lat,
		Longitude:   lon,
		LastUpdated: time.Now(),
		IsActive:    true,
	}
}

func TestDedupTargets_SingleObserver(t *testing.T) {
	res := DedupTargets([]models.Observer{observerAt("a", 35.68, 139.65)})

	if len(res.Points) != 12 {
		t.Errorf("expected 12 unique coordinates for one observer, got %d", len(res.Points))
	}
	if len(res.Points) != len(res.Keys) {
		t.Fatalf("points and keys must stay parallel: %d vs %d", len(res.Points), len(res.Keys))
	}

	refs := 0
	for _, r := range res.Index {
		refs += len(r)
	}
	if refs != 12 {
		t.Errorf("expected 12 grid refs, got %d", refs)
	}
}

func TestDedupTargets_OverlappingObservers(t *testing.T) {
	// Two observers at the same rounded location share all 12 targets.
	observers := []models.Observer{
		observerAt("a", 35.68, 139.65),
		observerAt("b", 35.68, 139.65),
	}
	res := DedupTargets(observers)

	if len(res.Points) != 12 {
		t.Errorf("expected 12 unique coordinates for co-located observers, got %d", len(res.Points))
	}

	// Every (observer, direction, distance) triple maps to exactly one key.
	seen := make(map[GridRef]int)
	for _, refs := range res.Index {
		for _, r := range refs {
			seen[r]++
		}
	}
	want := len(observers) * len(models.Directions) * len(models.DistancesKM)
	if len(seen) != want {
		t.Errorf("expected %d distinct triples in reverse index, got %d", want, len(seen))
	}
	for ref, n := range seen {
		if n != 1 {
			t.Errorf("triple %+v appears %d times, want exactly 1", ref, n)
		}
	}
}

func TestDedupTargets_DistinctObserversBounded(t *testing.T) {
	observers := []models.Observer{
		observerAt("a", 35.68, 139.65),
		observerAt("b", 35.70, 139.65), // close enough for some targets to collide
		observerAt("c", -12.00, 55.00),
	}
	res := DedupTargets(observers)

	if len(res.Points) > len(observers)*12 {
		t.Errorf("dedup count %d exceeds observers x 12 = %d", len(res.Points), len(observers)*12)
	}
}

func TestDedupTargets_PreservesFirstSeenOrder(t *testing.T) {
	res := DedupTargets([]models.Observer{observerAt("a", 35.68, 139.65)})

	// The first point must be north/50km, per fixed iteration order.
	first := Project(Point{Latitude: 35.68, Longitude: 139.65}, models.DirectionNorth, 50)
	if res.Points[0] != first {
		t.Errorf("expected first deduped point %+v, got %+v", first, res.Points[0])
	}
	if res.Keys[0] != CacheKey(first.Latitude, first.Longitude) {
		t.Errorf("keys not parallel with points at index 0")
	}
}
