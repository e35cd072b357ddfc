package geo

import (
	"math"
	"testing"

	"github.com/cbwatch/thundercloud-alerts/internal/models"
)

func TestProject_NorthSouth(t *testing.T) {
	origin := Point{Latitude: 35.68, Longitude: 139.76}

	north := Project(origin, models.DirectionNorth, 111.0)
	if math.Abs(north.Latitude-(origin.Latitude+1.0)) > 1e-9 {
		t.Errorf("expected latitude %f, got %f", origin.Latitude+1.0, north.Latitude)
	}
	if north.Longitude != origin.Longitude {
		t.Errorf("north projection must not change longitude, got %f", north.Longitude)
	}

	south := Project(origin, models.DirectionSouth, 111.0)
	if math.Abs(south.Latitude-(origin.Latitude-1.0)) > 1e-9 {
		t.Errorf("expected latitude %f, got %f", origin.Latitude-1.0, south.Latitude)
	}
}

func TestProject_EastWestCompression(t *testing.T) {
	// At 60 degrees north a longitude degree is half as wide, so the same
	// distance must produce twice the offset of the equator.
	equator := Project(Point{Latitude: 0, Longitude: 0}, models.DirectionEast, 111.0)
	high := Project(Point{Latitude: 60, Longitude: 0}, models.DirectionEast, 111.0)

	ratio := high.Longitude / equator.Longitude
	if math.Abs(ratio-2.0) > 0.01 {
		t.Errorf("expected ~2x longitude offset at 60N, got ratio %f", ratio)
	}
	if high.Latitude != 60 {
		t.Errorf("east projection must not change latitude, got %f", high.Latitude)
	}
}

func TestProject_Symmetry(t *testing.T) {
	origin := Point{Latitude: 48.85, Longitude: 2.35}

	for _, dist := range []float64{50, 160, 250} {
		north := Project(origin, models.DirectionNorth, dist)
		back := Project(north, models.DirectionSouth, dist)
		if math.Abs(back.Latitude-origin.Latitude) > 1e-9 {
			t.Errorf("north-then-south at %.0f km: expected latitude %f, got %f", dist, origin.Latitude, back.Latitude)
		}

		east := Project(origin, models.DirectionEast, dist)
		back = Project(east, models.DirectionWest, dist)
		// Longitude symmetry is approximate: the return trip compresses at
		// the same latitude, so it is exact here.
		if math.Abs(back.Longitude-origin.Longitude) > 1e-9 {
			t.Errorf("east-then-west at %.0f km: expected longitude %f, got %f", dist, origin.Longitude, back.Longitude)
		}
	}
}

func TestProject_UnknownDirectionIsNoop(t *testing.T) {
	origin := Point{Latitude: 10.5, Longitude: -20.25}
	got := Project(origin, models.Direction("up"), 100)
	if got != origin {
		t.Errorf("unknown direction must return the origin unchanged, got %+v", got)
	}
}

func TestProject_Deterministic(t *testing.T) {
	origin := Point{Latitude: 35.123456, Longitude: 139.654321}
	a := Project(origin, models.DirectionEast, 160)
	b := Project(origin, models.DirectionEast, 160)
	if a != b {
		t.Errorf("projection must be bit-for-bit reproducible: %+v vs %+v", a, b)
	}
}
