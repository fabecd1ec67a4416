package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	heathrow := Point{Lat: 51.4700, Lng: -0.4543}
	savoy := Point{Lat: 51.5101, Lng: -0.1206}

	if d := DistanceKm(heathrow, heathrow); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}

	// Heathrow to central London is roughly 23 km.
	d := DistanceKm(heathrow, savoy)
	if d < 20 || d > 27 {
		t.Errorf("Heathrow-Savoy = %.1f km, want roughly 23", d)
	}
	if r := DistanceKm(savoy, heathrow); math.Abs(d-r) > 1e-9 {
		t.Errorf("distance must be symmetric: %.6f vs %.6f", d, r)
	}
}

func TestPointIsZero(t *testing.T) {
	if !(Point{}).IsZero() {
		t.Error("zero point must report IsZero")
	}
	if (Point{Lat: 51.5}).IsZero() {
		t.Error("non-zero latitude is not null island")
	}
}

func TestBoundsContains(t *testing.T) {
	box := Bounds{MinLat: 51.45, MinLng: -0.25, MaxLat: 51.56, MaxLng: 0.01}

	if !box.Contains(Point{Lat: 51.51, Lng: -0.12}) {
		t.Error("central London must be inside the box")
	}
	if box.Contains(Point{Lat: 51.47, Lng: -0.4543}) {
		t.Error("Heathrow must be outside the box")
	}
	if !box.Contains(Point{Lat: 51.45, Lng: -0.25}) {
		t.Error("bounds are inclusive")
	}
}
