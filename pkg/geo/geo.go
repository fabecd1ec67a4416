// Package geo provides the coordinate math and region reference data used by
// the coordinate-consistency validator. Reference points and bounding boxes
// are data-driven per supported region; the mismatch policy lives in the
// reconciliation engine.
package geo

import "math"

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0

// DefaultFacilityThresholdKm is how far a waypoint's coordinates may sit
// from a named facility's reference point before they are considered
// inconsistent with an address that names the facility.
const DefaultFacilityThresholdKm = 5.0

// Point is a WGS 84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// IsZero reports whether the point is the (0,0) null-island sentinel.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// DistanceKm returns the approximate distance between two points in
// kilometers using the equirectangular approximation. Good to well under a
// percent at city scale, which is all the mismatch heuristics need.
func DistanceKm(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	x := (b.Lng - a.Lng) * math.Pi / 180 * math.Cos((latA+latB)/2)
	y := latB - latA
	return math.Sqrt(x*x+y*y) * earthRadiusKm
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"minLat" yaml:"minLat"`
	MinLng float64 `json:"minLng" yaml:"minLng"`
	MaxLat float64 `json:"maxLat" yaml:"maxLat"`
	MaxLng float64 `json:"maxLng" yaml:"maxLng"`
}

// Contains reports whether the point falls inside the box.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// IsZero reports whether the box is unset.
func (b Bounds) IsZero() bool {
	return b.MinLat == 0 && b.MinLng == 0 && b.MaxLat == 0 && b.MaxLng == 0
}
