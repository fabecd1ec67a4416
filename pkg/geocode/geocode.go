// Package geocode defines the geocoding collaborator boundary: resolving a
// free-text address query to a verified place with coordinates. The
// reconciliation engine only depends on the Geocoder interface; an HTTP
// client and an in-memory fake are provided.
package geocode

import "context"

// Request is one geocoding lookup.
type Request struct {
	Query      string `json:"query"`                // Free-text address or place query
	RegionBias string `json:"regionBias,omitempty"` // ccTLD-style bias, e.g. "uk"
}

// Place is a verified geocoding result.
type Place struct {
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PlaceID          string  `json:"placeId,omitempty"`
}

// Geocoder resolves address queries. Implementations may fail or return
// errors.ErrNotVerified for low-confidence matches; callers treat both as
// "no usable result", never as fatal.
type Geocoder interface {
	Lookup(ctx context.Context, req Request) (*Place, error)
}
