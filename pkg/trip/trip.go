// Package trip defines the canonical itinerary types exchanged between the
// reconciliation engine and its collaborators. A Trip is created once from an
// initial extraction and then replaced wholesale by successive reconciliation
// passes; callers must treat it as immutable.
package trip

import (
	"strings"

	"github.com/google/uuid"
)

// Waypoint is one stop in an ordered trip itinerary. Index 0 is the pickup
// and index len-1 is the dropoff; both are protected by the engine.
type Waypoint struct {
	ID               string  `json:"id" yaml:"id"`                                               // Stable opaque identifier
	Name             string  `json:"name" yaml:"name"`                                           // Display name, e.g. "Breakfast, The Wolseley"
	FullAddress      string  `json:"fullAddress" yaml:"fullAddress"`                             // Address as extracted from the request text
	FormattedAddress string  `json:"formattedAddress" yaml:"formattedAddress"`                   // Address as returned by the geocoder
	Lat              float64 `json:"lat" yaml:"lat"`                                             // WGS 84 latitude
	Lng              float64 `json:"lng" yaml:"lng"`                                             // WGS 84 longitude
	Time             string  `json:"time,omitempty" yaml:"time,omitempty"`                       // Stop time, HH:MM
	Purpose          string  `json:"purpose,omitempty" yaml:"purpose,omitempty"`                 // Why the passenger stops here
	FlightNumber     string  `json:"flightNumber,omitempty" yaml:"flightNumber,omitempty"`       // Associated flight, if any
	FlightDirection  string  `json:"flightDirection,omitempty" yaml:"flightDirection,omitempty"` // "arrival" or "departure"
}

// NewWaypointID mints a fresh waypoint identifier. IDs are stable across
// reconciliation passes; a new one is minted only for added waypoints.
func NewWaypointID() string {
	return uuid.NewString()
}

// HasCoordinates reports whether the waypoint carries a usable position.
// (0,0) is the null island sentinel used by upstream extraction when the
// geocoder was never consulted.
func (w *Waypoint) HasCoordinates() bool {
	return w.Lat != 0 || w.Lng != 0
}

// SearchText returns the fields a keyword may match against, in match
// priority order: name, purpose, then the address strings.
func (w *Waypoint) SearchText() []string {
	return []string{w.Name, w.Purpose, w.FullAddress, w.FormattedAddress}
}

// Address returns the best available address string, preferring the
// geocoder-formatted one.
func (w *Waypoint) Address() string {
	if w.FormattedAddress != "" {
		return w.FormattedAddress
	}
	return w.FullAddress
}

// Trip is the canonical itinerary.
type Trip struct {
	Date              string     `json:"date,omitempty" yaml:"date,omitempty"`                           // Trip date, YYYY-MM-DD
	LeadPassengerName string     `json:"leadPassengerName,omitempty" yaml:"leadPassengerName,omitempty"` // Primary passenger
	VehicleInfo       string     `json:"vehicleInfo,omitempty" yaml:"vehicleInfo,omitempty"`             // Requested vehicle class or plate
	PassengerCount    int        `json:"passengerCount,omitempty" yaml:"passengerCount,omitempty"`       // Number of passengers
	TripDestination   string     `json:"tripDestination,omitempty" yaml:"tripDestination,omitempty"`     // Overall destination summary
	Notes             string     `json:"notes,omitempty" yaml:"notes,omitempty"`                         // Driver notes, newline separated
	Waypoints         []Waypoint `json:"waypoints" yaml:"waypoints"`                                     // Ordered stops, pickup first
}

// Pickup returns the first waypoint, or nil for an empty trip.
func (t *Trip) Pickup() *Waypoint {
	if len(t.Waypoints) == 0 {
		return nil
	}
	return &t.Waypoints[0]
}

// Dropoff returns the last waypoint, or nil for an empty trip.
func (t *Trip) Dropoff() *Waypoint {
	if len(t.Waypoints) == 0 {
		return nil
	}
	return &t.Waypoints[len(t.Waypoints)-1]
}

// Clone returns a deep copy. Reconciliation passes never mutate their input
// trip; they build the successor from a clone.
func (t *Trip) Clone() *Trip {
	if t == nil {
		return nil
	}
	out := *t
	out.Waypoints = make([]Waypoint, len(t.Waypoints))
	copy(out.Waypoints, t.Waypoints)
	return &out
}

// NoteLines splits the driver notes into trimmed, non-empty lines.
func (t *Trip) NoteLines() []string {
	var lines []string
	for _, line := range strings.Split(t.Notes, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
