package trip

import (
	"encoding/json"
	"strings"
)

// ExtractedUpdate is the structured but partial proposal produced by the
// upstream text-extraction collaborator. Every field is optional: an absent
// field means "not mentioned", never "cleared". The extractor guarantees
// nothing about internal consistency; the reconciliation engine does.
type ExtractedUpdate struct {
	Date              *string          `json:"date,omitempty"`
	LeadPassengerName *string          `json:"leadPassengerName,omitempty"`
	VehicleInfo       *string          `json:"vehicleInfo,omitempty"`
	PassengerCount    *int             `json:"passengerCount,omitempty"`
	TripDestination   *string          `json:"tripDestination,omitempty"`
	DriverNotes       *Notes           `json:"driverNotes,omitempty"`
	Locations         []UpdateLocation `json:"locations,omitempty"`
	RemovedLocations  []string         `json:"removedLocations,omitempty"`
}

// UpdateLocation is one proposed waypoint change or insertion. Location
// carries the free text the extractor saw; the remaining fields are present
// only when the extractor derived them.
type UpdateLocation struct {
	Location         string  `json:"location,omitempty"`         // Free text naming the stop
	FullAddress      string  `json:"fullAddress,omitempty"`      // Address, if re-derived
	FormattedAddress string  `json:"formattedAddress,omitempty"` // Geocoded address, if looked up
	Lat              float64 `json:"lat,omitempty"`
	Lng              float64 `json:"lng,omitempty"`
	Time             string  `json:"time,omitempty"`    // HH:MM
	Purpose          string  `json:"purpose,omitempty"` // Stop purpose
	FlightNumber     string  `json:"flightNumber,omitempty"`
	FlightDirection  string  `json:"flightDirection,omitempty"`
	InsertAfter      string  `json:"insertAfter,omitempty"`  // Anchor keyword: place new stop after this one
	InsertBefore     string  `json:"insertBefore,omitempty"` // Anchor keyword: place new stop before this one
}

// IsInsertion reports whether the entry carries a positional anchor. Anchored
// entries are always insertions, never replacements.
func (l *UpdateLocation) IsInsertion() bool {
	return l.InsertAfter != "" || l.InsertBefore != ""
}

// SearchText returns the entry's text fields used for matching against
// current waypoints.
func (l *UpdateLocation) SearchText() []string {
	return []string{l.Location, l.Purpose, l.FullAddress, l.FormattedAddress}
}

// HasCoordinates reports whether the extractor supplied a usable position.
func (l *UpdateLocation) HasCoordinates() bool {
	return l.Lat != 0 || l.Lng != 0
}

// IsEmpty reports whether the update mentions nothing at all. Reconciling an
// empty update returns a trip deep-equal to the input.
func (u *ExtractedUpdate) IsEmpty() bool {
	return u == nil ||
		(u.Date == nil && u.LeadPassengerName == nil && u.VehicleInfo == nil &&
			u.PassengerCount == nil && u.TripDestination == nil && u.DriverNotes == nil &&
			len(u.Locations) == 0 && len(u.RemovedLocations) == 0)
}

// Notes is a driver-notes value that tolerates the extraction collaborator
// sending either a single string or a list of strings. Lists are joined with
// newlines.
type Notes string

// String returns the newline-joined note text.
func (n Notes) String() string { return string(n) }

// Lines splits the notes into trimmed, non-empty lines.
func (n Notes) Lines() []string {
	var lines []string
	for _, line := range strings.Split(string(n), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// UnmarshalJSON accepts a JSON string, a list of strings, or null.
func (n *Notes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*n = Notes(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*n = Notes(strings.Join(many, "\n"))
	return nil
}

// MarshalJSON always emits the single-string form.
func (n Notes) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}
