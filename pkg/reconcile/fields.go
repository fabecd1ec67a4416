package reconcile

import (
	"strings"

	"github.com/chauffeurhq/tripflow/internal/textfold"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// resolveText implements the "not mentioned means preserve" policy for one
// string field. An empty proposal preserves the current value; a proposal
// that folds equal to the current value is not a change either.
func resolveText(current, proposed string) (value string, changed bool) {
	if proposed == "" {
		return current, false
	}
	if proposed == current || textfold.Equal(proposed, current) {
		return current, false
	}
	return proposed, true
}

// resolveScalar is resolveText for trip-level fields, where "not mentioned"
// is a nil pointer rather than an empty string.
func resolveScalar(current string, proposed *string) (value string, changed bool) {
	if proposed == nil {
		return current, false
	}
	return resolveText(current, *proposed)
}

// resolveCount resolves the passenger count.
func resolveCount(current int, proposed *int) (value int, changed bool) {
	if proposed == nil || *proposed == 0 || *proposed == current {
		return current, false
	}
	return *proposed, true
}

// proposedAddress returns the address an update entry proposes, if any.
func proposedAddress(entry *trip.UpdateLocation) string {
	if entry.FullAddress != "" {
		return entry.FullAddress
	}
	return entry.FormattedAddress
}

// finalWaypoint merges one update entry into its matched waypoint. The id is
// always preserved. Fields the proposal does not mention come back verbatim,
// even when the extractor sent them as empty strings; coordinates are never
// downgraded to (0,0).
func finalWaypoint(current *trip.Waypoint, entry *trip.UpdateLocation) (trip.Waypoint, Changes) {
	final := *current
	var changes Changes

	proposal := proposedAddress(entry)
	if proposal != "" &&
		!textfold.Equal(proposal, current.FullAddress) &&
		!textfold.Equal(proposal, current.FormattedAddress) {
		changes.Address = true
		final.FullAddress = proposal
		final.FormattedAddress = entry.FormattedAddress
		if entry.HasCoordinates() {
			final.Lat, final.Lng = entry.Lat, entry.Lng
		}
		// else: keep the current coordinates until repair re-geocodes
	}

	final.Time, changes.Time = resolveText(current.Time, entry.Time)
	final.Purpose, changes.Purpose = resolveText(current.Purpose, entry.Purpose)

	if entry.FlightNumber != "" {
		final.FlightNumber = entry.FlightNumber
	}
	if entry.FlightDirection != "" {
		final.FlightDirection = entry.FlightDirection
	}

	// The display name follows the address and purpose only when both were
	// re-stated; otherwise the confirmed name stands.
	if changes.Address && changes.Purpose {
		final.Name = displayName(final.Purpose, &final)
	}

	return final, changes
}

// newWaypoint builds a waypoint for an added entry, minting a fresh id.
func newWaypoint(entry *trip.UpdateLocation) trip.Waypoint {
	w := trip.Waypoint{
		ID:               trip.NewWaypointID(),
		FullAddress:      entry.FullAddress,
		FormattedAddress: entry.FormattedAddress,
		Lat:              entry.Lat,
		Lng:              entry.Lng,
		Time:             entry.Time,
		Purpose:          entry.Purpose,
		FlightNumber:     entry.FlightNumber,
		FlightDirection:  entry.FlightDirection,
	}
	if w.FullAddress == "" && entry.Location != "" {
		w.FullAddress = entry.Location
	}

	switch {
	case entry.Purpose != "" && w.Address() != "":
		w.Name = displayName(entry.Purpose, &w)
	case entry.Location != "":
		w.Name = entry.Location
	default:
		w.Name = w.Address()
	}
	return w
}

// displayName renders "{purpose}, {formattedAddress}".
func displayName(purpose string, w *trip.Waypoint) string {
	addr := w.Address()
	if purpose == "" {
		return addr
	}
	if addr == "" {
		return purpose
	}
	return purpose + ", " + addr
}

// applyTripFields resolves every trip-level scalar and fills the report.
func applyTripFields(out *trip.Trip, update *trip.ExtractedUpdate, report *FieldReport) {
	out.Date, report.TripDateChanged = resolveScalar(out.Date, update.Date)
	if report.TripDateChanged {
		report.TripDateNew = out.Date
	}

	out.LeadPassengerName, report.LeadPassengerNameChanged = resolveScalar(out.LeadPassengerName, update.LeadPassengerName)
	if report.LeadPassengerNameChanged {
		report.LeadPassengerNameNew = out.LeadPassengerName
	}

	out.VehicleInfo, report.VehicleInfoChanged = resolveScalar(out.VehicleInfo, update.VehicleInfo)
	if report.VehicleInfoChanged {
		report.VehicleInfoNew = out.VehicleInfo
	}

	out.PassengerCount, report.PassengerCountChanged = resolveCount(out.PassengerCount, update.PassengerCount)
	if report.PassengerCountChanged {
		report.PassengerCountNew = out.PassengerCount
	}

	out.TripDestination, report.TripDestinationChanged = resolveScalar(out.TripDestination, update.TripDestination)
	if report.TripDestinationChanged {
		report.TripDestinationNew = out.TripDestination
	}

	out.Notes, report.NotesChanged = mergeNotes(out.Notes, update.DriverNotes)
	report.MergedNotes = out.Notes
}

// mergeNotes appends new note lines to the existing notes, existing lines
// first, dropping lines already present after folding.
func mergeNotes(current string, proposed *trip.Notes) (string, bool) {
	if proposed == nil {
		return current, false
	}

	seen := make(map[string]bool)
	var lines []string
	for _, line := range strings.Split(current, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
			seen[textfold.Fold(line)] = true
		}
	}

	changed := false
	for _, line := range proposed.Lines() {
		if seen[textfold.Fold(line)] {
			continue
		}
		lines = append(lines, line)
		seen[textfold.Fold(line)] = true
		changed = true
	}

	if !changed {
		return current, false
	}
	return strings.Join(lines, "\n"), true
}
