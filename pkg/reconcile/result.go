package reconcile

import (
	"fmt"
	"time"

	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// Action classifies what happened to one waypoint during a pass.
type Action string

// Waypoint actions.
const (
	ActionUnchanged Action = "unchanged"
	ActionModified  Action = "modified"
	ActionAdded     Action = "added"
	ActionRemoved   Action = "removed"
)

// Changes is the per-field change bitmap for a modified waypoint.
type Changes struct {
	Address bool `json:"addressChanged"`
	Time    bool `json:"timeChanged"`
	Purpose bool `json:"purposeChanged"`
}

// Any reports whether any field changed.
func (c Changes) Any() bool {
	return c.Address || c.Time || c.Purpose
}

// Entry is one waypoint decision. Final is nil exactly when the action is
// removed; every other action carries the full outgoing waypoint.
type Entry struct {
	Action  Action         `json:"action"`
	Changes Changes        `json:"changes"`
	Final   *trip.Waypoint `json:"finalLocation,omitempty"`
	Reason  string         `json:"reason,omitempty"`

	// CurrentID is the id of the current waypoint this entry decides;
	// empty for added waypoints.
	CurrentID string `json:"currentId,omitempty"`
}

// Entry constructors keep the action/Final pairing legal by construction.

func unchangedEntry(w trip.Waypoint) Entry {
	final := w
	return Entry{Action: ActionUnchanged, Final: &final, CurrentID: w.ID}
}

func modifiedEntry(currentID string, final trip.Waypoint, changes Changes, reason string) Entry {
	return Entry{Action: ActionModified, Changes: changes, Final: &final, Reason: reason, CurrentID: currentID}
}

func addedEntry(final trip.Waypoint, reason string) Entry {
	return Entry{Action: ActionAdded, Final: &final, Reason: reason}
}

func removedEntry(currentID, reason string) Entry {
	return Entry{Action: ActionRemoved, Reason: reason, CurrentID: currentID}
}

// FieldReport is the trip-level scalar change report. For every scalar the
// Changed flag states whether the update explicitly supplied a different
// value; the New field carries it when set.
type FieldReport struct {
	TripDateChanged          bool   `json:"tripDateChanged"`
	TripDateNew              string `json:"tripDateNew,omitempty"`
	LeadPassengerNameChanged bool   `json:"leadPassengerNameChanged"`
	LeadPassengerNameNew     string `json:"leadPassengerNameNew,omitempty"`
	VehicleInfoChanged       bool   `json:"vehicleInfoChanged"`
	VehicleInfoNew           string `json:"vehicleInfoNew,omitempty"`
	PassengerCountChanged    bool   `json:"passengerCountChanged"`
	PassengerCountNew        int    `json:"passengerCountNew,omitempty"`
	TripDestinationChanged   bool   `json:"tripDestinationChanged"`
	TripDestinationNew       string `json:"tripDestinationNew,omitempty"`
	NotesChanged             bool   `json:"notesChanged"`
	MergedNotes              string `json:"mergedNotes,omitempty"`
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Trip is the new canonical trip.
	Trip *trip.Trip `json:"trip"`

	// Entries holds one decision per waypoint, in output order; removed
	// waypoints appear at their original position with a nil Final.
	Entries []Entry `json:"entries"`

	// Fields is the trip-level scalar change report.
	Fields FieldReport `json:"fields"`

	// Reasoning records every non-obvious decision the engine took, so
	// callers and tests can assert on decisions without parsing logs.
	Reasoning []string `json:"reasoning,omitempty"`

	// Warnings contains non-critical issues, e.g. unmatched update entries.
	Warnings []string `json:"warnings,omitempty"`

	// Metadata about the pass.
	Metadata Metadata `json:"metadata"`
}

// Metadata contains statistics about the reconciliation pass.
type Metadata struct {
	StartTime        time.Time     `json:"startTime"`
	Duration         time.Duration `json:"duration"`
	RepairsAttempted int           `json:"repairsAttempted"`
	RepairsApplied   int           `json:"repairsApplied"`
}

// HasWarnings reports whether the pass produced warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Actions returns the entry actions in order, handy for assertions.
func (r *Result) Actions() []Action {
	actions := make([]Action, len(r.Entries))
	for i, e := range r.Entries {
		actions[i] = e.Action
	}
	return actions
}

// Summary returns a human-readable one-line summary of the pass.
func (r *Result) Summary() string {
	var unchanged, modified, added, removed int
	for _, e := range r.Entries {
		switch e.Action {
		case ActionUnchanged:
			unchanged++
		case ActionModified:
			modified++
		case ActionAdded:
			added++
		case ActionRemoved:
			removed++
		}
	}
	return fmt.Sprintf("%d waypoints: %d unchanged, %d modified, %d added, %d removed (%d warnings)",
		len(r.Trip.Waypoints), unchanged, modified, added, removed, len(r.Warnings))
}

// reasonf appends a formatted reasoning note.
func (r *Result) reasonf(format string, args ...any) {
	r.Reasoning = append(r.Reasoning, fmt.Sprintf(format, args...))
}

// warnf appends a formatted warning.
func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
