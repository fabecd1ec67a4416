// Package reconcile implements the reconciliation engine: merging a partial,
// possibly wrong update proposal into the current canonical itinerary
// without destroying unmentioned data or corrupting coordinates.
//
// One call to Reconcile is one pass: it consumes the current trip and one
// extracted update and produces a new trip plus a full decision record. The
// engine is stateless per invocation; callers treat trips as immutable and
// replace them wholesale with each pass's output.
package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chauffeurhq/tripflow/pkg/errors"
	"github.com/chauffeurhq/tripflow/pkg/geo"
	"github.com/chauffeurhq/tripflow/pkg/geocode"
	"github.com/chauffeurhq/tripflow/pkg/logging"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// DefaultRepairWorkers bounds concurrent geocoding calls during the repair
// step of a single pass.
const DefaultRepairWorkers = 8

// Engine performs reconciliation passes.
type Engine struct {
	geocoder      geocode.Geocoder
	region        *geo.Region
	repairWorkers int
	logger        *zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// New creates a new Engine with options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		repairWorkers: DefaultRepairWorkers,
		logger:        logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// WithGeocoder sets the geocoding collaborator used for coordinate repair.
// Without one, repairs are detected and reported but never applied.
func WithGeocoder(g geocode.Geocoder) Option {
	return func(e *Engine) error {
		e.geocoder = g
		return nil
	}
}

// WithRegion sets the operating region whose reference data drives the
// coordinate-consistency checks.
func WithRegion(r *geo.Region) Option {
	return func(e *Engine) error {
		if r == nil {
			return errors.NewValidationError("region", nil, "region cannot be nil")
		}
		e.region = r
		return nil
	}
}

// WithRepairWorkers bounds the concurrent geocoding calls per pass.
func WithRepairWorkers(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return errors.NewValidationError("repairWorkers", n, "must be at least 1")
		}
		e.repairWorkers = n
		return nil
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger cannot be nil")
		}
		e.logger = logger
		return nil
	}
}

// Reconcile merges one extracted update into the current trip and returns
// the decision record plus the new canonical trip. The input trip is never
// mutated. The only fatal outcomes are invalid input, a merge that would
// leave fewer than two waypoints, and a context already done before
// assembly; geocoding failures degrade to unrepaired coordinates.
func (e *Engine) Reconcile(ctx context.Context, current *trip.Trip, update *trip.ExtractedUpdate) (*Result, error) {
	start := time.Now()

	if current == nil {
		return nil, errors.NewValidationError("current", nil, "current trip is required")
	}
	if len(current.Waypoints) < 2 {
		return nil, errors.ErrTooFewWaypoints
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if update == nil {
		update = &trip.ExtractedUpdate{}
	}

	ctx = logging.WithLogger(ctx, e.logger)
	res := &Result{Metadata: Metadata{StartTime: start}}

	cur := current.Clone()
	waypoints := cur.Waypoints
	n := len(waypoints)

	// Removal keywords claim waypoints first; a removed waypoint is never a
	// modification candidate.
	removals := e.detectRemovals(update.RemovedLocations, waypoints, res)

	plan := e.match(waypoints, update, removalSet(removals), res)

	// Per-index modification decisions.
	modified := make(map[int]assignment, len(plan.modifications))
	for _, a := range plan.modifications {
		modified[a.index] = a
	}

	// Insertions grouped by output slot, preserving plan order.
	inserts := make(map[int][]assignment)
	for _, a := range plan.insertions {
		inserts[a.insertAt] = append(inserts[a.insertAt], a)
	}

	// Assemble the ordered entry list: for each current index, first any
	// waypoints inserted before it, then its own decision; slot n collects
	// explicit after-dropoff insertions.
	entries := make([]Entry, 0, n+len(plan.insertions))
	for i := 0; i <= n; i++ {
		for _, a := range inserts[i] {
			entries = append(entries, addedEntry(newWaypoint(a.entry), a.reason))
		}
		if i == n {
			break
		}

		if keyword, gone := removals[i]; gone {
			entries = append(entries, removedEntry(waypoints[i].ID, "matched removal keyword "+keyword))
			continue
		}
		if a, ok := modified[i]; ok {
			final, changes := finalWaypoint(&waypoints[i], a.entry)
			if !changes.Any() {
				// The proposal restated what the itinerary already says.
				res.reasonf("update entry for waypoint %d (%q) proposed no effective change; kept unchanged", i, waypoints[i].Name)
				entries = append(entries, unchangedEntry(waypoints[i]))
				continue
			}
			entries = append(entries, modifiedEntry(waypoints[i].ID, final, changes, a.reason))
			continue
		}
		entries = append(entries, unchangedEntry(waypoints[i]))
	}

	e.postProcess(entries, waypoints, res)

	// Refuse to emit a degenerate itinerary.
	remaining := 0
	for _, entry := range entries {
		if entry.Action != ActionRemoved {
			remaining++
		}
	}
	if remaining < 2 {
		return nil, errors.ErrTooFewWaypoints
	}

	// Coordinate consistency over the assembled array. The pass publishes
	// only after every repair settles or is abandoned.
	e.repairPass(ctx, entries, res)

	out := &trip.Trip{
		Date:              cur.Date,
		LeadPassengerName: cur.LeadPassengerName,
		VehicleInfo:       cur.VehicleInfo,
		PassengerCount:    cur.PassengerCount,
		TripDestination:   cur.TripDestination,
		Notes:             cur.Notes,
	}
	applyTripFields(out, update, &res.Fields)

	out.Waypoints = make([]trip.Waypoint, 0, remaining)
	for _, entry := range entries {
		if entry.Action != ActionRemoved {
			out.Waypoints = append(out.Waypoints, *entry.Final)
		}
	}

	res.Trip = out
	res.Entries = entries
	res.Metadata.Duration = time.Since(start)

	e.logger.Info().
		Int("waypoints", len(out.Waypoints)).
		Int("warnings", len(res.Warnings)).
		Int("repairs_applied", res.Metadata.RepairsApplied).
		Dur("duration", res.Metadata.Duration).
		Msg("Reconciliation pass complete")

	return res, nil
}

// postProcess is the final guard against upstream inconsistency: every
// changed=false field must still hold its current value, and every
// changed=true flag must be backed by a genuinely different, non-empty
// value. Violations are corrected, not propagated.
func (e *Engine) postProcess(entries []Entry, current []trip.Waypoint, res *Result) {
	byID := make(map[string]*trip.Waypoint, len(current))
	for i := range current {
		byID[current[i].ID] = &current[i]
	}

	for i := range entries {
		entry := &entries[i]
		if entry.Action != ActionModified {
			continue
		}
		was, ok := byID[entry.CurrentID]
		if !ok {
			continue
		}

		if entry.Changes.Address && entry.Final.FullAddress == "" {
			entry.Final.FullAddress = was.FullAddress
			entry.Final.FormattedAddress = was.FormattedAddress
			entry.Final.Lat, entry.Final.Lng = was.Lat, was.Lng
			entry.Changes.Address = false
			res.warnf("spurious address change on waypoint %q downgraded: no new value supplied", was.Name)
		}
		if entry.Changes.Time && entry.Final.Time == "" {
			entry.Final.Time = was.Time
			entry.Changes.Time = false
			res.warnf("spurious time change on waypoint %q downgraded: no new value supplied", was.Name)
		}
		if entry.Changes.Purpose && entry.Final.Purpose == "" {
			entry.Final.Purpose = was.Purpose
			entry.Changes.Purpose = false
			res.warnf("spurious purpose change on waypoint %q downgraded: no new value supplied", was.Name)
		}

		if !entry.Changes.Address {
			entry.Final.FullAddress = was.FullAddress
			entry.Final.FormattedAddress = was.FormattedAddress
			entry.Final.Lat, entry.Final.Lng = was.Lat, was.Lng
		}
		if !entry.Changes.Time {
			entry.Final.Time = was.Time
		}
		if !entry.Changes.Purpose {
			entry.Final.Purpose = was.Purpose
		}

		// Never emit null island when the itinerary had real coordinates.
		if entry.Final.Lat == 0 && entry.Final.Lng == 0 && was.HasCoordinates() {
			entry.Final.Lat, entry.Final.Lng = was.Lat, was.Lng
		}

		if !entry.Changes.Any() {
			res.reasonf("all proposed changes for waypoint %q were spurious; kept unchanged", was.Name)
			entries[i] = unchangedEntry(*was)
		}
	}
}

// Issue is one coordinate-consistency finding from Check.
type Issue struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Check runs the coordinate-consistency validator over every waypoint of a
// trip without repairing anything.
func (e *Engine) Check(t *trip.Trip) []Issue {
	if t == nil {
		return nil
	}
	var issues []Issue
	for i := range t.Waypoints {
		if chk := e.needsRepair(&t.Waypoints[i]); chk.needed {
			issues = append(issues, Issue{Index: i, Name: t.Waypoints[i].Name, Reason: chk.reason})
		}
	}
	return issues
}

func removalSet(removals map[int]string) map[int]bool {
	set := make(map[int]bool, len(removals))
	for i := range removals {
		set[i] = true
	}
	return set
}
