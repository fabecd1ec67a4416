package reconcile

import (
	"github.com/chauffeurhq/tripflow/internal/textfold"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// Match confidence ranks. Anything below rankContains is too weak to mark a
// waypoint modified; the conservative bias prefers a missed edit (recoverable
// next pass) over a false one (corrupts a confirmed itinerary).
const (
	rankNone     = 0
	rankTokens   = 1 // half or more of the entry's tokens occur in the waypoint text
	rankContains = 2 // substring containment in either direction
	rankExact    = 3 // fold-equal
)

// assignment routes one update entry.
type assignment struct {
	entry *trip.UpdateLocation

	// index of the matched current waypoint; -1 when the entry is an
	// insertion or an append
	index int

	// insertAt is the resolved output position for insertions
	insertAt  int
	insertion bool

	reason string
}

// matchPlan is the Location Matcher's output: every update entry routed to
// an existing index, an insertion slot, or dropped with a warning.
type matchPlan struct {
	modifications []assignment
	insertions    []assignment
}

// rankMatch scores an update entry against one waypoint.
func rankMatch(entry *trip.UpdateLocation, w *trip.Waypoint) int {
	best := rankNone
	for _, et := range entry.SearchText() {
		if et == "" {
			continue
		}
		for _, wt := range w.SearchText() {
			if wt == "" {
				continue
			}
			switch {
			case textfold.Equal(et, wt):
				return rankExact
			case textfold.ContainsEither(et, wt):
				if best < rankContains {
					best = rankContains
				}
			default:
				toks := textfold.Tokens(et)
				if len(toks) > 0 && textfold.TokenOverlap(wt, et)*2 >= len(toks) {
					if best < rankTokens {
						best = rankTokens
					}
				}
			}
		}
	}
	return best
}

// bestMatch finds the strongest candidate waypoint for an update entry,
// skipping indexes already claimed by removals or earlier entries. A tie at
// the best rank between two distinct waypoints is reported as ambiguous.
func bestMatch(entry *trip.UpdateLocation, waypoints []trip.Waypoint, skip map[int]bool) (idx, rank int, ambiguous bool) {
	idx = -1
	for i := range waypoints {
		if skip[i] {
			continue
		}
		r := rankMatch(entry, &waypoints[i])
		switch {
		case r > rank:
			idx, rank, ambiguous = i, r, false
		case r == rank && r > rankNone && i != idx:
			ambiguous = true
		}
	}
	return idx, rank, ambiguous
}

// match builds the plan for all update entries against the current
// waypoints. taken contains indexes the Removal Detector already claimed;
// removals take precedence over modification matches.
func (e *Engine) match(current []trip.Waypoint, update *trip.ExtractedUpdate, taken map[int]bool, res *Result) matchPlan {
	var plan matchPlan
	n := len(current)

	claimed := make(map[int]bool, len(taken))
	for i := range taken {
		claimed[i] = true
	}

	for i := range update.Locations {
		entry := &update.Locations[i]
		label := entryLabel(entry)

		// Anchored entries are always insertions, never replacements.
		if entry.IsInsertion() {
			plan.insertions = append(plan.insertions, e.planInsertion(entry, current, res))
			continue
		}

		// Endpoint-class keywords route straight to their semantic slot.
		switch classifyEndpoint(entry.SearchText()...) {
		case slotPickup:
			if !claimed[0] {
				claimed[0] = true
				plan.modifications = append(plan.modifications, assignment{
					entry: entry, index: 0,
					reason: "pickup-class keyword targets the pickup slot",
				})
				continue
			}
		case slotDropoff:
			if !claimed[n-1] {
				claimed[n-1] = true
				plan.modifications = append(plan.modifications, assignment{
					entry: entry, index: n - 1,
					reason: "dropoff-class keyword targets the dropoff slot",
				})
				continue
			}
		}

		idx, rank, ambiguous := bestMatch(entry, current, claimed)

		if rank >= rankContains && ambiguous {
			res.reasonf("update entry %q matches multiple waypoints equally; leaving all unchanged", label)
			continue
		}

		if rank >= rankContains {
			// Endpoint protection: without the keyword class, the match is
			// downgraded and the endpoint stays unchanged. Intentional
			// policy, not an error.
			if isEndpoint(idx, n) && !allowsEndpoint(idx, n, entry.SearchText()...) {
				res.reasonf("update entry %q matched protected waypoint %d but carries no endpoint keyword; kept unchanged", label, idx)
				continue
			}
			claimed[idx] = true
			plan.modifications = append(plan.modifications, assignment{entry: entry, index: idx})
			continue
		}

		// No confident match. Entries carrying real content become
		// appended additions; empty references are dropped with a warning.
		// Either way the decision is recorded, never silent.
		if entryHasContent(entry) {
			res.reasonf("update entry %q matched no waypoint; appending before dropoff", label)
			plan.insertions = append(plan.insertions, assignment{
				entry: entry, index: -1, insertAt: n - 1, insertion: true,
				reason: "no matching waypoint; appended",
			})
			continue
		}
		res.warnf("update entry %q matched no waypoint and carries no address; ignored", label)
	}

	return plan
}

// entryLabel is the text used to talk about an entry in reasoning notes.
func entryLabel(entry *trip.UpdateLocation) string {
	for _, t := range []string{entry.Location, entry.Purpose, entry.FullAddress, entry.FormattedAddress} {
		if t != "" {
			return t
		}
	}
	return "(unnamed)"
}

// entryHasContent reports whether the entry could stand alone as a waypoint.
func entryHasContent(entry *trip.UpdateLocation) bool {
	return entry.Location != "" || entry.FullAddress != "" ||
		entry.FormattedAddress != "" || entry.HasCoordinates()
}
