package reconcile

import (
	"github.com/chauffeurhq/tripflow/internal/textfold"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// findAnchor resolves an anchor keyword against current waypoint name,
// purpose and address using the same fuzzy containment rule as the matcher.
// Returns -1 when no waypoint matches.
func findAnchor(keyword string, current []trip.Waypoint) int {
	for i := range current {
		for _, text := range current[i].SearchText() {
			if text != "" && textfold.ContainsEither(text, keyword) {
				return i
			}
		}
	}
	return -1
}

// planInsertion resolves an anchored update entry to a concrete output
// position. insertAt is in current-index space: the new waypoint lands
// immediately before the current waypoint at that index (insertAt == len
// appends after the dropoff, which only an explicit "after dropoff" anchor
// can produce). An unresolvable anchor falls back to the slot before the
// dropoff; insertion never fails and never drops the new waypoint.
func (e *Engine) planInsertion(entry *trip.UpdateLocation, current []trip.Waypoint, res *Result) assignment {
	n := len(current)
	a := assignment{entry: entry, index: -1, insertion: true}

	anchor, direction := entry.InsertAfter, "after"
	if anchor == "" {
		anchor, direction = entry.InsertBefore, "before"
	}

	k := findAnchor(anchor, current)
	if k < 0 {
		a.insertAt = n - 1
		a.reason = "anchor not found; appended before dropoff"
		res.reasonf("insertion anchor %q matched no waypoint; appending %q before the dropoff", anchor, entryLabel(entry))
		return a
	}

	if direction == "after" {
		a.insertAt = k + 1
	} else {
		a.insertAt = k
	}
	a.reason = "inserted " + direction + " " + anchor
	res.reasonf("inserting %q %s waypoint %d (%q)", entryLabel(entry), direction, k, current[k].Name)
	return a
}
