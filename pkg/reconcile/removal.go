package reconcile

import (
	"github.com/chauffeurhq/tripflow/internal/textfold"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// detectRemovals matches removal keywords against current waypoint names,
// purposes and addresses, case-insensitively and substring-based in either
// direction. The returned map gives the matched keyword per removed index.
//
// Removing a protected endpoint requires the same keyword gate as modifying
// it: "hotel" may never take out the pickup just because the pickup is at a
// hotel; "pickup" or "drop off" in the keyword may.
func (e *Engine) detectRemovals(keywords []string, current []trip.Waypoint, res *Result) map[int]string {
	removed := make(map[int]string)
	n := len(current)

	for _, keyword := range keywords {
		if textfold.Fold(keyword) == "" {
			continue
		}
		matched := false
		for i := range current {
			if _, done := removed[i]; done {
				continue
			}
			if !waypointMatchesKeyword(&current[i], keyword) {
				continue
			}
			if isEndpoint(i, n) && !allowsEndpoint(i, n, keyword) {
				res.reasonf("removal keyword %q matched protected waypoint %d (%q) without an endpoint keyword; kept", keyword, i, current[i].Name)
				matched = true
				continue
			}
			removed[i] = keyword
			matched = true
			res.reasonf("removing waypoint %d (%q): matched removal keyword %q", i, current[i].Name, keyword)
			break
		}
		if !matched {
			res.warnf("removal keyword %q matched no waypoint", keyword)
		}
	}

	return removed
}

func waypointMatchesKeyword(w *trip.Waypoint, keyword string) bool {
	for _, text := range w.SearchText() {
		if text != "" && textfold.ContainsEither(text, keyword) {
			return true
		}
	}
	return false
}
