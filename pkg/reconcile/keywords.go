package reconcile

import (
	"strings"

	"github.com/chauffeurhq/tripflow/internal/textfold"
)

// Endpoint keyword classes. The first and last waypoints may only be
// modified or removed when the update text carries a keyword of the matching
// class. Arrival-class keywords always resolve to the pickup slot and
// departure-class keywords to the dropoff slot, however the sentence is
// phrased.
var (
	pickupKeywords = []string{
		"pickup", "pick up", "pick-up",
		"arrival", "arrive", "arriving", "arrived",
		"landing", "land",
	}

	dropoffKeywords = []string{
		"drop off", "dropoff", "drop-off",
		"destination",
		"departure", "depart", "departing", "departed",
		"leaving", "leave",
	}
)

// endpointSlot identifies which protected waypoint an update entry targets.
type endpointSlot int

const (
	slotNone endpointSlot = iota
	slotPickup
	slotDropoff
)

// containsKeyword reports whether text carries the keyword on token
// boundaries. Single-word keywords must equal a whole folded token, so
// "depart" never fires inside "department store" and "land" never fires
// inside "Holland Park"; multi-word keywords match as a phrase over the
// space-joined tokens, which also folds "pick-up" and "pick up" together.
func containsKeyword(text, keyword string) bool {
	kw := textfold.Tokens(keyword)
	toks := textfold.Tokens(text)
	if len(kw) == 0 || len(toks) == 0 {
		return false
	}
	if len(kw) == 1 {
		for _, tok := range toks {
			if tok == kw[0] {
				return true
			}
		}
		return false
	}
	joined := " " + strings.Join(toks, " ") + " "
	return strings.Contains(joined, " "+strings.Join(kw, " ")+" ")
}

// classifyEndpoint scans the given texts for endpoint-class keywords.
// Pickup-class wins when both appear, matching the convention that a
// combined sentence leads with the pickup change.
func classifyEndpoint(texts ...string) endpointSlot {
	for _, text := range texts {
		for _, kw := range pickupKeywords {
			if containsKeyword(text, kw) {
				return slotPickup
			}
		}
	}
	for _, text := range texts {
		for _, kw := range dropoffKeywords {
			if containsKeyword(text, kw) {
				return slotDropoff
			}
		}
	}
	return slotNone
}

// allowsEndpoint reports whether texts carry the keyword class required to
// touch the waypoint at index idx in a trip of n waypoints. Non-endpoint
// indexes are always allowed.
func allowsEndpoint(idx, n int, texts ...string) bool {
	slot := classifyEndpoint(texts...)
	if idx == 0 {
		return slot == slotPickup
	}
	if idx == n-1 {
		return slot == slotDropoff
	}
	return true
}

// isEndpoint reports whether idx is a protected endpoint in a trip of n.
func isEndpoint(idx, n int) bool {
	return idx == 0 || idx == n-1
}
