package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chauffeurhq/tripflow/pkg/geo"
	"github.com/chauffeurhq/tripflow/pkg/geocode"
	"github.com/chauffeurhq/tripflow/pkg/logging"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// minAddressLength is the heuristic for a truncated or city-only geocode
// result: anything shorter, or without a comma, never came from a full
// geocoder response.
const minAddressLength = 20

// repairCheck is the validator's verdict for one waypoint.
type repairCheck struct {
	needed   bool
	reason   string
	facility *geo.Facility // set when a named-facility mismatch triggered
}

// needsRepair detects address/geometry drift: null coordinates, truncated
// addresses, airport-class addresses sitting on city-center coordinates, and
// named facilities whose coordinates are too far from the known reference
// point.
func (e *Engine) needsRepair(w *trip.Waypoint) repairCheck {
	point := geo.Point{Lat: w.Lat, Lng: w.Lng}
	if point.IsZero() {
		return repairCheck{needed: true, reason: "missing coordinates"}
	}

	addr := w.Address()
	if len(addr) < minAddressLength || !strings.Contains(addr, ",") {
		return repairCheck{needed: true, reason: "address looks truncated"}
	}

	if e.region == nil {
		return repairCheck{}
	}

	if f := e.region.FacilityFor(addr); f != nil {
		if d := geo.DistanceKm(point, f.Point); d > e.region.Threshold() {
			return repairCheck{
				needed:   true,
				reason:   fmt.Sprintf("address names %s but coordinates are %.1f km away", f.Name, d),
				facility: f,
			}
		}
		return repairCheck{}
	}

	if e.region.HasAirportToken(addr) && e.region.CenterBox.Contains(point) {
		return repairCheck{needed: true, reason: "airport-class address with city-center coordinates"}
	}

	return repairCheck{}
}

// repairQuery builds the disambiguated geocode query. A facility mismatch
// appends the facility's canonical name and locale to pull the geocoder
// toward the right place.
func repairQuery(w *trip.Waypoint, chk repairCheck) string {
	query := w.Address()
	if query == "" {
		query = w.Name
	}
	if chk.facility != nil {
		if !strings.Contains(strings.ToLower(query), strings.ToLower(chk.facility.Name)) {
			query = query + ", " + chk.facility.Name
		}
		if chk.facility.Locale != "" {
			query = query + ", " + chk.facility.Locale
		}
	}
	return query
}

// repairWaypoint re-issues a geocoding lookup and overwrites coordinates and
// formatted address only on a successful, non-empty result. On any failure
// the original waypoint is returned unchanged; coordinates are never nulled.
func (e *Engine) repairWaypoint(ctx context.Context, w trip.Waypoint, chk repairCheck) (trip.Waypoint, bool) {
	req := geocode.Request{Query: repairQuery(&w, chk)}
	if e.region != nil {
		req.RegionBias = e.region.Bias
	}

	place, err := e.geocoder.Lookup(ctx, req)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("query", req.Query).
			Msg("Coordinate repair lookup failed; keeping waypoint as-is")
		return w, false
	}
	if place == nil || (place.Lat == 0 && place.Lng == 0) {
		return w, false
	}

	w.Lat, w.Lng = place.Lat, place.Lng
	if place.FormattedAddress != "" {
		w.FormattedAddress = place.FormattedAddress
	}
	return w, true
}

// repairResult reassembles pool output by original index so completion order
// never affects the final array order.
type repairResult struct {
	index     int
	waypoint  trip.Waypoint
	applied   bool
	abandoned bool
	reason    string
}

// repairPass runs the validator over every modified or added entry and
// dispatches the needed geocoding lookups concurrently, bounded by the
// configured worker limit. Unchanged waypoints are never touched: identity
// preservation outranks coordinate hygiene, and an untouched waypoint's
// coordinates were confirmed by an earlier pass.
func (e *Engine) repairPass(ctx context.Context, entries []Entry, res *Result) {
	type job struct {
		index int
		chk   repairCheck
	}

	var jobs []job
	for i := range entries {
		entry := &entries[i]
		if entry.Action != ActionModified && entry.Action != ActionAdded {
			continue
		}
		if chk := e.needsRepair(entry.Final); chk.needed {
			jobs = append(jobs, job{index: i, chk: chk})
		}
	}
	if len(jobs) == 0 {
		return
	}

	res.Metadata.RepairsAttempted = len(jobs)
	if e.geocoder == nil {
		res.reasonf("%d waypoints need coordinate repair but no geocoder is configured", len(jobs))
		return
	}

	var wg sync.WaitGroup
	resultChan := make(chan repairResult, len(jobs))
	sem := make(chan struct{}, e.repairWorkers)

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				// Pass canceled: abandon the lookup, keep the waypoint.
				resultChan <- repairResult{index: j.index, abandoned: true, reason: j.chk.reason}
				return
			}

			repaired, applied := e.repairWaypoint(ctx, *entries[j.index].Final, j.chk)
			resultChan <- repairResult{index: j.index, waypoint: repaired, applied: applied, reason: j.chk.reason}
		}(j)
	}

	wg.Wait()
	close(resultChan)

	for r := range resultChan {
		if r.abandoned {
			res.reasonf("coordinate repair abandoned for waypoint %q (%s): pass canceled", entries[r.index].Final.Name, r.reason)
			continue
		}
		if !r.applied {
			res.reasonf("coordinate repair skipped for waypoint %q (%s): lookup failed", entries[r.index].Final.Name, r.reason)
			continue
		}
		*entries[r.index].Final = r.waypoint
		res.Metadata.RepairsApplied++
		res.reasonf("repaired coordinates for waypoint %q (%s)", r.waypoint.Name, r.reason)
	}
}
