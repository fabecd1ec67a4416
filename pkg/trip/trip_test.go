package trip

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestWaypointHasCoordinates(t *testing.T) {
	if (&Waypoint{}).HasCoordinates() {
		t.Error("(0,0) must count as missing coordinates")
	}
	if !(&Waypoint{Lat: 51.5, Lng: -0.12}).HasCoordinates() {
		t.Error("real coordinates must count")
	}
	if !(&Waypoint{Lat: 0, Lng: -0.12}).HasCoordinates() {
		t.Error("a single zero axis is still a real position")
	}
}

func TestWaypointAddressPrefersFormatted(t *testing.T) {
	w := Waypoint{FullAddress: "raw", FormattedAddress: "formatted"}
	if w.Address() != "formatted" {
		t.Errorf("Address() = %q, want formatted", w.Address())
	}
	w.FormattedAddress = ""
	if w.Address() != "raw" {
		t.Errorf("Address() = %q, want raw", w.Address())
	}
}

func TestTripEndpoints(t *testing.T) {
	empty := &Trip{}
	if empty.Pickup() != nil || empty.Dropoff() != nil {
		t.Error("empty trip has no endpoints")
	}

	tr := &Trip{Waypoints: []Waypoint{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	if tr.Pickup().ID != "a" || tr.Dropoff().ID != "c" {
		t.Errorf("endpoints = %s/%s", tr.Pickup().ID, tr.Dropoff().ID)
	}
}

func TestTripClone(t *testing.T) {
	tr := &Trip{
		Date:      "2026-09-14",
		Notes:     "Call on arrival",
		Waypoints: []Waypoint{{ID: "a", Name: "Pickup"}},
	}
	clone := tr.Clone()
	if !reflect.DeepEqual(clone, tr) {
		t.Fatal("clone must be deep-equal")
	}

	clone.Waypoints[0].Name = "changed"
	if tr.Waypoints[0].Name != "Pickup" {
		t.Error("mutating the clone leaked into the original")
	}

	var nilTrip *Trip
	if nilTrip.Clone() != nil {
		t.Error("Clone of nil must be nil")
	}
}

func TestNoteLines(t *testing.T) {
	tr := &Trip{Notes: "  Call on arrival  \n\nFlight BA123\n"}
	want := []string{"Call on arrival", "Flight BA123"}
	if got := tr.NoteLines(); !reflect.DeepEqual(got, want) {
		t.Errorf("NoteLines = %v, want %v", got, want)
	}
}

func TestNewWaypointID(t *testing.T) {
	a, b := NewWaypointID(), NewWaypointID()
	if a == "" || a == b {
		t.Errorf("ids must be unique and non-empty: %q, %q", a, b)
	}
}

func TestTripJSONRoundTrip(t *testing.T) {
	tr := &Trip{
		Date: "2026-09-14",
		Waypoints: []Waypoint{{
			ID:          "wp-1",
			Name:        "Pickup, The Savoy",
			FullAddress: "The Savoy, Strand, London WC2R 0EZ, UK",
			Lat:         51.5101,
			Lng:         -0.1206,
			Time:        "09:00",
		}},
	}

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Trip
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(&got, tr) {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", &got, tr)
	}
}
