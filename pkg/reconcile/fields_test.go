package reconcile

import (
	"testing"

	"github.com/chauffeurhq/tripflow/pkg/trip"
)

func TestResolveText(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		proposed    string
		want        string
		wantChanged bool
	}{
		{"empty proposal preserves", "09:00", "", "09:00", false},
		{"identical proposal is no change", "09:00", "09:00", "09:00", false},
		{"fold-equal proposal is no change", "Café Royal", "cafe royal", "Café Royal", false},
		{"different proposal wins", "09:00", "10:30", "10:30", true},
		{"proposal fills an empty field", "", "10:30", "10:30", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := resolveText(tt.current, tt.proposed)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("resolveText(%q, %q) = %q/%v, want %q/%v",
					tt.current, tt.proposed, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestResolveCount(t *testing.T) {
	three := 3
	zero := 0
	if v, changed := resolveCount(2, nil); v != 2 || changed {
		t.Errorf("nil proposal: got %d/%v", v, changed)
	}
	if v, changed := resolveCount(2, &zero); v != 2 || changed {
		t.Errorf("zero proposal: got %d/%v", v, changed)
	}
	if v, changed := resolveCount(2, &three); v != 3 || !changed {
		t.Errorf("real proposal: got %d/%v", v, changed)
	}
}

func TestFinalWaypointPreservesUnmentionedFields(t *testing.T) {
	current := trip.Waypoint{
		ID:               "wp-1",
		Name:             "Breakfast, The Wolseley",
		FullAddress:      "The Wolseley, 160 Piccadilly, London W1J 9EB, UK",
		FormattedAddress: "160 Piccadilly, St. James's, London W1J 9EB, UK",
		Lat:              51.5074,
		Lng:              -0.1419,
		Time:             "09:30",
		Purpose:          "Breakfast",
		FlightNumber:     "BA123",
	}

	final, changes := finalWaypoint(&current, &trip.UpdateLocation{Time: "10:15"})
	if !changes.Time || changes.Address || changes.Purpose {
		t.Fatalf("changes = %+v, want time only", changes)
	}
	if final.ID != "wp-1" || final.FullAddress != current.FullAddress ||
		final.Lat != current.Lat || final.Purpose != "Breakfast" || final.FlightNumber != "BA123" {
		t.Errorf("unmentioned fields not preserved: %+v", final)
	}
	if final.Name != current.Name {
		t.Errorf("name = %q, must not be rebuilt on a time-only change", final.Name)
	}
}

func TestFinalWaypointAddressChangeKeepsCoordinatesUntilRepair(t *testing.T) {
	current := trip.Waypoint{
		ID:          "wp-1",
		FullAddress: "1 Canada Square, Canary Wharf, London E14 5AB, UK",
		Lat:         51.5054,
		Lng:         -0.0235,
	}

	// Proposal re-states the address but has no coordinates of its own.
	final, changes := finalWaypoint(&current, &trip.UpdateLocation{
		FullAddress: "Heathrow Airport, Longford TW6, UK",
	})
	if !changes.Address {
		t.Fatal("address must be reported as changed")
	}
	if final.Lat != current.Lat || final.Lng != current.Lng {
		t.Errorf("coordinates = %.4f,%.4f; must keep current until repair re-geocodes", final.Lat, final.Lng)
	}

	// With coordinates supplied, the proposal's win.
	final, _ = finalWaypoint(&current, &trip.UpdateLocation{
		FullAddress: "Heathrow Airport, Longford TW6, UK",
		Lat:         51.4700,
		Lng:         -0.4543,
	})
	if final.Lat != 51.4700 || final.Lng != -0.4543 {
		t.Errorf("coordinates = %.4f,%.4f, want the proposal's", final.Lat, final.Lng)
	}
}

func TestFinalWaypointRebuildsNameOnlyWhenAddressAndPurposeChange(t *testing.T) {
	current := trip.Waypoint{
		ID:          "wp-1",
		Name:        "Meeting, Canary Wharf",
		FullAddress: "1 Canada Square, Canary Wharf, London E14 5AB, UK",
		Lat:         51.5054,
		Lng:         -0.0235,
		Purpose:     "Meeting",
	}

	final, changes := finalWaypoint(&current, &trip.UpdateLocation{
		FullAddress: "The Shard, 32 London Bridge St, London SE1 9SG, UK",
		Purpose:     "Dinner",
	})
	if !changes.Address || !changes.Purpose {
		t.Fatalf("changes = %+v, want address and purpose", changes)
	}
	if final.Name != "Dinner, The Shard, 32 London Bridge St, London SE1 9SG, UK" {
		t.Errorf("name = %q", final.Name)
	}

	// Purpose-only change keeps the confirmed name.
	final, _ = finalWaypoint(&current, &trip.UpdateLocation{Purpose: "Dinner"})
	if final.Name != "Meeting, Canary Wharf" {
		t.Errorf("name = %q, must stand on a purpose-only change", final.Name)
	}
}

func TestNewWaypoint(t *testing.T) {
	w := newWaypoint(&trip.UpdateLocation{
		Location:    "Harrods",
		FullAddress: "Harrods, 87-135 Brompton Road, London SW1X 7XL, UK",
		Purpose:     "Shopping",
		Time:        "15:00",
	})
	if w.ID == "" {
		t.Error("added waypoint must get a fresh id")
	}
	if w.Name != "Shopping, Harrods, 87-135 Brompton Road, London SW1X 7XL, UK" {
		t.Errorf("name = %q", w.Name)
	}
	if w.Time != "15:00" {
		t.Errorf("time = %q", w.Time)
	}

	// Free text only: the location doubles as name and address.
	w = newWaypoint(&trip.UpdateLocation{Location: "Harrods"})
	if w.Name != "Harrods" || w.FullAddress != "Harrods" {
		t.Errorf("name/address = %q/%q", w.Name, w.FullAddress)
	}

	two := newWaypoint(&trip.UpdateLocation{Location: "Harrods"})
	if two.ID == w.ID {
		t.Error("each added waypoint must get its own id")
	}
}

func TestMergeNotes(t *testing.T) {
	notes := trip.Notes("Flight BA123\nCall on arrival")

	merged, changed := mergeNotes("Call on arrival", &notes)
	if !changed {
		t.Fatal("new line must report a change")
	}
	if merged != "Call on arrival\nFlight BA123" {
		t.Errorf("merged = %q; existing lines must come first, duplicates dropped", merged)
	}

	// Duplicate detection folds case and accents.
	dup := trip.Notes("CALL ON ARRIVAL")
	if merged, changed := mergeNotes("Call on arrival", &dup); changed || merged != "Call on arrival" {
		t.Errorf("folded duplicate: got %q/%v", merged, changed)
	}

	if merged, changed := mergeNotes("Call on arrival", nil); changed || merged != "Call on arrival" {
		t.Errorf("nil notes: got %q/%v", merged, changed)
	}

	empty := trip.Notes("")
	if merged, changed := mergeNotes("Call on arrival", &empty); changed || merged != "Call on arrival" {
		t.Errorf("empty notes: got %q/%v", merged, changed)
	}
}
