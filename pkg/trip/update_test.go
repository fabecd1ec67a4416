package trip

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNotesUnmarshalString(t *testing.T) {
	var n Notes
	if err := json.Unmarshal([]byte(`"Call on arrival"`), &n); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if n.String() != "Call on arrival" {
		t.Errorf("notes = %q", n)
	}
}

func TestNotesUnmarshalList(t *testing.T) {
	var n Notes
	if err := json.Unmarshal([]byte(`["Flight BA123", "Call on arrival"]`), &n); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if n.String() != "Flight BA123\nCall on arrival" {
		t.Errorf("notes = %q, want newline-joined list", n)
	}
	if got := n.Lines(); !reflect.DeepEqual(got, []string{"Flight BA123", "Call on arrival"}) {
		t.Errorf("lines = %v", got)
	}
}

func TestNotesUnmarshalNull(t *testing.T) {
	n := Notes("stale")
	if err := json.Unmarshal([]byte(`null`), &n); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if n != "" {
		t.Errorf("notes = %q, want empty", n)
	}
}

func TestNotesMarshal(t *testing.T) {
	data, err := json.Marshal(Notes("a\nb"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"a\nb"` {
		t.Errorf("marshaled = %s, want the single-string form", data)
	}
}

func TestExtractedUpdateDecodeTolerance(t *testing.T) {
	// Extractor output with nulls, a notes list, and absent keys.
	payload := `{
		"date": null,
		"passengerCount": 3,
		"driverNotes": ["Flight BA123"],
		"locations": [
			{"location": "Harrods", "insertAfter": "Wolseley"}
		],
		"removedLocations": ["hotel"]
	}`

	var update ExtractedUpdate
	if err := json.Unmarshal([]byte(payload), &update); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if update.Date != nil {
		t.Error("null date must decode as not-mentioned")
	}
	if update.PassengerCount == nil || *update.PassengerCount != 3 {
		t.Error("passengerCount must decode")
	}
	if update.DriverNotes == nil || update.DriverNotes.String() != "Flight BA123" {
		t.Errorf("driverNotes = %v", update.DriverNotes)
	}
	if len(update.Locations) != 1 || !update.Locations[0].IsInsertion() {
		t.Errorf("locations = %+v", update.Locations)
	}
	if !reflect.DeepEqual(update.RemovedLocations, []string{"hotel"}) {
		t.Errorf("removedLocations = %v", update.RemovedLocations)
	}
}

func TestExtractedUpdateIsEmpty(t *testing.T) {
	var nilUpdate *ExtractedUpdate
	if !nilUpdate.IsEmpty() {
		t.Error("nil update is empty")
	}
	if !(&ExtractedUpdate{}).IsEmpty() {
		t.Error("zero update is empty")
	}

	date := "2026-09-14"
	if (&ExtractedUpdate{Date: &date}).IsEmpty() {
		t.Error("a mentioned field makes the update non-empty")
	}
	if (&ExtractedUpdate{RemovedLocations: []string{"hotel"}}).IsEmpty() {
		t.Error("removal keywords make the update non-empty")
	}
}

func TestUpdateLocationIsInsertion(t *testing.T) {
	if (&UpdateLocation{Location: "Harrods"}).IsInsertion() {
		t.Error("plain entry is not an insertion")
	}
	if !(&UpdateLocation{InsertAfter: "Wolseley"}).IsInsertion() {
		t.Error("insertAfter makes an insertion")
	}
	if !(&UpdateLocation{InsertBefore: "dropoff"}).IsInsertion() {
		t.Error("insertBefore makes an insertion")
	}
}
