package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chauffeurhq/tripflow/pkg/errors"
)

func TestClientLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode" {
			t.Errorf("path = %s, want /geocode", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "Heathrow Airport, London, UK" {
			t.Errorf("query = %q", q.Get("query"))
		}
		if q.Get("region") != "uk" {
			t.Errorf("region = %q, want uk", q.Get("region"))
		}
		if q.Get("key") != "test-key" {
			t.Errorf("key = %q, want test-key", q.Get("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"verified": true,
			"formattedAddress": "Heathrow Airport (LHR), Longford TW6, UK",
			"lat": 51.4700,
			"lng": -0.4543,
			"placeId": "place-123"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithAPIKey("test-key"))
	place, err := client.Lookup(context.Background(), Request{
		Query:      "Heathrow Airport, London, UK",
		RegionBias: "uk",
	})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if place.Lat != 51.4700 || place.Lng != -0.4543 {
		t.Errorf("coordinates = %.4f,%.4f", place.Lat, place.Lng)
	}
	if place.FormattedAddress != "Heathrow Airport (LHR), Longford TW6, UK" {
		t.Errorf("formatted address = %q", place.FormattedAddress)
	}
	if place.PlaceID != "place-123" {
		t.Errorf("place id = %q", place.PlaceID)
	}
}

func TestClientLookupNotVerified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"verified": false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Lookup(context.Background(), Request{Query: "nowhere"})
	if !errors.IsNotVerified(err) {
		t.Errorf("err = %v, want ErrNotVerified", err)
	}
}

func TestClientLookupOmittedVerifiedFlagDefaultsTrue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"formattedAddress": "Somewhere, UK", "lat": 51.5, "lng": -0.1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	place, err := client.Lookup(context.Background(), Request{Query: "somewhere"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if place.Lat != 51.5 {
		t.Errorf("lat = %f", place.Lat)
	}
}

func TestClientLookupEmptyResultIsNotVerified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Lookup(context.Background(), Request{Query: "x"}); !errors.IsNotVerified(err) {
		t.Errorf("err = %v, want ErrNotVerified", err)
	}
}

func TestClientLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Lookup(context.Background(), Request{Query: "x"})

	var geocodeErr *errors.GeocodeError
	if !errors.As(err, &geocodeErr) {
		t.Fatalf("err = %v, want GeocodeError", err)
	}
	if geocodeErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", geocodeErr.StatusCode)
	}
}

func TestClientLookupEmptyQuery(t *testing.T) {
	client := NewClient("http://unused")
	if _, err := client.Lookup(context.Background(), Request{}); !errors.IsValidationError(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestFake(t *testing.T) {
	fake := NewFake(map[string]Place{
		"heathrow": {FormattedAddress: "Heathrow Airport, UK", Lat: 51.47, Lng: -0.4543},
	})

	place, err := fake.Lookup(context.Background(), Request{Query: "Heathrow Airport, London"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if place.Lat != 51.47 {
		t.Errorf("lat = %f", place.Lat)
	}

	if _, err := fake.Lookup(context.Background(), Request{Query: "nowhere"}); !errors.IsNotVerified(err) {
		t.Errorf("miss: err = %v, want ErrNotVerified", err)
	}

	if calls := fake.Calls(); len(calls) != 2 {
		t.Errorf("calls = %d, want 2", len(calls))
	}

	fake.Fail(errors.New("down"))
	if _, err := fake.Lookup(context.Background(), Request{Query: "Heathrow"}); err == nil {
		t.Error("configured failure must surface")
	}
}
