package transit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/khonager/Trans/pkg/location"
)

func newTestClient(serverURL string, opts ...Option) *Client {
	opts = append([]Option{WithBaseURL(serverURL), WithRetryWait(time.Millisecond)}, opts...)
	return NewClient(opts...)
}

func TestClient_FetchJourneys(t *testing.T) {
	// Mock JSON Response representing a typical HAFAS journey payload
	mockJSON := `{
		"journeys": [
			{
				"legs": [
					{
						"origin": {"type": "stop", "id": "123", "name": "Home Station"},
						"destination": {"type": "stop", "id": "789", "name": "Transfer Station"},
						"departure": "2026-02-25T08:00:00+01:00",
						"arrival": "2026-02-25T08:15:00+01:00",
						"walking": true
					},
					{
						"origin": {"name": "Transfer Station"},
						"destination": {"name": "Campus"},
						"departure": null,
						"plannedDeparture": "2026-02-25T08:20:00+01:00",
						"arrival": "2026-02-25T08:45:00+01:00",
						"mode": "bus",
						"line": {"name": "Bus 420", "mode": "bus", "productName": "Bus"}
					}
				]
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/journeys" {
			t.Errorf("expected /journeys, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("from") != "123" {
			t.Errorf("expected 'from' parameter 123, got %s", r.URL.Query().Get("from"))
		}
		if r.URL.Query().Get("to") != "456" {
			t.Errorf("expected 'to' parameter 456, got %s", r.URL.Query().Get("to"))
		}
		if r.URL.Query().Get("results") != "1" {
			t.Errorf("expected 'results' parameter 1, got %s", r.URL.Query().Get("results"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected a User-Agent header")
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	journeys, err := client.FetchJourneys(context.Background(), "123", "456", 1)
	if err != nil {
		t.Fatalf("unexpected error fetching mocked journeys: %v", err)
	}

	if len(journeys) != 1 {
		t.Fatalf("expected 1 journey, got %d", len(journeys))
	}

	journey := journeys[0]
	if len(journey.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(journey.Legs))
	}

	if !journey.Legs[0].IsWalking() || journey.Legs[0].ModeName() != WalkingMode {
		t.Errorf("expected first leg to be a walk, got %+v", journey.Legs[0])
	}

	if journey.Legs[1].Destination.Name != "Campus" {
		t.Errorf("expected final destination 'Campus', got '%s'", journey.Legs[1].Destination.Name)
	}

	if got := journey.Legs[1].DepartureTime().Format("15:04"); got != "08:20" {
		t.Errorf("expected planned departure fallback 08:20, got %s", got)
	}

	if got := journey.ArrivalTime().Format("15:04"); got != "08:45" {
		t.Errorf("expected journey arrival to fall back to last leg, got %s", got)
	}
}

func TestClient_FetchLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "Braunschweig Hbf" {
			t.Errorf("expected query to be passed through, got %q", q.Get("query"))
		}
		if q.Get("results") != "5" {
			t.Errorf("expected results=5, got %s", q.Get("results"))
		}
		if q.Get("latitude") != "52.25" || q.Get("longitude") != "10.54" {
			t.Errorf("expected bias coordinates, got %s,%s", q.Get("latitude"), q.Get("longitude"))
		}

		w.Write([]byte(`[
			{"type": "station", "id": "8000049", "name": "Braunschweig Hbf", "location": {"latitude": 52.2524, "longitude": 10.5403}},
			{"type": "address", "name": "Braunschweig, Hauptbahnhof 1"},
			{"type": "stop", "id": 891097, "name": "Braunschweig Hbf/Bus", "distance": 120},
			{"type": "poi", "id": "991", "name": "Museum"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	bias := &location.Position{Latitude: 52.25, Longitude: 10.54}
	stations, err := client.FetchLocations(context.Background(), "Braunschweig Hbf", 5, bias)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stations) != 2 {
		t.Fatalf("expected addresses and POIs to be filtered, got %d stations", len(stations))
	}

	if stations[0].ID != "8000049" || stations[0].Latitude != 52.2524 {
		t.Errorf("unexpected first station: %+v", stations[0])
	}

	if stations[1].ID != "891097" {
		t.Errorf("expected numeric id to decode as string, got %q", stations[1].ID)
	}
	if stations[1].Distance == nil || *stations[1].Distance != 120 {
		t.Errorf("expected distance 120, got %v", stations[1].Distance)
	}
}

func TestClient_FetchNearby(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stops/nearby" {
			t.Errorf("expected /stops/nearby, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("results") != "3" {
			t.Errorf("expected results=3, got %s", r.URL.Query().Get("results"))
		}

		// Some instances ignore the results parameter
		w.Write([]byte(`[
			{"type": "stop", "id": "1", "name": "A", "distance": 50},
			{"type": "stop", "id": "2", "location": {"name": "B"}, "distance": 80},
			{"type": "stop", "id": "3", "name": "C", "distance": 90},
			{"type": "stop", "id": "4", "name": "D", "distance": 300}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	stops, err := client.FetchNearby(context.Background(), location.Position{Latitude: 1, Longitude: 2}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stops) != 3 {
		t.Fatalf("expected results to be capped at 3, got %d", len(stops))
	}
	if stops[1].Name != "B" {
		t.Errorf("expected nested location name to resolve, got %q", stops[1].Name)
	}
}

func TestClient_GetWithRetries_Success(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			// Simulate 503 Service Unavailable twice
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	body, err := client.getWithRetries(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected robust retry to succeed on 3rd attempt, got error: %v", err)
	}

	if string(body) != `{"success": true}` {
		t.Errorf("unexpected body %q", body)
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestClient_GetWithRetries_Fail(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.getWithRetries(context.Background(), server.URL)
	if err == nil {
		t.Fatalf("expected robust retry to completely fail after 3 attempts, but got nil error")
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestClient_GetWithRetries_NotFoundIsPermanent(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if _, err := client.getWithRetries(context.Background(), server.URL); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected a 404 not to be retried, got %d attempts", attempts)
	}
}

func TestClient_LookupCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[{"type": "station", "id": "1", "name": "Central"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, WithCache(NewMemoryCache(time.Minute)))

	for i := 0; i < 3; i++ {
		stations, err := client.FetchLocations(context.Background(), "Central", 5, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stations) != 1 {
			t.Fatalf("expected 1 station, got %d", len(stations))
		}
	}

	if hits != 1 {
		t.Errorf("expected repeated lookups to be served from cache, got %d requests", hits)
	}

	if _, err := client.FetchJourneys(context.Background(), "1", "2", 1); err == nil {
		// the mock returns an array, which is not a journey response
		t.Errorf("expected journey decoding to fail against a location payload")
	}
	if _, err := client.FetchJourneys(context.Background(), "1", "2", 1); err == nil {
		t.Errorf("expected journey decoding to fail against a location payload")
	}
	if hits != 3 {
		t.Errorf("expected journeys to bypass the cache, got %d requests", hits)
	}
}
