package transit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/khonager/Trans/pkg/location"
)

func TestGateway_SearchStations_ShortQuery(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	gw := NewGateway(newTestClient(server.URL))

	for _, q := range []string{"", "a", "ü"} {
		out := gw.SearchStations(context.Background(), q, nil)
		if !out.Empty() {
			t.Errorf("expected empty outcome for %q", q)
		}
		if !errors.Is(out.Err, ErrQueryTooShort) {
			t.Errorf("expected ErrQueryTooShort for %q, got %v", q, out.Err)
		}
	}

	if hits != 0 {
		t.Errorf("expected no network calls for short queries, got %d", hits)
	}

	gw.SearchStations(context.Background(), "ab", nil)
	if hits != 1 {
		t.Errorf("expected a two character query to reach the network, got %d calls", hits)
	}
}

func TestGateway_FailuresCollapseToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"journeys": [`))
			},
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`"not a list"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			gw := NewGateway(newTestClient(server.URL, WithAttempts(1)))
			ctx := context.Background()

			if out := gw.SearchStations(ctx, "Central", nil); !out.Empty() || out.Err == nil || len(out.Value) != 0 {
				t.Errorf("expected station search to collapse to empty, got %+v", out)
			}
			if out := gw.NearbyStops(ctx, location.Position{Latitude: 1, Longitude: 1}); !out.Empty() || len(out.Value) != 0 {
				t.Errorf("expected nearby lookup to collapse to empty, got %+v", out)
			}
			if out := gw.SearchJourney(ctx, "1", "2"); !out.Empty() || out.Value != nil {
				t.Errorf("expected journey search to collapse to absent, got %+v", out)
			}
		})
	}
}

func TestGateway_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	gw := NewGateway(newTestClient(serverURL, WithAttempts(1)))
	if out := gw.SearchJourney(context.Background(), "1", "2"); !out.Empty() {
		t.Errorf("expected transport failure to collapse to absent")
	}
}

func TestGateway_SearchJourney(t *testing.T) {
	body := `{"journeys": []}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	gw := NewGateway(newTestClient(server.URL))

	out := gw.SearchJourney(context.Background(), "1", "2")
	if !out.Empty() || !errors.Is(out.Err, ErrNoJourney) {
		t.Fatalf("expected zero journeys to be absent, got %+v", out)
	}

	body = `{"journeys": [
		{"legs": [{"mode": "train", "destination": {"name": "Central"}, "departure": "2026-01-01T08:00:00+01:00", "arrival": "2026-01-01T08:30:00+01:00"}], "arrival": "2026-01-01T08:30:00+01:00"},
		{"legs": []}
	]}`

	out = gw.SearchJourney(context.Background(), "1", "2")
	if out.Empty() {
		t.Fatalf("expected a journey, got %v", out.Err)
	}
	if len(out.Value.Legs) != 1 || out.Value.Legs[0].Destination.Name != "Central" {
		t.Errorf("expected the first itinerary, got %+v", out.Value)
	}
}

func TestGateway_BiasFillsDistance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"type": "station", "id": "1", "name": "Near", "location": {"latitude": 52.0, "longitude": 10.001}},
			{"type": "station", "id": "2", "name": "Reported", "distance": 42},
			{"type": "station", "id": "3", "name": "Nowhere"}
		]`))
	}))
	defer server.Close()

	gw := NewGateway(newTestClient(server.URL))

	out := gw.SearchStations(context.Background(), "Near", &location.Position{Latitude: 52.0, Longitude: 10.0})
	if out.Empty() {
		t.Fatalf("unexpected empty outcome: %v", out.Err)
	}

	if d := out.Value[0].Distance; d == nil || *d < 60 || *d > 75 {
		t.Errorf("expected computed distance of ~68m, got %v", d)
	}
	if d := out.Value[1].Distance; d == nil || *d != 42 {
		t.Errorf("expected reported distance to be kept, got %v", d)
	}
	if out.Value[2].Distance != nil {
		t.Errorf("expected no distance without coordinates")
	}

	unbiased := gw.SearchStations(context.Background(), "Near", nil)
	if unbiased.Value[0].Distance != nil {
		t.Errorf("expected no distance on unbiased results")
	}
}
