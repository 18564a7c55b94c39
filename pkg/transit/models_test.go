package transit

import (
	"encoding/json"
	"testing"
)

func TestStation_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   string
		wantName string
		wantDist bool
	}{
		{"plain station", `{"type": "station", "id": "8000049", "name": "Braunschweig Hbf"}`, "8000049", "Braunschweig Hbf", false},
		{"nested location name wins", `{"id": "1", "name": "Outer", "location": {"name": "Inner"}}`, "1", "Inner", false},
		{"nested name only", `{"id": "2", "location": {"name": "Inner"}}`, "2", "Inner", false},
		{"missing name", `{"id": "3"}`, "3", UnknownStationName, false},
		{"null name", `{"id": "3", "name": null}`, "3", UnknownStationName, false},
		{"numeric id", `{"id": 42, "name": "X"}`, "42", "X", false},
		{"malformed id", `{"id": {"foo": 1}, "name": "X"}`, "", "X", false},
		{"missing id", `{"name": "X", "distance": 12.5}`, "", "X", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Station
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.ID != tt.wantID {
				t.Errorf("expected id %q, got %q", tt.wantID, s.ID)
			}
			if s.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, s.Name)
			}
			if (s.Distance != nil) != tt.wantDist {
				t.Errorf("expected distance present=%v, got %v", tt.wantDist, s.Distance)
			}
		})
	}
}

func TestStation_RoundTripKeepsCoordinates(t *testing.T) {
	d := 10.0
	in := Station{Type: "stop", ID: "9", Name: "Nine", Latitude: 52.1, Longitude: 10.2, Distance: &d}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out Station
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out.ID != in.ID || out.Name != in.Name || out.Latitude != in.Latitude || out.Longitude != in.Longitude || *out.Distance != d {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}

func TestLeg_Mode(t *testing.T) {
	if !(Leg{Mode: "walking"}).IsWalking() {
		t.Errorf("expected mode walking to be a walk")
	}
	if !(Leg{Walking: true}).IsWalking() {
		t.Errorf("expected walking flag to be a walk")
	}
	if got := (Leg{Line: &Line{Mode: "train"}}).ModeName(); got != "train" {
		t.Errorf("expected line mode fallback, got %q", got)
	}
}
