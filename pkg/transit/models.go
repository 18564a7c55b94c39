package transit

import (
	"encoding/json"
	"strconv"
	"time"
)

// UnknownStationName is used when a location record carries no usable name.
const UnknownStationName = "Unknown Station"

// WalkingMode is the HAFAS mode string of a walking leg.
const WalkingMode = "walking"

// Station is a named transit location returned by /locations or /stops/nearby.
type Station struct {
	Type      string   `json:"type,omitempty"`
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude,omitempty"`
	Longitude float64  `json:"longitude,omitempty"`
	Distance  *float64 `json:"distance,omitempty"` // meters, only on location-biased or nearby results
}

// HasCoordinates reports whether the record carried a usable coordinate.
func (s Station) HasCoordinates() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// rawStation mirrors the shapes the API uses for location records. The
// coordinates sit either at the top level or inside a nested "location".
type rawStation struct {
	Type      string          `json:"type"`
	ID        json.RawMessage `json:"id"`
	Name      *string         `json:"name"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Distance  *float64        `json:"distance"`
	Location  *struct {
		Name      *string `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// UnmarshalJSON resolves a station from any of the record shapes the API
// returns. Malformed ids decode to "" rather than failing the whole list.
func (s *Station) UnmarshalJSON(data []byte) error {
	var raw rawStation
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Station{
		Type:      raw.Type,
		ID:        decodeID(raw.ID),
		Name:      UnknownStationName,
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		Distance:  raw.Distance,
	}

	if raw.Name != nil && *raw.Name != "" {
		s.Name = *raw.Name
	}

	if raw.Location != nil {
		if raw.Location.Name != nil && *raw.Location.Name != "" {
			s.Name = *raw.Location.Name
		}
		if raw.Location.Latitude != 0 || raw.Location.Longitude != 0 {
			s.Latitude = raw.Location.Latitude
			s.Longitude = raw.Location.Longitude
		}
	}

	return nil
}

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if _, err := strconv.ParseFloat(num.String(), 64); err == nil {
			return num.String()
		}
	}

	return ""
}

// Line holds the information about the specific bus/train
type Line struct {
	Name    string `json:"name"`
	Mode    string `json:"mode,omitempty"`
	Product string `json:"productName,omitempty"` // e.g. "Bus", "RB"
}

// JourneyResponse represents the full route from A to B returned by /journeys
type JourneyResponse struct {
	Journeys []Journey `json:"journeys"`
}

// Journey represents a start-to-finish trip, potentially with transfers
type Journey struct {
	Legs    []Leg      `json:"legs"`
	Arrival *time.Time `json:"arrival,omitempty"`
}

// ArrivalTime is the journey's overall arrival, falling back to the last leg.
func (j Journey) ArrivalTime() time.Time {
	if j.Arrival != nil && !j.Arrival.IsZero() {
		return *j.Arrival
	}
	if len(j.Legs) == 0 {
		return time.Time{}
	}
	return j.Legs[len(j.Legs)-1].ArrivalTime()
}

// DepartureTime is the first leg's departure.
func (j Journey) DepartureTime() time.Time {
	if len(j.Legs) == 0 {
		return time.Time{}
	}
	return j.Legs[0].DepartureTime()
}

// Leg is a single continuous part of a journey (e.g., walking, or one bus ride)
type Leg struct {
	Mode             string     `json:"mode,omitempty"`
	Walking          bool       `json:"walking,omitempty"`
	Origin           Station    `json:"origin"`
	Destination      Station    `json:"destination"`
	Departure        *time.Time `json:"departure"`
	Arrival          *time.Time `json:"arrival"`
	PlannedDeparture *time.Time `json:"plannedDeparture,omitempty"`
	PlannedArrival   *time.Time `json:"plannedArrival,omitempty"`
	Line             *Line      `json:"line,omitempty"`
}

// IsWalking reports whether the leg is on foot.
func (l Leg) IsWalking() bool {
	return l.Walking || l.Mode == WalkingMode
}

// ModeName returns the leg's mode, falling back to the line's mode.
func (l Leg) ModeName() string {
	if l.Mode != "" {
		return l.Mode
	}
	if l.IsWalking() {
		return WalkingMode
	}
	if l.Line != nil {
		return l.Line.Mode
	}
	return ""
}

// DepartureTime prefers the realtime departure over the planned one.
func (l Leg) DepartureTime() time.Time {
	return firstTime(l.Departure, l.PlannedDeparture)
}

// ArrivalTime prefers the realtime arrival over the planned one.
func (l Leg) ArrivalTime() time.Time {
	return firstTime(l.Arrival, l.PlannedArrival)
}

func firstTime(candidates ...*time.Time) time.Time {
	for _, t := range candidates {
		if t != nil && !t.IsZero() {
			return *t
		}
	}
	return time.Time{}
}
