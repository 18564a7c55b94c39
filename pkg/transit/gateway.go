package transit

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/khonager/Trans/pkg/location"
	"github.com/rs/zerolog/log"
)

const (
	// MinQueryLength is the shortest query sent to /locations.
	MinQueryLength = 2

	DefaultSearchResults = 5
	DefaultNearbyResults = 3
)

var (
	ErrQueryTooShort = errors.New("query too short")
	ErrNoJourney     = errors.New("no journey found")
)

// Outcome is the result of a best-effort read. Callers treat Empty as the
// only failure signal; Err records which failure was collapsed into it.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Empty reports whether the lookup produced nothing usable.
func (o Outcome[T]) Empty() bool {
	if o.Err != nil {
		return true
	}
	switch v := any(o.Value).(type) {
	case []Station:
		return len(v) == 0
	case *Journey:
		return v == nil
	}
	return false
}

// Gateway wraps the Client with the contract the search UI relies on: every
// transport, status or decoding failure collapses into an empty Outcome.
type Gateway struct {
	client        *Client
	searchResults int
	nearbyResults int
}

// GatewayOption customises a Gateway.
type GatewayOption func(*Gateway)

func WithSearchResults(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.searchResults = n
		}
	}
}

func WithNearbyResults(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.nearbyResults = n
		}
	}
}

func NewGateway(client *Client, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		client:        client,
		searchResults: DefaultSearchResults,
		nearbyResults: DefaultNearbyResults,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SearchStations looks up stations by name. Queries shorter than
// MinQueryLength return an empty outcome without touching the network.
func (g *Gateway) SearchStations(ctx context.Context, query string, bias *location.Position) Outcome[[]Station] {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return Outcome[[]Station]{Err: ErrQueryTooShort}
	}

	stations, err := g.client.FetchLocations(ctx, query, g.searchResults, bias)
	if err != nil {
		log.Debug().Err(err).Str("query", query).Msg("Station search failed")
		return Outcome[[]Station]{Err: err}
	}

	if bias != nil {
		fillDistances(stations, *bias)
	}
	return Outcome[[]Station]{Value: stations}
}

// NearbyStops returns up to the configured number of stops around pos.
func (g *Gateway) NearbyStops(ctx context.Context, pos location.Position) Outcome[[]Station] {
	stops, err := g.client.FetchNearby(ctx, pos, g.nearbyResults)
	if err != nil {
		log.Debug().Err(err).Str("position", pos.String()).Msg("Nearby lookup failed")
		return Outcome[[]Station]{Err: err}
	}

	fillDistances(stops, pos)
	return Outcome[[]Station]{Value: stops}
}

// SearchJourney requests the single best itinerary between two stations.
// Zero itineraries and failures are indistinguishable to the caller.
func (g *Gateway) SearchJourney(ctx context.Context, fromID, toID string) Outcome[*Journey] {
	journeys, err := g.client.FetchJourneys(ctx, fromID, toID, 1)
	if err != nil {
		log.Debug().Err(err).Str("from", fromID).Str("to", toID).Msg("Journey search failed")
		return Outcome[*Journey]{Err: err}
	}

	if len(journeys) == 0 {
		return Outcome[*Journey]{Err: ErrNoJourney}
	}

	best := journeys[0]
	return Outcome[*Journey]{Value: &best}
}

// fillDistances sets a haversine distance on records the API returned
// coordinates for but no distance.
func fillDistances(stations []Station, from location.Position) {
	for i := range stations {
		if stations[i].Distance != nil || !stations[i].HasCoordinates() {
			continue
		}
		d := from.DistanceTo(location.Position{Latitude: stations[i].Latitude, Longitude: stations[i].Longitude})
		stations[i].Distance = &d
	}
}
