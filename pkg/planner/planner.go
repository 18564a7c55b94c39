// Package planner implements the "find routes" action.
package planner

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/khonager/Trans/pkg/route"
	"github.com/khonager/Trans/pkg/search"
	"github.com/khonager/Trans/pkg/tabs"
	"github.com/khonager/Trans/pkg/transit"
	"github.com/rs/zerolog/log"
)

var (
	ErrIncompleteSelection = errors.New("select both a start and a destination station")
	ErrSameStation         = errors.New("start and destination must differ")
	ErrBusy                = errors.New("a route search is already running")
	ErrNoRoutes            = errors.New("no routes found")
)

// JourneySource is the routing half of the gateway.
type JourneySource interface {
	SearchJourney(ctx context.Context, fromID, toID string) transit.Outcome[*transit.Journey]
}

type Planner struct {
	search    *search.Orchestrator
	journeys  JourneySource
	presenter *route.Presenter
	tabs      *tabs.Manager

	loading atomic.Bool
}

func New(s *search.Orchestrator, journeys JourneySource, presenter *route.Presenter, manager *tabs.Manager) *Planner {
	return &Planner{
		search:    s,
		journeys:  journeys,
		presenter: presenter,
		tabs:      manager,
	}
}

// Loading reports whether FindRoutes is in flight.
func (p *Planner) Loading() bool {
	return p.loading.Load()
}

// FindRoutes requests a journey between the confirmed stations and opens it
// as a new active tab. Any failure of the journey call is ErrNoRoutes.
func (p *Planner) FindRoutes(ctx context.Context) (route.Tab, error) {
	state := p.search.State()
	if state.From == nil || state.To == nil {
		return route.Tab{}, ErrIncompleteSelection
	}
	if !state.Ready() {
		return route.Tab{}, ErrSameStation
	}

	if !p.loading.CompareAndSwap(false, true) {
		return route.Tab{}, ErrBusy
	}
	defer p.loading.Store(false)

	from, to := *state.From, *state.To

	out := p.journeys.SearchJourney(ctx, from.ID, to.ID)
	if out.Empty() {
		log.Debug().Err(out.Err).Str("from", from.ID).Str("to", to.ID).Msg("No journey to present")
		return route.Tab{}, ErrNoRoutes
	}

	tab := p.presenter.Present(*out.Value, from, to)
	p.tabs.Add(tab)

	log.Debug().Str("tab", tab.ID).Str("subtitle", tab.Subtitle).Int("steps", len(tab.Steps)).Msg("Opened route tab")
	return tab, nil
}
