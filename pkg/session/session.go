// Package session assembles the trip planner from configuration.
package session

import (
	"context"
	"fmt"

	"github.com/khonager/Trans/pkg/config"
	"github.com/khonager/Trans/pkg/location"
	"github.com/khonager/Trans/pkg/planner"
	"github.com/khonager/Trans/pkg/search"
	"github.com/khonager/Trans/pkg/tabs"
	"github.com/khonager/Trans/pkg/transit"
	"github.com/rs/zerolog/log"
)

// Session owns one planner screen: the search fields, the open tabs and
// everything they talk to.
type Session struct {
	Config   *config.AppConfig
	Gateway  *transit.Gateway
	Location *location.Provider
	Search   *search.Orchestrator
	Tabs     *tabs.Manager
	Planner  *planner.Planner
}

// Option customises a Session before it starts.
type Option func(*options)

type options struct {
	platform location.Platform
	onChange func(search.State)
}

// WithPlatform replaces the platform derived from the config.
func WithPlatform(p location.Platform) Option {
	return func(o *options) {
		o.platform = p
	}
}

// WithOnChange registers a listener for search state changes.
func WithOnChange(fn func(search.State)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// New wires a session and starts location negotiation. A location failure is
// logged and leaves the session without a position.
func New(ctx context.Context, cfg *config.AppConfig, opts ...Option) (*Session, error) {
	o := options{platform: cfg.Platform()}
	for _, opt := range opts {
		opt(&o)
	}

	presenter, err := cfg.Presenter()
	if err != nil {
		return nil, fmt.Errorf("could not build presenter: %w", err)
	}

	gateway := cfg.Gateway()

	searchOpts := []search.Option{
		search.WithContext(ctx),
		search.WithDebounce(cfg.Debounce),
	}
	if o.onChange != nil {
		searchOpts = append(searchOpts, search.WithOnChange(o.onChange))
	}
	orchestrator := search.NewOrchestrator(gateway, searchOpts...)

	manager := tabs.NewManager(orchestrator)

	s := &Session{
		Config:   cfg,
		Gateway:  gateway,
		Location: location.NewProvider(o.platform),
		Search:   orchestrator,
		Tabs:     manager,
		Planner:  planner.New(orchestrator, gateway, presenter, manager),
	}

	if _, err := s.Location.Start(ctx, orchestrator.SetPosition); err != nil {
		log.Debug().Err(err).Msg("Continuing without a location")
	}

	return s, nil
}

// Position returns the device position if one was obtained.
func (s *Session) Position() (location.Position, bool) {
	return s.Location.Position()
}

// Close stops pending searches. Results still in flight are dropped.
func (s *Session) Close() {
	s.Search.Close()
}
