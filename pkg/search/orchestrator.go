// Package search drives the from/to station pickers.
//
// An Orchestrator owns the only suggestion list, the field it belongs to and
// the debounce timer for typed queries. User events mutate state immediately;
// lookups complete asynchronously and are applied only while they still match
// the latest event (see apply).
package search

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/khonager/Trans/pkg/location"
	"github.com/khonager/Trans/pkg/transit"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// DefaultDebounce is the idle window after the last keystroke before a
// station search is issued.
const DefaultDebounce = 300 * time.Millisecond

// searchThreshold is the longest query that never reaches the network.
const searchThreshold = 2

var (
	ErrNoActiveField = errors.New("no search field is active")
	ErrClosed        = errors.New("search orchestrator closed")
)

// StationSource is the subset of the gateway the orchestrator needs.
type StationSource interface {
	SearchStations(ctx context.Context, query string, bias *location.Position) transit.Outcome[[]transit.Station]
	NearbyStops(ctx context.Context, pos location.Position) transit.Outcome[[]transit.Station]
}

// Orchestrator is safe for concurrent use. Lookups run on their own
// goroutines; OnChange is called outside the lock after every mutation.
type Orchestrator struct {
	source    StationSource
	scheduler Scheduler
	debounce  time.Duration
	ctx       context.Context
	onChange  func(State)

	mu         sync.Mutex
	state      State
	gen        uint64
	timer      Timer
	pending    func()
	pendingGen uint64
	closed     bool

	lookups conc.WaitGroup
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.debounce = d
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(o *Orchestrator) {
		o.scheduler = s
	}
}

// WithContext sets the context lookups run under.
func WithContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		o.ctx = ctx
	}
}

// WithOnChange registers the presentation callback.
func WithOnChange(fn func(State)) Option {
	return func(o *Orchestrator) {
		o.onChange = fn
	}
}

func NewOrchestrator(source StationSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:    source,
		scheduler: realScheduler{},
		debounce:  DefaultDebounce,
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns a snapshot of the session.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Ready reports whether a route can be requested.
func (o *Orchestrator) Ready() bool {
	return o.State().Ready()
}

// Focus marks field as the one receiving suggestions. Focusing an empty field
// while the device position is known fetches nearby stops right away.
// Focus(FieldNone) blurs the pickers.
func (o *Orchestrator) Focus(field Field) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	if field != o.state.Active {
		o.state.Active = field
		o.state.Suggestions = nil
		o.gen++
		o.stopTimerLocked()
	}

	g := o.gen
	pos, nearby := o.nearbyCandidateLocked(field)
	o.mu.Unlock()

	o.notify()
	if nearby {
		o.fetchNearby(field, g, pos)
	}
}

// ChangeText records new text for field. Queries longer than two characters
// are searched after the debounce window; shorter ones clear the suggestions.
// Clearing the from field with a known position shows nearby stops instead.
func (o *Orchestrator) ChangeText(field Field, text string) {
	if field == FieldNone {
		return
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.state.setText(field, text)
	if st := o.state.Station(field); st != nil && st.Name != text {
		o.state.setStation(field, nil)
	}
	if field != o.state.Active {
		o.state.Active = field
		o.state.Suggestions = nil
	}
	o.gen++
	g := o.gen
	o.stopTimerLocked()

	var pos location.Position
	nearby := false
	switch {
	case field == FieldFrom && text == "" && o.state.Position != nil:
		pos, nearby = *o.state.Position, true
	case utf8.RuneCountInString(text) <= searchThreshold:
		o.state.Suggestions = nil
	default:
		o.armLocked(g, func() { o.search(field, text, g) })
	}
	o.mu.Unlock()

	o.notify()
	if nearby {
		o.fetchNearby(field, g, pos)
	}
}

// Select confirms station for the active field, mirrors its name into the
// field text and clears the suggestions and the active field.
func (o *Orchestrator) Select(station transit.Station) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}

	field := o.state.Active
	if field == FieldNone {
		o.mu.Unlock()
		return ErrNoActiveField
	}

	o.selectLocked(field, station)
	o.mu.Unlock()

	o.notify()
	return nil
}

// Assign confirms station for field without going through suggestions.
func (o *Orchestrator) Assign(field Field, station transit.Station) error {
	if field == FieldNone {
		return ErrNoActiveField
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}

	o.selectLocked(field, station)
	o.mu.Unlock()

	o.notify()
	return nil
}

func (o *Orchestrator) selectLocked(field Field, station transit.Station) {
	o.state.setStation(field, &station)
	o.state.setText(field, station.Name)
	o.state.Suggestions = nil
	o.state.Active = FieldNone
	o.gen++
	o.stopTimerLocked()
}

// SetPosition stores the device position. When the from field is still
// empty and no other field is being edited, it becomes active and nearby
// stops are fetched for it.
func (o *Orchestrator) SetPosition(pos location.Position) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.state.Position = &pos

	trigger := o.state.FromText == "" && (o.state.Active == FieldNone || o.state.Active == FieldFrom)
	var g uint64
	if trigger {
		if o.state.Active != FieldFrom {
			o.state.Active = FieldFrom
			o.state.Suggestions = nil
			o.stopTimerLocked()
		}
		o.gen++
		g = o.gen
	}
	o.mu.Unlock()

	o.notify()
	if trigger {
		o.fetchNearby(FieldFrom, g, pos)
	}
}

// Reset clears both selections, both texts and the suggestions. The known
// position is kept.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.state = State{Position: o.state.Position}
	o.gen++
	o.stopTimerLocked()
	o.mu.Unlock()

	o.notify()
}

// Flush runs a pending debounced search immediately.
func (o *Orchestrator) Flush() {
	o.mu.Lock()
	if o.pending == nil {
		o.mu.Unlock()
		return
	}
	o.timer.Stop()
	g := o.pendingGen
	o.mu.Unlock()

	o.firePending(g)
}

// Wait blocks until every lookup already issued has completed. A debounced
// search that has not fired yet is not waited for; call Flush first.
func (o *Orchestrator) Wait() {
	o.lookups.Wait()
}

// Close stops the debounce timer. Results of lookups still in flight are
// discarded.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.stopTimerLocked()
	o.mu.Unlock()
}

func (o *Orchestrator) nearbyCandidateLocked(field Field) (location.Position, bool) {
	if field == FieldNone || o.state.Position == nil || o.state.Text(field) != "" {
		return location.Position{}, false
	}
	return *o.state.Position, true
}

// armLocked replaces the debounce timer. The previous one is always
// stopped first so at most one is outstanding.
func (o *Orchestrator) armLocked(g uint64, run func()) {
	o.stopTimerLocked()
	o.pending = run
	o.pendingGen = g
	o.timer = o.scheduler.AfterFunc(o.debounce, func() { o.firePending(g) })
}

func (o *Orchestrator) stopTimerLocked() {
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = nil
	o.pending = nil
}

func (o *Orchestrator) firePending(g uint64) {
	o.mu.Lock()
	if o.pending == nil || o.pendingGen != g {
		o.mu.Unlock()
		return
	}
	run := o.pending
	o.pending = nil
	o.timer = nil
	o.mu.Unlock()

	run()
}

func (o *Orchestrator) search(field Field, query string, g uint64) {
	o.mu.Lock()
	if o.closed || o.gen != g {
		o.mu.Unlock()
		return
	}
	var bias *location.Position
	if o.state.Position != nil {
		p := *o.state.Position
		bias = &p
	}
	o.mu.Unlock()

	o.lookups.Go(func() {
		out := o.source.SearchStations(o.ctx, query, bias)
		o.apply(g, field, query, out.Value)
	})
}

func (o *Orchestrator) fetchNearby(field Field, g uint64, pos location.Position) {
	o.lookups.Go(func() {
		out := o.source.NearbyStops(o.ctx, pos)
		o.apply(g, field, "", out.Value)
	})
}

// apply installs a lookup result only if nothing has happened since it was
// issued: same generation, same active field, same text in that field.
func (o *Orchestrator) apply(g uint64, field Field, text string, stations []transit.Station) {
	o.mu.Lock()
	if o.closed || o.gen != g || o.state.Active != field || o.state.Text(field) != text {
		o.mu.Unlock()
		log.Debug().Str("field", field.String()).Str("text", text).Msg("Dropping stale suggestions")
		return
	}
	o.state.Suggestions = slices.Clone(stations)
	o.mu.Unlock()

	o.notify()
}

func (o *Orchestrator) notify() {
	if o.onChange == nil {
		return
	}
	o.onChange(o.State())
}
