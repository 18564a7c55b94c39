// Package route turns a raw journey into the steps shown in a route tab.
package route

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khonager/Trans/pkg/transit"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StepKind distinguishes walking from riding.
type StepKind string

const (
	KindWalk      StepKind = "walk"
	KindTransport StepKind = "transport"
)

// Step is one leg of a planned trip as displayed to the user. Alert, Seating
// and ChatCount are synthesized locally and never come from the API; the zero
// value means absent.
type Step struct {
	Kind          StepKind `json:"kind"`
	Line          string   `json:"line"`
	Instruction   string   `json:"instruction"`
	Duration      string   `json:"duration"`
	DepartureTime string   `json:"departureTime"`
	Alert         string   `json:"alert,omitempty"`
	Seating       string   `json:"seating,omitempty"`
	ChatCount     int      `json:"chatCount,omitempty"`
}

// Tab is one completed journey result.
type Tab struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	ETA       string    `json:"eta"`
	Steps     []Step    `json:"steps"`
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`
}

// Presenter builds tabs from journeys.
type Presenter struct {
	annotator Annotator
	loc       *time.Location
	newID     func() string
}

// PresenterOption customises a Presenter.
type PresenterOption func(*Presenter)

// WithAnnotator replaces the default random annotator.
func WithAnnotator(a Annotator) PresenterOption {
	return func(p *Presenter) {
		if a != nil {
			p.annotator = a
		}
	}
}

// WithLocation renders clock times in loc instead of each timestamp's own offset.
func WithLocation(loc *time.Location) PresenterOption {
	return func(p *Presenter) {
		p.loc = loc
	}
}

// WithIDGenerator overrides how tab ids are generated.
func WithIDGenerator(fn func() string) PresenterOption {
	return func(p *Presenter) {
		if fn != nil {
			p.newID = fn
		}
	}
}

func NewPresenter(opts ...PresenterOption) *Presenter {
	p := &Presenter{
		annotator: NewRandomAnnotator(DefaultAnnotationOdds(), nil),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Steps converts every leg of journey into a display step, in order.
func (p *Presenter) Steps(journey transit.Journey) []Step {
	steps := make([]Step, 0, len(journey.Legs))
	upper := cases.Upper(language.Und)

	for _, leg := range journey.Legs {
		dep := leg.DepartureTime()
		arr := leg.ArrivalTime()
		dest := leg.Destination.Name

		step := Step{
			Duration:      formatDuration(dep, arr),
			DepartureTime: p.clock(dep),
		}

		if leg.Line != nil && leg.Line.Name != "" {
			step.Line = leg.Line.Name
		} else {
			step.Line = upper.String(leg.ModeName())
		}

		if leg.IsWalking() {
			step.Kind = KindWalk
			step.Instruction = fmt.Sprintf("Walk to %s", dest)
		} else {
			step.Kind = KindTransport
			step.Instruction = fmt.Sprintf("%s to %s", step.Line, dest)

			a := p.annotator.Annotate(leg)
			step.Alert = a.Alert
			step.Seating = a.Seating
			step.ChatCount = a.ChatCount
		}

		steps = append(steps, step)
	}

	return steps
}

// Present builds a new tab for a journey between two confirmed stations.
func (p *Presenter) Present(journey transit.Journey, from, to transit.Station) Tab {
	arrival := journey.ArrivalTime()

	return Tab{
		ID:        p.newID(),
		Title:     to.Name,
		Subtitle:  fmt.Sprintf("%s → %s", from.Name, to.Name),
		ETA:       p.clock(arrival),
		Steps:     p.Steps(journey),
		Departure: journey.DepartureTime(),
		Arrival:   arrival,
	}
}

func (p *Presenter) clock(t time.Time) string {
	if p.loc != nil {
		t = t.In(p.loc)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// formatDuration truncates the difference to whole minutes.
func formatDuration(dep, arr time.Time) string {
	if dep.IsZero() || arr.IsZero() {
		return "0 min"
	}
	return fmt.Sprintf("%d min", int(arr.Sub(dep).Minutes()))
}
