package route

import (
	"math/rand/v2"
	"sync"

	"github.com/khonager/Trans/pkg/transit"
)

const (
	delayAlert   = "Smart Alt: Delay ahead."
	seatingFront = "Front"
	seatingBack  = "Back"
)

// Annotations are cosmetic hints attached to a transit step.
type Annotations struct {
	Alert     string
	Seating   string
	ChatCount int
}

// Annotator supplies annotations for non-walking legs.
type Annotator interface {
	Annotate(leg transit.Leg) Annotations
}

// AnnotationOdds configures the random annotator.
type AnnotationOdds struct {
	AlertChance   float64
	SeatingChance float64
	MaxChatCount  int
}

func DefaultAnnotationOdds() AnnotationOdds {
	return AnnotationOdds{
		AlertChance:   0.3,
		SeatingChance: 0.4,
		MaxChatCount:  15,
	}
}

// RandomAnnotator simulates alerts, seating hints and chat activity. Each
// field is drawn independently.
type RandomAnnotator struct {
	odds AnnotationOdds

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAnnotator uses rng when given, otherwise a randomly seeded source.
func NewRandomAnnotator(odds AnnotationOdds, rng *rand.Rand) *RandomAnnotator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomAnnotator{odds: odds, rng: rng}
}

func (r *RandomAnnotator) Annotate(leg transit.Leg) Annotations {
	r.mu.Lock()
	defer r.mu.Unlock()

	var a Annotations
	if r.rng.Float64() < r.odds.AlertChance {
		a.Alert = delayAlert
	}
	if r.rng.Float64() < r.odds.SeatingChance {
		if r.rng.IntN(2) == 0 {
			a.Seating = seatingFront
		} else {
			a.Seating = seatingBack
		}
	}
	if r.odds.MaxChatCount > 0 {
		a.ChatCount = r.rng.IntN(r.odds.MaxChatCount) + 1
	}
	return a
}

// NoAnnotations leaves every step bare.
type NoAnnotations struct{}

func (NoAnnotations) Annotate(transit.Leg) Annotations {
	return Annotations{}
}
