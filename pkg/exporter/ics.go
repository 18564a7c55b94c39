package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/khonager/Trans/pkg/route"
)

// GenerateICS writes a calendar with a single event spanning the trip in tab.
// Each step becomes one line of the event description.
func GenerateICS(tab route.Tab, w io.Writer) error {
	if tab.Departure.IsZero() || tab.Arrival.IsZero() {
		return fmt.Errorf("tab %q has no departure or arrival time", tab.ID)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Trans//Route Export//EN")

	now := time.Now()

	event := cal.AddEvent(fmt.Sprintf("%s@trans", tab.ID))
	event.SetCreatedTime(now)
	event.SetDtStampTime(now)
	event.SetModifiedAt(now)
	event.SetStartAt(tab.Departure)
	event.SetEndAt(tab.Arrival)
	event.SetSummary(tab.Subtitle)
	event.SetLocation(firstStop(tab))
	event.SetDescription(describe(tab.Steps))

	return cal.SerializeTo(w)
}

func describe(steps []route.Step) string {
	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		line := fmt.Sprintf("%s %s (%s)", s.DepartureTime, s.Instruction, s.Duration)
		if s.Alert != "" {
			line += " - " + s.Alert
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// firstStop is the origin half of the "A → B" subtitle.
func firstStop(tab route.Tab) string {
	from, _, ok := strings.Cut(tab.Subtitle, " → ")
	if !ok {
		return ""
	}
	return from
}
