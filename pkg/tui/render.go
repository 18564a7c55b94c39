package tui

import (
	"fmt"
	"strings"

	"github.com/khonager/Trans/pkg/route"
	"github.com/khonager/Trans/pkg/transit"
)

// FormatDistance renders a distance in whole meters, truncated.
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%dm", int(meters))
}

// StationLabel is how a suggestion appears in lists. Stations that carry a
// distance are marked as nearby.
func StationLabel(st transit.Station) string {
	if st.Distance == nil {
		return st.Name
	}
	return fmt.Sprintf("%s %s %s", nearStyle.Render("➤"), st.Name, mutedStyle.Render(FormatDistance(*st.Distance)))
}

// RenderStations lists suggestions one per line.
func RenderStations(stations []transit.Station) string {
	if len(stations) == 0 {
		return errorStyle.Render("No matching stations found.")
	}

	var b strings.Builder
	for i, st := range stations {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, StationLabel(st), mutedStyle.Render("("+st.ID+")"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderTab draws a route tab with its steps and annotations.
func RenderTab(tab route.Tab) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", accentStyle.Bold(true).Render(fmt.Sprintf("--- 🧭 %s ---", tab.Title)))
	fmt.Fprintf(&b, "%s  %s\n\n", mutedStyle.Render(tab.Subtitle), mutedStyle.Render("ETA "+tab.ETA))

	for i, step := range tab.Steps {
		icon := "🚆"
		if step.Kind == route.KindWalk {
			icon = "🚶"
		}

		fmt.Fprintf(&b, "%d. [%s] %s %s %s\n",
			i+1,
			timeStyle.Render(step.DepartureTime),
			icon,
			step.Instruction,
			mutedStyle.Render("("+step.Duration+")"),
		)
		fmt.Fprintf(&b, "   %s", lineStyle.Render(step.Line))

		if step.Seating != "" {
			fmt.Fprintf(&b, "  💺 %s", step.Seating)
		}
		if step.ChatCount > 0 {
			fmt.Fprintf(&b, "  💬 %d", step.ChatCount)
		}
		b.WriteString("\n")

		if step.Alert != "" {
			fmt.Fprintf(&b, "   %s\n", errorStyle.Render("⚠ "+step.Alert))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
