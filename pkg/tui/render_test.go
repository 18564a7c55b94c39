package tui

import (
	"strings"
	"testing"

	"github.com/khonager/Trans/pkg/route"
	"github.com/khonager/Trans/pkg/transit"
)

func TestFormatDistance(t *testing.T) {
	tests := map[float64]string{
		0:      "0m",
		120.9:  "120m",
		1500.2: "1500m",
	}
	for in, want := range tests {
		if got := FormatDistance(in); got != want {
			t.Errorf("FormatDistance(%v): expected %s, got %s", in, want, got)
		}
	}
}

func TestRenderStations(t *testing.T) {
	d := 87.6
	out := RenderStations([]transit.Station{
		{ID: "1", Name: "Central"},
		{ID: "2", Name: "Corner", Distance: &d},
	})

	if !strings.Contains(out, "Central") || !strings.Contains(out, "87m") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(RenderStations(nil), "Central") {
		t.Errorf("expected an empty notice")
	}
}

func TestRenderTab(t *testing.T) {
	out := RenderTab(route.Tab{
		Title:    "Central",
		Subtitle: "Harbour → Central",
		ETA:      "08:30",
		Steps: []route.Step{
			{Kind: route.KindWalk, Line: "WALKING", Instruction: "Walk to Central", Duration: "12 min", DepartureTime: "08:00"},
			{Kind: route.KindTransport, Line: "U1", Instruction: "U1 to Central", Duration: "15 min", DepartureTime: "08:15", Alert: "Smart Alt: Delay ahead.", Seating: "Front", ChatCount: 4},
		},
	})

	for _, want := range []string{"Harbour → Central", "ETA 08:30", "Walk to Central", "U1 to Central", "Delay ahead", "Front", "💬 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
