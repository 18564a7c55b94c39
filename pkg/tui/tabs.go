package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/khonager/Trans/pkg/exporter"
	"github.com/khonager/Trans/pkg/route"
	"github.com/khonager/Trans/pkg/session"
)

// RunTabsTUI lists the open route tabs and acts on the chosen one.
func RunTabsTUI(s *session.Session) error {
	for {
		open := s.Tabs.Tabs()
		if len(open) == 0 {
			fmt.Println(mutedStyle.Render("No open routes. Plan a journey first."))
			return nil
		}

		options := make([]huh.Option[string], 0, len(open)+1)
		for _, tab := range open {
			label := fmt.Sprintf("%s  %s", tab.Subtitle, mutedStyle.Render("ETA "+tab.ETA))
			if tab.ID == s.Tabs.ActiveID() {
				label = "● " + label
			}
			options = append(options, huh.NewOption(label, tab.ID))
		}
		options = append(options, huh.NewOption("Back to Main Menu", ""))

		id := s.Tabs.ActiveID()
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Open Routes").
					Options(options...).
					Value(&id),
			),
		).WithTheme(GetTheme(s.Config))

		if err := form.Run(); err != nil {
			return err
		}

		if id == "" {
			s.Tabs.DeselectAll()
			return nil
		}

		if err := s.Tabs.Select(id); err != nil {
			return err
		}

		tab, _ := s.Tabs.Active()
		if err := runTabActions(s, tab); err != nil {
			return err
		}
	}
}

func runTabActions(s *session.Session, tab route.Tab) error {
	fmt.Println()
	fmt.Println(RenderTab(tab))
	fmt.Println()

	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(tab.Title).
				Options(
					huh.NewOption("📅 Export to Calendar (.ics)", "export"),
					huh.NewOption("✖ Close Route", "close"),
					huh.NewOption("Back", "back"),
				).
				Value(&action),
		),
	).WithTheme(GetTheme(s.Config))

	if err := form.Run(); err != nil {
		return err
	}

	switch action {
	case "export":
		return exportTab(tab)
	case "close":
		return s.Tabs.Close(tab.ID)
	}
	return nil
}

func exportTab(tab route.Tab) error {
	filename := fmt.Sprintf("route_%s.ics", tab.ID)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create ics file: %w", err)
	}
	defer f.Close()

	if err := exporter.GenerateICS(tab, f); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Export failed: %v", err)))
		return nil
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✨ Successfully exported route to: %s\n", filename)))
	return nil
}
