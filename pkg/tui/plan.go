package tui

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/khonager/Trans/pkg/planner"
	"github.com/khonager/Trans/pkg/search"
	"github.com/khonager/Trans/pkg/session"
)

const (
	choiceSearch = -1
	choiceHome   = -2
	choiceBack   = -3
)

var errCancelled = errors.New("cancelled")

// RunPlanTUI walks through picking both stations and then finds a route.
func RunPlanTUI(ctx context.Context, s *session.Session) error {
	for _, field := range []search.Field{search.FieldFrom, search.FieldTo} {
		if err := pickStation(s, field); err != nil {
			if errors.Is(err, errCancelled) {
				return nil
			}
			return err
		}
	}

	var tabErr error
	_ = spinner.New().
		Title("Finding routes...").
		Action(func() {
			_, tabErr = s.Planner.FindRoutes(ctx)
		}).
		Run()

	if tabErr != nil {
		if errors.Is(tabErr, planner.ErrNoRoutes) {
			fmt.Println(errorStyle.Render("No routes found."))
			return nil
		}
		fmt.Println(errorStyle.Render(tabErr.Error()))
		return nil
	}

	if tab, ok := s.Tabs.Active(); ok {
		fmt.Println()
		fmt.Println(RenderTab(tab))
		fmt.Println()
	}
	return nil
}

// pickStation focuses field and loops between typing a query and choosing a
// suggestion until a station is selected for it.
func pickStation(s *session.Session, field search.Field) error {
	s.Search.Focus(field)
	waitForLookups(s, "Looking for stops nearby...")

	for {
		state := s.Search.State()
		if state.Station(field) != nil && state.Active == search.FieldNone {
			return nil
		}

		choice, err := chooseSuggestion(s, field, state)
		if err != nil {
			return err
		}

		switch choice {
		case choiceBack:
			return errCancelled
		case choiceHome:
			home, _ := s.Config.HomeStation()
			return s.Search.Assign(field, home)
		case choiceSearch:
			if err := typeQuery(s, field, state); err != nil {
				return err
			}
		default:
			return s.Search.Select(state.Suggestions[choice])
		}
	}
}

func chooseSuggestion(s *session.Session, field search.Field, state search.State) (int, error) {
	options := make([]huh.Option[int], 0, len(state.Suggestions)+3)
	for i, st := range state.Suggestions {
		options = append(options, huh.NewOption(StationLabel(st), i))
	}
	options = append(options, huh.NewOption("🔎 Search by name", choiceSearch))
	if home, ok := s.Config.HomeStation(); ok && field == search.FieldTo {
		options = append(options, huh.NewOption("🏠 "+home.Name, choiceHome))
	}
	options = append(options, huh.NewOption("Back", choiceBack))

	title := fmt.Sprintf("%s: pick a station", fieldLabel(field))
	if text := state.Text(field); text != "" {
		title = fmt.Sprintf("%s: results for '%s'", fieldLabel(field), text)
	}

	choice := choiceSearch
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(options...).
				Value(&choice),
		),
	).WithTheme(GetTheme(s.Config))

	if err := form.Run(); err != nil {
		return 0, err
	}
	return choice, nil
}

func typeQuery(s *session.Session, field search.Field, state search.State) error {
	input := state.Text(field)

	placeholder := "Station or City..."
	if _, ok := s.Position(); ok && field == search.FieldFrom {
		placeholder = "Current Location"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fieldLabel(field)).
				Placeholder(placeholder).
				Value(&input),
		),
	).WithTheme(GetTheme(s.Config))

	if err := form.Run(); err != nil {
		return err
	}

	s.Search.Focus(field)
	s.Search.ChangeText(field, input)
	s.Search.Flush()
	waitForLookups(s, fmt.Sprintf("Searching for '%s'...", input))

	if input != "" && utf8.RuneCountInString(input) <= 2 {
		fmt.Println(mutedStyle.Render("Type at least three characters to search."))
	} else if input != "" && len(s.Search.State().Suggestions) == 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("No stations found for '%s'.", input)))
	}
	return nil
}

func waitForLookups(s *session.Session, title string) {
	_ = spinner.New().
		Title(title).
		Action(s.Search.Wait).
		Run()
}

func fieldLabel(field search.Field) string {
	if field == search.FieldFrom {
		return "From"
	}
	return "To"
}
