package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/khonager/Trans/pkg/exporter"
	"github.com/khonager/Trans/pkg/route"
	"github.com/khonager/Trans/pkg/search"
	"github.com/khonager/Trans/pkg/session"
	"github.com/khonager/Trans/pkg/transit"
	"github.com/khonager/Trans/pkg/tui"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Plan a journey between two stations",
	Long: `Resolves --from and --to to their best matching stations and plans the next journey.
Without --from the nearest stop to your location is used; without --to your saved home station.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fromQuery, _ := cmd.Flags().GetString("from")
		toQuery, _ := cmd.Flags().GetString("to")
		exportPath, _ := cmd.Flags().GetString("export")
		raw, _ := cmd.Flags().GetBool("raw")

		s, err := session.New(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer s.Close()

		from, err := resolveFrom(s, fromQuery)
		if err != nil {
			return err
		}
		to, err := resolveTo(s, toQuery)
		if err != nil {
			return err
		}

		if err := s.Search.Assign(search.FieldFrom, from); err != nil {
			return err
		}
		if err := s.Search.Assign(search.FieldTo, to); err != nil {
			return err
		}

		var tab route.Tab
		var findErr error

		_ = spinner.New().
			Title(fmt.Sprintf("Routing trip from %s to %s...", from.Name, to.Name)).
			Action(func() {
				tab, findErr = s.Planner.FindRoutes(cmd.Context())
			}).
			Run()

		if findErr != nil {
			return findErr
		}

		if raw {
			pretty.Println(tab)
			return nil
		}

		fmt.Println()
		fmt.Println(tui.RenderTab(tab))

		if exportPath != "" {
			if err := writeICS(tab, exportPath); err != nil {
				return err
			}
			fmt.Printf("\n✨ Successfully exported route to: %s\n", exportPath)
		}
		return nil
	},
}

func resolveFrom(s *session.Session, query string) (transit.Station, error) {
	if query != "" {
		return firstMatch(s, search.FieldFrom, query)
	}

	if _, ok := s.Position(); !ok {
		return transit.Station{}, errors.New("--from is required when no location is configured")
	}

	// A known position already triggered a nearby lookup for the from field.
	s.Search.Wait()
	suggestions := s.Search.State().Suggestions
	if len(suggestions) == 0 {
		return transit.Station{}, errors.New("no stops found near your location")
	}
	return suggestions[0], nil
}

func resolveTo(s *session.Session, query string) (transit.Station, error) {
	if query != "" {
		return firstMatch(s, search.FieldTo, query)
	}

	home, ok := s.Config.HomeStation()
	if !ok {
		return transit.Station{}, errors.New("--to is required when no home station is configured. Run 'trans config --set-home \"Your Station\"' first")
	}
	return home, nil
}

func firstMatch(s *session.Session, field search.Field, query string) (transit.Station, error) {
	suggestions, err := suggest(s, field, query)
	if err != nil {
		return transit.Station{}, err
	}
	if len(suggestions) == 0 {
		return transit.Station{}, fmt.Errorf("no matching stations found for '%s'", query)
	}
	return suggestions[0], nil
}

func writeICS(tab route.Tab, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create ics file: %w", err)
	}
	defer f.Close()

	return exporter.GenerateICS(tab, f)
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().StringP("from", "f", "", "Start station (defaults to the nearest stop)")
	routeCmd.Flags().StringP("to", "t", "", "Destination station (defaults to your home station)")
	routeCmd.Flags().StringP("export", "e", "", "Write the route to an .ics calendar file")
	routeCmd.Flags().Bool("raw", false, "Dump the route tab structure instead of rendering it")
}
