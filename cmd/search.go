package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/khonager/Trans/pkg/search"
	"github.com/khonager/Trans/pkg/session"
	"github.com/khonager/Trans/pkg/transit"
	"github.com/khonager/Trans/pkg/tui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stations by name",
	Long:  "Looks up stations matching the query. With a location set, results near you are ranked first and show their distance.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		s, err := session.New(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer s.Close()

		suggestions, err := suggest(s, search.FieldTo, query)
		if err != nil {
			return err
		}

		fmt.Printf("\n--- 🔎 Stations matching '%s' ---\n", query)
		fmt.Println(tui.RenderStations(suggestions))
		return nil
	},
}

// suggest types query into field and returns the suggestions once the
// debounced search has finished.
func suggest(s *session.Session, field search.Field, query string) ([]transit.Station, error) {
	if len([]rune(query)) <= 2 {
		return nil, fmt.Errorf("query '%s' is too short, type at least three characters", query)
	}

	s.Search.Focus(field)
	s.Search.ChangeText(field, query)

	_ = spinner.New().
		Title(fmt.Sprintf("Searching for '%s'...", query)).
		Action(func() {
			s.Search.Flush()
			s.Search.Wait()
		}).
		Run()

	return s.Search.State().Suggestions, nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
