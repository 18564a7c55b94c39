package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/khonager/Trans/pkg/location"
	"github.com/khonager/Trans/pkg/transit"
	"github.com/khonager/Trans/pkg/tui"
	"github.com/spf13/cobra"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Show the stops closest to your location",
	Long:  "Lists the nearest stops to the location given with --lat/--lng or stored in the config.",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := location.NewProvider(appConfig.Platform())
		pos, err := provider.Start(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("%w. Pass --lat and --lng or run 'trans config' first", err)
		}

		var out transit.Outcome[[]transit.Station]

		_ = spinner.New().
			Title("Looking for stops nearby...").
			Action(func() {
				out = appConfig.Gateway().NearbyStops(cmd.Context(), pos)
			}).
			Run()

		fmt.Printf("\n--- 📍 Stops near %s ---\n", pos)
		fmt.Println(tui.RenderStations(out.Value))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nearbyCmd)
}
