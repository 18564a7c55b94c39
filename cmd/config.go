package cmd

import (
	"fmt"

	"github.com/khonager/Trans/pkg/config"
	"github.com/khonager/Trans/pkg/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage trans configuration",
	Long:  "View or edit your local configuration settings (like the home station used as default destination).",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The runtime config carries env and flag overrides; only the file is edited.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if show, _ := cmd.Flags().GetBool("show"); show {
			data, err := yaml.Marshal(appConfig)
			if err != nil {
				return fmt.Errorf("failed to serialize config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		}

		setHome, _ := cmd.Flags().GetString("set-home")
		if setHome != "" {
			fmt.Printf("Searching for station: '%s'...\n", setHome)

			out := appConfig.Gateway().SearchStations(cmd.Context(), setHome, nil)
			if out.Empty() {
				return fmt.Errorf("no matching stations found for '%s'", setHome)
			}

			// Snag the first/best match
			match := out.Value[0]
			cfg.HomeStationID = match.ID
			cfg.HomeStationName = match.Name

			if err := config.Save(cfg); err != nil {
				return err
			}

			fmt.Printf("✅ Home station successfully saved as: %s (ID: %s)\n", match.Name, match.ID)
			return nil
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringP("set-home", "s", "", "Set your home station, used as the default destination")
	configCmd.Flags().Bool("show", false, "Print the effective configuration including environment overrides")
}
