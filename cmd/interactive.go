package cmd

import (
	"github.com/khonager/Trans/pkg/session"
	"github.com/khonager/Trans/pkg/tui"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to search stations, plan journeys and manage open routes interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := session.New(ctx, appConfig)
		if err != nil {
			return err
		}
		defer s.Close()

		return tui.RunTUI(ctx, s)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
