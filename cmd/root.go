package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/khonager/Trans/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// appConfig is the runtime configuration: the config file, .env and flags.
var appConfig *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "trans",
	Short: "A CLI and TUI trip planner for German public transport",
	Long: `trans searches stations, finds nearby stops and plans journeys
against the public transport.rest HAFAS API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRuntime()
		if err != nil {
			return err
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}

		lat, _ := cmd.Flags().GetString("lat")
		lng, _ := cmd.Flags().GetString("lng")
		if lat != "" || lng != "" {
			pos, err := config.ParsePosition(lat, lng)
			if err != nil {
				return err
			}
			cfg.SetPosition(pos)
		}

		setupLogging(cfg)
		appConfig = cfg
		return nil
	},
}

func setupLogging(cfg *config.AppConfig) {
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("lat", "", "Latitude of your current location")
	rootCmd.PersistentFlags().String("lng", "", "Longitude of your current location")
}
