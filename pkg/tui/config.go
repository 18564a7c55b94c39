package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/khonager/Trans/pkg/config"
	"github.com/khonager/Trans/pkg/transit"
)

// RunConfigTUI launches the interactive experience for managing configurations.
// Changes are written to disk and take effect on the next start.
func RunConfigTUI(ctx context.Context) error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Set Home Station", "home"),
						huh.NewOption("Set Location", "location"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme(cfg))

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfg)
		case "home":
			err = runSetHomeTUI(ctx, cfg)
		case "location":
			err = runSetLocationTUI(cfg)
		case "view":
			printConfig(cfg)
		}

		if err != nil {
			return err
		}
	}
}

func printConfig(cfg *config.AppConfig) {
	fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.trans.yaml) ---"))
	if home, ok := cfg.HomeStation(); ok {
		fmt.Printf("Home Station: %s (ID: %s)\n", home.Name, home.ID)
	} else {
		fmt.Println("Home Station: Not set")
	}

	if cfg.Location.Enabled && cfg.Location.Latitude != nil {
		fmt.Printf("Location: %.5f,%.5f\n", *cfg.Location.Latitude, *cfg.Location.Longitude)
	} else {
		fmt.Println("Location: Off")
	}

	fmt.Printf("API: %s\n", cfg.BaseURL)
	fmt.Printf("Cache: %s\n", cfg.Cache.Backend)
	fmt.Printf("Debounce: %s\n", cfg.Debounce)
	fmt.Printf("Accent Color: %s\n", cfg.AccentColor)
	fmt.Println()
}

func runSetHomeTUI(ctx context.Context, cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your home station").
				Description("This will be saved to your local config and used as the default destination.").
				Placeholder("e.g. Braunschweig Hbf").
				Value(&input),
		),
	).WithTheme(GetTheme(cfg))

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "" {
		fmt.Println("Operation cancelled: No station provided.")
		return nil
	}

	gateway := cfg.Gateway()
	var out transit.Outcome[[]transit.Station]

	_ = spinner.New().
		Title(fmt.Sprintf("Searching transit network for '%s'...", input)).
		Action(func() {
			out = gateway.SearchStations(ctx, input, nil)
		}).
		Run()

	if out.Empty() {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ No matching stations found for '%s'", input)))
		return nil
	}

	options := make([]huh.Option[int], 0, len(out.Value))
	for i, st := range out.Value {
		options = append(options, huh.NewOption(st.Name, i))
	}

	var choice int
	pickForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which station is home?").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(GetTheme(cfg))

	if err := pickForm.Run(); err != nil {
		return err
	}

	match := out.Value[choice]
	cfg.HomeStationID = match.ID
	cfg.HomeStationName = match.Name

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Successfully saved home station: %s (ID: %s)\n", match.Name, match.ID)))
	return nil
}

func runSetLocationTUI(cfg *config.AppConfig) error {
	var lat, lng string
	if cfg.Location.Latitude != nil {
		lat = fmt.Sprintf("%g", *cfg.Location.Latitude)
		lng = fmt.Sprintf("%g", *cfg.Location.Longitude)
	}
	enabled := cfg.Location.Enabled

	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use a fixed location for nearby stops?").
				Value(&enabled),
		),
	).WithTheme(GetTheme(cfg))

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if enabled {
		coordsForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Latitude").
					Placeholder("52.2523").
					Value(&lat),
				huh.NewInput().
					Title("Longitude").
					Placeholder("10.5394").
					Value(&lng),
			),
		).WithTheme(GetTheme(cfg))

		if err := coordsForm.Run(); err != nil {
			return err
		}
	}

	if !enabled {
		cfg.Location.Enabled = false
	} else {
		pos, err := config.ParsePosition(strings.TrimSpace(lat), strings.TrimSpace(lng))
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			return nil
		}
		cfg.SetPosition(pos)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Location settings saved.\n"))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Indigo", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s Sakura Pink", colorBlock("205")), "205"),
					huh.NewOption(fmt.Sprintf("%s Ocean Blue", colorBlock("86")), "86"),
					huh.NewOption(fmt.Sprintf("%s Signal Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme(cfg))

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(func(str string) error {
						if len(str) != 7 || !strings.HasPrefix(str, "#") {
							return fmt.Errorf("must be a valid 6-character hex code starting with #")
						}
						return nil
					}),
			),
		).WithTheme(GetCustomTheme(defaultAccent))

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Beautiful! The theme color is now saved.\n"))
	return nil
}
