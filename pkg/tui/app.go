package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/khonager/Trans/pkg/config"
	"github.com/khonager/Trans/pkg/session"
)

const defaultAccent = "99"

var (
	// These act as fallbacks initially, but should ideally be dynamically instantiated by GetTheme()
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	lineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	nearStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// GetTheme builds the UI theme from the saved accent color and updates the
// package styles so plain printed output matches.
func GetTheme(cfg *config.AppConfig) *huh.Theme {
	baseColor := defaultAccent
	if cfg != nil && cfg.AccentColor != "" {
		baseColor = cfg.AccentColor
	}

	// Update the global lipgloss accent so manual CLI print statements also receive the color
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor))

	return GetCustomTheme(baseColor)
}

// GetCustomTheme returns a new huh.Theme instantiated with the provided lipgloss color string.
// This is used for live-previewing styles before they are officially saved.
func GetCustomTheme(baseColor string) *huh.Theme {
	t := huh.ThemeCharm()
	p := lipgloss.Color(baseColor)

	// Inject the dynamic color into the active inputs, cursors, borders, and buttons
	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(p)
	t.Focused.UnselectedPrefix = t.Focused.UnselectedPrefix.Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "235"})
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	// Softer borders for unfocused elements
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}

// RunTUI launches the main menu and keeps returning to it until the user quits.
func RunTUI(ctx context.Context, s *session.Session) error {
	for {
		var action string

		tabsLabel := fmt.Sprintf("🗂️ Open Routes (%d)", s.Tabs.Len())

		menu := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What would you like to do?").
					Options(
						huh.NewOption("🧭 Plan Journey", "plan"),
						huh.NewOption(tabsLabel, "tabs"),
						huh.NewOption("⚙️ Settings", "config"),
						huh.NewOption("Quit", "quit"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme(s.Config))

		if err := menu.Run(); err != nil {
			return err
		}

		var err error
		switch action {
		case "plan":
			err = RunPlanTUI(ctx, s)
		case "tabs":
			err = RunTabsTUI(s)
		case "config":
			err = RunConfigTUI(ctx)
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}
}
