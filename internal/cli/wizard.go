package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dvoicu/atelier/internal/cli/formatter"
)

func atelierHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// timestampInput returns a huh.Input for an optional timestamp field.
func timestampInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2025-06-02 09:00").
		Value(value).
		Validate(validateOptionalTimestamp)
}

func validateOptionalTimestamp(value string) error {
	if value == "" {
		return nil
	}
	_, err := parseTimestamp(value)
	return err
}

// runSessionEditForm collects the session correction interactively. Blank
// fields mean "leave unchanged".
func runSessionEditForm() (started, finished, note string, err error) {
	form := huh.NewForm(
		huh.NewGroup(
			timestampInput("Started (blank to keep)", &started),
			timestampInput("Finished (blank to keep)", &finished),
			huh.NewInput().Title("Note (blank to keep)").Value(&note),
		),
	).WithTheme(atelierHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return "", "", "", err
	}
	return started, finished, note, nil
}
