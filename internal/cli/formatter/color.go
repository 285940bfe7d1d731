package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dvoicu/atelier/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CategoryStyle returns the lipgloss style for a stage category.
func CategoryStyle(cat domain.StageCategory) lipgloss.Style {
	switch cat {
	case domain.CategoryInProgress:
		return StyleBlue
	case domain.CategoryWaiting:
		return StyleYellow
	case domain.CategoryDone:
		return StyleGreen
	default:
		return StyleDim
	}
}

// CategoryPill returns a colored category indicator such as "● IN LUCRU".
func CategoryPill(cat domain.StageCategory) string {
	switch cat {
	case domain.CategoryInProgress:
		return StyleBlue.Render("● IN LUCRU")
	case domain.CategoryWaiting:
		return StyleYellow.Render("● ASTEPTARE")
	case domain.CategoryDone:
		return StyleGreen.Render("● FINALIZAT")
	default:
		return StyleDim.Render("● ALTELE")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
