package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/narou/internal/config"
)

// Theme holds the styles used for terminal output, derived from the
// [ui.colors] config section.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color

	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Help    lipgloss.Style
	Failure lipgloss.Style
	Card    lipgloss.Style
}

func NewTheme(c config.UIColors) Theme {
	t := Theme{
		Primary:   lipgloss.Color(c.Primary),
		Secondary: lipgloss.Color(c.Secondary),
		Accent:    lipgloss.Color(c.Accent),
		Muted:     lipgloss.Color(c.Muted),
		Error:     lipgloss.Color(c.Error),
	}

	t.Title = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.Header = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)

	t.Label = lipgloss.NewStyle().
		Foreground(t.Muted).
		Width(14)

	t.Value = lipgloss.NewStyle().
		Foreground(t.Accent)

	t.Help = lipgloss.NewStyle().
		Foreground(t.Muted).
		Italic(true)

	t.Failure = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 2)

	return t
}

// DefaultTheme uses the built-in palette.
func DefaultTheme() Theme {
	return NewTheme(config.Default().UI.Colors)
}
