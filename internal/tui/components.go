package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/narou/internal/render"
)

// renderHeader returns a styled header with an optional muted subtitle,
// both truncated to width.
func (a *App) renderHeader(title, subtitle string) string {
	title = render.TruncateEnd(title, a.width-2)
	subtitle = render.TruncateEnd(subtitle, a.width-2)
	rows := []string{a.theme.Header.Render(title)}
	if subtitle != "" {
		rows = append(rows, a.renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded border around an already rendered input.
func (a *App) renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := a.theme.Muted
	if focused {
		borderColor = a.theme.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers content in the area above the status bar.
func (a *App) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.contentHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a *App) renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(a.theme.Muted).Render(text)
}

func (a *App) renderHelp(text string) string {
	return a.theme.Help.Render(text)
}
