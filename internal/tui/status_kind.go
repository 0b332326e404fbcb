package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/narou/internal/render"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func (k StatusKind) style(t render.Theme) lipgloss.Style {
	switch k {
	case StatusSuccess:
		return lipgloss.NewStyle().Foreground(t.Accent)
	case StatusWarn:
		return lipgloss.NewStyle().Foreground(t.Primary)
	case StatusError:
		return t.Failure
	default:
		return lipgloss.NewStyle().Foreground(t.Muted)
	}
}
