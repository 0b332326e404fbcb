package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "narou"

// LogoLines is the block-letter logo shared by the banner and empty views.
var LogoLines = []string{
	"█▄  █  ▄▀▀▄  █▀▀▄  ▄▀▀▄  █  █",
	"█ ▀▄█  █▄▄█  █▄▄▀  █  █  █  █",
	"█   █  █  █  █  █  ▀▄▄▀  ▀▄▄▀",
}

const CompactLogo = `narou ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
}

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8")).
			Italic(true)
)

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, logoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		helpStyle.Render(message),
	)
}

// Banner renders the version banner printed by `narou version`.
func Banner(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	tagline := "Syosetu writer feeds"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}
	lines = append(lines, tagline)

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	border := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	boxed := lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	separator := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#95E1D3")).
		Render("◆ ◇ ◆ ◇ ◆")

	center := lipgloss.NewStyle().Width(60).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left, center.Render(boxed), center.Render(separator))
}

func ShowBanner(w io.Writer, version string) {
	fmt.Fprintln(w, Banner(version))
}
