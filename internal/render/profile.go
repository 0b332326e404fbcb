package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pders01/narou/internal/narou"
)

var numbers = message.NewPrinter(language.English)

// ProfileCard renders a user's statistics as a bordered card.
func ProfileCard(u narou.User, t Theme) string {
	name := t.Title.Render(u.Name)
	if u.Yomikata != "" {
		name += " " + t.Help.Render("("+u.Yomikata+")")
	}

	row := func(label string, value int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			t.Label.Render(label),
			t.Value.Render(numbers.Sprintf("%d", value)),
		)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		name,
		t.Help.Render(fmt.Sprintf("user %d", u.UserID)),
		"",
		row("novels", u.NovelCount),
		row("reviews", u.ReviewCount),
		row("novel length", u.NovelLength),
		row("global points", u.SumGlobalPoint),
	)
	return t.Card.Render(body)
}
