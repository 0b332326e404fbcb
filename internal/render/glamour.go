package render

import (
	"github.com/charmbracelet/glamour"
)

const (
	minWrapWidth = 40
	maxWrapWidth = 120
)

// Markdown renders markdown for the terminal. The underlying glamour
// renderer is rebuilt only when the wrap width drifts noticeably.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// WrapWidth picks a readable wrap width for a terminal of the given width.
func WrapWidth(termWidth int) int {
	w := (termWidth * 9) / 10
	if w > maxWrapWidth {
		w = maxWrapWidth
	}
	if w < minWrapWidth {
		w = minWrapWidth
	}
	return w
}

func (m *Markdown) Render(md string, width int) (string, error) {
	if m.renderer == nil || abs(m.width-width) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		m.renderer = r
		m.width = width
	}
	return m.renderer.Render(md)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
