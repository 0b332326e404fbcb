package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/narou/internal/debuglog"
	"github.com/pders01/narou/internal/search"
)

const searchLimit = 50

var errNoOpener = errors.New("no link opener configured")

type entryRenderedMsg struct {
	content string
}

type linkOpenedMsg struct {
	link string
}

type searchDebounceFireMsg struct {
	seq int
}

type searchResultsMsg struct {
	query   string
	results []*search.Result
}

func (a *App) renderEntry(e Entry) tea.Cmd {
	width := a.wrapWidth()
	md := a.markdown
	return func() tea.Msg {
		out, err := md.Render(e.Markdown, width)
		if err != nil {
			// Fall back to the raw markdown rather than an empty reader.
			debuglog.Warnf("rendering %q: %v", e.Title, err)
			return entryRenderedMsg{content: e.Markdown}
		}
		return entryRenderedMsg{content: out}
	}
}

func (a *App) openLink(link string) tea.Cmd {
	o := a.opener
	return func() tea.Msg {
		if o == nil {
			return errorMsg{err: errNoOpener}
		}
		if err := o.Open(link); err != nil {
			return errorMsg{err: wrapErr("opening "+link, err)}
		}
		return linkOpenedMsg{link: link}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	s := a.searcher
	return func() tea.Msg {
		results, err := s.Search(query, searchLimit)
		if err != nil {
			return errorMsg{err: wrapErr("search", err)}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

// sanitizeSearchInput collapses whitespace and caps the query length.
func sanitizeSearchInput(input string) string {
	input = strings.Join(strings.Fields(input), " ")
	if r := []rune(input); len(r) > 256 {
		input = string(r[:256])
	}
	return input
}
