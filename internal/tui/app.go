package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/narou/internal/config"
	"github.com/pders01/narou/internal/render"
	"github.com/pders01/narou/internal/search"
)

// chrome is the status bar plus its separator.
const chrome = 3

// LinkOpener hands a link to something outside the terminal, usually the
// browser.
type LinkOpener interface {
	Open(link string) error
}

type App struct {
	config      *config.Config
	theme       render.Theme
	feed        Feed
	opener      LinkOpener
	searcher    search.Searcher
	keyHandler  *KeyHandler
	entryList   list.Model
	searchList  list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	markdown    *render.Markdown
	view        View
	// previousView is where esc returns to from the profile and search views.
	previousView   View
	cameFromSearch bool
	current        *Entry
	loading        bool
	width          int
	height         int
	err            error
	status         string
	statusKind     StatusKind
	statusSeq      int
	searchSeq      int
	searchDebounce int // milliseconds
}

type Option func(*App)

func WithOpener(o LinkOpener) Option {
	return func(a *App) { a.opener = o }
}

// WithSearcher enables ctrl+s, searching the archive from inside the browser.
func WithSearcher(s search.Searcher) Option {
	return func(a *App) { a.searcher = s }
}

func NewApp(feed Feed, cfg *config.Config, opts ...Option) *App {
	items := make([]list.Item, len(feed.Entries))
	for i := range feed.Entries {
		items[i] = entryItem{entry: feed.Entries[i]}
	}

	entryList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	entryList.Title = "› " + feedTitle(feed)
	entryList.SetShowStatusBar(false)
	entryList.SetFilteringEnabled(true)
	entryList.SetShowHelp(true)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	si := textinput.New()
	si.Placeholder = "Search archived entries..."
	si.CharLimit = 256

	app := &App{
		config:         cfg,
		theme:          render.NewTheme(cfg.UI.Colors),
		feed:           feed,
		entryList:      entryList,
		searchList:     searchList,
		searchInput:    si,
		viewport:       viewport.New(0, 0),
		markdown:       &render.Markdown{},
		view:           ViewEntries,
		previousView:   ViewEntries,
		searchDebounce: 150,
	}
	for _, opt := range opts {
		opt(app)
	}

	app.keyHandler = NewKeyHandler(app)
	return app
}

func feedTitle(f Feed) string {
	title := f.Title
	if title == "" {
		title = string(f.Kind)
	}
	if f.Author.Name != "" {
		title = fmt.Sprintf("%s · %s", title, f.Author.Name)
	}
	return title
}

// wrapWidth is the glamour wrap width for the current terminal, capped by
// ui.wrap_width.
func (a *App) wrapWidth() int {
	w := render.WrapWidth(a.width)
	if limit := a.config.UI.WrapWidth; limit > 0 && w > limit {
		w = limit
	}
	return w
}

func (a *App) contentHeight() int {
	h := a.height - chrome
	if h < 0 {
		return 0
	}
	return h
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		a.setStatus(MsgEntriesCount(len(a.feed.Entries)), StatusInfo, statusTTL),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.entryList.SetSize(msg.Width, a.contentHeight())
		// The search view spends 7 lines on its header and input frame.
		searchListHeight := a.contentHeight() - 7
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = a.contentHeight()
		a.searchInput.Width = max(msg.Width-8, 10)
		if a.view == ViewReader && a.current != nil {
			return a, a.renderEntry(*a.current)
		}
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case entryRenderedMsg:
		if a.view == ViewReader {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loading = false
			a.clearStatus()
		}
		return a, nil

	case linkOpenedMsg:
		return a, a.setStatus(MsgOpened(msg.link), StatusSuccess, statusTTL)

	case searchDebounceFireMsg:
		if msg.seq != a.searchSeq || a.view != ViewSearch {
			return a, nil
		}
		query := sanitizeSearchInput(a.searchInput.Value())
		if len([]rune(query)) < 2 {
			a.searchList.SetItems([]list.Item{})
			return a, nil
		}
		return a, a.performSearch(query)

	case searchResultsMsg:
		if a.view == ViewSearch && msg.query == sanitizeSearchInput(a.searchInput.Value()) {
			items := make([]list.Item, len(msg.results))
			for i, r := range msg.results {
				items[i] = resultItem{result: r}
			}
			a.searchList.SetItems(items)
			if len(items) == 0 {
				return a, a.setStatus(MsgNoResults, StatusInfo, 0)
			}
			return a, a.setStatus(MsgResultsCount(len(items)), StatusInfo, 0)
		}
		return a, nil

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.clearStatus()
		}
		return a, nil

	case errorMsg:
		a.err = msg.err
		a.loading = false
		return a, nil
	}

	switch a.view {
	case ViewEntries:
		newList, cmd := a.entryList.Update(msg)
		a.entryList = newList
		cmds = append(cmds, cmd)
	case ViewReader:
		if _, ok := msg.(tea.MouseMsg); ok {
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewSearch:
		newInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newInput
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewEntries:
		if len(a.feed.Entries) == 0 {
			content = a.renderCentered(GetCompactBanner(fmt.Sprintf("%s has no entries", feedTitle(a.feed))))
		} else {
			content = a.entryList.View()
		}
	case ViewReader:
		if a.loading {
			content = a.renderCentered(a.renderMuted(MsgLoadingEntry))
		} else {
			content = a.viewport.View()
		}
	case ViewProfile:
		content = a.renderCentered(render.ProfileCard(a.feed.Author, a.theme))
	case ViewSearch:
		content = a.searchView()
	}

	separator := a.renderMuted(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusBar())
}

func (a *App) searchView() string {
	helpText := "Type to search • Tab/↓: results • Esc: back"
	if !a.searchInput.Focused() {
		if len(a.searchList.Items()) > 0 {
			helpText = "↑↓: navigate • Enter: read • o: open • Tab: search box • Esc: back"
		} else {
			helpText = "No results • Tab: search box • Esc: back"
		}
	}

	body := lipgloss.JoinVertical(
		lipgloss.Top,
		a.renderHeader("› search", ""),
		"",
		a.renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
		a.renderHelp(helpText),
		"",
		a.searchList.View(),
	)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.contentHeight()).
		MaxHeight(a.contentHeight()).
		Render(body)
}

func (a *App) statusBar() string {
	line := lipgloss.NewStyle().Width(a.width).Padding(0, 1)

	if a.err != nil {
		return line.Render(StatusError.style(a.theme).Render(fmt.Sprintf("✗ %v", a.err)))
	}
	if a.status != "" {
		return line.Render(a.statusKind.style(a.theme).Render(a.status))
	}
	return line.Foreground(a.theme.Muted).Render(strings.Join(a.keyHandler.GetHelpForCurrentView(), " • "))
}

type entryItem struct {
	entry Entry
}

func (i entryItem) Title() string { return i.entry.Title }

func (i entryItem) Description() string {
	desc := render.TruncateEnd(strings.Join(strings.Fields(i.entry.Summary), " "), 80)
	if !i.entry.Published.IsZero() {
		desc += " • " + i.entry.Published.Format("2006-01-02")
	}
	return desc
}

func (i entryItem) FilterValue() string { return i.entry.Title + " " + i.entry.Summary }

type resultItem struct {
	result *search.Result
}

func (i resultItem) Title() string { return i.result.Document.Title }

func (i resultItem) Description() string {
	d := i.result.Document
	return fmt.Sprintf("%s · %s", d.Kind, render.TruncateEnd(d.Feed, 40))
}

func (i resultItem) FilterValue() string { return i.result.Document.Title }

// entry turns a hit into something the reader can show.
func (i resultItem) entry() Entry {
	d := i.result.Document
	var md strings.Builder
	fmt.Fprintf(&md, "## %s\n\n", d.Title)
	fmt.Fprintf(&md, "_%s_ by **%s** (user %d)\n\n", d.Feed, d.Author, d.UserID)
	if d.Summary != "" {
		fmt.Fprintf(&md, "%s\n\n", d.Summary)
	}
	if d.Link != "" {
		fmt.Fprintf(&md, "<%s>\n\n", d.Link)
	}
	return Entry{
		Title:     d.Title,
		Summary:   d.Summary,
		Published: d.Published,
		Link:      d.Link,
		Markdown:  md.String(),
	}
}
