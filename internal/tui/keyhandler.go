package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/narou/internal/search"
)

const modifierKey = "ctrl+"

type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	// While the entry list is filtering, every key belongs to the filter.
	if kh.app.view == ViewEntries && kh.app.entryList.FilterState() == list.Filtering {
		if key == "ctrl+c" {
			return kh.app, tea.Quit
		}
		return kh.delegateToCharm(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewSearch && kh.app.searchInput.Focused()
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if i, ok := items[0].(resultItem); ok {
				return kh.selectSearchResult(i)
			}
		}
		return kh.app, nil
	case "tab", "down":
		if len(kh.app.searchList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchList.Select(0)
		}
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput updates the search box and schedules a debounced
// search when the query changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := sanitizeSearchInput(kh.app.searchInput.Value())
	newInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newInput

	if sanitizeSearchInput(kh.app.searchInput.Value()) == prev {
		return kh.app, cmd
	}
	kh.app.searchSeq++
	seq := kh.app.searchSeq
	wait := time.Duration(kh.app.searchDebounce) * time.Millisecond
	return kh.app, tea.Batch(cmd, tea.Tick(wait, func(time.Time) tea.Msg { return searchDebounceFireMsg{seq: seq} }))
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", "q":
		return kh.app, tea.Quit, true
	case "esc":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case modifierKey + "s":
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewEntries:
		return kh.handleEntriesCustomKeys(key)
	case ViewReader:
		return kh.handleReaderCustomKeys(key)
	case ViewProfile:
		if key == "p" {
			model, cmd := kh.navigateBack()
			return model, cmd, true
		}
	case ViewSearch:
		return kh.handleSearchCustomKeys(key)
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleEntriesCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "enter":
		if i, ok := kh.app.entryList.SelectedItem().(entryItem); ok {
			kh.app.cameFromSearch = false
			return kh.app, kh.readEntry(i.entry), true
		}
		return kh.app, nil, true
	case "o", modifierKey + "o":
		if i, ok := kh.app.entryList.SelectedItem().(entryItem); ok {
			return kh.app, kh.open(i.entry), true
		}
		return kh.app, nil, true
	case "p":
		kh.app.previousView = kh.app.view
		kh.app.view = ViewProfile
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleReaderCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "o", modifierKey + "o":
		if kh.app.current != nil {
			return kh.app, kh.open(*kh.app.current), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleSearchCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "tab", "shift+tab", "/":
		kh.app.searchInput.Focus()
		return kh.app, nil, true
	case "up":
		if kh.app.searchList.Index() == 0 {
			kh.app.searchInput.Focus()
			return kh.app, nil, true
		}
	case "enter":
		if i, ok := kh.app.searchList.SelectedItem().(resultItem); ok {
			model, cmd := kh.selectSearchResult(i)
			return model, cmd, true
		}
		return kh.app, nil, true
	case "o", modifierKey + "o":
		if i, ok := kh.app.searchList.SelectedItem().(resultItem); ok {
			return kh.app, kh.open(i.entry()), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets the bubbles components handle keys we don't intercept.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewEntries:
		kh.app.entryList, cmd = kh.app.entryList.Update(msg)
	case ViewReader:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
	case ViewSearch:
		kh.app.searchList, cmd = kh.app.searchList.Update(msg)
	}
	return kh.app, cmd
}

func (kh *KeyHandler) readEntry(e Entry) tea.Cmd {
	kh.app.current = &e
	kh.app.loading = true
	kh.app.err = nil
	kh.app.view = ViewReader
	return tea.Batch(kh.app.setStatus(MsgLoadingEntry, StatusInfo, 0), kh.app.renderEntry(e))
}

func (kh *KeyHandler) open(e Entry) tea.Cmd {
	if e.Link == "" {
		return kh.app.setStatus(MsgNoLink, StatusWarn, statusTTL)
	}
	return kh.app.openLink(e.Link)
}

func (kh *KeyHandler) selectSearchResult(i resultItem) (tea.Model, tea.Cmd) {
	kh.app.cameFromSearch = true
	kh.app.searchInput.Blur()
	return kh.app, kh.readEntry(i.entry())
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	kh.app.err = nil

	switch kh.app.view {
	case ViewReader:
		kh.app.current = nil
		kh.app.loading = false
		if kh.app.cameFromSearch {
			kh.app.cameFromSearch = false
			kh.app.view = ViewSearch
			return kh.app, nil
		}
		kh.app.view = ViewEntries
		return kh.app, nil

	case ViewProfile:
		kh.app.view = kh.app.previousView
		return kh.app, nil

	case ViewSearch:
		kh.app.view = kh.app.previousView
		kh.app.searchInput.Reset()
		kh.app.searchInput.Blur()
		kh.app.searchList.SetItems([]list.Item{})
		kh.app.clearStatus()
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	if kh.app.searcher == nil {
		return kh.app, kh.app.setStatus(MsgSearchUnavailable, StatusWarn, statusTTL)
	}
	if kh.app.view != ViewSearch {
		kh.app.previousView = kh.app.view
	}
	kh.app.view = ViewSearch
	kh.app.cameFromSearch = false
	kh.app.searchInput.Reset()
	kh.app.searchList.SetItems([]list.Item{})

	status := "Search"
	if ds, ok := kh.app.searcher.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			status = fmt.Sprintf("Search • idx: %d docs", n)
		}
	}
	return kh.app, tea.Batch(kh.app.searchInput.Focus(), kh.app.setStatus(status, StatusInfo, statusTTL))
}

// GetHelpForCurrentView returns our custom key help; the list renders its own.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewEntries:
		help := []string{"enter: read", "o: open", "p: profile"}
		if kh.app.searcher != nil {
			help = append(help, modifierKey+"s: search")
		}
		return append(help, "q: quit")
	case ViewReader:
		return []string{"o: open", "esc: back", "q: quit"}
	case ViewProfile:
		return []string{"esc: back", "q: quit"}
	case ViewSearch:
		return []string{"enter: read", "esc: back"}
	default:
		return []string{}
	}
}
