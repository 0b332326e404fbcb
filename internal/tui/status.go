package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingEntry      = "Loading entry…"
	MsgNoLink            = "No link for this entry"
	MsgNoResults         = "No results"
	MsgSearchUnavailable = "Search needs an archive (narou <blog|novel> --archive)"
)

const statusTTL = 3 * time.Second

func MsgOpened(link string) string {
	return "Opened " + link
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgEntriesCount(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

type statusClearMsg struct {
	seq int
}

// setStatus shows text in the status bar. A positive ttl returns a command
// that clears it again, unless a newer status replaced it first.
func (a *App) setStatus(text string, kind StatusKind, ttl time.Duration) tea.Cmd {
	a.status = text
	a.statusKind = kind
	a.statusSeq++
	if ttl <= 0 {
		return nil
	}
	seq := a.statusSeq
	return tea.Tick(ttl, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}
