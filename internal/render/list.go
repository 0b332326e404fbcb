package render

import (
	"fmt"
	"strings"

	"github.com/pders01/narou/internal/search"
	"github.com/pders01/narou/internal/storage"
)

// ArchiveTable lists archived snapshots, one per line.
func ArchiveTable(rows []storage.Summary, t Theme) string {
	if len(rows) == 0 {
		return t.Help.Render("archive is empty")
	}

	var sb strings.Builder
	sb.WriteString(t.Header.Render(fmt.Sprintf("%-10s %-6s %-40s %7s  %s", "USER", "KIND", "TITLE", "ENTRIES", "FETCHED")))
	sb.WriteString("\n")
	for _, r := range rows {
		entries := "-"
		if r.Kind != storage.KindUser {
			entries = fmt.Sprintf("%d", r.Entries)
		}
		fmt.Fprintf(&sb, "%-10d %-6s %-40s %7s  %s\n",
			r.UserID, r.Kind, TruncateEnd(r.Title, 40), entries, formatTime(r.FetchedAt))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SearchResults lists search hits with their best matching snippet.
func SearchResults(results []*search.Result, t Theme) string {
	if len(results) == 0 {
		return t.Help.Render("no matches")
	}

	var sb strings.Builder
	for i, r := range results {
		d := r.Document
		fmt.Fprintf(&sb, "%s %s\n", t.Title.Render(fmt.Sprintf("%2d.", i+1)), t.Header.Render(d.Title))
		fmt.Fprintf(&sb, "    %s\n", t.Help.Render(fmt.Sprintf("%s · %s (user %d) · score %.2f", d.Kind, d.Feed, d.UserID, r.Score)))
		snippet := d.Summary
		for _, m := range r.Matches {
			if m.Field == "summary" {
				snippet = m.Text
				break
			}
		}
		if snippet != "" {
			fmt.Fprintf(&sb, "    %s\n", TruncateEnd(snippet, 100))
		}
		if d.Link != "" {
			fmt.Fprintf(&sb, "    %s\n", TruncateMiddle(d.Link, 80))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Error formats a command failure for stderr.
func Error(err error, t Theme) string {
	return t.Failure.Render("Error: ") + err.Error()
}
