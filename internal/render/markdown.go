package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/pders01/narou/internal/narou"
)

const timeLayout = "2006-01-02 15:04 MST"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(timeLayout)
}

// BlogMarkdown renders a whole blog feed as a markdown report.
func BlogMarkdown(b narou.Blog) string {
	var sb strings.Builder
	writeFeedHeader(&sb, b.Title, b.Subtitle, b.Author)
	fmt.Fprintf(&sb, "%d entries\n\n", len(b.Entries))
	for _, e := range b.Entries {
		sb.WriteString("---\n\n")
		sb.WriteString(BlogEntryMarkdown(e))
	}
	return sb.String()
}

// NovelMarkdown renders a novel catalog as a markdown report.
func NovelMarkdown(n narou.Novel) string {
	var sb strings.Builder
	writeFeedHeader(&sb, n.Title, n.Subtitle, n.Author)
	fmt.Fprintf(&sb, "%d novels, updated %s\n\n", len(n.Entries), formatTime(n.Updated))
	for _, e := range n.Entries {
		sb.WriteString("---\n\n")
		sb.WriteString(NovelEntryMarkdown(e))
	}
	return sb.String()
}

func writeFeedHeader(sb *strings.Builder, title, subtitle string, author narou.User) {
	fmt.Fprintf(sb, "# %s\n\n", title)
	if subtitle != "" {
		fmt.Fprintf(sb, "_%s_\n\n", subtitle)
	}
	if author.Name != "" {
		fmt.Fprintf(sb, "by **%s** (user %d)\n\n", author.Name, author.UserID)
	} else {
		fmt.Fprintf(sb, "user %d\n\n", author.UserID)
	}
}

func BlogEntryMarkdown(e narou.BlogEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", e.Title)
	fmt.Fprintf(&sb, "`#%d` · published %s · updated %s\n\n", e.EntryID, formatTime(e.Published), formatTime(e.Updated))
	if e.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", e.Summary)
	}
	return sb.String()
}

func NovelEntryMarkdown(e narou.NovelEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", e.Title)
	fmt.Fprintf(&sb, "published %s · updated %s\n\n", formatTime(e.Published), formatTime(e.Updated))
	if e.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", e.Summary)
	}
	if e.Link != "" {
		fmt.Fprintf(&sb, "<%s>\n\n", e.Link)
	}
	return sb.String()
}
