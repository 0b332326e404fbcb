package tui

import (
	"time"

	"github.com/pders01/narou/internal/narou"
	"github.com/pders01/narou/internal/render"
	"github.com/pders01/narou/internal/storage"
)

type View int

const (
	ViewEntries View = iota
	ViewReader
	ViewProfile
	ViewSearch
)

// Entry is one row of the browser, flattened from a blog or novel entry.
type Entry struct {
	Title     string
	Summary   string
	Published time.Time
	Link      string
	Markdown  string
}

// Feed is what the browser shows: one writer's blog or novel catalog.
type Feed struct {
	Kind    storage.Kind
	Title   string
	Author  narou.User
	Entries []Entry
}

func BlogFeed(b narou.Blog) Feed {
	f := Feed{Kind: storage.KindBlog, Title: b.Title, Author: b.Author}
	for _, e := range b.Entries {
		f.Entries = append(f.Entries, Entry{
			Title:     e.Title,
			Summary:   e.Summary,
			Published: e.Published,
			Link:      narou.BlogEntryURL(b.Author.UserID, e.EntryID),
			Markdown:  render.BlogEntryMarkdown(e),
		})
	}
	return f
}

func NovelFeed(n narou.Novel) Feed {
	f := Feed{Kind: storage.KindNovel, Title: n.Title, Author: n.Author}
	for _, e := range n.Entries {
		f.Entries = append(f.Entries, Entry{
			Title:     e.Title,
			Summary:   e.Summary,
			Published: e.Published,
			Link:      e.Link,
			Markdown:  render.NovelEntryMarkdown(e),
		})
	}
	return f
}
