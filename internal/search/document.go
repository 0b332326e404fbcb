package search

import (
	"fmt"
	"time"

	"github.com/pders01/narou/internal/narou"
	"github.com/pders01/narou/internal/storage"
)

// Document is one searchable feed entry.
type Document struct {
	ID        string
	Kind      storage.Kind
	UserID    int
	Author    string
	Feed      string
	Title     string
	Summary   string
	Link      string
	Published time.Time
}

// Result is a ranked hit.
type Result struct {
	Document Document
	Score    float64
	Matches  []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "title", "summary", "feed"
	Text   string
	Weight float64
}

// BlogDocuments flattens a blog into one document per entry.
func BlogDocuments(b narou.Blog) []Document {
	docs := make([]Document, 0, len(b.Entries))
	for _, e := range b.Entries {
		docs = append(docs, Document{
			ID:        fmt.Sprintf("blog:%d:%d", b.Author.UserID, e.EntryID),
			Kind:      storage.KindBlog,
			UserID:    b.Author.UserID,
			Author:    b.Author.Name,
			Feed:      b.Title,
			Title:     e.Title,
			Summary:   e.Summary,
			Link:      narou.BlogEntryURL(b.Author.UserID, e.EntryID),
			Published: e.Published,
		})
	}
	return docs
}

// NovelDocuments flattens a novel catalog. Novel entries carry no id, so
// the position in the feed is used.
func NovelDocuments(n narou.Novel) []Document {
	docs := make([]Document, 0, len(n.Entries))
	for i, e := range n.Entries {
		docs = append(docs, Document{
			ID:        fmt.Sprintf("novel:%d:%d", n.Author.UserID, i),
			Kind:      storage.KindNovel,
			UserID:    n.Author.UserID,
			Author:    n.Author.Name,
			Feed:      n.Title,
			Title:     e.Title,
			Summary:   e.Summary,
			Link:      e.Link,
			Published: e.Published,
		})
	}
	return docs
}

// archivedDocuments loads every entry currently held in the archive.
func archivedDocuments(store *storage.Store) ([]Document, error) {
	blogs, err := store.Blogs()
	if err != nil {
		return nil, err
	}
	novels, err := store.Novels()
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, rec := range blogs {
		docs = append(docs, BlogDocuments(rec.Blog)...)
	}
	for _, rec := range novels {
		docs = append(docs, NovelDocuments(rec.Novel)...)
	}
	return docs, nil
}
