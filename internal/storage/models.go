package storage

import (
	"time"

	"github.com/pders01/narou/internal/narou"
)

// Kind names an archive bucket.
type Kind string

const (
	KindUser  Kind = "user"
	KindBlog  Kind = "blog"
	KindNovel Kind = "novel"
)

type UserRecord struct {
	User      narou.User `json:"user"`
	FetchedAt time.Time  `json:"fetched_at"`
}

type BlogRecord struct {
	Blog      narou.Blog `json:"blog"`
	FetchedAt time.Time  `json:"fetched_at"`
}

type NovelRecord struct {
	Novel     narou.Novel `json:"novel"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// Summary is one line of the archive listing.
type Summary struct {
	Kind      Kind      `json:"kind"`
	UserID    int       `json:"userid"`
	Title     string    `json:"title"`
	Entries   int       `json:"entries"`
	FetchedAt time.Time `json:"fetched_at"`
}
