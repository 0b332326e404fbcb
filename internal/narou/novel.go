package narou

import (
	"context"
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/pders01/narou/internal/debuglog"
)

// GetNovel fetches a writer's novel catalog feed.
func (c *Client) GetNovel(ctx context.Context, ref UserRef) (Novel, error) {
	author, body, err := c.fetchFeed(ctx, ref, novelFeed)
	if err != nil {
		return Novel{}, err
	}

	novel, err := decodeNovel(body, author)
	if err != nil {
		return Novel{}, &DecodeError{Resource: "novel feed", Err: err}
	}

	debuglog.Debugf("fetched novels for user %d: %d entries", author.UserID, len(novel.Entries))
	return novel, nil
}

// UserNovel fetches the novel catalog of an already fetched user.
func (c *Client) UserNovel(ctx context.Context, u User) (Novel, error) {
	return c.GetNovel(ctx, ByUser(u))
}

func decodeNovel(body []byte, author User) (Novel, error) {
	root, err := parseAtom(body)
	if err != nil {
		return Novel{}, err
	}

	header, err := parseFeedHeader(root)
	if err != nil {
		return Novel{}, err
	}

	updated, err := childTime(root, "updated", "feed")
	if err != nil {
		return Novel{}, err
	}

	nodes := children(root, "entry")
	entries := make([]NovelEntry, 0, len(nodes))
	for i, n := range nodes {
		entry, err := parseNovelEntry(n, fmt.Sprintf("entry[%d]", i+1))
		if err != nil {
			return Novel{}, err
		}
		entries = append(entries, entry)
	}

	return Novel{
		Author:   author,
		Title:    header.title,
		Subtitle: header.subtitle,
		Updated:  updated,
		Entries:  entries,
	}, nil
}

func parseNovelEntry(n *xmlquery.Node, path string) (NovelEntry, error) {
	var (
		e   NovelEntry
		err error
	)
	if e.Title, err = childText(n, "title", path); err != nil {
		return NovelEntry{}, err
	}
	if e.Summary, err = childText(n, "summary", path); err != nil {
		return NovelEntry{}, err
	}
	if e.Published, err = childTime(n, "published", path); err != nil {
		return NovelEntry{}, err
	}
	if e.Updated, err = childTime(n, "updated", path); err != nil {
		return NovelEntry{}, err
	}

	// A missing link or href is tolerated and leaves Link empty.
	if link := child(n, "link"); link != nil {
		e.Link = link.SelectAttr("href")
	}

	return e, nil
}
