package narou

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/pders01/narou/internal/debuglog"
)

// GetBlog fetches a writer's blog feed.
func (c *Client) GetBlog(ctx context.Context, ref UserRef) (Blog, error) {
	author, body, err := c.fetchFeed(ctx, ref, blogFeed)
	if err != nil {
		return Blog{}, err
	}

	blog, err := decodeBlog(body, author)
	if err != nil {
		return Blog{}, &DecodeError{Resource: "blog feed", Err: err}
	}

	debuglog.Debugf("fetched blog for user %d: %d entries", author.UserID, len(blog.Entries))
	return blog, nil
}

// BlogEntryURL is the public page of a blog entry. The feed itself carries
// no link, so it is derived from the writer and entry ids.
func BlogEntryURL(userID, entryID int) string {
	return fmt.Sprintf("https://mypage.syosetu.com/mypageblog/view/userid/%d/blogkey/%d/", userID, entryID)
}

// UserBlog fetches the blog of an already fetched user.
func (c *Client) UserBlog(ctx context.Context, u User) (Blog, error) {
	return c.GetBlog(ctx, ByUser(u))
}

func decodeBlog(body []byte, author User) (Blog, error) {
	root, err := parseAtom(body)
	if err != nil {
		return Blog{}, err
	}

	header, err := parseFeedHeader(root)
	if err != nil {
		return Blog{}, err
	}

	nodes := children(root, "entry")
	entries := make([]BlogEntry, 0, len(nodes))
	for i, n := range nodes {
		entry, err := parseBlogEntry(n, fmt.Sprintf("entry[%d]", i+1))
		if err != nil {
			return Blog{}, err
		}
		entries = append(entries, entry)
	}

	return Blog{
		Author:   author,
		Title:    header.title,
		Subtitle: header.subtitle,
		Entries:  entries,
	}, nil
}

func parseBlogEntry(n *xmlquery.Node, path string) (BlogEntry, error) {
	var (
		e   BlogEntry
		err error
	)
	if e.Title, err = childText(n, "title", path); err != nil {
		return BlogEntry{}, err
	}
	if e.Summary, err = childText(n, "summary", path); err != nil {
		return BlogEntry{}, err
	}
	if e.Published, err = childTime(n, "published", path); err != nil {
		return BlogEntry{}, err
	}
	if e.Updated, err = childTime(n, "updated", path); err != nil {
		return BlogEntry{}, err
	}

	id, err := childText(n, "id", path)
	if err != nil {
		return BlogEntry{}, err
	}
	if e.EntryID, err = parseEntryID(id); err != nil {
		return BlogEntry{}, fmt.Errorf("%s/id: %w", path, err)
	}

	return e, nil
}

// parseEntryID reads the numeric id from the last non-empty path segment of
// an entry's id URI, e.g. https://example.com/blog/987 -> 987.
func parseEntryID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadEntryID, err)
	}

	path := u.Path
	if path == "" {
		path = u.Opaque
	}

	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		id, err := strconv.Atoi(segments[i])
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrBadEntryID, segments[i])
		}
		return id, nil
	}

	return 0, fmt.Errorf("%w: no path segment in %q", ErrBadEntryID, raw)
}
