package narou

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBlog_ByUser(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/writerblog/12345.Atom", http.StatusOK, []byte(blogAtom))
	c := newTestClient(t, srv)

	alice := User{Name: "Alice", UserID: 12345}
	blog, err := c.GetBlog(context.Background(), ByUser(alice))
	require.NoError(t, err)

	assert.Equal(t, 1, api.count(), "profile ref must skip the profile request")
	assert.Equal(t, []string{"/writerblog/12345.Atom"}, api.paths())

	assert.Equal(t, alice, blog.Author)
	assert.Equal(t, "My Blog", blog.Title)
	assert.Equal(t, "Thoughts", blog.Subtitle)
	require.Len(t, blog.Entries, 2)

	first := blog.Entries[0]
	assert.Equal(t, "First post", first.Title)
	assert.Equal(t, "Hello there", first.Summary)
	assert.Equal(t, 987, first.EntryID)
	jst := time.FixedZone("", 9*60*60)
	assert.True(t, first.Published.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, jst)))
	assert.True(t, first.Updated.Equal(time.Date(2024, 5, 2, 9, 0, 0, 0, jst)))

	assert.Equal(t, "Second post", blog.Entries[1].Title, "delivery order is kept")
	assert.Equal(t, 12, blog.Entries[1].EntryID)
}

func TestGetBlog_ByID(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/writerblog/12345.Atom", http.StatusOK, []byte(blogAtom))
	api.handle("/userapi/api", http.StatusOK, gzipBytes(t, aliceProfile))
	c := newTestClient(t, srv)

	blog, err := c.GetBlog(context.Background(), ByID(12345))
	require.NoError(t, err)

	assert.Equal(t, 2, api.count())
	assert.ElementsMatch(t, []string{"/writerblog/12345.Atom", "/userapi/api"}, api.paths())
	assert.Equal(t, "Alice", blog.Author.Name)
	assert.Equal(t, 12345, blog.Author.UserID)
}

func TestUserBlog(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/writerblog/3.Atom", http.StatusOK, []byte(blogAtom))
	c := newTestClient(t, srv)

	blog, err := c.UserBlog(context.Background(), User{UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, blog.Author.UserID)
	assert.Equal(t, 1, api.count())
}

func TestGetBlog_NonNumericEntryID(t *testing.T) {
	api, srv := newFakeAPI(t)
	body := strings.Replace(blogAtom, "https://example.com/blog/12/", "https://example.com/blog/latest", 1)
	api.handle("/writerblog/12345.Atom", http.StatusOK, []byte(body))
	c := newTestClient(t, srv)

	blog, err := c.GetBlog(context.Background(), ByUser(User{UserID: 12345}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadEntryID)
	assert.Empty(t, blog.Entries, "a single bad entry fails the whole feed")

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "blog feed", decErr.Resource)
}

func TestGetBlog_DecodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		sentinel error
	}{
		{
			name:     "missing subtitle",
			body:     strings.Replace(blogAtom, "<subtitle>Thoughts</subtitle>", "", 1),
			sentinel: ErrMissingElement,
		},
		{
			name:     "entry without summary",
			body:     strings.Replace(blogAtom, "<summary>More words</summary>", "", 1),
			sentinel: ErrMissingElement,
		},
		{
			name:     "entry without id",
			body:     strings.Replace(blogAtom, "<id>https://example.com/blog/987</id>", "", 1),
			sentinel: ErrMissingElement,
		},
		{
			name:     "bad timestamp",
			body:     strings.Replace(blogAtom, "2024-05-01T12:00:00+09:00", "May 1st 2024", 1),
			sentinel: ErrBadTimestamp,
		},
		{
			name:     "elements in another namespace",
			body:     strings.Replace(blogAtom, `xmlns="http://www.w3.org/2005/Atom"`, `xmlns="urn:example:not-atom"`, 1),
			sentinel: ErrMissingElement,
		},
		{
			name:     "RSS instead of Atom",
			body:     `<?xml version="1.0"?><rss version="2.0"><channel><title>x</title></channel></rss>`,
			sentinel: ErrNotAtom,
		},
		{
			name: "external entity",
			body: `<?xml version="1.0"?>
<!DOCTYPE feed [<!ENTITY xxe SYSTEM "file:///etc/passwd">]>
<feed xmlns="http://www.w3.org/2005/Atom"><title>&xxe;</title><subtitle>s</subtitle></feed>`,
			sentinel: ErrUnsafeXML,
		},
		{
			name: "entity expansion bomb",
			body: `<?xml version="1.0"?>
<!DOCTYPE lolz [<!ENTITY lol "lol"><!ENTITY lol2 "&lol;&lol;&lol;&lol;">]>
<feed xmlns="http://www.w3.org/2005/Atom"><title>&lol2;</title><subtitle>s</subtitle></feed>`,
			sentinel: ErrUnsafeXML,
		},
		{
			name: "truncated document",
			body: blogAtom[:len(blogAtom)/2],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.handle("/writerblog/1.Atom", http.StatusOK, []byte(tt.body))
			c := newTestClient(t, srv)

			blog, err := c.GetBlog(context.Background(), ByUser(User{UserID: 1}))
			require.Error(t, err)
			assert.Equal(t, Blog{}, blog)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr), "expected *DecodeError, got %T: %v", err, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestGetBlog_HTTPError(t *testing.T) {
	tests := []struct {
		name string
		ref  UserRef
	}{
		{"profile ref", ByUser(User{UserID: 5})},
		{"raw id", ByID(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.handle("/writerblog/5.Atom", http.StatusInternalServerError, nil)
			api.handle("/userapi/api", http.StatusOK, gzipBytes(t, aliceProfile))
			c := newTestClient(t, srv)

			blog, err := c.GetBlog(context.Background(), tt.ref)
			require.Error(t, err)
			assert.Equal(t, Blog{}, blog)

			var trErr *TransportError
			require.True(t, errors.As(err, &trErr), "expected *TransportError, got %T", err)
			assert.Equal(t, http.StatusInternalServerError, trErr.StatusCode)
		})
	}
}

func TestGetBlog_ProfileFailure(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/writerblog/5.Atom", http.StatusOK, []byte(blogAtom))
	api.handle("/userapi/api", http.StatusNotFound, nil)
	c := newTestClient(t, srv)

	_, err := c.GetBlog(context.Background(), ByID(5))
	var trErr *TransportError
	require.True(t, errors.As(err, &trErr))
	assert.Equal(t, http.StatusNotFound, trErr.StatusCode)
}

func TestGetBlog_InvalidID(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newTestClient(t, srv)

	_, err := c.GetBlog(context.Background(), ByID(-1))
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Zero(t, api.count())
}

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		input     string
		want      int
		wantError bool
	}{
		{input: "https://example.com/blog/987", want: 987},
		{input: "https://mypage.syosetu.com/mypageblog/view/userid/12345/blogkey/2468/", want: 2468},
		{input: " https://example.com/blog/42\n", want: 42},
		{input: "tag:syosetu.com,2005:blog/77", want: 77},
		{input: "https://example.com/blog/abc", wantError: true},
		{input: "https://example.com/", wantError: true},
		{input: "https://example.com/blog/9.5", wantError: true},
		{input: "", wantError: true},
	}

	for _, tt := range tests {
		got, err := parseEntryID(tt.input)
		if tt.wantError {
			assert.ErrorIs(t, err, ErrBadEntryID, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestBlogEntryURL(t *testing.T) {
	assert.Equal(t,
		"https://mypage.syosetu.com/mypageblog/view/userid/12345/blogkey/987/",
		BlogEntryURL(12345, 987))
}
