package narou

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const aliceProfile = `[{"allcount":1},{"name":"Alice","yomikata":"ありす","novel_cnt":3,"review_cnt":1,"novel_length":9001,"sum_global_point":500}]`

const blogAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>My Blog</title>
  <subtitle>Thoughts</subtitle>
  <updated>2024-05-02T09:00:00+09:00</updated>
  <entry>
    <title>First post</title>
    <summary>Hello there</summary>
    <published>2024-05-01T12:00:00+09:00</published>
    <updated>2024-05-02T09:00:00+09:00</updated>
    <id>https://example.com/blog/987</id>
  </entry>
  <entry>
    <title>Second post</title>
    <summary>More words</summary>
    <published>2024-04-01T08:30:00+09:00</published>
    <updated>2024-04-01T08:30:00+09:00</updated>
    <id>https://example.com/blog/12/</id>
  </entry>
</feed>`

const novelAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Alice's novels</title>
  <subtitle>Catalog</subtitle>
  <updated>2024-06-10T21:15:00+09:00</updated>
  <entry>
    <title>The Long Road</title>
    <summary>A journey.</summary>
    <published>2023-01-01T00:00:00+09:00</published>
    <updated>2024-06-10T21:15:00+09:00</updated>
    <link rel="alternate" href="https://ncode.syosetu.com/n1234ab/"/>
  </entry>
  <entry>
    <title>Untitled draft</title>
    <summary>No link yet.</summary>
    <published>2024-02-02T10:00:00+09:00</published>
    <updated>2024-02-02T10:00:00+09:00</updated>
  </entry>
</feed>`

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// fakeAPI serves canned responses keyed by request path and records every
// request it sees.
type fakeAPI struct {
	t         *testing.T
	mu        sync.Mutex
	requests  []*http.Request
	responses map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   []byte
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	api := &fakeAPI{t: t, responses: make(map[string]fakeResponse)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv
}

func (f *fakeAPI) handle(path string, status int, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = fakeResponse{status: status, body: body}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	resp, ok := f.responses[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.URL.Path)
	}
	return out
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(WithBaseURL(srv.URL), WithUserAgent("narou-test/1.0"))
	require.NoError(t, err)
	return c
}
