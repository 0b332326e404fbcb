package narou

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/userapi/api", http.StatusOK, gzipBytes(t, aliceProfile))
	c := newTestClient(t, srv)

	user, err := c.GetUser(context.Background(), 12345)
	require.NoError(t, err)

	assert.Equal(t, User{
		Name:           "Alice",
		UserID:         12345,
		Yomikata:       "ありす",
		NovelCount:     3,
		ReviewCount:    1,
		NovelLength:    9001,
		SumGlobalPoint: 500,
	}, user)

	require.Equal(t, 1, api.count())
	req := api.requests[0]
	q := req.URL.Query()
	assert.Equal(t, "5", q.Get("gzip"))
	assert.Equal(t, "json", q.Get("out"))
	assert.Equal(t, "n-y-nc-rc-nl-sg", q.Get("of"))
	assert.Equal(t, "12345", q.Get("userid"))
	assert.Equal(t, "narou-test/1.0", req.Header.Get("User-Agent"))
}

func TestGetUser_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     func(t *testing.T) []byte
		sentinel error
	}{
		{
			name:   "body is not gzip",
			status: http.StatusOK,
			body:   func(t *testing.T) []byte { return []byte(aliceProfile) },
		},
		{
			name:     "not a JSON array",
			status:   http.StatusOK,
			body:     func(t *testing.T) []byte { return gzipBytes(t, `{"name":"Alice"}`) },
			sentinel: ErrUnexpectedShape,
		},
		{
			name:     "header row only",
			status:   http.StatusOK,
			body:     func(t *testing.T) []byte { return gzipBytes(t, `[{"allcount":0}]`) },
			sentinel: ErrUnexpectedShape,
		},
		{
			name:   "missing key",
			status: http.StatusOK,
			body: func(t *testing.T) []byte {
				return gzipBytes(t, `[{"allcount":1},{"name":"Alice","yomikata":"ありす","novel_cnt":3,"review_cnt":1,"novel_length":9001}]`)
			},
			sentinel: ErrMissingElement,
		},
		{
			name:   "wrong value type",
			status: http.StatusOK,
			body: func(t *testing.T) []byte {
				return gzipBytes(t, `[{"allcount":1},{"name":"Alice","yomikata":"ありす","novel_cnt":"three","review_cnt":1,"novel_length":9001,"sum_global_point":500}]`)
			},
			sentinel: ErrUnexpectedShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.handle("/userapi/api", tt.status, tt.body(t))
			c := newTestClient(t, srv)

			user, err := c.GetUser(context.Background(), 12345)
			require.Error(t, err)
			assert.Equal(t, User{}, user)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr), "expected *DecodeError, got %T: %v", err, err)
			assert.Equal(t, "user profile", decErr.Resource)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestGetUser_HTTPError(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/userapi/api", http.StatusServiceUnavailable, nil)
	c := newTestClient(t, srv)

	user, err := c.GetUser(context.Background(), 12345)
	require.Error(t, err)
	assert.Equal(t, User{}, user)

	var trErr *TransportError
	require.True(t, errors.As(err, &trErr))
	assert.Equal(t, http.StatusServiceUnavailable, trErr.StatusCode)
}

func TestGetUser_InvalidID(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newTestClient(t, srv)

	_, err := c.GetUser(context.Background(), 0)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 0, api.count(), "no request for an invalid id")
}

func TestGetUser_ContentEncodingIgnored(t *testing.T) {
	// The body is gzip whether or not the server labels it; the client must
	// decode it exactly once either way.
	body := gzipBytes(t, aliceProfile)
	srv := newLabelledGzipServer(t, body)
	c := newTestClient(t, srv)

	user, err := c.GetUser(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}
