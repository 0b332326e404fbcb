package narou

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/pders01/narou/internal/debuglog"
)

const (
	userAPIPath = "/userapi/api"
	// n-y-nc-rc-nl-sg: name, yomikata, novel_cnt, review_cnt, novel_length,
	// sum_global_point
	userFields = "n-y-nc-rc-nl-sg"
)

// userPayload mirrors the data object of the profile response. Pointers
// distinguish an absent key from a zero value.
type userPayload struct {
	Name           *string `json:"name"`
	Yomikata       *string `json:"yomikata"`
	NovelCount     *int    `json:"novel_cnt"`
	ReviewCount    *int    `json:"review_cnt"`
	NovelLength    *int    `json:"novel_length"`
	SumGlobalPoint *int    `json:"sum_global_point"`
}

// GetUser fetches the profile statistics for userID.
func (c *Client) GetUser(ctx context.Context, userID int) (User, error) {
	if userID <= 0 {
		return User{}, &ConfigurationError{Field: "user id", Value: strconv.Itoa(userID), Err: errors.New("must be positive")}
	}

	body, err := c.get(ctx, c.userEndpoint(userID), "application/json")
	if err != nil {
		return User{}, err
	}

	user, err := decodeUser(body, userID)
	if err != nil {
		return User{}, &DecodeError{Resource: "user profile", Err: err}
	}

	debuglog.Debugf("fetched profile for user %d (%s)", userID, user.Name)
	return user, nil
}

func (c *Client) userEndpoint(userID int) string {
	params := url.Values{}
	params.Set("gzip", "5")
	params.Set("out", "json")
	params.Set("of", userFields)
	params.Set("userid", strconv.Itoa(userID))
	return c.baseURL + userAPIPath + "?" + params.Encode()
}

// decodeUser treats body as a gzip stream holding a JSON array whose second
// element is the profile object; the first element is a count header.
func decodeUser(body []byte, userID int) (User, error) {
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return User{}, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxBodySize+1))
	if err != nil {
		return User{}, fmt.Errorf("decompressing: %w", err)
	}
	if len(raw) > maxBodySize {
		return User{}, fmt.Errorf("decompressed body exceeds %d bytes", maxBodySize)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if len(rows) < 2 {
		return User{}, fmt.Errorf("%w: expected 2 elements, got %d", ErrUnexpectedShape, len(rows))
	}

	var p userPayload
	if err := json.Unmarshal(rows[1], &p); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	switch {
	case p.Name == nil:
		return User{}, missing("name")
	case p.Yomikata == nil:
		return User{}, missing("yomikata")
	case p.NovelCount == nil:
		return User{}, missing("novel_cnt")
	case p.ReviewCount == nil:
		return User{}, missing("review_cnt")
	case p.NovelLength == nil:
		return User{}, missing("novel_length")
	case p.SumGlobalPoint == nil:
		return User{}, missing("sum_global_point")
	}

	return User{
		Name:           *p.Name,
		UserID:         userID,
		Yomikata:       *p.Yomikata,
		NovelCount:     *p.NovelCount,
		ReviewCount:    *p.ReviewCount,
		NovelLength:    *p.NovelLength,
		SumGlobalPoint: *p.SumGlobalPoint,
	}, nil
}
