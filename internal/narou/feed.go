package narou

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const atomAccept = "application/atom+xml, application/xml, text/xml"

const (
	blogFeed  = "writerblog"
	novelFeed = "writernovel"
)

func (c *Client) feedEndpoint(kind string, userID int) string {
	return fmt.Sprintf("%s/%s/%d.Atom", c.baseURL, kind, userID)
}

// fetchFeed downloads a feed body and resolves its owner. A profile ref costs
// one request; a raw id costs two, issued concurrently.
func (c *Client) fetchFeed(ctx context.Context, ref UserRef, kind string) (User, []byte, error) {
	if ref.ID() <= 0 {
		return User{}, nil, &ConfigurationError{Field: "user id", Value: strconv.Itoa(ref.ID()), Err: errors.New("must be positive")}
	}

	endpoint := c.feedEndpoint(kind, ref.ID())

	if user, ok := ref.User(); ok {
		body, err := c.get(ctx, endpoint, atomAccept)
		if err != nil {
			return User{}, nil, err
		}
		return user, body, nil
	}

	var (
		user User
		body []byte
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		body, err = c.get(gctx, endpoint, atomAccept)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = c.GetUser(gctx, ref.ID())
		return err
	})
	if err := g.Wait(); err != nil {
		return User{}, nil, err
	}

	return user, body, nil
}
