// Package kattis scrapes the judge site through an authenticated session and
// returns typed, schema-uniform result collections. The client is read-only:
// it never submits, edits, or otherwise writes to the site.
//
// All fetching is strictly sequential. Paginated views walk their pages one at
// a time and either return the complete collection or an error, never a
// partial one.
package kattis

import (
	"context"
)

// Client bundles an authenticated session with the per-view scrape
// operations. It is not safe for concurrent use; fetching is sequential by
// design.
type Client struct {
	session *Session
}

// NewClient wraps an existing session. The session need not be logged in yet;
// every operation validates it first.
func NewClient(session *Session) *Client {
	return &Client{session: session}
}

// Connect builds a session against baseURL and logs it in.
func Connect(ctx context.Context, baseURL, username, password string) (*Client, error) {
	s := NewSession(baseURL, username, password)
	if err := s.Login(ctx); err != nil {
		return nil, err
	}
	return &Client{session: s}, nil
}

func (c *Client) Session() *Session { return c.session }
