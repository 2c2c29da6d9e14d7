package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// TokenPair is the login response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges staff credentials for a token pair and stores it. It skips
// the refreshing transport: a rejected login must not touch stored
// credentials.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.do(ctx, c.plain, http.MethodPost, RouteToken, nil, credentials{username, password}, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, errors.New("login response has no access token")
	}
	if err := c.sessions.SetTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout forgets the stored credentials. The backend keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	return c.sessions.Logout(ctx)
}
