package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"golang.org/x/oauth2"
)

// RouteTokenRefresh is the backend path that exchanges a refresh token for a
// new access token.
const RouteTokenRefresh = "/token/refresh/"

// Refresher exchanges a refresh token for a new access token. The returned
// token carries a RefreshToken only when the backend rotated it.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*oauth2.Token, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return f(ctx, refreshToken)
}

// HTTPRefresher calls the refresh endpoint with its own plain client so a
// refresh can never recurse into the authenticating Transport.
type HTTPRefresher struct {
	url    string
	client *http.Client
}

func NewHTTPRefresher(baseURL string, client *http.Client) *HTTPRefresher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRefresher{
		url:    strings.TrimRight(baseURL, "/") + RouteTokenRefresh,
		client: client,
	}
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errors.ErrRefreshFailed, resp.StatusCode)
	}

	var rr refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", errors.ErrRefreshFailed, err)
	}
	if rr.Access == "" {
		return nil, fmt.Errorf("%w: empty access token", errors.ErrRefreshFailed)
	}

	return &oauth2.Token{AccessToken: rr.Access, RefreshToken: rr.Refresh, TokenType: "Bearer"}, nil
}
