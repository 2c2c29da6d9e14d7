package sessions

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

var errBodyNotReplayable = errors.New("request body cannot be replayed")

// RetriableRequest pairs an outgoing request with its one-shot retry marker.
// A request whose Retried flag is set never triggers another refresh.
type RetriableRequest struct {
	*http.Request
	Retried bool
}

// Transport is an http.RoundTripper that attaches the stored bearer token to
// every request and, on a 401, refreshes the access token once and replays
// the request.
type Transport struct {
	base      http.RoundTripper
	sessions  *Manager
	refresher Refresher
}

var _ http.RoundTripper = (*Transport)(nil)

func NewTransport(base http.RoundTripper, sessions *Manager, refresher Refresher) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:      base,
		sessions:  sessions,
		refresher: refresher,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.Do(&RetriableRequest{Request: req})
}

// Do sends rr. The response of a failed refresh is the original 401, so the
// caller sees the same error it would have seen without the refresh attempt.
func (t *Transport) Do(rr *RetriableRequest) (*http.Response, error) {
	ctx := rr.Context()

	resp, err := t.base.RoundTrip(t.authorize(ctx, rr.Request))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || rr.Retried {
		return resp, err
	}

	refreshToken := t.sessions.RefreshToken(ctx)
	if refreshToken == "" {
		t.sessions.clear(ctx, "unauthorized without refresh token")
		return resp, nil
	}

	replay, err := rewind(rr.Request)
	if err != nil {
		log.Warn().Str("path", rr.URL.Path).Msg("Unauthorized request not retried: body cannot be replayed")
		t.sessions.clear(ctx, "unauthorized request cannot be replayed")
		return resp, nil
	}

	rr.Retried = true
	tok, err := t.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		log.Err(err).Str("path", rr.URL.Path).Msg("Token refresh failed")
		t.sessions.clear(ctx, "refresh failed")
		return resp, nil
	}

	if tok.RefreshToken != "" {
		err = t.sessions.SetTokens(ctx, tok.AccessToken, tok.RefreshToken)
	} else {
		err = t.sessions.SetAccessToken(ctx, tok.AccessToken)
	}
	if err != nil {
		log.Err(err).Msg("Failed to store refreshed token")
	}

	drain(resp)
	rr.Request = replay
	return t.Do(rr)
}

// authorize returns a copy of req carrying the current bearer token.
// RoundTrippers must not modify the caller's request.
func (t *Transport) authorize(ctx context.Context, req *http.Request) *http.Request {
	out := req.Clone(ctx)
	if tok, err := t.sessions.Token(); err == nil {
		tok.SetAuthHeader(out)
	}
	return out
}

// rewind returns a copy of req with a fresh body, for replaying it.
func rewind(req *http.Request) (*http.Request, error) {
	out := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return out, nil
	}
	if req.GetBody == nil {
		return nil, errBodyNotReplayable
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	out.Body = body
	return out, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
