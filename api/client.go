// Package api is the REST client for the gym backend. Every call goes through
// the session transport, so it carries the stored bearer token and survives
// one access token expiry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/gym-checkin/sessions"
	"github.com/pkg/errors"
)

const (
	HeaderRequestID = "X-Request-ID"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

type Client struct {
	baseURL  string
	sessions *sessions.Manager
	http     *http.Client // authenticated, refreshes on 401
	plain    *http.Client // login and token refresh
	timeout  time.Duration
	base     http.RoundTripper
	colour   bool
}

type Option func(*Client)

// WithTimeout bounds every request, including a refresh and its replay.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBaseTransport replaces http.DefaultTransport below the logging and
// session layers.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// WithColouredLogs colours the method in request logs, for terminals.
func WithColouredLogs(enabled bool) Option {
	return func(c *Client) {
		c.colour = enabled
	}
}

func New(baseURL string, sm *sessions.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sm,
		timeout:  defaultTimeout,
		base:     http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}

	logged := newLoggingTransport(c.base, c.colour)
	c.plain = &http.Client{Transport: logged, Timeout: c.timeout}
	refresher := sessions.NewHTTPRefresher(c.baseURL, c.plain)
	c.http = &http.Client{
		Transport: sessions.NewTransport(logged, sm, refresher),
		Timeout:   c.timeout,
	}
	return c
}

// Sessions exposes the credential store the client authenticates with.
func (c *Client) Sessions() *sessions.Manager {
	return c.sessions
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, c.http, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, c.http, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, c.http, http.MethodPut, path, nil, in, out)
}

func (c *Client) patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, c.http, http.MethodPatch, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, c.http, http.MethodDelete, path, nil, nil, nil)
}

// do sends one JSON request. Bodies are held in memory so the session
// transport can replay them after a refresh. A non-2xx status is returned as
// *Error.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())

	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newError(method, path, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

// page is the paginated list envelope; list endpoints may answer with it or a
// bare array.
type page[T any] struct {
	Results []T `json:"results"`
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, errors.Wrap(err, "decode list")
		}
		return list, nil
	}

	var p page[T]
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrap(err, "decode page")
	}
	if p.Results == nil {
		return []T{}, nil
	}
	return p.Results, nil
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}
