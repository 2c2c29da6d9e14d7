package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// loggingTransport logs every request that reaches the wire, including
// refresh calls and replays.
type loggingTransport struct {
	next   http.RoundTripper
	colour bool
}

func newLoggingTransport(next http.RoundTripper, colour bool) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, colour: colour}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	var event *zerolog.Event
	switch {
	case err != nil:
		event = log.Warn().Err(err)
	case resp.StatusCode >= http.StatusInternalServerError:
		event = log.Warn().Int("status", resp.StatusCode)
	default:
		event = log.Debug().Int("status", resp.StatusCode)
	}
	event.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Dur("duration", time.Since(start)).
		Msg(t.label(req.Method))

	return resp, err
}

func (t *loggingTransport) label(method string) string {
	padded := fmt.Sprintf("%-7s", method)
	if !t.colour {
		return padded
	}
	if color, ok := methodColors[method]; ok {
		return color + padded + ResetColor
	}
	return Gray + padded + ResetColor
}
