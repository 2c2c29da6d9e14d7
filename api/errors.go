package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/internal/utils"
	"github.com/pkg/errors"
)

// Error is a non-2xx backend response. Body holds the decoded JSON object,
// usually in the DRF shape: {"detail": ...}, {"error": ...},
// {"non_field_errors": [...]} or {"<field>": [...]}.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Body       map[string]any
	Raw        []byte
}

func newError(method, path string, status int, raw []byte) *Error {
	e := &Error{StatusCode: status, Method: method, Path: path, Raw: raw}
	var body map[string]any
	if json.Unmarshal(raw, &body) == nil {
		e.Body = body
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps the status onto the package sentinels so callers can use
// errors.Is(err, errors.ErrNotFound) and friends.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthenticated
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	}
	return nil
}

// Detail returns the "error" or "detail" string of the body.
func (e *Error) Detail() string {
	for _, key := range []string{"error", "detail"} {
		if s, ok := e.Body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (e *Error) NonFieldErrors() []string {
	return e.Field("non_field_errors")
}

// Field returns the messages reported against one input field.
func (e *Error) Field(name string) []string {
	switch v := e.Body[name].(type) {
	case string:
		return []string{v}
	case []any:
		return utils.ToStringSlice(v)
	}
	return nil
}

func (e *Error) HasField(name string) bool {
	_, ok := e.Body[name]
	return ok
}

// Message is the most specific human readable message in the body: detail,
// then non-field errors, then the first field error in key order.
func (e *Error) Message() string {
	if d := e.Detail(); d != "" {
		return d
	}
	if nfe := e.NonFieldErrors(); len(nfe) > 0 {
		return strings.Join(nfe, " ")
	}
	keys := make([]string, 0, len(e.Body))
	for k := range e.Body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msgs := e.Field(k); len(msgs) > 0 {
			return k + ": " + msgs[0]
		}
	}
	return ""
}

// AsError extracts the backend error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage turns err into text for the user. Validation errors and the
// backend's "error"/"detail" strings are shown as they are; everything else
// gets fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if apiErr, ok := AsError(err); ok {
		if d := apiErr.Detail(); d != "" {
			return d
		}
	}
	return fallback
}
