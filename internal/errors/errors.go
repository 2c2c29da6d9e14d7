package errors

import (
	"errors"
	"fmt"
)

// Common error types for the check-in client
var (
	// Validation errors, raised before any network call
	ErrValidation   = errors.New("validation failed")
	ErrNotConfirmed = errors.New("action not confirmed")

	// Session errors
	ErrUnauthenticated = errors.New("not authenticated")
	ErrRefreshFailed   = errors.New("token refresh failed")

	// Check-in flow errors
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrNoActiveSession    = errors.New("no active training session")
	ErrEmptySelection     = errors.New("no athletes selected")
	ErrPINNotAcknowledged = errors.New("athlete PIN has not been acknowledged")
	ErrCancelled          = errors.New("operation cancelled")

	// Backend errors
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Store errors
	ErrKeyNotFound = errors.New("key not found")
	ErrUnsupported = errors.New("unsupported operation")
)

// ValidationError is a client-side input error. Message is shown to the user
// verbatim; Field names the offending input. Err, when set, is a more
// specific sentinel the error also matches.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InvalidBecause builds a ValidationError that also matches cause.
func InvalidBecause(cause error, field, message string) error {
	return &ValidationError{Field: field, Message: message, Err: cause}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}
