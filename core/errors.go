package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrAccessDenied is returned when an authenticated user is not permitted to act on a resource
var ErrAccessDenied = errors.New("access denied")

// ErrAlreadyLinked is returned when a Slack message is already linked to a stream.
// A given Slack message may be linked to at most one stream, globally.
var ErrAlreadyLinked = errors.New("slack message is already linked to a stream")

// ErrNotConnected is returned when a Slack user has no active integration record
var ErrNotConnected = errors.New("slack account is not connected")

// ErrOAuthExchangeFailed is returned when Slack rejects an OAuth code exchange.
// This is a logical denial from Slack, not a transport failure.
var ErrOAuthExchangeFailed = errors.New("slack oauth exchange failed")

// ValidationError reports every missing required field at once, not just the first one
type ValidationError struct {
	MissingFields []string
}

func NewValidationError(missingFields ...string) *ValidationError {
	fields := make([]string, len(missingFields))
	copy(fields, missingFields)
	sort.Strings(fields)
	return &ValidationError{MissingFields: fields}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

// AsValidationError unwraps err into a ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}
