package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned when a filtered single-row read matched no
// rows.
var ErrNotFound = errors.New("row not found")

// Error carries the HTTP status and response body of a failed backend
// call so callers can decide between retrying and surfacing it.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

// AsError unwraps err into *Error when the failure came from a non-2xx
// backend response.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FriendlyAuthMessage converts an auth failure into a user-facing
// string, special-casing rate limiting and duplicate accounts.
func FriendlyAuthMessage(err error) string {
	if err == nil {
		return ""
	}
	apiErr, ok := AsError(err)
	if !ok {
		return err.Error()
	}
	switch {
	case apiErr.Status == http.StatusTooManyRequests:
		return "Too many attempts. Please wait a moment and try again."
	case strings.Contains(apiErr.Body, "User already registered"):
		return "Email already registered. Please sign in instead."
	default:
		if apiErr.Body != "" {
			return apiErr.Body
		}
		return apiErr.Error()
	}
}
