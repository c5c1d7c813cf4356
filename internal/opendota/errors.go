package opendota

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the API answers 404. Callers fetching
// match details skip the match.
var ErrNotFound = errors.New("opendota: not found")

// HTTPStatusError represents an error due to a non-2xx HTTP status code
type HTTPStatusError struct {
	Endpoint   string
	StatusCode int
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("opendota %s: status %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is(err, ErrNotFound) match a 404 response.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// RateLimited reports whether the response was HTTP 429.
func (e *HTTPStatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
