package cms

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig is returned when CMS configuration is incomplete or malformed.
	ErrInvalidConfig = errors.New("invalid cms config")
	// ErrUnknownProvider is returned for provider without adapter.
	ErrUnknownProvider = errors.New("unknown cms provider")
	// ErrTimeout is returned when CMS request exceeds configured timeout.
	ErrTimeout = errors.New("cms request timed out")
	// ErrUnauthorized is matched by StatusError with 401 or 403 status.
	ErrUnauthorized = errors.New("cms request unauthorized")
)

// StatusError is returned when CMS responds with non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is reports ErrUnauthorized for 401 and 403 statuses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Retryable reports whether request may succeed when repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// NotFound reports 404 status.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
