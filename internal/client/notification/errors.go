package notification

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation means a local precondition failed; no request was sent.
	ErrValidation = errors.New("validation error")
	// ErrTransport means the request could not be delivered to the backend.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse means a success response had an unexpected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNotFound means the cancellation target is unknown or already terminal.
	ErrNotFound = errors.New("notification not found")
)

// BackendError is returned when the backend answers with a non-2xx status.
type BackendError struct {
	Status int    // HTTP status code
	Body   string // response body text, if any
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend error: status %d", e.Status)
	}

	return fmt.Sprintf("backend error: status %d: %s", e.Status, e.Body)
}
