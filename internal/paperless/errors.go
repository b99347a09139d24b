package paperless

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError describes a non-success response from the Paperless-ngx API.
type APIError struct {
	StatusCode int
	Status     string
	Method     string
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("paperless: %s %s: %s: %s", e.Method, e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("paperless: %s %s: %s", e.Method, e.URL, e.Status)
}

// IsNotFound reports whether err means the service no longer has the record
// (HTTP 404). Callers treat this as a per-id operation failure, not a reason
// to abort sibling operations.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsTimeout reports whether err was caused by a request deadline expiring.
// The merge engine retries timed-out bulk calls with smaller batches; every
// other failure kind is recorded without retry.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
