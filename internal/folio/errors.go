package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError reports a non-2xx response. Message is taken from the response
// body's error field when the server provided one, otherwise the status text.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.Status)
}

// NetworkError reports a transport-level failure (connection refused,
// timeout, DNS) before any HTTP status was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a malformed body on a success status. Decode failures
// are never transient, so they are never retried.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is an HTTP 401. The session layer treats
// this as "log out"; inside the client it is just another surfaced error.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}

// retryable classifies errors the fixed-delay retry loop may try again:
// transport failures and HTTP statuses that signal a transient server-side
// condition. Decode errors and other 4xx responses are permanent.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Status >= 500:
			return true
		case httpErr.Status == http.StatusRequestTimeout, httpErr.Status == http.StatusTooManyRequests:
			return true
		}
	}
	return false
}
