package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/carlmjohnson/requests"
)

// ErrAuth marks provider failures caused by a missing or rejected API key.
// The batch runner aborts on these instead of retrying note after note.
var ErrAuth = errors.New("authentication failed")

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from provider")

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuth) {
		return true
	}
	return requests.HasStatusErr(err, http.StatusUnauthorized, http.StatusForbidden)
}

// IsTimeoutError reports whether err is a timeout worth retrying.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
