package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedResponse marks a reasoning response that failed structural validation.
// It is treated as transient: the service is non-deterministic and a retry may succeed.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError carries the HTTP status of a failed service call.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// Malformed wraps a validation failure so that it satisfies errors.Is(err, ErrMalformedResponse).
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// IsTransient reports whether err is worth retrying: timeouts, 5xx, rate limits,
// connection failures and malformed responses. Auth errors and bad requests are not.
// A status printed in the message decides before any keyword does.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrMalformedResponse) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return transientStatus(se.StatusCode)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	msg := err.Error()
	if m := statusToken.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		return transientStatus(code)
	}

	lower := strings.ToLower(msg)
	for _, p := range []string{
		"timeout", "timed out", "deadline exceeded",
		"rate limit", "too many requests", "quota", "resource_exhausted",
		"unavailable", "internal error",
		"connection refused", "connection reset", "no such host", "eof",
	} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// statusToken matches an HTTP status the way service errors print it:
// "Error 503, ...", "status 429", "code: 500", "503 Service Unavailable".
var statusToken = regexp.MustCompile(`(?i)(?:\b(?:error|status|code)[ :=]*|^)([1-5]\d\d)\b`)

func transientStatus(code int) bool {
	return code == 408 || code == 429 || code >= 500
}
