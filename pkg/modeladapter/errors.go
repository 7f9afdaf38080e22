package modeladapter

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrNoAPIKey is returned when a backend that needs a credential was never
// given one. No request is attempted.
var ErrNoAPIKey = errors.New("API key not configured")

// ErrRateLimited is matched (via errors.Is) by every *RateLimitError.
var ErrRateLimited = errors.New("rate limited")

// RateLimitError is returned when the API responds with HTTP 429 (Too Many Requests).
// It carries an optional RetryAfter duration parsed from the Retry-After header.
// Backing off is the caller's concern; adapters never retry on their own.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("rate limited: %s", e.Body)
}

// Is makes errors.Is(err, ErrRateLimited) report true.
func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// APIError is any non-success response other than 429. Message holds the
// response body, or a best-effort description when the body was unusable.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure (DNS, connect, timeout, a stream
// cut short) or a payload that could not be decoded.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Retryable reports whether err is worth retrying after a pause: rate limits
// and network failures are, API errors and a missing key are not.
func Retryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusError converts a non-2xx response status and body into the error
// taxonomy: 429 becomes a *RateLimitError, anything else an *APIError.
func StatusError(status int, header http.Header, body []byte) error {
	if status == http.StatusTooManyRequests {
		return &RateLimitError{
			RetryAfter: ParseRetryAfter(header.Get("Retry-After")),
			Body:       string(body),
		}
	}
	return &APIError{Status: status, Message: string(body)}
}

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date (RFC 7231). Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		d := time.Until(t)
		if d > 0 {
			return d
		}
		return 0
	}
	return 0
}
