package modeladapter

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimitInfo holds rate limit state parsed from backend response headers.
// A remaining count of -1 means the header was absent.
type RateLimitInfo struct {
	RemainingRequests int
	RemainingTokens   int
	RequestsReset     time.Time
	TokensReset       time.Time
}

// ResetAfter returns how long until the exhausted budget (requests or tokens)
// resets, measured from now. It is zero when neither budget is exhausted or no
// reset time is known.
func (i *RateLimitInfo) ResetAfter(now time.Time) time.Duration {
	var until time.Time

	if i.RemainingRequests == 0 && i.RequestsReset.After(now) {
		until = i.RequestsReset
	}
	if i.RemainingTokens == 0 && i.TokensReset.After(until) && i.TokensReset.After(now) {
		until = i.TokensReset
	}

	if until.IsZero() {
		return 0
	}
	return until.Sub(now)
}

// RateLimitHeaderParser extracts rate limit info from HTTP response headers.
// It receives the current time so callers can control the clock in tests.
type RateLimitHeaderParser func(h http.Header, now time.Time) *RateLimitInfo

// ParseAnthropicRateLimitHeaders parses Anthropic-specific rate limit headers.
// Headers: anthropic-ratelimit-{requests,tokens}-{remaining,reset}.
func ParseAnthropicRateLimitHeaders(h http.Header, now time.Time) *RateLimitInfo {
	reqRemaining := h.Get("anthropic-ratelimit-requests-remaining")
	tokRemaining := h.Get("anthropic-ratelimit-tokens-remaining")

	if reqRemaining == "" && tokRemaining == "" {
		return nil
	}

	info := &RateLimitInfo{
		RemainingRequests: -1,
		RemainingTokens:   -1,
	}
	if v, err := strconv.Atoi(reqRemaining); err == nil {
		info.RemainingRequests = v
	}
	if v, err := strconv.Atoi(tokRemaining); err == nil {
		info.RemainingTokens = v
	}
	info.RequestsReset = parseResetTime(h.Get("anthropic-ratelimit-requests-reset"), now)
	info.TokensReset = parseResetTime(h.Get("anthropic-ratelimit-tokens-reset"), now)

	return info
}

// parseResetTime tries RFC3339 first, then a Go duration string (e.g. "6s", "1m30s")
// relative to now.
func parseResetTime(val string, now time.Time) time.Time {
	if val == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t
	}
	if d, err := time.ParseDuration(val); err == nil {
		return now.Add(d)
	}
	return time.Time{}
}
