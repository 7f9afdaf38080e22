// Package modeladapter defines the shared plumbing of every model backend.
//
// It contains:
//   - [Completer] interface and embeddable [ModelAdapter] base struct with HTTP helpers, auth, and custom headers
//   - the error taxonomy every backend reports: [ErrNoAPIKey], [RateLimitError], [APIError], [NetworkError]
//   - [ReadEvents], a server-sent events reader used by streaming backends
//   - [github.com/germanamz/aiui/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// This package contains no backend-specific code; concrete backends live in
// separate packages that import modeladapter.
package modeladapter
