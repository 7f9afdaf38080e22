// Package providers holds the two completion backends:
//   - [github.com/germanamz/aiui/pkg/providers/anthropic] is the primary backend, a hosted API needing a credential
//   - [github.com/germanamz/aiui/pkg/providers/ollama] is the local fallback, reachable only when a local server is running
//
// Both embed [github.com/germanamz/aiui/pkg/modeladapter.ModelAdapter] for
// HTTP plumbing and error classification, and both expose TryGenerate so the
// assistant can treat them as interchangeable tiers.
package providers
