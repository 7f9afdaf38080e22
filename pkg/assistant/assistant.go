// Package assistant composes the primary and local backends behind one entry
// point. The fallback policy is a strict two-tier sequence: the primary
// backend is fully attempted first, then the local backend if it is
// reachable. The tiers are never raced and nothing is retried.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/germanamz/aiui/pkg/modeladapter"
)

// ErrNoBackend is returned when neither tier produced a result.
var ErrNoBackend = errors.New("no AI backend available")

// Backend produces a completion for a single prompt.
type Backend interface {
	TryGenerate(ctx context.Context, prompt string) (string, error)
}

// Availability reports whether a backend can currently be reached.
type Availability interface {
	IsAvailable(ctx context.Context) bool
}

// LocalBackend is the fallback tier.
type LocalBackend interface {
	Backend
	Availability
}

// Streamer delivers a completion as ordered text fragments.
type Streamer interface {
	Stream(ctx context.Context, prompt string, onChunk func(string)) error
}

// Primary is the credentialed tier. Complete is used by the tool loop.
type Primary interface {
	Backend
	Streamer
	modeladapter.Completer
}

// Hooks observe orchestration. Every field is optional.
type Hooks struct {
	// OnFallback is called when the local tier is about to be tried, with
	// the reason the primary tier produced nothing.
	OnFallback func(reason error)
}

// Orchestrator is the only place the two tiers are combined. The credential
// is passed on every call and never stored.
type Orchestrator struct {
	NewPrimary func(credential string) Primary
	Local      LocalBackend
	Logger     *slog.Logger
	Hooks      Hooks
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// GenerateResponse returns a completion for prompt.
//
// With a non-empty credential the primary tier is asked first and the first
// text part of its reply is returned. Any primary failure is logged and
// swallowed. The local tier is then checked and, when reachable, its result
// is returned as is, error included. Otherwise the result is ErrNoBackend.
// A cancelled ctx ends the call with ctx.Err() instead of falling back.
func (o *Orchestrator) GenerateResponse(ctx context.Context, prompt, credential string) (string, error) {
	reason := modeladapter.ErrNoAPIKey

	if credential != "" && o.NewPrimary != nil {
		text, err := o.NewPrimary(credential).TryGenerate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		o.logger().Warn("primary backend failed, trying local", "error", err)
		reason = err
	}

	return o.generateLocal(ctx, prompt, reason)
}

func (o *Orchestrator) generateLocal(ctx context.Context, prompt string, reason error) (string, error) {
	if o.Hooks.OnFallback != nil {
		o.Hooks.OnFallback(reason)
	}

	if o.Local != nil && o.Local.IsAvailable(ctx) {
		return o.Local.TryGenerate(ctx, prompt)
	}

	o.logger().Debug("local backend unavailable")
	return "", ErrNoBackend
}

// StreamResponse streams a completion for prompt to onChunk and returns the
// collected text.
//
// The primary tier streams when a credential is given. If it fails before
// delivering any fragment the call falls back exactly like
// GenerateResponse, and the local reply is delivered as a single chunk. A
// failure after fragments were delivered ends the call with the partial
// text and the error; delivered fragments are never retracted.
func (o *Orchestrator) StreamResponse(ctx context.Context, prompt, credential string, onChunk func(string)) (string, error) {
	if onChunk == nil {
		onChunk = func(string) {}
	}

	reason := modeladapter.ErrNoAPIKey

	if credential != "" && o.NewPrimary != nil {
		var full strings.Builder
		delivered := 0

		err := o.NewPrimary(credential).Stream(ctx, prompt, func(chunk string) {
			delivered++
			full.WriteString(chunk)
			onChunk(chunk)
		})
		if err == nil {
			return full.String(), nil
		}
		if delivered > 0 {
			return full.String(), err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		o.logger().Warn("primary stream failed before any output, trying local", "error", err)
		reason = err
	}

	text, err := o.generateLocal(ctx, prompt, reason)
	if err != nil {
		return "", err
	}

	onChunk(text)
	return text, nil
}
