package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/germanamz/aiui/pkg/chats/message"
	"github.com/germanamz/aiui/pkg/chats/role"
	"github.com/germanamz/aiui/pkg/modeladapter"
)

// errYieldStopped ends event reading when the consumer leaves the loop.
var errYieldStopped = errors.New("consumer stopped")

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorStatus maps the error types of in-stream error events onto the HTTP
// status the same failure carries outside a stream.
var errorStatus = map[string]int{
	"invalid_request_error": http.StatusBadRequest,
	"authentication_error":  http.StatusUnauthorized,
	"permission_error":      http.StatusForbidden,
	"not_found_error":       http.StatusNotFound,
	"request_too_large":     http.StatusRequestEntityTooLarge,
	"rate_limit_error":      http.StatusTooManyRequests,
	"api_error":             http.StatusInternalServerError,
	"overloaded_error":      529,
}

// Stream sends prompt as a single user turn with streaming enabled and calls
// onChunk once per text fragment, in arrival order, on the calling
// goroutine. Fragments delivered before a failure are not retracted: the
// returned error only says the stream did not finish.
func (a *Adapter) Stream(ctx context.Context, prompt string, onChunk func(string)) error {
	for fragment, err := range a.Fragments(ctx, prompt) {
		if err != nil {
			return err
		}
		onChunk(fragment)
	}
	return nil
}

// Fragments is the pull form of Stream. The sequence yields each text
// fragment with a nil error; a failure is yielded once as ("", err) and ends
// the sequence. Leaving the loop early closes the connection.
//
//	for text, err := range a.Fragments(ctx, "hi") {
//		if err != nil { ... }
//		fmt.Print(text)
//	}
func (a *Adapter) Fragments(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if a.Auth.Key == "" {
			yield("", modeladapter.ErrNoAPIKey)
			return
		}

		req := a.buildRequest([]message.Message{message.NewText(role.User, prompt)}, nil)
		req.Stream = true

		resp, err := a.PostStream(ctx, messagesPath, req)
		if err != nil {
			yield("", fmt.Errorf("anthropic: %w", err))
			return
		}
		defer func() { _ = resp.Body.Close() }()

		count := 0
		stopped := false
		err = modeladapter.ReadEvents(ctx, resp.Body, func(ev modeladapter.Event) error {
			var payload streamEvent
			if err := json.Unmarshal([]byte(ev.Data), &payload); err != nil {
				if ev.Name == "content_block_delta" || ev.Name == "error" {
					return &modeladapter.NetworkError{Op: "decode event", Err: err}
				}
				return nil
			}

			name := ev.Name
			if name == "" {
				name = payload.Type
			}

			switch name {
			case "content_block_delta":
				if payload.Delta.Text == "" {
					return nil
				}
				count++
				if !yield(payload.Delta.Text, nil) {
					return errYieldStopped
				}
			case "message_stop":
				stopped = true
				return modeladapter.ErrStopEvents
			case "error":
				status, ok := errorStatus[payload.Error.Type]
				if !ok {
					status = http.StatusInternalServerError
				}
				return &modeladapter.APIError{Status: status, Message: payload.Error.Message}
			}
			return nil
		})

		switch {
		case errors.Is(err, errYieldStopped):
			a.logger().Debug("anthropic stream abandoned", "fragments", count)
			return
		case err != nil:
			yield("", fmt.Errorf("anthropic: %w", classifyStreamError(ctx, err)))
		case !stopped:
			yield("", fmt.Errorf("anthropic: %w", &modeladapter.NetworkError{Op: "read stream", Err: io.ErrUnexpectedEOF}))
		default:
			a.logger().Debug("anthropic stream finished", "fragments", count)
		}
	}
}

func classifyStreamError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var (
		apiErr *modeladapter.APIError
		netErr *modeladapter.NetworkError
	)
	if errors.As(err, &apiErr) || errors.As(err, &netErr) {
		return err
	}
	return &modeladapter.NetworkError{Op: "read stream", Err: err}
}
