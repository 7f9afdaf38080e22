package chat

import (
	"errors"
	"fmt"

	"github.com/germanamz/aiui/pkg/chats/content"
	"github.com/germanamz/aiui/pkg/chats/message"
	"github.com/germanamz/aiui/pkg/chats/role"
)

// ErrMalformed is matched by every ValidationError.
var ErrMalformed = errors.New("chat: malformed conversation")

// ValidationError describes the first rule a conversation violates.
type ValidationError struct {
	Index  int // Index of the offending message.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("chat: message %d: %s", e.Index, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrMalformed }

// WellFormed reports whether msgs passes Validate.
func WellFormed(msgs []message.Message) bool {
	return Validate(msgs) == nil
}

// Validate checks the tool call pairing rules of a message sequence:
//
//   - every role is valid and tool calls only appear in assistant messages;
//   - every ToolResult answers a ToolCall issued earlier in the same message
//     or in the immediately preceding assistant message, at most once;
//   - once an assistant message has requested tools, the next message must be
//     a user message that answers every request before carrying any text.
//
// A conversation that ends with unanswered tool calls is well-formed: the
// caller is expected to append the results before the next exchange.
func Validate(msgs []message.Message) error {
	var (
		issued  map[string]bool // call ID -> answered, for the preceding assistant turn
		pending int
	)

	for i, m := range msgs {
		if !m.Role.Valid() {
			return &ValidationError{Index: i, Reason: fmt.Sprintf("invalid role %q", m.Role)}
		}

		if pending > 0 && m.Role != role.User {
			return &ValidationError{Index: i, Reason: fmt.Sprintf("%d tool call(s) left unanswered", pending)}
		}

		current := make(map[string]bool)

		for _, p := range m.Parts {
			switch v := p.(type) {
			case content.ToolCall:
				if m.Role != role.Assistant {
					return &ValidationError{Index: i, Reason: fmt.Sprintf("tool call %q outside an assistant message", v.ID)}
				}
				if v.ID == "" {
					return &ValidationError{Index: i, Reason: "tool call without id"}
				}
				current[v.ID] = false
			case content.ToolResult:
				if answered, ok := current[v.ToolCallID]; ok {
					if answered {
						return &ValidationError{Index: i, Reason: fmt.Sprintf("tool result %q answered twice", v.ToolCallID)}
					}
					current[v.ToolCallID] = true
					continue
				}

				answered, ok := issued[v.ToolCallID]
				if !ok {
					return &ValidationError{Index: i, Reason: fmt.Sprintf("tool result %q has no matching tool call", v.ToolCallID)}
				}
				if answered {
					return &ValidationError{Index: i, Reason: fmt.Sprintf("tool result %q answered twice", v.ToolCallID)}
				}
				issued[v.ToolCallID] = true
				pending--
			case content.Text:
				if pending > 0 {
					return &ValidationError{Index: i, Reason: fmt.Sprintf("text sent while %d tool call(s) are unanswered", pending)}
				}
			}
		}

		if pending > 0 {
			return &ValidationError{Index: i, Reason: fmt.Sprintf("%d tool call(s) left unanswered", pending)}
		}

		issued, pending = nil, 0

		if m.Role == role.Assistant {
			issued = make(map[string]bool)
			for id, answered := range current {
				issued[id] = answered
				if !answered {
					pending++
				}
			}
		}
	}

	return nil
}
