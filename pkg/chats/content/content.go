// Package content defines the content parts carried by conversation messages.
package content

// Part is a piece of content within a message. The set of parts is closed:
// only Text, ToolCall and ToolResult are understood by the backends.
type Part interface {
	PartKind() string
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }

// ToolCall represents the model's request to invoke a tool. It is produced by
// the backend, never by the caller. Arguments holds the raw JSON object the
// model supplied as input.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

func (tc ToolCall) PartKind() string { return "tool_call" }

// ToolResult holds the output of a tool invocation. ToolCallID must match the
// ID of a ToolCall earlier in the same conversation.
type ToolResult struct {
	ToolCallID string
	Content    string
	IsError    bool
}

func (tr ToolResult) PartKind() string { return "tool_result" }
