package chat

import (
	"testing"

	"github.com/germanamz/aiui/pkg/chats/content"
	"github.com/germanamz/aiui/pkg/chats/message"
	"github.com/germanamz/aiui/pkg/chats/role"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m1 := message.NewText(role.User, "hello")
	m2 := message.NewText(role.Assistant, "hi")
	c := New(m1, m2)

	assert.Equal(t, 2, c.Len())
}

func TestChat_ZeroValue(t *testing.T) {
	var c Chat

	assert.Equal(t, 0, c.Len())

	_, ok := c.Last()
	assert.False(t, ok)
	assert.Empty(t, c.Messages())
	assert.NoError(t, c.Validate())
}

func TestChat_Append(t *testing.T) {
	c := New()
	c.Append(message.NewText(role.User, "one"))
	c.Append(
		message.NewText(role.Assistant, "two"),
		message.NewText(role.User, "three"),
	)

	assert.Equal(t, 3, c.Len())
}

func TestChat_At(t *testing.T) {
	c := New(message.NewText(role.User, "hello"))

	got := c.At(0)
	assert.Equal(t, role.User, got.Role)
	assert.Equal(t, "hello", got.TextContent())
}

func TestChat_At_Panics(t *testing.T) {
	c := New()
	assert.Panics(t, func() { c.At(0) })
}

func TestChat_Last(t *testing.T) {
	c := New(
		message.NewText(role.User, "first"),
		message.NewText(role.Assistant, "second"),
	)

	last, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, "second", last.TextContent())
}

func TestChat_Messages_ReturnsCopy(t *testing.T) {
	c := New(message.NewText(role.User, "hello"))

	msgs := c.Messages()
	msgs[0] = message.NewText(role.User, "changed")

	assert.Equal(t, "hello", c.At(0).TextContent())
}

func TestChat_PendingToolCalls(t *testing.T) {
	c := New(
		message.NewText(role.User, "open firefox"),
		message.New(role.Assistant,
			content.ToolCall{ID: "call_1", Name: "launch_app"},
			content.ToolCall{ID: "call_2", Name: "system_command"},
		),
	)

	assert.Equal(t, []string{"call_1", "call_2"}, c.PendingToolCalls())

	c.Append(message.New(role.User,
		content.ToolResult{ToolCallID: "call_1", Content: "ok"},
		content.ToolResult{ToolCallID: "call_2", Content: "ok"},
	))
	assert.Empty(t, c.PendingToolCalls())
}
