// Package chat provides an append-only conversation container and the
// well-formedness rules a conversation must satisfy before it is sent to a
// backend.
package chat

import (
	"github.com/germanamz/aiui/pkg/chats/message"
)

// Chat is an append-only conversation container. The zero value is ready to use.
// Chat is not safe for concurrent use; callers must synchronize externally.
type Chat struct {
	messages []message.Message
}

// New creates a Chat pre-populated with the given messages.
func New(msgs ...message.Message) *Chat {
	return &Chat{messages: msgs}
}

// Append adds one or more messages to the conversation.
func (c *Chat) Append(msgs ...message.Message) {
	c.messages = append(c.messages, msgs...)
}

// Len returns the number of messages in the conversation.
func (c *Chat) Len() int {
	return len(c.messages)
}

// At returns the message at the given index.
// It panics if the index is out of range.
func (c *Chat) At(index int) message.Message {
	return c.messages[index]
}

// Last returns the most recent message and true, or a zero Message and false
// if the conversation is empty.
func (c *Chat) Last() (message.Message, bool) {
	if len(c.messages) == 0 {
		return message.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Messages returns a copy of all messages in the conversation.
func (c *Chat) Messages() []message.Message {
	cp := make([]message.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// PendingToolCalls returns the tool call IDs of the last message that have no
// matching tool result yet. It is empty unless the conversation ends with an
// assistant turn that requested tools.
func (c *Chat) PendingToolCalls() []string {
	last, ok := c.Last()
	if !ok {
		return nil
	}

	var ids []string
	for _, tc := range last.ToolCalls() {
		ids = append(ids, tc.ID)
	}
	return ids
}

// Validate reports whether the conversation is well-formed. See the package
// level Validate function for the rules.
func (c *Chat) Validate() error {
	return Validate(c.messages)
}
