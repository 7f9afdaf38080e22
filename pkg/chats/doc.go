// Package chats provides a provider-agnostic data model for conversations
// with a language model backend.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/aiui/pkg/chats/role]: conversation roles (user, assistant)
//   - [github.com/germanamz/aiui/pkg/chats/content]: content parts (text, tool call, tool result)
//   - [github.com/germanamz/aiui/pkg/chats/message]: messages composed of a role and content parts
//   - [github.com/germanamz/aiui/pkg/chats/chat]: append-only conversation container and well-formedness checks
//
// No provider or API code is included; chats is a foundation layer
// that backends can build on.
package chats
