package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/germanamz/aiui/pkg/assistant"
	"github.com/germanamz/aiui/pkg/chats/chat"
	"github.com/germanamz/aiui/pkg/chats/content"
	"github.com/germanamz/aiui/pkg/chats/message"
	"github.com/germanamz/aiui/pkg/chats/role"
	"github.com/germanamz/aiui/pkg/modeladapter"
	"github.com/germanamz/aiui/pkg/modeladapter/usage"
	"github.com/germanamz/aiui/pkg/tools/toolbox"
)

// ToolCallData is the payload of tool call events.
type ToolCallData struct {
	Call   content.ToolCall
	Route  toolbox.Route
	Result *content.ToolResult // Set on EventToolCallEnd.
}

// UsageData is the payload of EventUsage, published once per Send that
// reached the primary backend.
type UsageData struct {
	Turn      usage.Stats // Summed over every exchange of the Send.
	Session   usage.Stats // Running total of the session, Turn included.
	Exchanges int
	RateLimit *modeladapter.RateLimitInfo // Nil when the backend reported none.
}

// Session represents one conversation. It owns a chat and runs the tool
// loop against the primary backend. Only one Send call may be active at a
// time.
type Session struct {
	id     string
	engine *Engine
	chat   *chat.Chat

	mu     sync.Mutex
	active bool
	usage  usage.Stats
}

func newSession(id string, e *Engine) *Session {
	return &Session{
		id:     id,
		engine: e,
		chat:   chat.New(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Usage returns the tokens spent by the session so far.
func (s *Session) Usage() usage.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.usage
}

func (s *Session) addUsage(turn usage.Stats) usage.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.usage = s.usage.Plus(turn)
	return s.usage
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []message.Message { return s.chat.Messages() }

// Send appends a text message from the user and runs the tool loop. It
// returns the assistant's final reply. Tool calling needs the primary
// backend, so a missing credential fails with modeladapter.ErrNoAPIKey.
func (s *Session) Send(ctx context.Context, text string) (message.Message, error) {
	if err := s.acquire(); err != nil {
		return message.Message{}, err
	}
	defer s.release()

	e := s.engine
	before := s.chat.Len()
	s.chat.Append(message.NewText(role.User, text))

	hooks := assistant.ToolHooks{
		OnToolCallStart: func(call content.ToolCall, route toolbox.Route) {
			e.events.emit(EventToolCallStart, s.id, ToolCallData{Call: call, Route: route})
		},
		OnToolCallEnd: func(call content.ToolCall, result content.ToolResult) {
			route, _ := e.tools.Route(call.Name)
			e.events.emit(EventToolCallEnd, s.id, ToolCallData{Call: call, Route: route, Result: &result})
		},
		OnUsage: func(u assistant.TurnUsage) {
			e.events.emit(EventUsage, s.id, UsageData{
				Turn:      u.Usage,
				Session:   s.addUsage(u.Usage),
				Exchanges: u.Exchanges,
				RateLimit: u.RateLimit,
			})
		},
	}

	reply, err := e.orchestrator.RunTools(ctx, s.chat, e.tools, e.credential(), hooks)

	for i := before; i < s.chat.Len(); i++ {
		e.events.emit(EventMessageAdded, s.id, s.chat.At(i))
	}

	if err != nil {
		e.events.emit(EventError, s.id, err)
		return message.Message{}, err
	}

	return reply, nil
}

func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return fmt.Errorf("engine: session %s: another Send is already active", s.id)
	}
	s.active = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
}
