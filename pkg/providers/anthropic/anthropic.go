// Package anthropic is the primary backend: a client for the Anthropic
// Messages API with buffered, tool-calling and streaming exchanges.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/germanamz/aiui/pkg/chats/chat"
	"github.com/germanamz/aiui/pkg/chats/content"
	"github.com/germanamz/aiui/pkg/chats/message"
	"github.com/germanamz/aiui/pkg/chats/role"
	"github.com/germanamz/aiui/pkg/modeladapter"
	"github.com/germanamz/aiui/pkg/modeladapter/usage"
	"github.com/germanamz/aiui/pkg/tools/toolbox"
)

const (
	// DefaultBaseURL is the public Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is used when New is given an empty model name.
	DefaultModel = "claude-sonnet-4-5-20250929"
	// DefaultMaxTokens bounds every response.
	DefaultMaxTokens = 4096
	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"
	// DefaultSystemPrompt is the instruction every request carries unless
	// replaced with WithSystemPrompt.
	DefaultSystemPrompt = "You are an AI assistant integrated into a desktop shell. " +
		"Help users launch apps, manage files, answer questions, and control their system. " +
		"Be concise and actionable."

	messagesPath = "/v1/messages"
)

// ErrNoText is returned by TryGenerate when the reply carried no text part,
// for example a reply made only of tool calls.
var ErrNoText = errors.New("anthropic: reply has no text")

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter talks to the Anthropic Messages API. A single Adapter may serve
// concurrent calls; each call owns its own request and response.
type Adapter struct {
	modeladapter.ModelAdapter
	SystemPrompt string
	Logger       *slog.Logger
}

// Reply is a decoded buffered response.
type Reply struct {
	ID         string
	Message    message.Message
	StopReason string
	Usage      usage.Stats
}

// New creates an Adapter. An empty baseURL selects DefaultBaseURL and an
// empty model selects DefaultModel.
func New(baseURL, apiKey, model string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	a := &Adapter{SystemPrompt: DefaultSystemPrompt}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.Name = model
	a.MaxTokens = DefaultMaxTokens
	a.Headers = map[string]string{
		"anthropic-version": APIVersion,
	}
	a.HeaderParser = modeladapter.ParseAnthropicRateLimitHeaders

	return a
}

// WithModel replaces the model name.
func (a *Adapter) WithModel(model string) *Adapter {
	a.Name = model
	return a
}

// WithSystemPrompt replaces the system instruction. An empty prompt sends no
// system field.
func (a *Adapter) WithSystemPrompt(prompt string) *Adapter {
	a.SystemPrompt = prompt
	return a
}

func (a *Adapter) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// Send performs a buffered exchange without tools.
func (a *Adapter) Send(ctx context.Context, msgs []message.Message) (Reply, error) {
	return a.SendWithTools(ctx, msgs, nil)
}

// SendWithTools performs a buffered exchange declaring tools. The
// conversation must be well-formed and tool names unique; both are checked
// before any request is made.
func (a *Adapter) SendWithTools(ctx context.Context, msgs []message.Message, tools []toolbox.Tool) (Reply, error) {
	if a.Auth.Key == "" {
		return Reply{}, modeladapter.ErrNoAPIKey
	}
	if len(msgs) == 0 {
		return Reply{}, fmt.Errorf("anthropic: %w: empty conversation", chat.ErrMalformed)
	}
	if err := chat.Validate(msgs); err != nil {
		return Reply{}, fmt.Errorf("anthropic: %w", err)
	}
	if err := toolbox.ValidateUnique(tools); err != nil {
		return Reply{}, fmt.Errorf("anthropic: %w", err)
	}

	req := a.buildRequest(msgs, tools)

	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, req, &resp); err != nil {
		return Reply{}, fmt.Errorf("anthropic: %w", err)
	}

	stats := usage.Stats{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	a.Usage.Add(stats)
	a.logger().Debug("anthropic reply", "id", resp.ID, "stop_reason", resp.StopReason,
		"input_tokens", stats.InputTokens, "output_tokens", stats.OutputTokens)

	return Reply{
		ID:         resp.ID,
		Message:    parseContent(resp.Content),
		StopReason: resp.StopReason,
		Usage:      stats,
	}, nil
}

// Complete sends the conversation in c and returns the assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat, tools []toolbox.Tool) (message.Message, error) {
	reply, err := a.SendWithTools(ctx, c.Messages(), tools)
	if err != nil {
		return message.Message{}, err
	}
	return reply.Message, nil
}

// TryGenerate sends prompt as a single user turn and returns the first text
// part of the reply.
func (a *Adapter) TryGenerate(ctx context.Context, prompt string) (string, error) {
	reply, err := a.Send(ctx, []message.Message{message.NewText(role.User, prompt)})
	if err != nil {
		return "", err
	}

	text, ok := reply.Message.FirstText()
	if !ok {
		return "", ErrNoText
	}
	return text, nil
}

// --- request types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
	Stream    bool         `json:"stream,omitempty"`
	Tools     []apiToolDef `json:"tools,omitempty"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

type apiToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// --- response types ---

type apiResponse struct {
	ID         string       `json:"id"`
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(msgs []message.Message, tools []toolbox.Tool) apiRequest {
	req := apiRequest{
		Model:     a.Name,
		MaxTokens: a.MaxTokens,
		System:    a.SystemPrompt,
	}

	if len(tools) > 0 {
		req.Tools = make([]apiToolDef, len(tools))
		for i, t := range tools {
			schema := t.InputSchema
			if len(schema) == 0 {
				schema = json.RawMessage(`{"type":"object"}`)
			}
			req.Tools[i] = apiToolDef{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: schema,
			}
		}
	}

	for _, m := range msgs {
		appendMessage(&req.Messages, m)
	}

	return req
}

// appendMessage converts m and merges it into the previous message when the
// roles match, since the API expects alternating turns.
func appendMessage(msgs *[]apiMessage, m message.Message) {
	blocks := make([]apiContent, 0, len(m.Parts))
	for _, p := range m.Parts {
		if block := partToBlock(p); block != nil {
			blocks = append(blocks, *block)
		}
	}
	if len(blocks) == 0 {
		return
	}

	msgRole := m.Role.String()
	if n := len(*msgs); n > 0 && (*msgs)[n-1].Role == msgRole {
		(*msgs)[n-1].Content = append((*msgs)[n-1].Content, blocks...)
		return
	}

	*msgs = append(*msgs, apiMessage{Role: msgRole, Content: blocks})
}

func partToBlock(p content.Part) *apiContent {
	switch v := p.(type) {
	case content.Text:
		return &apiContent{Type: "text", Text: v.Text}
	case content.ToolCall:
		input := json.RawMessage(v.Arguments)
		if len(input) == 0 {
			input = json.RawMessage(`{}`)
		}
		return &apiContent{Type: "tool_use", ID: v.ID, Name: v.Name, Input: input}
	case content.ToolResult:
		return &apiContent{Type: "tool_result", ToolUseID: v.ToolCallID, Content: v.Content, IsError: v.IsError}
	default:
		return nil
	}
}

func parseContent(blocks []apiContent) message.Message {
	var parts []content.Part

	for _, block := range blocks {
		switch block.Type {
		case "text":
			parts = append(parts, content.Text{Text: block.Text})
		case "tool_use":
			args := string(block.Input)
			if args == "" || args == "null" {
				args = "{}"
			}
			parts = append(parts, content.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	return message.New(role.Assistant, parts...)
}
