package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/germanamz/aiui/pkg/chats/chat"
	"github.com/germanamz/aiui/pkg/chats/content"
	"github.com/germanamz/aiui/pkg/chats/message"
	"github.com/germanamz/aiui/pkg/chats/role"
	"github.com/germanamz/aiui/pkg/modeladapter"
	"github.com/germanamz/aiui/pkg/modeladapter/usage"
	"github.com/germanamz/aiui/pkg/tools/toolbox"
)

// MaxToolRounds bounds how many model turns RunTools performs.
const MaxToolRounds = 8

// ErrToolRounds is returned when the model is still calling tools after
// MaxToolRounds turns.
var ErrToolRounds = errors.New("assistant: tool round limit reached")

// TurnUsage is the token accounting of one RunTools call.
type TurnUsage struct {
	Usage     usage.Stats
	Exchanges int
	// RateLimit is the last rate limit state the backend reported, or nil.
	RateLimit *modeladapter.RateLimitInfo
}

// ToolHooks observe each tool call RunTools dispatches. OnUsage runs once
// when RunTools returns, failed turns included, if the primary backend
// reports usage and made at least one exchange.
type ToolHooks struct {
	OnToolCallStart func(call content.ToolCall, route toolbox.Route)
	OnToolCallEnd   func(call content.ToolCall, result content.ToolResult)
	OnUsage         func(u TurnUsage)
}

// RunTools runs the tool loop on c: the conversation is sent with every tool
// in tb, each tool call in the reply is dispatched through tb's routing
// table, and the results go back as one user turn. It stops when a reply
// has no tool calls and returns that reply. Every message exchanged is
// appended to c.
//
// Tool calling needs the primary tier; an empty credential is ErrNoAPIKey.
func (o *Orchestrator) RunTools(ctx context.Context, c *chat.Chat, tb *toolbox.ToolBox, credential string, hooks ToolHooks) (message.Message, error) {
	if credential == "" || o.NewPrimary == nil {
		return message.Message{}, modeladapter.ErrNoAPIKey
	}

	primary := o.NewPrimary(credential)
	tools := tb.Tools()

	reporter, _ := primary.(modeladapter.UsageReporter)
	if reporter != nil && hooks.OnUsage != nil {
		defer func() { reportUsage(primary, reporter, hooks.OnUsage) }()
	}

	var last message.Message
	for round := range MaxToolRounds {
		reply, err := primary.Complete(ctx, c, tools)
		if err != nil {
			return message.Message{}, err
		}
		c.Append(reply)
		last = reply

		if reporter != nil {
			o.checkTruncation(reporter)
		}

		calls := reply.ToolCalls()
		if len(calls) == 0 {
			return reply, nil
		}

		o.logger().Debug("dispatching tool calls", "round", round+1, "calls", len(calls))

		results := make([]content.Part, 0, len(calls))
		for _, call := range calls {
			results = append(results, dispatch(ctx, tb, call, hooks))
		}
		c.Append(message.New(role.User, results...))
	}

	return last, fmt.Errorf("%w (%d)", ErrToolRounds, MaxToolRounds)
}

// checkTruncation warns when the latest reply used the whole output budget.
func (o *Orchestrator) checkTruncation(r modeladapter.UsageReporter) {
	last, ok := r.UsageTracker().Last()
	limit := r.ModelMaxTokens()
	if ok && limit > 0 && last.OutputTokens >= limit {
		o.logger().Warn("reply reached the output token limit and may be cut short",
			"output_tokens", last.OutputTokens, "max_tokens", limit)
	}
}

func reportUsage(primary Primary, r modeladapter.UsageReporter, fn func(TurnUsage)) {
	tracker := r.UsageTracker()
	if tracker.Count() == 0 {
		return
	}

	u := TurnUsage{Usage: tracker.Total(), Exchanges: tracker.Count()}
	if rl, ok := primary.(modeladapter.RateLimitReporter); ok {
		u.RateLimit = rl.LastRateLimitInfo()
	}
	fn(u)
}

func dispatch(ctx context.Context, tb *toolbox.ToolBox, call content.ToolCall, hooks ToolHooks) content.ToolResult {
	route, _ := tb.Route(call.Name)
	if hooks.OnToolCallStart != nil {
		hooks.OnToolCallStart(call, route)
	}

	result := tb.Call(ctx, call)

	if hooks.OnToolCallEnd != nil {
		hooks.OnToolCallEnd(call, result)
	}
	return result
}
