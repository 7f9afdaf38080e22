// Package toolbox holds the tools offered to a model and routes the model's
// tool calls back to the one handler that owns each name.
package toolbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/germanamz/aiui/pkg/chats/content"
)

// ErrDuplicateTool is returned when two tools share a name. Tool names must be
// unique within a request so every call the model makes has exactly one
// handler.
var ErrDuplicateTool = errors.New("duplicate tool name")

// DuplicateError reports which registration collided with which.
type DuplicateError struct {
	Name     string
	Existing Route
	Incoming Route
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q: %s already registered, rejected %s", ErrDuplicateTool, e.Name, e.Existing, e.Incoming)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateTool }

// ToolBox is the routing table from tool name to handler. Registration is
// first-come: a second tool with a taken name is rejected and the table is
// left unchanged. ToolBox is not safe for concurrent registration; build it
// once before a request and only read it afterwards.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds tools to the ToolBox. The batch is all-or-nothing: if any name
// collides with a registered tool or another tool in the batch, nothing is
// added and a *DuplicateError is returned.
func (tb *ToolBox) Register(tools ...Tool) error {
	batch := make(map[string]Tool, len(tools))
	for _, t := range tools {
		if existing, ok := tb.tools[t.Name]; ok {
			return &DuplicateError{Name: t.Name, Existing: existing.Route(), Incoming: t.Route()}
		}
		if existing, ok := batch[t.Name]; ok {
			return &DuplicateError{Name: t.Name, Existing: existing.Route(), Incoming: t.Route()}
		}
		batch[t.Name] = t
	}

	for name, t := range batch {
		tb.tools[name] = t
	}
	return nil
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Route returns where a call to name is dispatched.
func (tb *ToolBox) Route(name string) (Route, bool) {
	t, ok := tb.Get(name)
	if !ok {
		return Route{}, false
	}
	return t.Route(), true
}

// Len returns the number of registered tools.
func (tb *ToolBox) Len() int { return len(tb.tools) }

// Tools returns all registered tools sorted by name, so requests built from
// the same ToolBox are identical.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Call executes a tool call and returns a ToolResult. If the tool is not found
// or the handler returns an error, the result will have IsError set to true.
func (tb *ToolBox) Call(ctx context.Context, tc content.ToolCall) content.ToolResult {
	t, ok := tb.Get(tc.Name)
	if !ok || t.Handler == nil {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    fmt.Sprintf("tool not found: %s", tc.Name),
			IsError:    true,
		}
	}

	result, err := t.Handler(ctx, json.RawMessage(tc.Arguments))
	if err != nil {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	return content.ToolResult{
		ToolCallID: tc.ID,
		Content:    result,
	}
}

// ValidateUnique returns a *DuplicateError for the first repeated name in
// tools, or nil when every name is distinct.
func ValidateUnique(tools []Tool) error {
	seen := make(map[string]Tool, len(tools))
	for _, t := range tools {
		if existing, ok := seen[t.Name]; ok {
			return &DuplicateError{Name: t.Name, Existing: existing.Route(), Incoming: t.Route()}
		}
		seen[t.Name] = t
	}
	return nil
}
