package toolbox

import (
	"context"
	"encoding/json"
)

// Handler executes a tool with the given JSON input and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is a tool definition offered to the model together with the handler
// that executes it. Provider names the external tool provider the tool came
// from; it is empty for built-in tools.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
	Provider    string
}

// Builtin reports whether the tool is implemented in-process.
func (t Tool) Builtin() bool { return t.Provider == "" }

// RouteKind tells where a tool call is dispatched.
type RouteKind int

const (
	RouteBuiltin RouteKind = iota
	RouteProvider
)

func (k RouteKind) String() string {
	if k == RouteProvider {
		return "provider"
	}
	return "builtin"
}

// Route identifies the single handler a tool name resolves to.
type Route struct {
	Kind     RouteKind
	Provider string // Set when Kind is RouteProvider.
}

func (r Route) String() string {
	if r.Kind == RouteProvider {
		return "provider " + r.Provider
	}
	return "builtin"
}

// Route returns the route of the tool.
func (t Tool) Route() Route {
	if t.Builtin() {
		return Route{Kind: RouteBuiltin}
	}
	return Route{Kind: RouteProvider, Provider: t.Provider}
}
