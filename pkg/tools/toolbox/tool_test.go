package toolbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolHandler(t *testing.T) {
	tool := Tool{
		Name:        "launch_app",
		Description: "Launch an application",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"app_name":{"type":"string"}}}`),
		Handler: func(_ context.Context, input json.RawMessage) (string, error) {
			var params struct {
				AppName string `json:"app_name"`
			}
			if err := json.Unmarshal(input, &params); err != nil {
				return "", err
			}
			return "launched " + params.AppName, nil
		},
	}

	result, err := tool.Handler(context.Background(), json.RawMessage(`{"app_name":"firefox"}`))
	require.NoError(t, err)
	assert.Equal(t, "launched firefox", result)
}

func TestTool_Route(t *testing.T) {
	builtin := Tool{Name: "launch_app"}
	assert.True(t, builtin.Builtin())
	assert.Equal(t, Route{Kind: RouteBuiltin}, builtin.Route())

	remote := Tool{Name: "read_file", Provider: "filesystem"}
	assert.False(t, remote.Builtin())
	assert.Equal(t, Route{Kind: RouteProvider, Provider: "filesystem"}, remote.Route())
}

func TestRouteKind_String(t *testing.T) {
	assert.Equal(t, "builtin", RouteBuiltin.String())
	assert.Equal(t, "provider", RouteProvider.String())
}

func TestRoute_String(t *testing.T) {
	assert.Equal(t, "builtin", Route{Kind: RouteBuiltin}.String())
	assert.Equal(t, "provider filesystem", Route{Kind: RouteProvider, Provider: "filesystem"}.String())
}
