package builtin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/germanamz/aiui/pkg/chats/content"
	"github.com/germanamz/aiui/pkg/tools/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	apps    []string
	actions []Action
}

func (r *recordingHandler) LaunchApp(_ context.Context, appName string) (string, error) {
	r.apps = append(r.apps, appName)
	return "launched " + appName, nil
}

func (r *recordingHandler) SystemCommand(_ context.Context, action Action) (string, error) {
	r.actions = append(r.actions, action)
	return "done " + string(action), nil
}

func TestToolsAreBuiltinAndSchemasParse(t *testing.T) {
	tools := Tools(&recordingHandler{})
	require.Len(t, tools, 2)
	require.NoError(t, toolbox.ValidateUnique(tools))

	for _, tool := range tools {
		assert.True(t, tool.Builtin(), tool.Name)
		var schema map[string]any
		require.NoError(t, json.Unmarshal(tool.InputSchema, &schema), tool.Name)
		assert.Equal(t, "object", schema["type"])
	}
}

func TestSystemCommandSchemaListsEveryAction(t *testing.T) {
	tool := Tools(&recordingHandler{})[1]
	require.Equal(t, SystemCommandName, tool.Name)

	var schema struct {
		Properties struct {
			Action struct {
				Enum []string `json:"enum"`
			} `json:"action"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal(tool.InputSchema, &schema))
	assert.Len(t, schema.Properties.Action.Enum, len(Actions))
	assert.Contains(t, schema.Properties.Action.Enum, "bluetooth_toggle")
	assert.Equal(t, []string{"action"}, schema.Required)
}

func TestLaunchApp(t *testing.T) {
	h := &recordingHandler{}
	tool := Tools(h)[0]

	out, err := tool.Handler(context.Background(), json.RawMessage(`{"app_name":" firefox "}`))
	require.NoError(t, err)
	assert.Equal(t, "launched firefox", out)
	assert.Equal(t, []string{"firefox"}, h.apps)
}

func TestLaunchAppInvalidInput(t *testing.T) {
	tool := Tools(&recordingHandler{})[0]

	_, err := tool.Handler(context.Background(), json.RawMessage(`{}`))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = tool.Handler(context.Background(), json.RawMessage(`not json`))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSystemCommand(t *testing.T) {
	h := &recordingHandler{}
	tool := Tools(h)[1]

	out, err := tool.Handler(context.Background(), json.RawMessage(`{"action":"mute"}`))
	require.NoError(t, err)
	assert.Equal(t, "done mute", out)
	assert.Equal(t, []Action{Mute}, h.actions)

	_, err = tool.Handler(context.Background(), json.RawMessage(`{"action":"reboot"}`))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, h.actions, 1)
}

func TestRoutedThroughToolBox(t *testing.T) {
	tb := toolbox.New()
	require.NoError(t, tb.Register(Tools(LogHandler{})...))

	res := tb.Call(context.Background(), content.ToolCall{ID: "c1", Name: LaunchAppName, Arguments: `{"app_name":"terminal"}`})
	assert.False(t, res.IsError)
	assert.Equal(t, "c1", res.ToolCallID)
	assert.Equal(t, "requested launch of terminal", res.Content)

	res = tb.Call(context.Background(), content.ToolCall{ID: "c2", Name: SystemCommandName, Arguments: `{"action":"nope"}`})
	assert.True(t, res.IsError)
}
