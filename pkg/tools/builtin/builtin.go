// Package builtin defines the desktop tools offered with every request:
// launching an application and a fixed set of system actions. The actions
// themselves are performed by an ActionHandler supplied by the host.
package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/germanamz/aiui/pkg/tools/toolbox"
)

// Tool names.
const (
	LaunchAppName     = "launch_app"
	SystemCommandName = "system_command"
)

// Action is one of the system actions the system_command tool accepts.
type Action string

const (
	VolumeUp        Action = "volume_up"
	VolumeDown      Action = "volume_down"
	Mute            Action = "mute"
	BrightnessUp    Action = "brightness_up"
	BrightnessDown  Action = "brightness_down"
	WifiToggle      Action = "wifi_toggle"
	BluetoothToggle Action = "bluetooth_toggle"
)

// Actions lists every accepted action in schema order.
var Actions = []Action{VolumeUp, VolumeDown, Mute, BrightnessUp, BrightnessDown, WifiToggle, BluetoothToggle}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// ErrInvalidInput is returned by the tool handlers when the model's arguments
// do not match the tool's schema.
var ErrInvalidInput = errors.New("builtin: invalid input")

// ActionHandler performs the desktop actions. The returned text is handed
// back to the model as the tool result.
type ActionHandler interface {
	LaunchApp(ctx context.Context, appName string) (string, error)
	SystemCommand(ctx context.Context, action Action) (string, error)
}

type launchAppInput struct {
	AppName string `json:"app_name"`
}

type systemCommandInput struct {
	Action Action `json:"action"`
}

// Tools returns the built-in tools bound to h.
func Tools(h ActionHandler) []toolbox.Tool {
	return []toolbox.Tool{launchAppTool(h), systemCommandTool(h)}
}

func launchAppTool(h ActionHandler) toolbox.Tool {
	return toolbox.Tool{
		Name:        LaunchAppName,
		Description: "Launch an installed application by name",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"app_name":{"type":"string","description":"Application name"}},"required":["app_name"]}`),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in launchAppInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			name := strings.TrimSpace(in.AppName)
			if name == "" {
				return "", fmt.Errorf("%w: app_name is required", ErrInvalidInput)
			}
			return h.LaunchApp(ctx, name)
		},
	}
}

func systemCommandTool(h ActionHandler) toolbox.Tool {
	enum, _ := json.Marshal(Actions)

	return toolbox.Tool{
		Name:        SystemCommandName,
		Description: "Execute a system action (volume, brightness, wifi toggle)",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"action":{"type":"string","enum":` + string(enum) + `}},"required":["action"]}`),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in systemCommandInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			if !in.Action.Valid() {
				return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, in.Action)
			}
			return h.SystemCommand(ctx, in.Action)
		},
	}
}

// LogHandler is an ActionHandler that performs nothing and only records the
// request. It backs the CLI, which has no desktop to drive.
type LogHandler struct {
	Logger *slog.Logger
}

func (h LogHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

// LaunchApp implements ActionHandler.
func (h LogHandler) LaunchApp(_ context.Context, appName string) (string, error) {
	h.logger().Info("launch_app requested", "app", appName)
	return fmt.Sprintf("requested launch of %s", appName), nil
}

// SystemCommand implements ActionHandler.
func (h LogHandler) SystemCommand(_ context.Context, action Action) (string, error) {
	h.logger().Info("system_command requested", "action", string(action))
	return fmt.Sprintf("requested %s", action), nil
}
