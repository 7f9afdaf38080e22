// Package mcpclient connects to external tool provider processes over the
// Model Context Protocol using the official MCP Go SDK.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/germanamz/aiui/pkg/tools/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientName and ClientVersion identify this host during the initialize
// handshake.
const (
	ClientName    = "aiui"
	ClientVersion = "0.1.0"
)

// MCPClient communicates with one tool provider.
type MCPClient struct {
	provider string
	client   *mcp.Client
	session  *mcp.ClientSession
}

// ServerInfo is what the provider advertised during the handshake.
type ServerInfo struct {
	Name            string
	Version         string
	ProtocolVersion string
	HasTools        bool
}

// New spawns the provider process and performs the MCP initialize handshake,
// which doubles as the capability check: it fails if the command is missing,
// exits early, or does not speak MCP before ctx is done. provider is the
// configured name that tags every tool the client returns.
func New(ctx context.Context, provider, command string, args ...string) (*MCPClient, error) {
	transport := &mcp.CommandTransport{
		Command: exec.Command(command, args...), //nolint:gosec // command comes from the user's provider config
	}

	return NewFromTransport(ctx, provider, transport)
}

// NewFromTransport performs the handshake over an already established
// transport, such as one half of mcp.NewInMemoryTransports.
func NewFromTransport(ctx context.Context, provider string, transport mcp.Transport) (*MCPClient, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    ClientName,
		Version: ClientVersion,
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: %s: connect: %w", provider, err)
	}

	return &MCPClient{provider: provider, client: client, session: session}, nil
}

// Provider returns the configured provider name.
func (c *MCPClient) Provider() string { return c.provider }

// ServerInfo returns the provider's handshake answer.
func (c *MCPClient) ServerInfo() ServerInfo {
	res := c.session.InitializeResult()
	if res == nil {
		return ServerInfo{}
	}

	info := ServerInfo{ProtocolVersion: res.ProtocolVersion}
	if res.ServerInfo != nil {
		info.Name = res.ServerInfo.Name
		info.Version = res.ServerInfo.Version
	}
	if res.Capabilities != nil {
		info.HasTools = res.Capabilities.Tools != nil
	}

	return info
}

// ListTools fetches the provider's tools and returns them as toolbox.Tool
// values tagged with the provider name. Each Tool's Handler routes back to
// the provider through CallTool.
func (c *MCPClient) ListTools(ctx context.Context) ([]toolbox.Tool, error) {
	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: %s: list tools: %w", c.provider, err)
	}

	tools := make([]toolbox.Tool, 0, len(result.Tools))
	for _, sdkTool := range result.Tools {
		t, err := fromSDKTool(sdkTool, c)
		if err != nil {
			return nil, fmt.Errorf("mcpclient: %s: convert tool %q: %w", c.provider, sdkTool.Name, err)
		}
		tools = append(tools, t)
	}

	return tools, nil
}

// CallTool calls a named tool on the provider with the given arguments.
func (c *MCPClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (string, error) {
	var args map[string]any
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return "", fmt.Errorf("mcpclient: unmarshal arguments: %w", err)
		}
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("mcpclient: %s: call tool: %w", c.provider, err)
	}

	text := extractText(result)

	if result.IsError {
		return "", fmt.Errorf("mcpclient: %s: tool error: %s", c.provider, text)
	}

	return text, nil
}

// Close ends the session. Closing the command transport closes the
// provider's stdin and escalates to SIGTERM/SIGKILL if it does not exit.
func (c *MCPClient) Close() error {
	return c.session.Close()
}

// fromSDKTool converts an SDK *mcp.Tool to a toolbox.Tool owned by c.
func fromSDKTool(sdkTool *mcp.Tool, c *MCPClient) (toolbox.Tool, error) {
	schemaBytes, err := json.Marshal(sdkTool.InputSchema)
	if err != nil {
		return toolbox.Tool{}, fmt.Errorf("marshal input schema: %w", err)
	}
	if string(schemaBytes) == "null" {
		schemaBytes = []byte(`{"type":"object"}`)
	}

	name := sdkTool.Name

	return toolbox.Tool{
		Name:        sdkTool.Name,
		Description: sdkTool.Description,
		InputSchema: json.RawMessage(schemaBytes),
		Provider:    c.provider,
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			return c.CallTool(ctx, name, input)
		},
	}, nil
}

// extractText joins all TextContent items from a CallToolResult with newlines.
func extractText(result *mcp.CallToolResult) string {
	var texts []string
	for _, item := range result.Content {
		if tc, ok := item.(*mcp.TextContent); ok {
			texts = append(texts, tc.Text)
		}
	}

	return strings.Join(texts, "\n")
}
