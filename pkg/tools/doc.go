// Package tools groups the tool layer of the assistant.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/aiui/pkg/tools/toolbox] holds the Tool type and the name-to-handler routing table
//   - [github.com/germanamz/aiui/pkg/tools/builtin] defines the desktop tools every request carries
//   - [github.com/germanamz/aiui/pkg/tools/mcpclient] talks to external tool-provider processes over MCP
//   - [github.com/germanamz/aiui/pkg/tools/mcpserver] serves the built-in tools to other MCP hosts
//
// toolbox is the foundation layer. builtin, mcpclient and mcpserver depend on
// it for the Tool type but are independent of each other.
package tools
