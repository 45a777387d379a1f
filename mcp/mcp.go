// Package mcp bridges MCP (Model Context Protocol) servers into the
// AG-UI tool execution path.
//
// A [Bridge] connects to an MCP server, discovers its tools, and
// registers each one as a frontend tool handler. When the agent starts
// a tool call with a bridged name, the call is proxied to the MCP
// server and its text output is posted back as the tool result.
//
//	bridge, err := mcp.NewStdio(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bridge.Close()
//
//	if err := bridge.Bind(c); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/agentview/tool"
)

// ToolRegistrar is the surface a Bridge binds tools onto. It is
// satisfied by the AG-UI client.
type ToolRegistrar interface {
	RegisterTool(name string, h tool.Handler) error
	UnregisterTool(name string)
}

// Bridge proxies tools from one MCP server. It is safe for concurrent
// use; the tool list is cached locally and refreshed with
// [Bridge.Refresh].
type Bridge struct {
	client *mcpclient.Client

	mu    sync.RWMutex
	names []string
}

// NewStdio connects a Bridge to an MCP server launched as a
// subprocess. The command is the server executable and args are passed
// to it.
func NewStdio(ctx context.Context, command string, env []string, args ...string) (*Bridge, error) {
	c, err := mcpclient.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	return newBridge(ctx, c)
}

// NewSSE connects a Bridge to an MCP server over SSE.
func NewSSE(ctx context.Context, baseURL string) (*Bridge, error) {
	c, err := mcpclient.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSE MCP client: %w", err)
	}
	return newBridge(ctx, c)
}

// NewFromClient creates a Bridge from an existing MCP client. The
// bridge starts and initializes the client and fetches its tools.
func NewFromClient(ctx context.Context, c *mcpclient.Client) (*Bridge, error) {
	return newBridge(ctx, c)
}

func newBridge(ctx context.Context, c *mcpclient.Client) (*Bridge, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "agentview-mcp-bridge",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	b := &Bridge{client: c}
	if err := b.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return b, nil
}

// Close closes the connection to the MCP server. Bound handlers remain
// registered but fail once the connection is gone; call Unbind first to
// remove them.
func (b *Bridge) Close() error {
	return b.client.Close()
}

// Refresh fetches the current tool list from the MCP server.
func (b *Bridge) Refresh(ctx context.Context) error {
	result, err := b.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.names = b.names[:0]
	for _, t := range result.Tools {
		b.names = append(b.names, t.Name)
	}
	return nil
}

// Names returns the names of the discovered tools.
func (b *Bridge) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Len returns the number of discovered tools.
func (b *Bridge) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.names)
}

// Bind registers every discovered tool on the registrar. Registration
// stops at the first conflict.
func (b *Bridge) Bind(reg ToolRegistrar) error {
	for _, name := range b.Names() {
		if err := reg.RegisterTool(name, b.handler(name)); err != nil {
			return err
		}
	}
	return nil
}

// Unbind removes every discovered tool from the registrar.
func (b *Bridge) Unbind(reg ToolRegistrar) {
	for _, name := range b.Names() {
		reg.UnregisterTool(name)
	}
}

// handler returns a tool.Handler that proxies one named tool to the
// MCP server.
func (b *Bridge) handler(name string) tool.Handler {
	return func(ctx context.Context, args string) (string, error) {
		result, err := b.client.CallTool(ctx, callToolRequest(name, args))
		if err != nil {
			return "", fmt.Errorf("mcp tool %s: %w", name, err)
		}
		content := resultText(result)
		if result != nil && result.IsError {
			return "", fmt.Errorf("mcp tool %s: %s", name, content)
		}
		return content, nil
	}
}

// callToolRequest builds a CallToolRequest from a raw argument string.
// Arguments streamed over AG-UI are JSON; anything unparsable is passed
// through verbatim.
func callToolRequest(name, args string) mcp.CallToolRequest {
	var parsed any
	if args != "" {
		if err := json.Unmarshal([]byte(args), &parsed); err != nil {
			parsed = args
		}
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: parsed,
		},
	}
}

// resultText flattens a CallToolResult into the text form expected by
// the tool-result POST.
func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}
	return strings.Join(parts, "\n")
}
