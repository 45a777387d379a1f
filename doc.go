// Package agentview provides a client for the AG-UI agent-execution
// protocol.
//
// An AG-UI server pushes a stream of small JSON frames describing a
// long-running agent: run lifecycle, streaming text, tool invocation,
// state synchronization, chain-of-thought reasoning, free-form activity,
// and custom telemetry. The agentview client folds that stream into a
// consistent, bounded snapshot of what the agent is doing right now, and
// exposes a small set of actions back to the server: approve or reject a
// tool call, send a message, register a local tool handler, reconnect,
// abort.
//
// # Basic Usage
//
// Connect to an AG-UI endpoint and watch the agent work:
//
//	c := client.New(client.Config{BaseURL: "http://localhost:8080"})
//	c.Connect()
//	defer c.Close()
//
//	unsubscribe := c.Subscribe(func(ev wire.Event) bool {
//	    fmt.Printf("event: %s\n", ev.Type())
//	    return true // allow default handling
//	})
//	defer unsubscribe()
//
//	snap := c.Snapshot()
//	fmt.Println(snap.Session.IsRunning, len(snap.Messages))
//
// # Human-in-the-Loop Approvals
//
// Tool calls named "request_approval" enter a pending queue until the
// user decides:
//
//	for _, a := range c.Snapshot().Approvals {
//	    c.ApproveToolCall(a.ToolCallID)
//	}
//
// # Frontend Tools
//
// Handlers registered on the client execute locally when the agent calls
// a tool by that name, and the result is posted back to the server:
//
//	c.RegisterTool("open_file", func(ctx context.Context, args string) (string, error) {
//	    return openFile(args)
//	})
//
// # Package Structure
//
//   - [github.com/spetersoncode/agentview/client]: the protocol client
//   - [github.com/spetersoncode/agentview/wire]: the AG-UI event vocabulary
//   - [github.com/spetersoncode/agentview/patch]: JSON Patch state mutation
//   - [github.com/spetersoncode/agentview/tool]: frontend tool handler registry
//   - [github.com/spetersoncode/agentview/mcp]: MCP-backed frontend tools
package agentview
