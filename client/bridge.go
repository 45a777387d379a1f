package client

import (
	"github.com/spetersoncode/agentview"
	"github.com/spetersoncode/agentview/tool"
)

// runTool executes a frontend tool handler and reports its result. It
// runs in its own goroutine: the handler may take arbitrarily long, and
// by the time it returns the client may be closed or the tool call may
// have been replaced by a messages snapshot, so every write is gated on
// re-checking the entry.
func (c *Client) runTool(toolCallID string, h tool.Handler, args string) {
	result, err := h(c.ctx, args)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if tc, ok := c.toolCalls[toolCallID]; ok {
		if err != nil {
			tc.Status = agentview.ToolCallError
			tc.Result = err.Error()
		} else {
			tc.Status = agentview.ToolCallCompleted
			tc.Result = result
		}
	}
	c.mu.Unlock()

	content := result
	if err != nil {
		content = err.Error()
	}
	c.postToolResult(toolCallID, content)
}
