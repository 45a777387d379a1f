package client

import "fmt"

// ApproveToolCall resolves a pending approval positively. The decision
// is removed from the queue immediately and posted to the server as a
// tool result; the POST is fire-and-forget.
func (c *Client) ApproveToolCall(toolCallID string) error {
	return c.decideApproval(toolCallID, true)
}

// RejectToolCall resolves a pending approval negatively.
func (c *Client) RejectToolCall(toolCallID string) error {
	return c.decideApproval(toolCallID, false)
}

func (c *Client) decideApproval(toolCallID string, approved bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}

	found := false
	for i, a := range c.approvals {
		if a.ToolCallID == toolCallID {
			c.approvals = append(c.approvals[:i], c.approvals[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return &ErrNoPendingApproval{ToolCallID: toolCallID}
	}

	go c.postToolResult(toolCallID, fmt.Sprintf(`{"approved":%t}`, approved))
	return nil
}
