package client

import (
	"errors"
	"fmt"
)

// ErrClientClosed is returned by actions invoked after Close.
var ErrClientClosed = errors.New("client is closed")

// ErrNoPendingApproval is returned by ApproveToolCall and RejectToolCall
// when no approval with the given tool call ID is pending.
type ErrNoPendingApproval struct {
	ToolCallID string
}

func (e *ErrNoPendingApproval) Error() string {
	return fmt.Sprintf("no pending approval for tool call %q", e.ToolCallID)
}
