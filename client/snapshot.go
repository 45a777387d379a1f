package client

import "github.com/spetersoncode/agentview"

// Snapshot is a point-in-time copy of the client's reduced state.
// Later events never affect an existing snapshot: history entries are
// copied, and the state document is never mutated in place (deltas
// rebuild the nodes they touch).
type Snapshot struct {
	Session   agentview.RunSession
	Connected bool

	// Messages holds the most recent messages in arrival order.
	Messages []agentview.TextMessage

	// ToolCalls holds every tool call observed this session, keyed by
	// tool call ID.
	ToolCalls map[string]agentview.ToolCall

	// Approvals holds pending human-in-the-loop decisions in arrival
	// order.
	Approvals []agentview.Approval

	// State is the agent state document as last synchronized, built
	// from generic JSON values (map[string]any, []any, ...). Nil until
	// the first STATE_SNAPSHOT.
	State any

	Reasoning  []agentview.ReasoningItem
	Activities []agentview.ActivityItem
	Custom     []agentview.CustomEvent
}

// Snapshot returns a copy of the current client state.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Session:   c.session,
		Connected: c.connected,
		ToolCalls: make(map[string]agentview.ToolCall, len(c.toolCalls)),
		State:     c.stateDoc,
	}

	for _, m := range c.messages.Items() {
		snap.Messages = append(snap.Messages, *m)
	}
	for id, tc := range c.toolCalls {
		snap.ToolCalls[id] = *tc
	}
	for _, a := range c.approvals {
		snap.Approvals = append(snap.Approvals, *a)
	}
	for _, r := range c.reasoning.Items() {
		snap.Reasoning = append(snap.Reasoning, *r)
	}
	snap.Activities = c.activities.Items()
	snap.Custom = c.customs.Items()

	return snap
}
