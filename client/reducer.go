package client

import (
	"encoding/json"
	"time"

	"github.com/spetersoncode/agentview"
	"github.com/spetersoncode/agentview/patch"
	"github.com/spetersoncode/agentview/wire"
)

// reduce folds one event into client state. Callers hold c.mu.
func (c *Client) reduce(ev wire.Event) {
	switch e := ev.(type) {
	case *wire.RunStarted:
		c.session = agentview.RunSession{
			RunID:     e.RunID,
			ThreadID:  e.ThreadID,
			IsRunning: true,
			RunCount:  c.session.RunCount + 1,
		}

	case *wire.RunFinished:
		c.session.IsRunning = false
		c.session.CurrentStep = ""

	case *wire.RunError:
		c.session.IsRunning = false
		c.session.CurrentStep = ""
		c.session.LastError = e.Message

	case *wire.StepStarted:
		c.session.CurrentStep = e.StepName

	case *wire.StepFinished:
		c.session.CurrentStep = ""

	case *wire.TextMessageStart:
		if _, ok := c.msgIndex[e.MessageID]; ok {
			return
		}
		c.addMessage(&agentview.TextMessage{
			MessageID: e.MessageID,
			Role:      roleOrDefault(e.Role),
			Streaming: true,
			Timestamp: time.Now(),
		})

	case *wire.TextMessageContent:
		if m, ok := c.msgIndex[e.MessageID]; ok && m.Streaming {
			m.Content += e.Delta
		}

	case *wire.TextMessageEnd:
		if m, ok := c.msgIndex[e.MessageID]; ok {
			m.Streaming = false
		}

	case *wire.TextMessageChunk:
		m, ok := c.msgIndex[e.MessageID]
		if !ok {
			m = &agentview.TextMessage{
				MessageID: e.MessageID,
				Role:      roleOrDefault(e.Role),
				Streaming: true,
				Timestamp: time.Now(),
			}
			c.addMessage(m)
		}
		if m.Streaming {
			m.Content += e.Delta
		}

	case *wire.ToolCallStart:
		c.startToolCall(e.ToolCallID, e.ToolCallName, e.Args)

	case *wire.ToolCallArgs:
		if tc, ok := c.toolCalls[e.ToolCallID]; ok && tc.Status == agentview.ToolCallActive {
			tc.Args += e.Delta
		}

	case *wire.ToolCallEnd:
		// Terminal results set by the local tool bridge win over the
		// stream's end frame.
		tc, ok := c.toolCalls[e.ToolCallID]
		if !ok || tc.Status != agentview.ToolCallActive {
			return
		}
		if e.Error != "" {
			tc.Status = agentview.ToolCallError
			tc.Result = e.Error
		} else {
			tc.Status = agentview.ToolCallCompleted
			tc.Result = e.Result
		}

	case *wire.ToolCallResult:
		if tc, ok := c.toolCalls[e.ToolCallID]; ok {
			tc.Status = agentview.ToolCallCompleted
			tc.Result = e.Content
		}

	case *wire.ToolCallChunk:
		tc, ok := c.toolCalls[e.ToolCallID]
		if !ok {
			c.startToolCall(e.ToolCallID, e.ToolCallName, e.Delta)
			return
		}
		if tc.Status == agentview.ToolCallActive {
			tc.Args += e.Delta
		}

	case *wire.StateSnapshot:
		var doc any
		if err := json.Unmarshal(e.Snapshot, &doc); err != nil {
			c.log.Debug("dropping state snapshot", "error", err)
			return
		}
		c.stateDoc = doc

	case *wire.StateDelta:
		next, err := patch.Apply(c.stateDoc, e.Delta)
		if err != nil {
			c.log.Debug("dropping state delta", "error", err)
			return
		}
		c.stateDoc = next

	case *wire.MessagesSnapshot:
		c.messages.Clear()
		c.msgIndex = make(map[string]*agentview.TextMessage)
		for _, sm := range e.Messages {
			c.addMessage(&agentview.TextMessage{
				MessageID: sm.ID,
				Role:      roleOrDefault(sm.Role),
				Content:   sm.Content,
				Timestamp: time.Now(),
			})
		}

	case *wire.ReasoningStart:
		if _, ok := c.reasonIndex[e.ReasoningID]; ok {
			return
		}
		c.addReasoning(&agentview.ReasoningItem{
			ID:        e.ReasoningID,
			Streaming: true,
			Timestamp: time.Now(),
		})

	case *wire.ReasoningContent:
		if r, ok := c.reasonIndex[e.ReasoningID]; ok && r.Streaming {
			r.Content += e.Delta
		}

	case *wire.ReasoningEnd:
		if r, ok := c.reasonIndex[e.ReasoningID]; ok {
			r.Streaming = false
		}

	case *wire.ReasoningChunk:
		r, ok := c.reasonIndex[e.ReasoningID]
		if !ok {
			r = &agentview.ReasoningItem{
				ID:        e.ReasoningID,
				Streaming: true,
				Timestamp: time.Now(),
			}
			c.addReasoning(r)
		}
		if r.Streaming {
			r.Content += e.Delta
		}

	case *wire.Activity:
		c.activities.Append(agentview.ActivityItem{
			Kind:      e.Kind,
			Content:   e.Content,
			Timestamp: time.Now(),
		})

	case *wire.Custom:
		var value any
		if len(e.Value) > 0 {
			if err := json.Unmarshal(e.Value, &value); err != nil {
				c.log.Debug("dropping custom event value", "name", e.Name, "error", err)
			}
		}
		c.customs.Append(agentview.CustomEvent{
			Name:      e.Name,
			Value:     value,
			Timestamp: time.Now(),
		})

	case *wire.Raw, *wire.Unknown:
		// Delivered to subscribers, no state change.
	}
}

// startToolCall registers a new tool call, queues an approval for the
// reserved approval tool, and fires the local handler for registered
// frontend tools. A duplicate start is a no-op.
func (c *Client) startToolCall(toolCallID, name, args string) {
	if _, ok := c.toolCalls[toolCallID]; ok {
		return
	}
	c.toolCalls[toolCallID] = &agentview.ToolCall{
		ToolCallID:   toolCallID,
		ToolCallName: name,
		Args:         args,
		Status:       agentview.ToolCallActive,
		Timestamp:    time.Now(),
	}

	if name == agentview.ApprovalToolName {
		c.approvals = append(c.approvals, &agentview.Approval{
			ToolCallID: toolCallID,
			Args:       args,
			Timestamp:  time.Now(),
		})
		return
	}

	if h, ok := c.tools.Get(name); ok {
		go c.runTool(toolCallID, h, args)
	}
}

// addMessage appends to the message buffer and keeps the index in sync
// with evictions.
func (c *Client) addMessage(m *agentview.TextMessage) {
	c.msgIndex[m.MessageID] = m
	if evicted, ok := c.messages.Append(m); ok {
		delete(c.msgIndex, evicted.MessageID)
	}
}

func (c *Client) addReasoning(r *agentview.ReasoningItem) {
	c.reasonIndex[r.ID] = r
	if evicted, ok := c.reasoning.Append(r); ok {
		delete(c.reasonIndex, evicted.ID)
	}
}

func roleOrDefault(role string) agentview.Role {
	if role == "" {
		return agentview.RoleAgent
	}
	return agentview.Role(role)
}
