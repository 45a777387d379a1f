// Package wire defines the AG-UI event vocabulary and decodes inbound
// frames.
//
// Every frame on the stream is a JSON object with a required "type"
// discriminator. Decode returns a typed event for known discriminators
// and an [Unknown] event for unrecognized ones, so new server-side event
// types flow through the client without breaking it. Field names follow
// the protocol's camelCase convention (threadId, messageId, toolCallId).
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/spetersoncode/agentview/patch"
)

// EventType is the frame discriminator.
type EventType string

// Run and step lifecycle.
const (
	EventRunStarted   EventType = "RUN_STARTED"
	EventRunFinished  EventType = "RUN_FINISHED"
	EventRunError     EventType = "RUN_ERROR"
	EventStepStarted  EventType = "STEP_STARTED"
	EventStepFinished EventType = "STEP_FINISHED"
)

// Text message lifecycle.
const (
	EventTextMessageStart   EventType = "TEXT_MESSAGE_START"
	EventTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"
	EventTextMessageEnd     EventType = "TEXT_MESSAGE_END"
	EventTextMessageChunk   EventType = "TEXT_MESSAGE_CHUNK"
)

// Tool call lifecycle.
const (
	EventToolCallStart  EventType = "TOOL_CALL_START"
	EventToolCallArgs   EventType = "TOOL_CALL_ARGS"
	EventToolCallEnd    EventType = "TOOL_CALL_END"
	EventToolCallResult EventType = "TOOL_CALL_RESULT"
	EventToolCallChunk  EventType = "TOOL_CALL_CHUNK"
)

// State synchronization.
const (
	EventStateSnapshot    EventType = "STATE_SNAPSHOT"
	EventStateDelta       EventType = "STATE_DELTA"
	EventMessagesSnapshot EventType = "MESSAGES_SNAPSHOT"
)

// Reasoning, activity, and telemetry.
const (
	EventReasoningStart   EventType = "REASONING_START"
	EventReasoningContent EventType = "REASONING_CONTENT"
	EventReasoningEnd     EventType = "REASONING_END"
	EventReasoningChunk   EventType = "REASONING_CHUNK"
	EventActivity         EventType = "ACTIVITY"
	EventCustom           EventType = "CUSTOM"
	EventRaw              EventType = "RAW"
)

// Event is a decoded frame. Concrete types are pointers to the payload
// structs below. Consumers must treat events as read-only.
type Event interface {
	Type() EventType
}

// RunStarted begins a new agent run.
type RunStarted struct {
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// RunFinished ends the active run successfully.
type RunFinished struct {
	ThreadID string `json:"threadId,omitempty"`
	RunID    string `json:"runId,omitempty"`
}

// RunError ends the active run with a server-reported error.
type RunError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StepStarted marks the beginning of a named step within the run.
type StepStarted struct {
	StepName string `json:"stepName"`
}

// StepFinished marks the end of a named step.
type StepFinished struct {
	StepName string `json:"stepName"`
}

// TextMessageStart opens a streaming text message.
type TextMessageStart struct {
	MessageID string `json:"messageId"`
	Role      string `json:"role,omitempty"`
}

// TextMessageContent appends a delta to an open text message.
type TextMessageContent struct {
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// TextMessageEnd seals a text message.
type TextMessageEnd struct {
	MessageID string `json:"messageId"`
}

// TextMessageChunk is the stateless message variant: it creates the
// message on first sight and appends thereafter.
type TextMessageChunk struct {
	MessageID string `json:"messageId"`
	Role      string `json:"role,omitempty"`
	Delta     string `json:"delta"`
}

// ToolCallStart opens a tool invocation.
type ToolCallStart struct {
	ToolCallID      string `json:"toolCallId"`
	ToolCallName    string `json:"toolCallName"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
	Args            string `json:"args,omitempty"`
}

// ToolCallArgs appends an argument delta to an open tool call.
type ToolCallArgs struct {
	ToolCallID string `json:"toolCallId"`
	Delta      string `json:"delta"`
}

// ToolCallEnd terminates a tool call. An error field present on the
// frame means the call failed; otherwise it completed with Result.
type ToolCallEnd struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ToolCallResult reports a tool result, always completing the call.
type ToolCallResult struct {
	MessageID  string `json:"messageId,omitempty"`
	ToolCallID string `json:"toolCallId"`
	Content    string `json:"content"`
}

// ToolCallChunk is the stateless tool-call variant: it creates the call
// on first sight and appends argument deltas thereafter.
type ToolCallChunk struct {
	ToolCallID   string `json:"toolCallId"`
	ToolCallName string `json:"toolCallName,omitempty"`
	Delta        string `json:"delta,omitempty"`
}

// StateSnapshot replaces the agent state document wholesale.
type StateSnapshot struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

// StateDelta mutates the agent state document with JSON Patch ops.
type StateDelta struct {
	Delta []patch.Operation `json:"delta"`
}

// SnapshotMessage is one entry of a MESSAGES_SNAPSHOT frame.
type SnapshotMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// MessagesSnapshot replaces the message history wholesale.
type MessagesSnapshot struct {
	Messages []SnapshotMessage `json:"messages"`
}

// ReasoningStart opens a streaming reasoning entry.
type ReasoningStart struct {
	ReasoningID string `json:"reasoningId"`
}

// ReasoningContent appends a delta to an open reasoning entry.
type ReasoningContent struct {
	ReasoningID string `json:"reasoningId"`
	Delta       string `json:"delta"`
}

// ReasoningEnd seals a reasoning entry.
type ReasoningEnd struct {
	ReasoningID string `json:"reasoningId"`
}

// ReasoningChunk creates a reasoning entry on first sight and appends
// thereafter.
type ReasoningChunk struct {
	ReasoningID string `json:"reasoningId"`
	Delta       string `json:"delta"`
}

// Activity is a free-form activity report.
type Activity struct {
	Kind    string `json:"kind,omitempty"`
	Content string `json:"content"`
}

// Custom is application-defined telemetry.
type Custom struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Raw wraps an external event passed through verbatim.
type Raw struct {
	Event  json.RawMessage `json:"event"`
	Source string          `json:"source,omitempty"`
}

// Unknown carries a frame whose discriminator the client does not
// recognize. It reaches subscribers but never changes state.
type Unknown struct {
	EventType EventType
	Frame     json.RawMessage
}

func (*RunStarted) Type() EventType         { return EventRunStarted }
func (*RunFinished) Type() EventType        { return EventRunFinished }
func (*RunError) Type() EventType           { return EventRunError }
func (*StepStarted) Type() EventType        { return EventStepStarted }
func (*StepFinished) Type() EventType       { return EventStepFinished }
func (*TextMessageStart) Type() EventType   { return EventTextMessageStart }
func (*TextMessageContent) Type() EventType { return EventTextMessageContent }
func (*TextMessageEnd) Type() EventType     { return EventTextMessageEnd }
func (*TextMessageChunk) Type() EventType   { return EventTextMessageChunk }
func (*ToolCallStart) Type() EventType      { return EventToolCallStart }
func (*ToolCallArgs) Type() EventType       { return EventToolCallArgs }
func (*ToolCallEnd) Type() EventType        { return EventToolCallEnd }
func (*ToolCallResult) Type() EventType     { return EventToolCallResult }
func (*ToolCallChunk) Type() EventType      { return EventToolCallChunk }
func (*StateSnapshot) Type() EventType      { return EventStateSnapshot }
func (*StateDelta) Type() EventType         { return EventStateDelta }
func (*MessagesSnapshot) Type() EventType   { return EventMessagesSnapshot }
func (*ReasoningStart) Type() EventType     { return EventReasoningStart }
func (*ReasoningContent) Type() EventType   { return EventReasoningContent }
func (*ReasoningEnd) Type() EventType       { return EventReasoningEnd }
func (*ReasoningChunk) Type() EventType     { return EventReasoningChunk }
func (*Activity) Type() EventType           { return EventActivity }
func (*Custom) Type() EventType             { return EventCustom }
func (*Raw) Type() EventType                { return EventRaw }
func (u *Unknown) Type() EventType          { return u.EventType }

// Decode parses a single frame. Malformed JSON or a missing type
// discriminator is an error; an unrecognized discriminator is not.
func Decode(data []byte) (Event, error) {
	var envelope struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("wire: malformed frame: %w", err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("wire: frame has no type")
	}

	ev := newEvent(envelope.Type)
	if ev == nil {
		frame := make(json.RawMessage, len(data))
		copy(frame, data)
		return &Unknown{EventType: envelope.Type, Frame: frame}, nil
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("wire: malformed %s frame: %w", envelope.Type, err)
	}
	return ev, nil
}

func newEvent(t EventType) Event {
	switch t {
	case EventRunStarted:
		return &RunStarted{}
	case EventRunFinished:
		return &RunFinished{}
	case EventRunError:
		return &RunError{}
	case EventStepStarted:
		return &StepStarted{}
	case EventStepFinished:
		return &StepFinished{}
	case EventTextMessageStart:
		return &TextMessageStart{}
	case EventTextMessageContent:
		return &TextMessageContent{}
	case EventTextMessageEnd:
		return &TextMessageEnd{}
	case EventTextMessageChunk:
		return &TextMessageChunk{}
	case EventToolCallStart:
		return &ToolCallStart{}
	case EventToolCallArgs:
		return &ToolCallArgs{}
	case EventToolCallEnd:
		return &ToolCallEnd{}
	case EventToolCallResult:
		return &ToolCallResult{}
	case EventToolCallChunk:
		return &ToolCallChunk{}
	case EventStateSnapshot:
		return &StateSnapshot{}
	case EventStateDelta:
		return &StateDelta{}
	case EventMessagesSnapshot:
		return &MessagesSnapshot{}
	case EventReasoningStart:
		return &ReasoningStart{}
	case EventReasoningContent:
		return &ReasoningContent{}
	case EventReasoningEnd:
		return &ReasoningEnd{}
	case EventReasoningChunk:
		return &ReasoningChunk{}
	case EventActivity:
		return &Activity{}
	case EventCustom:
		return &Custom{}
	case EventRaw:
		return &Raw{}
	}
	return nil
}
