package agentview

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a text message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
	RoleTool   Role = "tool"
)

// ApprovalToolName is the reserved tool name that routes a tool call
// through the human-in-the-loop approval queue instead of executing.
const ApprovalToolName = "request_approval"

// ToolCallStatus tracks a tool call through its lifecycle.
type ToolCallStatus string

const (
	// ToolCallActive means the call has started and arguments may still
	// be streaming.
	ToolCallActive ToolCallStatus = "active"

	// ToolCallCompleted means the call finished successfully.
	ToolCallCompleted ToolCallStatus = "completed"

	// ToolCallError means the call terminated with an error.
	ToolCallError ToolCallStatus = "error"
)

// RunSession describes the active agent run. Exactly one session is
// tracked at a time; RUN_STARTED resets it in place.
type RunSession struct {
	RunID       string `json:"runId"`
	ThreadID    string `json:"threadId"`
	IsRunning   bool   `json:"isRunning"`
	CurrentStep string `json:"currentStep,omitempty"`
	LastError   string `json:"lastError,omitempty"`
	// RunCount is the number of runs observed since the client was
	// created, including the current one.
	RunCount int `json:"runCount"`
}

// TextMessage is a streamed agent or user message. Content is
// append-only while Streaming is true and immutable once sealed.
type TextMessage struct {
	MessageID string    `json:"messageId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Streaming bool      `json:"streaming"`
	Timestamp time.Time `json:"timestamp"`
}

// ToolCall is a tool invocation observed on the stream. Args is
// append-only until the call reaches a terminal status.
type ToolCall struct {
	ToolCallID   string         `json:"toolCallId"`
	ToolCallName string         `json:"toolCallName"`
	Args         string         `json:"args"`
	Status       ToolCallStatus `json:"status"`
	Result       string         `json:"result,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Approval is a pending human-in-the-loop decision, paired one-to-one
// with a ToolCall named "request_approval". It leaves the queue only
// through an explicit approve or reject action, never through the tool
// call's own end event.
type Approval struct {
	ToolCallID string    `json:"toolCallId"`
	Args       string    `json:"args,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityItem is a free-form activity entry from the agent.
type ActivityItem struct {
	Kind      string    `json:"kind,omitempty"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ReasoningItem is a streamed chain-of-thought entry. It follows the
// same start/content/end lifecycle as a TextMessage.
type ReasoningItem struct {
	ID        string    `json:"reasoningId"`
	Content   string    `json:"content"`
	Streaming bool      `json:"streaming"`
	Timestamp time.Time `json:"timestamp"`
}

// CustomEvent is application-defined telemetry passed through verbatim.
type CustomEvent struct {
	Name      string    `json:"name"`
	Value     any       `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// GenerateThreadID creates a unique thread identifier.
func GenerateThreadID() string {
	return "thread-" + uuid.New().String()
}
