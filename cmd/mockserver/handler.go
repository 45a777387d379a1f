package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// streamHandler replays the scripted scenario to each connected client.
type streamHandler struct {
	cfg config
}

func newStreamHandler(cfg config) *streamHandler {
	return &streamHandler{cfg: cfg}
}

func (h *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		slog.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	log := slog.With("remote", r.RemoteAddr)
	log.Info("client connected")

	for {
		count, err := h.replay(r.Context(), w, flusher)
		if err != nil {
			log.Info("client disconnected", "events_sent", count, "error", err)
			return
		}
		log.Info("scenario complete", "events_sent", count)
		if !h.cfg.Loop {
			break
		}
	}

	// Hold the connection open so the client does not enter its
	// reconnect loop after a clean replay.
	<-r.Context().Done()
}

// replay streams one full scripted run.
func (h *streamHandler) replay(ctx context.Context, w http.ResponseWriter, flusher http.Flusher) (int, error) {
	var sent int
	for _, ev := range scenario() {
		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		case <-time.After(h.cfg.Interval):
		}

		if err := writeSSE(w, flusher, ev); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// scenario builds the scripted run: two steps with streamed text, a
// backend tool call, an approval request, state sync, and custom
// telemetry.
func scenario() []aguievents.Event {
	threadID := aguievents.GenerateThreadID()
	runID := aguievents.GenerateRunID()
	msgID := aguievents.GenerateMessageID()
	toolCallID := aguievents.GenerateToolCallID()
	approvalID := aguievents.GenerateToolCallID()
	resultMsgID := aguievents.GenerateMessageID()

	return []aguievents.Event{
		aguievents.NewRunStartedEvent(threadID, runID),
		aguievents.NewStepStartedEvent("research"),

		aguievents.NewStateSnapshotEvent(map[string]any{
			"progress": 0,
			"findings": []any{},
		}),

		aguievents.NewTextMessageStartEvent(msgID, aguievents.WithRole("assistant")),
		aguievents.NewTextMessageContentEvent(msgID, "Let me look that up"),
		aguievents.NewTextMessageContentEvent(msgID, " for you."),
		aguievents.NewTextMessageEndEvent(msgID),

		aguievents.NewToolCallStartEvent(toolCallID, "search_docs"),
		aguievents.NewToolCallArgsEvent(toolCallID, `{"query":`),
		aguievents.NewToolCallArgsEvent(toolCallID, `"reconnect backoff"}`),
		aguievents.NewToolCallEndEvent(toolCallID),
		aguievents.NewToolCallResultEvent(resultMsgID, toolCallID, "2 documents found"),

		aguievents.NewStateDeltaEvent([]aguievents.JSONPatchOperation{
			{Op: "replace", Path: "/progress", Value: 50},
			{Op: "add", Path: "/findings/-", Value: "backoff doubles per failure"},
		}),

		aguievents.NewStepFinishedEvent("research"),
		aguievents.NewStepStartedEvent("confirm"),

		// Human-in-the-loop gate: the client queues this for approval.
		aguievents.NewToolCallStartEvent(approvalID, "request_approval"),
		aguievents.NewToolCallArgsEvent(approvalID, `{"action":"publish summary"}`),
		aguievents.NewToolCallEndEvent(approvalID),

		aguievents.NewCustomEvent("mock-progress",
			aguievents.WithValue(map[string]any{"percent": 90})),

		aguievents.NewStepFinishedEvent("confirm"),
		aguievents.NewRunFinishedEvent(threadID, runID),
	}
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

func toolResultHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ToolCallID string `json:"toolCallId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	slog.Info("tool result received",
		"tool_call_id", payload.ToolCallID,
		"content", payload.Content,
	)
	w.WriteHeader(http.StatusOK)
}

func abortHandler(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)
	slog.Info("abort received", "remote", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
}

func messageHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	slog.Info("user message received", "content", payload.Content)
	w.WriteHeader(http.StatusOK)
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
