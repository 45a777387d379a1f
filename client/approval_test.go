package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/agentview"
	"github.com/spetersoncode/agentview/wire"
)

// recordingServer captures outbound POSTs for assertions.
type recordingServer struct {
	srv *httptest.Server

	mu    sync.Mutex
	posts []recordedPost
}

type recordedPost struct {
	Path string
	Body string
}

func newRecordingServer(t *testing.T) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.posts = append(rs.posts, recordedPost{Path: r.URL.Path, Body: string(body)})
		rs.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(rs.srv.Close)
	return rs
}

func (rs *recordingServer) recorded() []recordedPost {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]recordedPost, len(rs.posts))
	copy(out, rs.posts)
	return out
}

func (rs *recordingServer) waitForPost(t *testing.T, path string) recordedPost {
	t.Helper()
	var found recordedPost
	require.Eventually(t, func() bool {
		for _, p := range rs.recorded() {
			if p.Path == path {
				found = p
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	return found
}

func TestApprovalQueuedOnStart(t *testing.T) {
	c := newTestClient(t, Config{})

	feed(c, &wire.ToolCallStart{
		ToolCallID:   "tc1",
		ToolCallName: agentview.ApprovalToolName,
		Args:         `{"action":"delete file"}`,
	})

	snap := c.Snapshot()
	require.Len(t, snap.Approvals, 1)
	assert.Equal(t, "tc1", snap.Approvals[0].ToolCallID)
	assert.Equal(t, `{"action":"delete file"}`, snap.Approvals[0].Args)

	// The approval tool call is tracked like any other call.
	tc, ok := snap.ToolCalls["tc1"]
	require.True(t, ok)
	assert.Equal(t, agentview.ToolCallActive, tc.Status)
}

func TestApprovalSurvivesToolCallEnd(t *testing.T) {
	c := newTestClient(t, Config{})

	feed(c,
		&wire.ToolCallStart{ToolCallID: "tc1", ToolCallName: agentview.ApprovalToolName},
		&wire.ToolCallEnd{ToolCallID: "tc1"},
	)

	// Only an explicit decision removes the pending approval.
	assert.Len(t, c.Snapshot().Approvals, 1)
}

func TestApproveToolCallPostsDecision(t *testing.T) {
	rs := newRecordingServer(t)
	c := newTestClient(t, Config{BaseURL: rs.srv.URL})

	feed(c, &wire.ToolCallStart{ToolCallID: "tc1", ToolCallName: agentview.ApprovalToolName})

	require.NoError(t, c.ApproveToolCall("tc1"))
	assert.Empty(t, c.Snapshot().Approvals)

	post := rs.waitForPost(t, toolResultPath)
	var payload struct {
		ToolCallID string `json:"toolCallId"`
		Content    string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(post.Body), &payload))
	assert.Equal(t, "tc1", payload.ToolCallID)
	assert.JSONEq(t, `{"approved":true}`, payload.Content)
}

func TestRejectToolCallPostsDecision(t *testing.T) {
	rs := newRecordingServer(t)
	c := newTestClient(t, Config{BaseURL: rs.srv.URL})

	feed(c, &wire.ToolCallStart{ToolCallID: "tc1", ToolCallName: agentview.ApprovalToolName})

	require.NoError(t, c.RejectToolCall("tc1"))

	post := rs.waitForPost(t, toolResultPath)
	var payload struct {
		ToolCallID string `json:"toolCallId"`
		Content    string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(post.Body), &payload))
	assert.JSONEq(t, `{"approved":false}`, payload.Content)
}

func TestApproveUnknownToolCall(t *testing.T) {
	c := newTestClient(t, Config{})

	err := c.ApproveToolCall("ghost")
	require.Error(t, err)

	var missing *ErrNoPendingApproval
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ghost", missing.ToolCallID)
}

func TestApproveIsOptimistic(t *testing.T) {
	// The decision leaves the queue even when the server is unreachable.
	c := newTestClient(t, Config{BaseURL: "http://127.0.0.1:1"})

	feed(c, &wire.ToolCallStart{ToolCallID: "tc1", ToolCallName: agentview.ApprovalToolName})

	require.NoError(t, c.ApproveToolCall("tc1"))
	assert.Empty(t, c.Snapshot().Approvals)

	// A second decision on the same call reports it gone.
	var missing *ErrNoPendingApproval
	require.ErrorAs(t, c.RejectToolCall("tc1"), &missing)
}

func TestActionsAfterClose(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.SendMessage("hi"), ErrClientClosed)
	assert.ErrorIs(t, c.AbortRun(), ErrClientClosed)
	assert.ErrorIs(t, c.ApproveToolCall("tc1"), ErrClientClosed)

	// Close is idempotent.
	require.NoError(t, c.Close())
}

func TestFrontendToolRuns(t *testing.T) {
	rs := newRecordingServer(t)
	c := newTestClient(t, Config{BaseURL: rs.srv.URL})

	require.NoError(t, c.RegisterTool("lookup", func(_ context.Context, args string) (string, error) {
		return "result for " + args, nil
	}))

	feed(c, &wire.ToolCallStart{ToolCallID: "tc1", ToolCallName: "lookup", Args: "42"})

	post := rs.waitForPost(t, toolResultPath)
	var payload struct {
		ToolCallID string `json:"toolCallId"`
		Content    string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(post.Body), &payload))
	assert.Equal(t, "tc1", payload.ToolCallID)
	assert.Equal(t, "result for 42", payload.Content)

	require.Eventually(t, func() bool {
		tc, ok := c.Snapshot().ToolCalls["tc1"]
		return ok && tc.Status == agentview.ToolCallCompleted
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "result for 42", c.Snapshot().ToolCalls["tc1"].Result)
}

func TestFrontendToolErrorPostsError(t *testing.T) {
	rs := newRecordingServer(t)
	c := newTestClient(t, Config{BaseURL: rs.srv.URL})

	require.NoError(t, c.RegisterTool("flaky", func(_ context.Context, _ string) (string, error) {
		return "", errors.New("no such host")
	}))

	feed(c, &wire.ToolCallStart{ToolCallID: "tc1", ToolCallName: "flaky"})

	post := rs.waitForPost(t, toolResultPath)
	assert.Contains(t, post.Body, "no such host")

	require.Eventually(t, func() bool {
		tc, ok := c.Snapshot().ToolCalls["tc1"]
		return ok && tc.Status == agentview.ToolCallError
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSendMessagePostsContent(t *testing.T) {
	rs := newRecordingServer(t)
	c := newTestClient(t, Config{BaseURL: rs.srv.URL})

	require.NoError(t, c.SendMessage("hello agent"))

	post := rs.waitForPost(t, messagePath)
	assert.JSONEq(t, `{"content":"hello agent"}`, post.Body)
}

func TestAbortRunStopsSessionAndPosts(t *testing.T) {
	rs := newRecordingServer(t)
	c := newTestClient(t, Config{BaseURL: rs.srv.URL})

	feed(c, &wire.RunStarted{ThreadID: "t", RunID: "r"})
	require.NoError(t, c.AbortRun())

	assert.False(t, c.Snapshot().Session.IsRunning)
	rs.waitForPost(t, abortPath)
}
