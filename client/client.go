// Package client implements the AG-UI protocol client.
//
// A Client owns one streaming connection to an AG-UI endpoint, folds the
// inbound event stream into a bounded [Snapshot], and exposes the
// outbound actions of the protocol: approving or rejecting tool calls,
// sending messages, aborting the run, and registering frontend tool
// handlers.
//
// Every inbound frame is reduced atomically: the state transition for
// one frame completes before the next frame is processed. Asynchronous
// work (tool handlers, reconnect timers, outbound POSTs) re-checks that
// the client is still open and that its target entry still exists before
// touching state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spetersoncode/agentview"
	"github.com/spetersoncode/agentview/internal/ring"
	"github.com/spetersoncode/agentview/tool"
)

const (
	streamPath     = "/api/ag-ui/stream"
	toolResultPath = "/api/ag-ui/tool-result"
	abortPath      = "/api/ag-ui/abort"
	messagePath    = "/api/ag-ui/message"
)

// Capacities sets the fixed sizes of the client's history buffers.
// Zero fields use the defaults.
type Capacities struct {
	Messages   int // default 100
	Activities int // default 50
	Reasoning  int // default 20
	Custom     int // default 50
}

func (c Capacities) withDefaults() Capacities {
	if c.Messages <= 0 {
		c.Messages = 100
	}
	if c.Activities <= 0 {
		c.Activities = 50
	}
	if c.Reasoning <= 0 {
		c.Reasoning = 20
	}
	if c.Custom <= 0 {
		c.Custom = 50
	}
	return c
}

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the AG-UI endpoint root, e.g. "http://localhost:8080".
	// The stream and action paths are appended to it.
	BaseURL string

	// HTTPClient is used for the stream and all outbound POSTs.
	// If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Logger receives debug-level records for dropped frames and
	// lifecycle transitions. If nil, slog.Default() is used.
	Logger *slog.Logger

	// AbortOnDisconnect marks the active run as stopped and fires an
	// abort POST when the stream connection is lost.
	AbortOnDisconnect bool

	// Backoff configures the reconnect delay policy.
	Backoff BackoffConfig

	// Capacities overrides the history buffer sizes.
	Capacities Capacities
}

// Option configures a Client beyond its Config.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for the stream and POSTs.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// Client is an AG-UI protocol client. Create one with New, start it
// with Connect, and tear it down with Close. All methods are safe for
// concurrent use.
type Client struct {
	baseURL           string
	httpc             *http.Client
	log               *slog.Logger
	abortOnDisconnect bool
	caps              Capacities

	tools *tool.Registry

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	connected bool

	// connection supervision
	backoff        *backoff
	gen            int
	streamCancel   context.CancelFunc
	reconnectTimer *time.Timer

	// subscribers, in registration order
	subs      []subscription
	nextSubID int

	// reduced state
	session     agentview.RunSession
	messages    *ring.Buffer[*agentview.TextMessage]
	msgIndex    map[string]*agentview.TextMessage
	toolCalls   map[string]*agentview.ToolCall
	approvals   []*agentview.Approval
	stateDoc    any
	reasoning   *ring.Buffer[*agentview.ReasoningItem]
	reasonIndex map[string]*agentview.ReasoningItem
	activities  *ring.Buffer[agentview.ActivityItem]
	customs     *ring.Buffer[agentview.CustomEvent]
}

// New creates a Client for the given endpoint. The client does not
// connect until Connect is called.
func New(cfg Config, opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	caps := cfg.Capacities.withDefaults()

	c := &Client{
		baseURL:           cfg.BaseURL,
		httpc:             cfg.HTTPClient,
		log:               cfg.Logger,
		abortOnDisconnect: cfg.AbortOnDisconnect,
		caps:              caps,
		tools:             tool.NewRegistry(),
		ctx:               ctx,
		cancel:            cancel,
		backoff:           newBackoff(cfg.Backoff.withDefaults()),
		msgIndex:          make(map[string]*agentview.TextMessage),
		toolCalls:         make(map[string]*agentview.ToolCall),
		reasonIndex:       make(map[string]*agentview.ReasoningItem),
		messages:          ring.New[*agentview.TextMessage](caps.Messages),
		reasoning:         ring.New[*agentview.ReasoningItem](caps.Reasoning),
		activities:        ring.New[agentview.ActivityItem](caps.Activities),
		customs:           ring.New[agentview.CustomEvent](caps.Custom),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc == nil {
		c.httpc = http.DefaultClient
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Connect starts the streaming connection. Connection failures are
// retried with exponential backoff until Close is called; Connected
// reports the current status.
func (c *Client) Connect() {
	c.dial()
}

// Close tears the client down: it cancels any pending reconnect, closes
// the stream, and stops every asynchronous continuation from mutating
// state. Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	c.mu.Unlock()

	c.cancel()
	c.log.Debug("client closed")
	return nil
}

// Connected reports whether the stream connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// RegisterTool registers a frontend tool handler. When the agent starts
// a tool call with this name, the handler runs asynchronously with the
// arguments known at start time, and its result is posted back to the
// server.
func (c *Client) RegisterTool(name string, h tool.Handler) error {
	return c.tools.Register(name, h)
}

// UnregisterTool removes a frontend tool handler.
func (c *Client) UnregisterTool(name string) {
	c.tools.Unregister(name)
}

// SendMessage posts a user message to the server. Delivery is
// fire-and-forget: failures are not retried or surfaced.
func (c *Client) SendMessage(content string) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClientClosed
	}

	go c.post(messagePath, struct {
		Content string `json:"content"`
	}{Content: content})
	return nil
}

// AbortRun marks the active run as stopped and posts an abort to the
// server. The abort POST is fire-and-forget.
func (c *Client) AbortRun() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	c.session.IsRunning = false
	c.mu.Unlock()

	go c.post(abortPath, nil)
	return nil
}

// post issues one outbound POST. Failures are logged at debug level and
// otherwise swallowed: the protocol's outbound side effects carry no
// retry and no user-visible error signal.
func (c *Client) post(path string, body any) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.log.Debug("dropping outbound post", "path", path, "error", err)
			return
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		c.log.Debug("dropping outbound post", "path", path, "error", err)
		return
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Debug("outbound post failed", "path", path, "error", err)
		return
	}
	resp.Body.Close()
}

func (c *Client) postToolResult(toolCallID, content string) {
	c.post(toolResultPath, struct {
		ToolCallID string `json:"toolCallId"`
		Content    string `json:"content"`
	}{ToolCallID: toolCallID, Content: content})
}
