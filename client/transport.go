package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spetersoncode/agentview/wire"
)

// maxFrameSize bounds a single SSE frame. State snapshots can be large.
const maxFrameSize = 4 << 20

// dial opens a new stream, superseding any previous one. Each dial
// bumps the connection generation so that callbacks from an old stream
// or a stale reconnect timer cannot disturb the current connection.
func (c *Client) dial() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.streamCancel != nil {
		c.streamCancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.streamCancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.run(ctx, gen)
}

// run performs one connection attempt and drains the stream until it
// fails. It reports the outcome to the supervisor.
func (c *Client) run(ctx context.Context, gen int) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+streamPath, nil)
	if err != nil {
		c.onDisconnect(gen, err)
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.onDisconnect(gen, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.onDisconnect(gen, fmt.Errorf("stream returned status %d", resp.StatusCode))
		return
	}

	c.onOpen(gen)
	c.onDisconnect(gen, c.readLoop(resp.Body))
}

// readLoop parses the SSE stream: "data:" lines accumulate until a
// blank line completes a frame. Other SSE fields and comments are
// ignored.
func (c *Client) readLoop(body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				c.handleFrame(strings.Join(data, "\n"))
				data = data[:0]
			}
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// event:, id:, retry:, and comment lines carry nothing we need
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

// onOpen marks the connection live and resets the backoff delay.
func (c *Client) onOpen(gen int) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.connected = true
	c.backoff.reset()
	c.mu.Unlock()

	c.log.Info("stream connected", "url", c.baseURL+streamPath)
}

// onDisconnect marks the connection down, optionally aborts the active
// run, and schedules a reconnect after the current backoff delay.
func (c *Client) onDisconnect(gen int, err error) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.connected = false
	if c.streamCancel != nil {
		c.streamCancel()
		c.streamCancel = nil
	}

	abort := false
	if c.abortOnDisconnect && c.session.IsRunning {
		c.session.IsRunning = false
		abort = true
	}

	delay := c.backoff.next()
	c.reconnectTimer = time.AfterFunc(delay, func() {
		c.redial(gen)
	})
	c.mu.Unlock()

	if abort {
		go c.post(abortPath, nil)
	}
	c.log.Debug("stream disconnected", "error", err, "retry_in", delay)
}

// redial runs from the reconnect timer. A stale timer whose generation
// no longer matches is ignored.
func (c *Client) redial(gen int) {
	c.mu.Lock()
	stale := c.closed || gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}
	c.dial()
}

// Reconnect cancels any pending reconnect timer, resets the backoff
// delay, and opens a new connection immediately, bypassing backoff.
func (c *Client) Reconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	c.backoff.reset()
	c.mu.Unlock()

	c.dial()
}

// handleFrame decodes one frame and feeds it to the dispatcher. A
// malformed frame is dropped silently; it never reaches subscribers or
// the reducer.
func (c *Client) handleFrame(data string) {
	ev, err := wire.Decode([]byte(data))
	if err != nil {
		c.log.Debug("dropping malformed frame", "error", err)
		return
	}
	c.handleEvent(ev)
}
