package client

import "github.com/spetersoncode/agentview/wire"

// Subscriber observes every decoded inbound event before it is reduced
// into client state. Returning false vetoes the state transition for
// that event; the event is still delivered to later subscribers.
//
// Subscribers run outside the client lock, so they may call client
// methods (Snapshot, SendMessage, ApproveToolCall) freely.
type Subscriber func(ev wire.Event) bool

type subscription struct {
	id int
	fn Subscriber
}

// Subscribe registers a subscriber and returns its unsubscribe
// function. Subscribers are invoked in registration order.
func (c *Client) Subscribe(fn Subscriber) (unsubscribe func()) {
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// handleEvent delivers one event to subscribers and then reduces it.
// The reduce step holds the lock for the whole transition, so each
// frame's state change is atomic with respect to Snapshot and actions.
func (c *Client) handleEvent(ev wire.Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	apply := true
	for _, s := range subs {
		if !s.fn(ev) {
			apply = false
		}
	}
	if !apply {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.reduce(ev)
}
