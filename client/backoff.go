package client

import "time"

// BackoffConfig configures the reconnect delay policy: the delay starts
// at InitialDelay, doubles on each consecutive failure, caps at
// MaxDelay, and resets to InitialDelay on a successful connection.
type BackoffConfig struct {
	// InitialDelay is the delay before the first reconnect attempt
	// (default: 1s).
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts (default: 30s).
	MaxDelay time.Duration
}

func (c BackoffConfig) withDefaults() BackoffConfig {
	if c.InitialDelay <= 0 {
		c.InitialDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	return c
}

// backoff tracks the current reconnect delay across consecutive
// failures. It is guarded by the client mutex.
type backoff struct {
	cfg   BackoffConfig
	delay time.Duration
}

func newBackoff(cfg BackoffConfig) *backoff {
	return &backoff{cfg: cfg, delay: cfg.InitialDelay}
}

// next returns the delay to use for the current failure and doubles the
// delay for the next one, capped at MaxDelay.
func (b *backoff) next() time.Duration {
	d := b.delay
	b.delay *= 2
	if b.delay > b.cfg.MaxDelay {
		b.delay = b.cfg.MaxDelay
	}
	return d
}

// reset restores the initial delay after a successful connection.
func (b *backoff) reset() {
	b.delay = b.cfg.InitialDelay
}
