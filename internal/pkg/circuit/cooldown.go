// Package circuit provides a fixed-window cooldown gate. It is a reduced
// circuit breaker: one failure class (rate limiting) opens the gate for a
// fixed duration, after which calls flow again.
package circuit

import (
	"sync"
	"time"
)

type Cooldown struct {
	mu     sync.Mutex
	name   string
	window time.Duration
	until  time.Time
}

func NewCooldown(name string, window time.Duration) *Cooldown {
	return &Cooldown{name: name, window: window}
}

// Allow reports whether calls may proceed at the given instant.
func (c *Cooldown) Allow(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !now.Before(c.until)
}

// Trip opens the gate for the configured window starting at now.
func (c *Cooldown) Trip(now time.Time) {
	c.mu.Lock()
	c.until = now.Add(c.window)
	c.mu.Unlock()
}

// Until returns the deadline the gate stays closed to, or the zero time
// when it was never tripped.
func (c *Cooldown) Until() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.until
}

// Remaining returns how long the gate stays closed from now; zero when
// open.
func (c *Cooldown) Remaining(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Before(c.until) {
		return c.until.Sub(now)
	}
	return 0
}

func (c *Cooldown) Name() string {
	return c.name
}
