package testutil

import (
	"sync"
	"time"
)

// FixedClock reloj controlable para tests.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock construye un reloj detenido en now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now implementa domain.Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set fija la hora actual.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance adelanta el reloj.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
