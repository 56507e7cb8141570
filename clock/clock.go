// Package clock supplies the elapsed and delta seconds the frame loop feeds
// into animation. Elapsed time excludes paused intervals.
package clock

import (
	"time"
)

// DefaultMaxDelta caps a single frame step so a stalled terminal does not
// fast-forward clip playback
const DefaultMaxDelta = 100 * time.Millisecond

// Clock tracks elapsed animation time with pause support
// Not safe for concurrent use
type Clock struct {
	provider TimeProvider
	maxDelta time.Duration

	start       time.Time
	lastDelta   time.Time
	paused      bool
	pauseStart  time.Time
	totalPaused time.Duration
}

// New creates a clock started at provider.Now()
// A nil provider uses the real clock
func New(provider TimeProvider) *Clock {
	if provider == nil {
		provider = RealTimeProvider{}
	}
	now := provider.Now()
	return &Clock{
		provider:  provider,
		maxDelta:  DefaultMaxDelta,
		start:     now,
		lastDelta: now,
	}
}

// SetMaxDelta overrides the per-frame delta cap, zero disables it
func (c *Clock) SetMaxDelta(d time.Duration) {
	c.maxDelta = d
}

// Elapsed returns seconds since start minus paused time
func (c *Clock) Elapsed() float64 {
	now := c.provider.Now()
	if c.paused {
		now = c.pauseStart
	}
	return (now.Sub(c.start) - c.totalPaused).Seconds()
}

// Delta returns seconds since the previous Delta call, clamped to the max
// step; zero while paused
func (c *Clock) Delta() float64 {
	now := c.provider.Now()
	if c.paused {
		c.lastDelta = now
		return 0
	}
	d := now.Sub(c.lastDelta)
	c.lastDelta = now
	if d < 0 {
		return 0
	}
	if c.maxDelta > 0 && d > c.maxDelta {
		d = c.maxDelta
	}
	return d.Seconds()
}

// Pause freezes elapsed time
func (c *Clock) Pause() {
	if c.paused {
		return
	}
	c.paused = true
	c.pauseStart = c.provider.Now()
}

// Resume continues elapsed time from where it was frozen
func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	now := c.provider.Now()
	c.totalPaused += now.Sub(c.pauseStart)
	c.pauseStart = time.Time{}
	c.lastDelta = now
	c.paused = false
}

// Toggle flips pause state, returns true if now paused
func (c *Clock) Toggle() bool {
	if c.paused {
		c.Resume()
	} else {
		c.Pause()
	}
	return c.paused
}

// IsPaused returns current pause state
func (c *Clock) IsPaused() bool {
	return c.paused
}

// TotalPaused returns cumulative paused duration including a pause in progress
func (c *Clock) TotalPaused() time.Duration {
	total := c.totalPaused
	if c.paused {
		total += c.provider.Now().Sub(c.pauseStart)
	}
	return total
}
