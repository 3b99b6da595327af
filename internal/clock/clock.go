package clock

import (
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
)

// Clock produces the authoritative song time of a session. Pausing freezes
// it and zeroes the scroll speed so keys stop moving too.
type Clock struct {
	ScrollSpeed      float64 // Pixels per second, zero while paused
	SavedScrollSpeed float64 // Restored on resume

	now         func() time.Time
	start       time.Time
	startTick   int64 // Song time at start, for test-play from a point
	pausedAccum time.Duration
	pauseAt     time.Time
	paused      bool
	lastTicks   int64
	lastFrame   time.Time
}

// New creates a clock. A nil now uses time.Now.
func New(now func() time.Time, scrollSpeed float64) *Clock {
	if nil == now {
		now = time.Now
	}
	c := &Clock{
		ScrollSpeed:      scrollSpeed,
		SavedScrollSpeed: scrollSpeed,
		now:              now,
	}
	c.Reset(0)
	return c
}

func (c *Clock) Now() time.Time {
	return c.now()
}

// Reset restarts the session at startTick. It is the only operation
// allowed to move song time backwards.
func (c *Clock) Reset(startTick int64) {
	c.start = c.now()
	c.lastFrame = c.start
	c.startTick = startTick
	c.pausedAccum = 0
	c.paused = false
	c.lastTicks = startTick
	c.ScrollSpeed = c.SavedScrollSpeed
}

func (c *Clock) Paused() bool {
	return c.paused
}

func (c *Clock) Pause() {
	if c.paused {
		return
	}
	c.paused = true
	c.pauseAt = c.now()
	c.ScrollSpeed = 0
}

func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	c.pausedAccum += c.now().Sub(c.pauseAt)
	c.ScrollSpeed = c.SavedScrollSpeed
}

// Elapsed is the unpaused wall time since the session started.
func (c *Clock) Elapsed() time.Duration {
	now := c.now()
	if c.paused {
		now = c.pauseAt
	}
	d := now.Sub(c.start) - c.pausedAccum
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedTicks is the song time in ticks. It never decreases between resets.
func (c *Clock) ElapsedTicks() int64 {
	ticks := game.Ticks(c.Elapsed()) + c.startTick
	if ticks < c.lastTicks {
		return c.lastTicks
	}
	c.lastTicks = ticks
	return ticks
}

// Delta returns the wall time since the previous call, the frame delta.
func (c *Clock) Delta() time.Duration {
	now := c.now()
	d := now.Sub(c.lastFrame)
	c.lastFrame = now
	if d < 0 {
		return 0
	}
	return d
}
