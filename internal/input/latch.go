package input

import (
	"git.lost.host/meutraa/arrowner/internal/game"
)

// FreshTicks is how long a press stays able to hit a note after it began.
// A key held down past it cannot trigger the next note.
const FreshTicks = 10

// HoldBucket is the minimum spacing of hold points in one lane.
const HoldBucket = 10

type laneState struct {
	pressed    bool
	pressTick  int64
	consumed   bool // The press edge already hit a note
	sustaining bool // The press is holding down a hold note

	awarded       bool
	lastHoldAward int64
}

// Latch edge-detects lane keys. A physical key-down produces exactly one
// logical press until its key-up, however many repeats the source sends.
type Latch struct {
	lanes  [game.NLanes]laneState
	inert  bool
	inputs []game.Input

	// Recorder, when set, turns every press into an authored note.
	Recorder *Recorder
}

func NewLatch() *Latch {
	return &Latch{}
}

func (l *Latch) valid(lane game.Lane) bool {
	return lane.Playable()
}

// Press registers a key-down. It reports whether this was a new press edge.
func (l *Latch) Press(lane game.Lane, tick int64) bool {
	if l.inert || !l.valid(lane) {
		return false
	}
	s := &l.lanes[lane]
	if s.pressed {
		return false
	}
	s.pressed = true
	s.pressTick = tick
	s.consumed = false
	s.sustaining = false
	return true
}

// Release registers a key-up and returns the press it closes.
func (l *Latch) Release(lane game.Lane, tick int64) (game.Note, bool) {
	if l.inert || !l.valid(lane) {
		return game.Note{}, false
	}
	return l.release(lane, tick)
}

func (l *Latch) release(lane game.Lane, tick int64) (game.Note, bool) {
	s := &l.lanes[lane]
	if !s.pressed {
		return game.Note{}, false
	}
	s.pressed = false
	s.sustaining = false
	if tick < s.pressTick {
		tick = s.pressTick
	}
	note := game.Note{Time: uint64(s.pressTick), Holding: uint64(tick - s.pressTick)}
	l.inputs = append(l.inputs, game.Input{Lane: lane, HitTime: s.pressTick, ReleaseTime: tick})
	if nil != l.Recorder {
		l.Recorder.Add(lane, note)
	}
	return note, true
}

// SetInert stops the latch from taking presses, as while an alert is shown.
// Keys held at that moment are released.
func (l *Latch) SetInert(inert bool, tick int64) {
	if inert && !l.inert {
		for lane := game.Lane(0); lane < game.NLanes; lane++ {
			l.release(lane, tick)
		}
	}
	l.inert = inert
}

func (l *Latch) Inert() bool {
	return l.inert
}

func (l *Latch) Pressed(lane game.Lane) bool {
	return l.valid(lane) && l.lanes[lane].pressed
}

func (l *Latch) PressTick(lane game.Lane) int64 {
	if !l.valid(lane) {
		return 0
	}
	return l.lanes[lane].pressTick
}

// Age is the number of ticks since the current press began.
func (l *Latch) Age(lane game.Lane, now int64) int64 {
	return now - l.PressTick(lane)
}

// Fresh reports whether the lane holds a recent press that has not hit
// anything yet.
func (l *Latch) Fresh(lane game.Lane, now int64) bool {
	if !l.Pressed(lane) {
		return false
	}
	s := &l.lanes[lane]
	return !s.consumed && now-s.pressTick < FreshTicks
}

// Consume marks the current press as used by a hit.
func (l *Latch) Consume(lane game.Lane) {
	if l.valid(lane) {
		l.lanes[lane].consumed = true
	}
}

// Sustaining reports whether the current press is holding a hold note.
func (l *Latch) Sustaining(lane game.Lane) bool {
	return l.Pressed(lane) && l.lanes[lane].sustaining
}

// Sustain marks the current press as holding a hold note.
func (l *Latch) Sustain(lane game.Lane) {
	if l.Pressed(lane) {
		l.lanes[lane].sustaining = true
	}
}

// NewHold starts the bucket afresh for a hold whose head was just taken, so a
// hold right after another is not held back by the previous one's points.
func (l *Latch) NewHold(lane game.Lane) {
	if l.valid(lane) {
		l.lanes[lane].awarded = false
	}
}

// AwardHold reports whether a hold point may be given at now, and if so
// starts a new bucket. At most one point is given per HoldBucket ticks.
func (l *Latch) AwardHold(lane game.Lane, now int64) bool {
	if !l.valid(lane) {
		return false
	}
	s := &l.lanes[lane]
	if s.awarded && now-s.lastHoldAward < HoldBucket {
		return false
	}
	s.awarded = true
	s.lastHoldAward = now
	return true
}

// Flush releases every held key at tick, closing their inputs.
func (l *Latch) Flush(tick int64) {
	for lane := game.Lane(0); lane < game.NLanes; lane++ {
		l.release(lane, tick)
	}
}

// Inputs returns every completed press so far.
func (l *Latch) Inputs() []game.Input {
	return l.inputs
}
