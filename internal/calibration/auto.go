package calibration

import (
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
)

// Auto measures how long a note takes from the top of the field to the
// judgment window, and how long it then takes to cross it.
type Auto struct {
	Field game.Field
	State State

	key      *game.GameKey
	coord    game.CoordinationData
	complete bool
	taps     []int64
}

func NewAuto(field game.Field) *Auto {
	return &Auto{
		Field: field,
		key:   &game.GameKey{Lane: game.Down, Head: true, Active: true, Partner: game.NoPartner},
	}
}

// Start spawns the calibration note. now is normally zero.
func (a *Auto) Start(now int64) {
	if a.State != NotStarted {
		return
	}
	a.key.Time = now
	a.key.Spawned = true
	a.key.Y = a.Field.SpawnY
	a.State = Running
}

func (a *Auto) Key() *game.GameKey {
	return a.key
}

func (a *Auto) Update(now int64, dt time.Duration, speed float64) bool {
	if a.State == NotStarted || a.State == AutoExit {
		return false
	}
	a.Field.Advance(a.key, speed, dt)
	start := a.key.Time

	switch a.State {
	case Running:
		if a.Field.InWindow(a.key.Y) || a.Field.Passed(a.key.Y) {
			a.coord.BaseTime = now - start
			a.State = CapturedBase
		}
	case CapturedBase:
		a.State = MeasuringEnd
		fallthrough
	case MeasuringEnd:
		if a.Field.Passed(a.key.Y) {
			a.coord.EndTime = now - start
			a.key.Active = false
			a.complete = true
			a.State = CapturedEnd
		}
	case CapturedEnd:
		if now-start >= a.coord.EndTime+ExitDelay {
			a.State = AutoExit
		}
	}
	return false
}

// Tap records a player press. Taps are informational: the offset from the
// measured base time is kept for display.
func (a *Auto) Tap(now int64) {
	if a.State == NotStarted || a.State == AutoExit {
		return
	}
	a.taps = append(a.taps, now-a.key.Time-a.coord.BaseTime)
}

// Taps returns the offsets of player taps from the window entry.
func (a *Auto) Taps() []int64 {
	return a.taps
}

func (a *Auto) Control(c input.Control) {
	if c == input.Back {
		a.State = AutoExit
	}
}

// Complete reports whether both ends of the window were measured. A session
// left early has nothing to save.
func (a *Auto) Complete() bool {
	return a.complete
}

func (a *Auto) Done() bool {
	return a.State == AutoExit
}

func (a *Auto) Coordination() game.CoordinationData {
	return a.coord
}
