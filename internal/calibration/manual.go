package calibration

import (
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
	"git.lost.host/meutraa/arrowner/internal/score"
)

// MetronomeSong is the fixed note stream of manual calibration.
func MetronomeSong() *game.Song {
	s := game.EmptySong()
	s.Name = "calibration"
	notes := make([]game.Note, StreamNotes)
	for i := range notes {
		notes[i] = game.Note{Time: uint64(StreamStart + i*StreamPeriod)}
	}
	s.SetNotes(game.Down, notes)
	s.End = notes[len(notes)-1].Time + StreamPeriod/2
	return s
}

// Manual plays the metronome stream and lets the player shift base time by
// ear until the notes cross the window on the click.
type Manual struct {
	Scorer *score.DefaultScorer

	coord     game.CoordinationData
	clickNext int
	done      bool
}

func NewManual(coord game.CoordinationData, field game.Field, presses score.Presses) *Manual {
	coord.Sync = 0
	timeline := game.NewTimeline(MetronomeSong(), coord)
	return &Manual{
		Scorer: score.NewScorer(timeline, field, presses),
		coord:  coord,
	}
}

func (m *Manual) Update(now int64, dt time.Duration, speed float64) bool {
	m.Scorer.Update(now, dt, speed)

	// Click on the nominal tick, which is when a well calibrated note is
	// in the window.
	click := false
	keys := m.Scorer.Timeline.Keys[game.Down]
	for m.clickNext < len(keys) && keys[m.clickNext].Time <= now {
		click = true
		m.clickNext++
	}
	if m.Scorer.Ended(now) {
		m.done = true
	}
	return click
}

func (m *Manual) Control(c input.Control) {
	switch c {
	case input.Minus:
		m.coord.NudgeBase(-BaseStep)
	case input.Plus:
		m.coord.NudgeBase(BaseStep)
	case input.Back, input.Confirm:
		m.done = true
		return
	default:
		return
	}
	m.Scorer.Timeline.Offset = m.coord.Offset()
}

func (m *Manual) Done() bool {
	return m.done
}

func (m *Manual) Coordination() game.CoordinationData {
	return m.coord
}
