package score

import (
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
)

// Scorer is the judgment engine of a play session.
type Scorer interface {
	// Update runs one frame at songTime, dt after the previous one, moving
	// keys at speed pixels a second. It returns what was judged this frame.
	Update(songTime int64, dt time.Duration, speed float64) []game.Judgement

	Score() game.Score

	// Ended reports whether the session is over at songTime.
	Ended(songTime int64) bool
}

// Presses is the per-lane press state a scorer judges against.
// input.Latch implements it.
type Presses interface {
	Pressed(lane game.Lane) bool
	Fresh(lane game.Lane, now int64) bool
	Consume(lane game.Lane)
	Sustaining(lane game.Lane) bool
	Sustain(lane game.Lane)
	NewHold(lane game.Lane)
	AwardHold(lane game.Lane, now int64) bool
}

// Record is one stored performance of a song.
type Record struct {
	Sum    string
	Score  game.Score
	Inputs []game.Input
	Played time.Time
}
