package calibration

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
	"git.lost.host/meutraa/arrowner/internal/score"
)

// SyncStore persists a song's sync value and nothing else.
type SyncStore interface {
	SetSync(file string, sync int64) error
}

// Sync plays a real song while the player nudges its sync offset.
type Sync struct {
	Song   *game.Song
	Scorer *score.DefaultScorer

	coord game.CoordinationData
	done  bool
}

func NewSync(song *game.Song, coord game.CoordinationData, field game.Field, presses score.Presses) *Sync {
	coord.Sync = song.SyncTicks()
	return &Sync{
		Song:   song,
		Scorer: score.NewScorer(game.NewTimeline(song, coord), field, presses),
		coord:  coord,
	}
}

func (s *Sync) Update(now int64, dt time.Duration, speed float64) bool {
	s.Scorer.Update(now, dt, speed)
	if s.Scorer.Ended(now) {
		s.done = true
	}
	return false
}

func (s *Sync) Control(c input.Control) {
	switch c {
	case input.Minus:
		s.coord.NudgeSync(-SyncStep)
	case input.Plus:
		s.coord.NudgeSync(SyncStep)
	case input.Reset:
		s.coord.Sync = 0
	case input.Back, input.Confirm:
		s.done = true
		return
	default:
		return
	}
	s.Scorer.Timeline.Offset = s.coord.Offset()
}

func (s *Sync) Done() bool {
	return s.done
}

func (s *Sync) Coordination() game.CoordinationData {
	return s.coord
}

// Save writes the chosen sync into the song file.
func (s *Sync) Save(store SyncStore, file string) error {
	sync := s.coord.Sync
	if err := store.SetSync(file, sync); nil != err {
		return fmt.Errorf("unable to save sync: %w", err)
	}
	s.Song.Sync = &sync
	return nil
}
