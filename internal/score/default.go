package score

import (
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
)

type DefaultScorer struct {
	Timeline *game.Timeline
	Field    game.Field
	Presses  Presses

	score game.Score
}

func NewScorer(timeline *game.Timeline, field game.Field, presses Presses) *DefaultScorer {
	return &DefaultScorer{
		Timeline: timeline,
		Field:    field,
		Presses:  presses,
	}
}

func (s *DefaultScorer) Score() game.Score {
	return s.score
}

func (s *DefaultScorer) Ended(songTime int64) bool {
	return songTime > s.Timeline.End
}

func (s *DefaultScorer) Update(songTime int64, dt time.Duration, speed float64) []game.Judgement {
	judgements := []game.Judgement{}
	for _, lane := range game.Lanes {
		judgements = s.updateLane(lane, songTime, dt, speed, judgements)
	}
	for _, j := range judgements {
		s.score.Apply(j)
	}
	return judgements
}

func (s *DefaultScorer) updateLane(lane game.Lane, now int64, dt time.Duration, speed float64, out []game.Judgement) []game.Judgement {
	t := s.Timeline
	_, start, end := t.Active(lane)

	// Keys already on the field move by one frame
	for _, k := range t.Keys[lane][start:end] {
		s.Field.Advance(k, speed, dt)
	}

	// Spawn what is due, placed as if it had spawned on its own tick
	for end < len(t.Keys[lane]) {
		k := t.Keys[lane][end]
		effective := k.Effective(t.Offset)
		if effective > now {
			break
		}
		k.Spawned = true
		s.Field.Place(k, speed, now-effective)
		end++
	}

	if lane.Playable() {
		for _, k := range t.Keys[lane][start:end] {
			if j, ok := s.judge(k, now); ok {
				out = append(out, j)
			}
		}
	}

	// Keys leave in time order, so only the front can be gone
	for start < end && s.Field.Gone(t.Keys[lane][start].Y) {
		start++
	}
	t.SetActive(lane, start, end)
	return out
}

func (s *DefaultScorer) judge(k *game.GameKey, now int64) (game.Judgement, bool) {
	if !k.Judgeable() {
		return game.Judgement{}, false
	}
	lane := k.Lane

	if s.Field.InWindow(k.Y) && s.Presses.Pressed(lane) {
		fresh := s.Presses.Fresh(lane, now)
		if !k.Holding && fresh {
			// One press scores one tap
			s.Presses.Consume(lane)
			k.Active = false
			k.HitTime = now
			return game.Judgement{Lane: lane, Kind: game.Hit, Tick: now, Points: game.TapPoints}, true
		}
		if k.Holding && (fresh || s.Presses.Sustaining(lane)) {
			s.Presses.Consume(lane)
			s.Presses.Sustain(lane)
			if k.Head {
				s.Presses.NewHold(lane)
			}
			k.Active = false
			k.HitTime = now
			if s.Presses.AwardHold(lane, now) {
				return game.Judgement{Lane: lane, Kind: game.HoldTick, Tick: now, Points: game.HoldPoints}, true
			}
			return game.Judgement{}, false
		}
	}

	if s.Field.Passed(k.Y) {
		k.Muted = true
		k.Active = false
		return game.Judgement{Lane: lane, Kind: game.Miss, Tick: now}, true
	}
	return game.Judgement{}, false
}
