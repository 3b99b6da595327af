package score

import (
	"math"
	"sort"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
)

// Replay re-runs a recorded session one tick per frame and returns the score
// it would have earned. The result only depends on its arguments.
func Replay(song *game.Song, coord game.CoordinationData, field game.Field, speed float64, inputs []game.Input) game.Score {
	timeline := game.NewTimeline(song, coord)
	latch := input.NewLatch()
	s := NewScorer(timeline, field, latch)

	ins := append([]game.Input(nil), inputs...)
	sort.SliceStable(ins, func(i, j int) bool { return ins[i].HitTime < ins[j].HitTime })
	releases := append([]game.Input(nil), ins...)
	sort.SliceStable(releases, func(i, j int) bool { return releases[i].ReleaseTime < releases[j].ReleaseTime })

	// Long enough for the last key to cross the whole field
	var tail int64
	if speed > 0 {
		tail = int64(math.Ceil((field.Height - field.SpawnY) / speed * game.TicksPerSecond))
	}
	last := timeline.End + tail + 1

	next, nextRelease := 0, 0
	for tick := int64(0); tick <= last; tick++ {
		for nextRelease < len(releases) && releases[nextRelease].ReleaseTime <= tick &&
			releases[nextRelease].ReleaseTime > releases[nextRelease].HitTime {
			latch.Release(releases[nextRelease].Lane, tick)
			nextRelease++
		}
		for next < len(ins) && ins[next].HitTime <= tick {
			latch.Press(ins[next].Lane, tick)
			next++
		}
		s.Update(tick, game.Tick, speed)
		// Zero length presses are released after the frame that saw them
		for nextRelease < len(releases) && releases[nextRelease].ReleaseTime <= tick {
			latch.Release(releases[nextRelease].Lane, tick)
			nextRelease++
		}
	}
	return s.Score()
}

// Check replays a stored performance under the given tuning. It reports the
// replayed score and whether it agrees with the one that was saved. The song
// sync is applied the way play applies it.
func (r Record) Check(song *game.Song, coord game.CoordinationData, field game.Field, speed float64) (game.Score, bool) {
	coord.Sync = song.SyncTicks()
	replayed := Replay(song, coord, field, speed, r.Inputs)
	return replayed, replayed.Points == r.Score.Points && replayed.Misses == r.Score.Misses
}
