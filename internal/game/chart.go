package game

import "sort"

// Timeline is the play layout: per lane, the keys of a session in ascending
// tick order. It exclusively owns its keys; the judgment engine only borrows
// them while iterating.
type Timeline struct {
	Keys   [NLanes + 1][]*GameKey // Indexed by Lane, Guide last
	Offset int64                  // base_time - sync, may be nudged live
	End    int64

	NoteCount int
	HoldCount int

	// Sliding window of keys still on the field, per lane.
	// keys[start:end] have spawned and not yet left the playfield.
	startIndex [NLanes + 1]int
	endIndex   [NLanes + 1]int
}

// NewTimeline builds the play layout of a song. Notes at or before the
// offset cannot spawn in time and are dropped. A hold of n ticks becomes n
// one-tick segments, the first one being the hittable head.
func NewTimeline(song *Song, coord CoordinationData) *Timeline {
	t := &Timeline{
		Offset: coord.Offset(),
		End:    int64(song.End),
	}

	for l := Lane(0); l < NLanes; l++ {
		notes := append([]Note(nil), song.Notes(l)...)
		sort.SliceStable(notes, func(i, j int) bool { return notes[i].Time < notes[j].Time })

		keys := make([]*GameKey, 0, len(notes))
		for _, n := range notes {
			if int64(n.Time) <= t.Offset {
				continue
			}
			if !n.IsHold() {
				keys = append(keys, newKey(l, int64(n.Time), false, true))
				t.NoteCount++
				continue
			}
			t.HoldCount++
			for i := uint64(0); i < n.Holding; i++ {
				keys = append(keys, newKey(l, int64(n.Time+i), true, i == 0))
			}
		}
		t.Keys[l] = keys
	}

	for _, m := range Measures(song.BeatsPerMinute(), song.End) {
		if m.Time <= t.Offset {
			continue
		}
		key := newKey(Guide, m.Time, false, m.Denom == 1)
		t.Keys[Guide] = append(t.Keys[Guide], key)
	}

	return t
}

// Active returns the keys of a lane that are currently on the field along
// with the window bounds.
func (t *Timeline) Active(l Lane) ([]*GameKey, int, int) {
	start, end := t.startIndex[l], t.endIndex[l]
	return t.Keys[l][start:end], start, end
}

// SetActive moves the sliding window of a lane.
func (t *Timeline) SetActive(l Lane, start, end int) {
	if end > len(t.Keys[l]) {
		end = len(t.Keys[l])
	}
	if start > end {
		start = end
	}
	t.startIndex[l] = start
	t.endIndex[l] = end
}

// Pending returns the keys of a lane that have not spawned yet.
func (t *Timeline) Pending(l Lane) []*GameKey {
	return t.Keys[l][t.endIndex[l]:]
}

// Remaining counts keys not yet removed from the field, spawned or not.
func (t *Timeline) Remaining() int {
	count := 0
	for l := range t.Keys {
		count += len(t.Keys[l]) - t.startIndex[l]
	}
	return count
}
