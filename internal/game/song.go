package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEndTooShort = errors.New("song end is before the last note")
	ErrOverlap     = errors.New("notes overlap within a lane")
)

// Note is the persisted form of a single note. Holding is zero for a tap,
// otherwise the hold spans [Time, Time+Holding).
type Note struct {
	Time    uint64 `json:"time"`
	Holding uint64 `json:"holding"`
}

// End is the first tick after the note.
func (n Note) End() uint64 {
	return n.Time + n.Holding
}

func (n Note) IsHold() bool {
	return n.Holding > 0
}

// Song is the persisted unit stored in songs/<name>/data.json. The field
// order matches the file so an unmodified song encodes back byte for byte.
type Song struct {
	Name       string       `json:"name"`
	ID         *json.Number `json:"id"`
	LeftKeys   []Note       `json:"left_keys"`
	UpKeys     []Note       `json:"up_keys"`
	BottomKeys []Note       `json:"bottom_keys"`
	RightKeys  []Note       `json:"right_keys"`
	End        uint64       `json:"end"`
	Sync       *int64       `json:"sync"`
	BPM        *uint64      `json:"bpm"`
}

// HasID reports whether the song carries a real id. EmptySong uses 0 as a
// placeholder, so 0 counts as no id.
func (s *Song) HasID() bool {
	if nil == s.ID {
		return false
	}
	id := s.ID.String()
	return id != "" && id != "0"
}

// EmptySong is the fallback used when a song cannot be loaded.
func EmptySong() *Song {
	zero := json.Number("0")
	var sync int64
	var bpm uint64
	return &Song{
		ID:         &zero,
		LeftKeys:   []Note{},
		UpKeys:     []Note{},
		BottomKeys: []Note{},
		RightKeys:  []Note{},
		Sync:       &sync,
		BPM:        &bpm,
	}
}

// Notes returns the note list of a lane. Guide has none.
func (s *Song) Notes(l Lane) []Note {
	switch l {
	case Left:
		return s.LeftKeys
	case Up:
		return s.UpKeys
	case Down:
		return s.BottomKeys
	case Right:
		return s.RightKeys
	}
	return nil
}

// SetNotes replaces the note list of a lane.
func (s *Song) SetNotes(l Lane, notes []Note) {
	if notes == nil {
		notes = []Note{}
	}
	switch l {
	case Left:
		s.LeftKeys = notes
	case Up:
		s.UpKeys = notes
	case Down:
		s.BottomKeys = notes
	case Right:
		s.RightKeys = notes
	}
}

// SyncTicks is the per-song fine adjustment, zero when unset.
func (s *Song) SyncTicks() int64 {
	if nil == s.Sync {
		return 0
	}
	return *s.Sync
}

// BeatsPerMinute is zero when the song has no bpm.
func (s *Song) BeatsPerMinute() uint64 {
	if nil == s.BPM {
		return 0
	}
	return *s.BPM
}

// LastTick is the largest note end across every lane.
func (s *Song) LastTick() uint64 {
	var last uint64
	for l := Lane(0); l < NLanes; l++ {
		for _, n := range s.Notes(l) {
			if n.End() > last {
				last = n.End()
			}
		}
	}
	return last
}

// NoteCount counts taps and hold heads.
func (s *Song) NoteCount() int {
	count := 0
	for l := Lane(0); l < NLanes; l++ {
		count += len(s.Notes(l))
	}
	return count
}

// Validate checks the song invariants: the end covers every note and no two
// notes in the same lane overlap.
func (s *Song) Validate() error {
	if last := s.LastTick(); s.End < last {
		return fmt.Errorf("%w: end %d, last note ends at %d", ErrEndTooShort, s.End, last)
	}
	for l := Lane(0); l < NLanes; l++ {
		notes := append([]Note(nil), s.Notes(l)...)
		sort.Slice(notes, func(i, j int) bool { return notes[i].Time < notes[j].Time })
		for i := 1; i < len(notes); i++ {
			prev := notes[i-1]
			end := prev.End()
			if !prev.IsHold() {
				end = prev.Time + 1
			}
			if notes[i].Time < end {
				return fmt.Errorf("%w: %v lane at tick %d", ErrOverlap, l, notes[i].Time)
			}
		}
	}
	return nil
}
