package game

import (
	"errors"
	"fmt"
	"sort"
)

var ErrOutOfRange = errors.New("tick is outside the song")

// Arena is the edit layout: one slot per tick from 0 to End inclusive, per
// lane. Empty slots are inactive placeholders. A hold stores its head and
// tail as two slots pointing at each other through Partner, so either end
// finds the other in O(1). The tail sits on the last tick the hold covers,
// time+holding-1, leaving time+holding free for the next note. A hold of one
// tick is a single head slot partnered with itself.
type Arena struct {
	End   int64
	Slots [NLanes][]GameKey
}

// NewArena lays a song out for editing. Notes outside the song, or
// overlapping an earlier note of their lane, are dropped since they cannot
// be addressed.
func NewArena(song *Song) *Arena {
	a := &Arena{End: int64(song.End)}
	for l := Lane(0); l < NLanes; l++ {
		slots := make([]GameKey, a.End+1)
		for i := range slots {
			slots[i] = GameKey{Lane: l, Time: int64(i), Partner: NoPartner}
		}
		a.Slots[l] = slots

		notes := append([]Note(nil), song.Notes(l)...)
		sort.SliceStable(notes, func(i, j int) bool { return notes[i].Time < notes[j].Time })
		for _, n := range notes {
			start, last := int64(n.Time), int64(n.Time)
			if n.IsHold() {
				last = int64(n.End()) - 1
			}
			if a.taken(l, start, last) {
				continue
			}
			if n.IsHold() {
				_ = a.PutHold(l, start, last)
			} else {
				_ = a.PutTap(l, start)
			}
		}
	}
	return a
}

// taken reports whether any tick of [from, to] is covered by a note.
func (a *Arena) taken(l Lane, from, to int64) bool {
	for tick := from; tick <= to; tick++ {
		if _, _, ok := a.Covering(l, tick); ok {
			return true
		}
	}
	return false
}

func (a *Arena) check(l Lane, tick int64) error {
	if !l.Playable() || tick < 0 || tick > a.End {
		return fmt.Errorf("%w: %v lane, tick %d, end %d", ErrOutOfRange, l, tick, a.End)
	}
	return nil
}

// Slot returns the slot of a lane at a tick, nil when out of range.
func (a *Arena) Slot(l Lane, tick int64) *GameKey {
	if nil != a.check(l, tick) {
		return nil
	}
	return &a.Slots[l][tick]
}

// Occupied reports whether a note head or tail sits at tick.
func (a *Arena) Occupied(l Lane, tick int64) bool {
	s := a.Slot(l, tick)
	return nil != s && s.Active
}

// IsTail reports whether the slot is the closing end of a hold.
func (a *Arena) IsTail(l Lane, tick int64) bool {
	s := a.Slot(l, tick)
	return nil != s && s.Active && !s.Head && s.Partner != NoPartner
}

// Covering finds the note whose span contains tick, returning its head tick
// and its last tick (equal for a tap).
func (a *Arena) Covering(l Lane, tick int64) (int64, int64, bool) {
	if nil != a.check(l, tick) {
		return 0, 0, false
	}
	for i := tick; i >= 0; i-- {
		s := &a.Slots[l][i]
		if !s.Active {
			continue
		}
		if !s.Head {
			// A tail before tick closes its hold, nothing covers tick
			// unless it is the tail itself.
			if i == tick {
				return int64(s.Partner), i, true
			}
			return 0, 0, false
		}
		if s.Partner == NoPartner {
			if i == tick {
				return i, i, true
			}
			return 0, 0, false
		}
		if int64(s.Partner) >= tick {
			return i, int64(s.Partner), true
		}
		return 0, 0, false
	}
	return 0, 0, false
}

// PutTap writes a tap into a slot, replacing whatever was there.
func (a *Arena) PutTap(l Lane, tick int64) error {
	if err := a.check(l, tick); nil != err {
		return err
	}
	a.Slots[l][tick] = GameKey{Lane: l, Time: tick, Head: true, Active: true, Partner: NoPartner}
	return nil
}

// PutHold writes a hold covering start through last. The hold is released
// at last+1, so that tick must still be inside the song.
func (a *Arena) PutHold(l Lane, start, last int64) error {
	if err := a.check(l, start); nil != err {
		return err
	}
	if err := a.check(l, last+1); nil != err {
		return err
	}
	if last < start {
		return fmt.Errorf("%w: hold must end after it starts (%d..%d)", ErrOutOfRange, start, last)
	}
	a.Slots[l][start] = GameKey{Lane: l, Time: start, Head: true, Holding: true, Active: true, Partner: int(last)}
	if last != start {
		a.Slots[l][last] = GameKey{Lane: l, Time: last, Holding: true, Active: true, Partner: int(start)}
	}
	return nil
}

// Clear empties a slot and, for a hold end, its partner.
func (a *Arena) Clear(l Lane, tick int64) {
	s := a.Slot(l, tick)
	if nil == s || !s.Active {
		return
	}
	if s.Partner != NoPartner {
		a.Slots[l][s.Partner] = GameKey{Lane: l, Time: int64(s.Partner), Partner: NoPartner}
	}
	a.Slots[l][tick] = GameKey{Lane: l, Time: tick, Partner: NoPartner}
}

// Swap exchanges two slots and repoints any partner at the moved slots.
func (a *Arena) Swap(l Lane, i, j int64) error {
	if err := a.check(l, i); nil != err {
		return err
	}
	if err := a.check(l, j); nil != err {
		return err
	}
	moved := func(p int) int {
		switch int64(p) {
		case i:
			return int(j)
		case j:
			return int(i)
		}
		return p
	}
	slots := a.Slots[l]
	slots[i], slots[j] = slots[j], slots[i]
	slots[i].Time, slots[j].Time = i, j
	for _, k := range [...]int64{i, j} {
		if !slots[k].Active || slots[k].Partner == NoPartner {
			continue
		}
		p := moved(slots[k].Partner)
		slots[k].Partner = p
		if int64(p) != k {
			slots[p].Partner = int(k)
		}
	}
	return nil
}

// Song serialises the arena back to per-lane note lists. Fields the arena
// does not own are copied from base.
func (a *Arena) Song(base *Song) *Song {
	song := *base
	song.End = uint64(a.End)
	for l := Lane(0); l < NLanes; l++ {
		notes := []Note{}
		for i, s := range a.Slots[l] {
			if !s.Active || !s.Head {
				continue
			}
			if s.Holding && s.Partner >= i {
				notes = append(notes, Note{Time: uint64(i), Holding: uint64(s.Partner - i + 1)})
			} else {
				notes = append(notes, Note{Time: uint64(i)})
			}
		}
		song.SetNotes(l, notes)
	}
	return &song
}

// Resize moves the end of the song. Shrinking past a note, or onto the
// tail of a hold that is released one tick later, fails.
func (a *Arena) Resize(end int64) error {
	if end < 0 {
		return fmt.Errorf("%w: end %d", ErrOutOfRange, end)
	}
	for l := Lane(0); l < NLanes; l++ {
		for i := end; i <= a.End && i >= 0; i++ {
			s := &a.Slots[l][i]
			if !s.Active {
				continue
			}
			closes := s.Holding && (!s.Head || int64(s.Partner) == i)
			if i > end || closes {
				return fmt.Errorf("%w: %v lane has a note at %d", ErrEndTooShort, l, i)
			}
		}
	}
	for l := Lane(0); l < NLanes; l++ {
		if end <= a.End {
			a.Slots[l] = a.Slots[l][:end+1]
			continue
		}
		for i := a.End + 1; i <= end; i++ {
			a.Slots[l] = append(a.Slots[l], GameKey{Lane: l, Time: i, Partner: NoPartner})
		}
	}
	a.End = end
	return nil
}
