package game

import (
	"errors"
	"testing"
)

func TestArenaLayout(t *testing.T) {
	a := NewArena(testSong())
	if len(a.Slots[Left]) != 401 {
		t.Fatalf("expected a slot per tick, got %v", len(a.Slots[Left]))
	}
	// The hold {100, 5} covers 100 through 104
	head, tail := a.Slot(Left, 100), a.Slot(Left, 104)
	if !head.Head || head.Partner != 104 || tail.Head || tail.Partner != 100 {
		t.Log("head", *head)
		t.Log("tail", *tail)
		t.Fail()
	}
	if !a.IsTail(Left, 104) || a.IsTail(Left, 100) || a.Occupied(Left, 103) || a.Occupied(Left, 105) {
		t.Fail()
	}
	if a.Slot(Left, 401) != nil || a.Slot(Guide, 0) != nil {
		t.Error("out of range slots")
	}
	if err := a.PutTap(Up, 500); !errors.Is(err, ErrOutOfRange) {
		t.Error(err)
	}
}

var coveringTests = map[int64][3]int64{
	// tick: head, last, found
	99:  {0, 0, 0},
	100: {100, 104, 1},
	103: {100, 104, 1},
	104: {100, 104, 1},
	105: {0, 0, 0},
	300: {300, 300, 1},
	301: {0, 0, 0},
}

func TestCovering(t *testing.T) {
	a := NewArena(testSong())
	for tick, expected := range coveringTests {
		head, last, ok := a.Covering(Left, tick)
		found := int64(0)
		if ok {
			found = 1
		}
		if head != expected[0] || last != expected[1] || found != expected[2] {
			t.Log("tick    ", tick)
			t.Log("covering", head, last, ok)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestSwapKeepsPartners(t *testing.T) {
	a := NewArena(testSong())
	// Move the hold tail from 104 to 119
	if err := a.Swap(Left, 104, 119); nil != err {
		t.Fatal(err)
	}
	if a.Slot(Left, 100).Partner != 119 || a.Slot(Left, 119).Partner != 100 || a.Occupied(Left, 104) {
		t.Fail()
	}
	// And the head from 100 to 90
	a.Swap(Left, 100, 90)
	if a.Slot(Left, 90).Partner != 119 || a.Slot(Left, 119).Partner != 90 || a.Slot(Left, 90).Time != 90 {
		t.Fail()
	}
	notes := a.Song(testSong()).LeftKeys
	if len(notes) != 3 || notes[1] != (Note{Time: 90, Holding: 30}) {
		t.Log(notes)
		t.Fail()
	}
}

func TestClearHold(t *testing.T) {
	a := NewArena(testSong())
	a.Clear(Left, 104)
	if a.Occupied(Left, 100) || a.Occupied(Left, 104) {
		t.Error("clearing a tail leaves its head")
	}
}

func TestArenaRoundTrip(t *testing.T) {
	s := testSong()
	out := NewArena(s).Song(s)
	expected := [][]Note{
		{{Time: 10}, {Time: 100, Holding: 5}, {Time: 300}},
		{},
		{},
		{{Time: 250, Holding: 3}},
	}
	for l := Lane(0); l < NLanes; l++ {
		notes := out.Notes(l)
		if len(notes) != len(expected[l]) {
			t.Fatal(l, notes)
		}
		for i := range notes {
			if notes[i] != expected[l][i] {
				t.Log(l, notes)
				t.Fail()
			}
		}
	}
	if out.End != s.End || out.Name != s.Name {
		t.Fail()
	}
}

func TestResize(t *testing.T) {
	a := NewArena(testSong())
	if err := a.Resize(299); !errors.Is(err, ErrEndTooShort) {
		t.Error("shrank past a note", err)
	}
	if err := a.Resize(300); nil != err || len(a.Slots[Up]) != 301 {
		t.Error(err)
	}
	if err := a.Resize(1000); nil != err || len(a.Slots[Left]) != 1001 || a.Slot(Left, 1000).Time != 1000 {
		t.Error(err)
	}
	if err := a.PutTap(Left, 900); nil != err {
		t.Error(err)
	}
}

func backToBack(notes ...Note) *Song {
	s := EmptySong()
	s.End = 300
	s.LeftKeys = notes
	return s
}

var backToBackTests = map[string][]Note{
	"hold then hold":      {{Time: 100, Holding: 60}, {Time: 160, Holding: 40}},
	"hold then hold late": {{Time: 160, Holding: 40}, {Time: 100, Holding: 60}},
	"hold then tap":       {{Time: 100, Holding: 60}, {Time: 160}},
	"tap before hold":     {{Time: 160}, {Time: 100, Holding: 60}},
	"one tick holds":      {{Time: 100, Holding: 1}, {Time: 101, Holding: 1}, {Time: 102}},
}

func TestBackToBackNotes(t *testing.T) {
	for name, notes := range backToBackTests {
		s := backToBack(notes...)
		if err := s.Validate(); nil != err {
			t.Fatal(name, err)
		}
		out := NewArena(s).Song(s).LeftKeys
		if len(out) != len(notes) {
			t.Log("test    ", name)
			t.Log("notes   ", out)
			t.Log("expected", notes)
			t.Fail()
			continue
		}
		for _, n := range notes {
			found := false
			for _, o := range out {
				found = found || o == n
			}
			if !found {
				t.Log("test   ", name)
				t.Log("missing", n)
				t.Log("notes  ", out)
				t.Fail()
			}
		}
	}
}

func TestClearBackToBack(t *testing.T) {
	s := backToBack(Note{Time: 100, Holding: 60}, Note{Time: 160, Holding: 40})
	a := NewArena(s)
	a.Clear(Left, 100)
	notes := a.Song(s).LeftKeys
	if len(notes) != 1 || notes[0] != (Note{Time: 160, Holding: 40}) {
		t.Log(notes)
		t.Fail()
	}
	a.Clear(Left, 199)
	if len(a.Song(s).LeftKeys) != 0 {
		t.Error("clearing through the tail leaves the hold")
	}
}

func TestOneTickHold(t *testing.T) {
	s := backToBack(Note{Time: 100, Holding: 1})
	a := NewArena(s)
	if head := a.Slot(Left, 100); !head.Head || !head.Holding || head.Partner != 100 {
		t.Log(*head)
		t.Fail()
	}
	if err := a.Swap(Left, 100, 50); nil != err {
		t.Fatal(err)
	}
	if a.Slot(Left, 50).Partner != 50 || a.Slot(Left, 100).Partner != NoPartner {
		t.Fail()
	}
	if notes := a.Song(s).LeftKeys; len(notes) != 1 || notes[0] != (Note{Time: 50, Holding: 1}) {
		t.Log(notes)
		t.Fail()
	}
}

func TestHoldNeedsRelease(t *testing.T) {
	a := NewArena(backToBack(Note{Time: 100, Holding: 60}))
	if err := a.Resize(159); !errors.Is(err, ErrEndTooShort) {
		t.Error("end on the tail of a hold", err)
	}
	if err := a.Resize(160); nil != err {
		t.Error(err)
	}
	if err := a.PutHold(Up, 100, 160); !errors.Is(err, ErrOutOfRange) {
		t.Error("hold released past the end", err)
	}
	if err := a.PutHold(Up, 100, 159); nil != err {
		t.Error(err)
	}
}
