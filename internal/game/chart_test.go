package game

import "testing"

func testSong() *Song {
	s := EmptySong()
	s.End = 400
	s.LeftKeys = []Note{{Time: 300}, {Time: 10}, {Time: 100, Holding: 5}}
	s.RightKeys = []Note{{Time: 250, Holding: 3}}
	return s
}

func TestTimelineBuild(t *testing.T) {
	tl := NewTimeline(testSong(), CoordinationData{BaseTime: 20, Sync: 5})
	if tl.Offset != 15 {
		t.Errorf("offset %v", tl.Offset)
	}

	// The tap at 10 is before the offset and dropped
	left := tl.Keys[Left]
	expected := []struct {
		Time    int64
		Holding bool
		Head    bool
	}{
		{100, true, true}, {101, true, false}, {102, true, false}, {103, true, false}, {104, true, false},
		{300, false, true},
	}
	if len(left) != len(expected) {
		t.Fatalf("expected %v left keys, got %v", len(expected), len(left))
	}
	for i, e := range expected {
		k := left[i]
		if k.Time != e.Time || k.Holding != e.Holding || k.Head != e.Head || !k.Active || k.Spawned {
			t.Log("key     ", i, *k)
			t.Log("expected", e)
			t.Fail()
		}
	}
	if tl.NoteCount != 1 || tl.HoldCount != 2 {
		t.Log("notes", tl.NoteCount, "holds", tl.HoldCount)
		t.Fail()
	}
	if len(tl.Keys[Right]) != 3 || len(tl.Keys[Guide]) != 0 {
		t.Fail()
	}
	if tl.Remaining() != 9 {
		t.Errorf("remaining %v", tl.Remaining())
	}
}

func TestTimelineGuide(t *testing.T) {
	s := testSong()
	bpm := uint64(120)
	s.BPM = &bpm
	tl := NewTimeline(s, CoordinationData{})
	// A beat every 50 ticks from 0 to 400, the one at 0 is dropped
	guide := tl.Keys[Guide]
	if len(guide) != 8 {
		t.Fatalf("expected 8 beat lines, got %v", len(guide))
	}
	if guide[0].Time != 50 || guide[3].Time != 200 || !guide[3].Head || guide[0].Head {
		t.Log(*guide[0], *guide[3])
		t.Fail()
	}
}

func TestSetActive(t *testing.T) {
	tl := NewTimeline(testSong(), CoordinationData{})
	tl.SetActive(Left, 2, 100)
	keys, start, end := tl.Active(Left)
	if start != 2 || end != len(tl.Keys[Left]) || len(keys) != end-start {
		t.Log(start, end, len(keys))
		t.Fail()
	}
	if len(tl.Pending(Left)) != 0 {
		t.Error("nothing should be pending")
	}
	tl.SetActive(Left, 5, 3)
	if _, start, end := tl.Active(Left); start != 3 || end != 3 {
		t.Log(start, end)
		t.Fail()
	}
}
