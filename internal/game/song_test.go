package game

import (
	"encoding/json"
	"errors"
	"testing"
)

var validateTests = map[string]struct {
	Song *Song
	Err  error
}{
	"empty": {EmptySong(), nil},
	"fits": {&Song{LeftKeys: []Note{{Time: 10}, {Time: 11}}, UpKeys: []Note{{Time: 20, Holding: 30}}, End: 50}, nil},
	"short": {&Song{UpKeys: []Note{{Time: 20, Holding: 30}}, End: 49}, ErrEndTooShort},
	"same tick": {&Song{LeftKeys: []Note{{Time: 10}, {Time: 10}}, End: 50}, ErrOverlap},
	"inside hold": {&Song{RightKeys: []Note{{Time: 30}, {Time: 10, Holding: 30}}, End: 50}, ErrOverlap},
	"after hold":  {&Song{RightKeys: []Note{{Time: 40}, {Time: 10, Holding: 30}}, End: 50}, nil},
}

func TestValidate(t *testing.T) {
	for name, test := range validateTests {
		err := test.Song.Validate()
		if !errors.Is(err, test.Err) || (nil == test.Err) != (nil == err) {
			t.Log("test    ", name)
			t.Log("error   ", err)
			t.Log("expected", test.Err)
			t.Fail()
		}
	}
}

func TestSongAccessors(t *testing.T) {
	s := EmptySong()
	s.SetNotes(Down, []Note{{Time: 5, Holding: 10}})
	s.SetNotes(Guide, []Note{{Time: 1}})
	if len(s.BottomKeys) != 1 || s.Notes(Guide) != nil {
		t.Fail()
	}
	if s.LastTick() != 15 || s.NoteCount() != 1 {
		t.Log(s.LastTick(), s.NoteCount())
		t.Fail()
	}
	s.SetNotes(Down, nil)
	if s.BottomKeys == nil {
		t.Error("lists must encode as [] rather than null")
	}
	legacy := &Song{}
	if legacy.SyncTicks() != 0 || legacy.BeatsPerMinute() != 0 {
		t.Fail()
	}
}

func TestLanes(t *testing.T) {
	if Lanes[0] != Guide || Lanes[1] != Left || Lanes[4] != Right {
		t.Error("update order changed")
	}
	keys := map[Lane]string{Left: "left_keys", Up: "up_keys", Down: "bottom_keys", Right: "right_keys"}
	for l, key := range keys {
		if l.Key() != key || !l.Playable() {
			t.Log(l, l.Key())
			t.Fail()
		}
	}
	if Guide.Playable() || Lane(9).String() != "Lane(9)" {
		t.Fail()
	}
}

func TestHasID(t *testing.T) {
	full, empty := json.Number("4390457408184705197"), json.Number("")
	tests := map[*json.Number]bool{
		nil:    false,
		&empty: false,
		&full:  true,
	}
	for id, expected := range tests {
		if (&Song{ID: id}).HasID() != expected {
			t.Log("id", id)
			t.Fail()
		}
	}
	if EmptySong().HasID() {
		t.Error("the placeholder id counts as an id")
	}
}
