package editor

import (
	"errors"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
	"git.lost.host/meutraa/arrowner/internal/parser"
)

func newSong(end uint64) *game.Song {
	s := game.EmptySong()
	s.Name = "edit"
	s.End = end
	return s
}

func TestInsertSaveReload(t *testing.T) {
	e := New(newSong(600))
	if err := e.Insert(game.Up, 500); nil != err {
		t.Fatal(err)
	}

	p := parser.DefaultParser{}
	file := filepath.Join(t.TempDir(), "edit", "data.json")
	if err := p.Save(file, e.Song()); nil != err {
		t.Fatal(err)
	}
	song, err := p.Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	for l := game.Lane(0); l < game.NLanes; l++ {
		notes := song.Notes(l)
		if l == game.Up {
			if len(notes) != 1 || notes[0] != (game.Note{Time: 500, Holding: 0}) {
				t.Log(notes)
				t.Fail()
			}
			continue
		}
		if len(notes) != 0 {
			t.Log(l, notes)
			t.Fail()
		}
	}
}

var collisionTests = map[string]struct {
	Overwrite bool
	Lane      game.Lane
	Tick      int64
	Length    int64
	Err       error
	Notes     int
}{
	"free":              {false, game.Left, 50, 0, nil, 3},
	"on tap":            {false, game.Left, 100, 0, ErrCollision, 2},
	"inside hold":       {false, game.Left, 220, 0, ErrCollision, 2},
	"hold over tap":     {false, game.Left, 90, 20, ErrCollision, 2},
	"overwrite tap":     {true, game.Left, 100, 0, nil, 2},
	"overwrite both":    {true, game.Left, 90, 150, nil, 1},
	"other lane":        {false, game.Right, 100, 0, nil, 3},
	"past end":          {false, game.Left, 700, 0, game.ErrOutOfRange, 2},
	"hold past end":     {false, game.Left, 550, 100, game.ErrOutOfRange, 2},
	"overwrite on tail": {true, game.Left, 249, 0, nil, 2},
	"after hold":        {false, game.Left, 250, 0, nil, 3},
	"hold before hold":  {false, game.Left, 150, 50, nil, 3},
	"hold into hold":    {false, game.Left, 150, 51, ErrCollision, 2},
	"hold to end":       {false, game.Left, 500, 100, nil, 3},
}

func TestCollisions(t *testing.T) {
	for name, test := range collisionTests {
		s := newSong(600)
		s.LeftKeys = []game.Note{{Time: 100}, {Time: 200, Holding: 50}}
		e := New(s)
		e.Overwrite = test.Overwrite
		err := e.InsertHold(test.Lane, test.Tick, test.Length)
		if !errors.Is(err, test.Err) || (nil == err) != (nil == test.Err) {
			t.Log("test    ", name)
			t.Log("error   ", err)
			t.Log("expected", test.Err)
			t.Fail()
		}
		if count := e.Song().NoteCount(); count != test.Notes {
			t.Log("test ", name)
			t.Log("notes", e.Song().LeftKeys, e.Song().RightKeys)
			t.Fail()
		}
		if err := e.Song().Validate(); nil != err {
			t.Error(name, err)
		}
	}
}

func holdSong() *game.Song {
	s := newSong(600)
	s.BottomKeys = []game.Note{{Time: 100}, {Time: 200, Holding: 50}}
	return s
}

func TestDelete(t *testing.T) {
	e := New(holdSong())
	if err := e.Delete(game.Down, 150); !errors.Is(err, ErrNoNote) {
		t.Error(err)
	}
	// Deleting through the tail removes both ends
	if err := e.Delete(game.Down, 249); nil != err {
		t.Fatal(err)
	}
	if e.Arena.Occupied(game.Down, 200) || e.Arena.Occupied(game.Down, 249) {
		t.Error("hold left behind")
	}
	if notes := e.Song().BottomKeys; len(notes) != 1 || notes[0].Time != 100 || !e.Dirty {
		t.Log(notes)
		t.Fail()
	}
}

var moveTests = map[string]struct {
	From, To int64
	Err      error
	Notes    []game.Note
}{
	"tap":            {100, 120, nil, []game.Note{{Time: 120}, {Time: 200, Holding: 50}}},
	"tap onto hold":  {100, 210, ErrCollision, []game.Note{{Time: 100}, {Time: 200, Holding: 50}}},
	"head earlier":   {200, 150, nil, []game.Note{{Time: 100}, {Time: 150, Holding: 100}}},
	"head later":     {200, 240, nil, []game.Note{{Time: 100}, {Time: 240, Holding: 10}}},
	"head past tail": {200, 250, game.ErrOutOfRange, []game.Note{{Time: 100}, {Time: 200, Holding: 50}}},
	"head over tap":  {200, 90, ErrCollision, []game.Note{{Time: 100}, {Time: 200, Holding: 50}}},
	"tail later":     {249, 399, nil, []game.Note{{Time: 100}, {Time: 200, Holding: 200}}},
	"tail earlier":   {249, 201, nil, []game.Note{{Time: 100}, {Time: 200, Holding: 2}}},
	"tail on head":   {249, 200, game.ErrOutOfRange, []game.Note{{Time: 100}, {Time: 200, Holding: 50}}},
	"tail to end":    {249, 600, game.ErrOutOfRange, []game.Note{{Time: 100}, {Time: 200, Holding: 50}}},
	"tail released":  {249, 599, nil, []game.Note{{Time: 100}, {Time: 200, Holding: 400}}},
	"empty":          {150, 160, ErrNoNote, []game.Note{{Time: 100}, {Time: 200, Holding: 50}}},
	"out of song":    {100, 601, game.ErrOutOfRange, []game.Note{{Time: 100}, {Time: 200, Holding: 50}}},
}

func TestMove(t *testing.T) {
	for name, test := range moveTests {
		e := New(holdSong())
		err := e.Move(game.Down, test.From, test.To)
		if !errors.Is(err, test.Err) || (nil == err) != (nil == test.Err) {
			t.Log("test    ", name)
			t.Log("error   ", err)
			t.Log("expected", test.Err)
			t.Fail()
			continue
		}
		notes := e.Song().BottomKeys
		if len(notes) != len(test.Notes) {
			t.Log("test    ", name)
			t.Log("notes   ", notes)
			t.Log("expected", test.Notes)
			t.Fail()
			continue
		}
		for i := range notes {
			if notes[i] != test.Notes[i] {
				t.Log("test    ", name)
				t.Log("notes   ", notes)
				t.Log("expected", test.Notes)
				t.Fail()
				break
			}
		}
		// Partners always point at each other
		for i, slot := range e.Arena.Slots[game.Down] {
			if slot.Active && slot.Partner != game.NoPartner && e.Arena.Slots[game.Down][slot.Partner].Partner != i {
				t.Error("partner mismatch", name, i)
			}
		}
	}
}

func TestMoveOverwrite(t *testing.T) {
	e := New(holdSong())
	e.Overwrite = true
	if err := e.Move(game.Down, 249, 299); nil != err {
		t.Fatal(err)
	}
	if err := e.Move(game.Down, 200, 90); nil != err {
		t.Fatal(err)
	}
	notes := e.Song().BottomKeys
	if len(notes) != 1 || notes[0] != (game.Note{Time: 90, Holding: 210}) {
		t.Log(notes)
		t.Fail()
	}
}

func TestSelectAndPlace(t *testing.T) {
	e := New(holdSong())
	e.Lane = game.Down
	e.Cursor = 230
	if err := e.Control(input.Confirm); nil != err {
		t.Fatal(err)
	}
	sel, ok := e.Selection()
	if !ok || sel.Head != 200 || sel.Tail != 249 {
		t.Log(sel, ok)
		t.Fail()
	}
	e.Cursor = 180
	if err := e.Control(input.Confirm); nil != err {
		t.Fatal(err)
	}
	if _, ok := e.Selection(); ok {
		t.Error("placing should drop the selection")
	}
	if notes := e.Song().BottomKeys; notes[1] != (game.Note{Time: 180, Holding: 70}) {
		t.Log(notes)
		t.Fail()
	}
	e.Cursor = 10
	if err := e.Control(input.Confirm); !errors.Is(err, ErrNoNote) {
		t.Error(err)
	}
}

func TestControls(t *testing.T) {
	e := New(newSong(1000))
	steps := []struct {
		Control input.Control
		Cursor  int64
		Lane    game.Lane
	}{
		{input.ScrollUp, 100, game.Left},
		{input.Plus, 110, game.Left},
		{input.Minus, 100, game.Left},
		{input.ScrollDown, 0, game.Left},
		{input.ScrollDown, 0, game.Left},
		{input.CursorLeft, 0, game.Left},
		{input.CursorRight, 0, game.Up},
		{input.CursorRight, 0, game.Down},
		{input.CursorRight, 0, game.Right},
		{input.CursorRight, 0, game.Right},
	}
	for i, step := range steps {
		e.Control(step.Control)
		if e.Cursor != step.Cursor || e.Lane != step.Lane {
			t.Log("step    ", i)
			t.Log("at      ", e.Cursor, e.Lane)
			t.Log("expected", step.Cursor, step.Lane)
			t.Fail()
		}
	}
	for i := 0; i < 20; i++ {
		e.Control(input.ScrollUp)
	}
	if e.Cursor != 1000 {
		t.Error("cursor past the end", e.Cursor)
	}
	if from, to := e.Visible(); from != 1000 || to != 1000 {
		t.Error("visible", from, to)
	}

	e.Cursor = 300
	e.Control(input.ToggleAdd)
	e.Control(input.MarkStart)
	e.Cursor = 400
	e.Control(input.ToggleHold)
	if from, ok := e.HoldPending(); !ok || from != 400 {
		t.Fail()
	}
	e.Cursor = 460
	e.Control(input.ToggleHold)
	right := e.Song().RightKeys
	if len(right) != 2 || right[0] != (game.Note{Time: 300}) || right[1] != (game.Note{Time: 400, Holding: 60}) {
		t.Log(right)
		t.Fail()
	}
	if e.Start != 300 {
		t.Errorf("start marker %v", e.Start)
	}
	e.Cursor = 300
	e.Control(input.ToggleAdd)
	if len(e.Song().RightKeys) != 1 {
		t.Error("toggling an existing tap should remove it")
	}
}

func TestSetEnd(t *testing.T) {
	e := New(holdSong())
	e.Cursor, e.Start = 500, 550
	if err := e.SetEnd(240); !errors.Is(err, game.ErrEndTooShort) {
		t.Error(err)
	}
	// The hold is released at 250
	if err := e.SetEnd(249); !errors.Is(err, game.ErrEndTooShort) {
		t.Error(err)
	}
	if err := e.SetEnd(300); nil != err {
		t.Fatal(err)
	}
	if e.Cursor != 300 || e.Start != 300 || e.Song().End != 300 {
		t.Log(e.Cursor, e.Start, e.Song().End)
		t.Fail()
	}
}

func TestBackToBackDelete(t *testing.T) {
	for _, order := range [][]game.Note{
		{{Time: 100, Holding: 60}, {Time: 160, Holding: 40}},
		{{Time: 160, Holding: 40}, {Time: 100, Holding: 60}},
	} {
		s := newSong(300)
		s.LeftKeys = order
		e := New(s)
		if err := e.Delete(game.Left, 100); nil != err {
			t.Fatal(err)
		}
		notes := e.Song().LeftKeys
		if len(notes) != 1 || notes[0] != (game.Note{Time: 160, Holding: 40}) {
			t.Log(order)
			t.Log(notes)
			t.Fail()
		}
	}
}

func TestTapAfterHoldKept(t *testing.T) {
	for _, order := range [][]game.Note{
		{{Time: 100, Holding: 60}, {Time: 160}},
		{{Time: 160}, {Time: 100, Holding: 60}},
	} {
		s := newSong(300)
		s.LeftKeys = order
		notes := New(s).Song().LeftKeys
		if len(notes) != 2 || notes[0] != (game.Note{Time: 100, Holding: 60}) || notes[1] != (game.Note{Time: 160}) {
			t.Log(order)
			t.Log(notes)
			t.Fail()
		}
	}
	// Dragging the tail up to the tap is fine, onto it is not
	s := newSong(300)
	s.LeftKeys = []game.Note{{Time: 100, Holding: 40}, {Time: 160}}
	e := New(s)
	if err := e.Move(game.Left, 139, 159); nil != err {
		t.Fatal(err)
	}
	if err := e.Move(game.Left, 159, 160); !errors.Is(err, ErrCollision) {
		t.Error(err)
	}
	if notes := e.Song().LeftKeys; len(notes) != 2 || notes[0] != (game.Note{Time: 100, Holding: 60}) {
		t.Log(notes)
		t.Fail()
	}
}

func TestUntouchedFields(t *testing.T) {
	s := holdSong()
	bpm := uint64(90)
	s.BPM = &bpm
	e := New(s)
	out := e.Song()
	if out.Name != "edit" || out.BPM != &bpm || *out.ID != *s.ID {
		t.Fail()
	}
}
