package editor

import (
	"errors"
	"fmt"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
)

var (
	ErrCollision = errors.New("another note is in the way")
	ErrNoNote    = errors.New("no note at tick")
)

const (
	FineStep   = 10
	CoarseStep = 100
	// VisibleTicks is how much of the song is shown past the cursor.
	VisibleTicks = 200
)

// Selection is the note picked for moving, by its head tick.
type Selection struct {
	Lane game.Lane
	Head int64
	Tail int64 // Equal to Head for a tap
}

// Editor mutates a song through its edit layout.
type Editor struct {
	Arena *game.Arena
	// Overwrite removes colliding notes instead of refusing the edit
	Overwrite bool

	Cursor int64
	Lane   game.Lane
	// Start is where test play begins
	Start int64
	Dirty bool

	base      *game.Song
	selection *Selection
	holdFrom  int64
	holding   bool
}

func New(song *game.Song) *Editor {
	return &Editor{
		Arena: game.NewArena(song),
		Lane:  game.Left,
		base:  song,
	}
}

// clear checks that [from, to] in lane holds nothing but the note headed at
// ignore, removing what is there when overwriting.
func (e *Editor) clear(lane game.Lane, from, to, ignore int64) error {
	if from < 0 || to > e.Arena.End {
		return fmt.Errorf("%w: %d..%d, end %d", game.ErrOutOfRange, from, to, e.Arena.End)
	}
	for tick := from; tick <= to; tick++ {
		head, last, ok := e.Arena.Covering(lane, tick)
		if !ok || head == ignore {
			continue
		}
		if !e.Overwrite {
			return fmt.Errorf("%w: %v lane at %d", ErrCollision, lane, tick)
		}
		e.Arena.Clear(lane, head)
		e.unselect(lane, head)
		tick = last
	}
	return nil
}

func (e *Editor) unselect(lane game.Lane, head int64) {
	if nil != e.selection && e.selection.Lane == lane && e.selection.Head == head {
		e.selection = nil
	}
}

func (e *Editor) Insert(lane game.Lane, tick int64) error {
	if !lane.Playable() {
		return fmt.Errorf("%w: %v lane", game.ErrOutOfRange, lane)
	}
	if err := e.clear(lane, tick, tick, -1); nil != err {
		return err
	}
	if err := e.Arena.PutTap(lane, tick); nil != err {
		return err
	}
	e.Dirty = true
	return nil
}

// InsertHold adds a hold of length ticks. It covers tick through
// tick+length-1 and another note may start at tick+length.
func (e *Editor) InsertHold(lane game.Lane, tick, length int64) error {
	if length <= 0 {
		return e.Insert(lane, tick)
	}
	if !lane.Playable() {
		return fmt.Errorf("%w: %v lane", game.ErrOutOfRange, lane)
	}
	last := tick + length - 1
	if last+1 > e.Arena.End {
		return fmt.Errorf("%w: hold released at %d, end %d", game.ErrOutOfRange, last+1, e.Arena.End)
	}
	if err := e.clear(lane, tick, last, -1); nil != err {
		return err
	}
	if err := e.Arena.PutHold(lane, tick, last); nil != err {
		return err
	}
	e.Dirty = true
	return nil
}

// Delete removes the note covering tick, both ends of a hold.
func (e *Editor) Delete(lane game.Lane, tick int64) error {
	head, _, ok := e.Arena.Covering(lane, tick)
	if !ok {
		return fmt.Errorf("%w: %v lane at %d", ErrNoNote, lane, tick)
	}
	e.Arena.Clear(lane, head)
	e.unselect(lane, head)
	e.Dirty = true
	return nil
}

// Move drags the note end at from to to. A tap moves whole; for a hold only
// the grabbed end moves and the other stays put.
func (e *Editor) Move(lane game.Lane, from, to int64) error {
	slot := e.Arena.Slot(lane, from)
	if nil == slot || !slot.Active {
		return fmt.Errorf("%w: %v lane at %d", ErrNoNote, lane, from)
	}
	if nil == e.Arena.Slot(lane, to) {
		return fmt.Errorf("%w: %v lane, tick %d", game.ErrOutOfRange, lane, to)
	}
	if from == to {
		return nil
	}

	head := from
	var lo, hi int64
	switch {
	case slot.Partner == game.NoPartner:
		lo, hi = to, to
	case slot.Head && int64(slot.Partner) == from:
		// A one tick hold moves whole
		if to+1 > e.Arena.End {
			return fmt.Errorf("%w: hold released at %d, end %d", game.ErrOutOfRange, to+1, e.Arena.End)
		}
		lo, hi = to, to
	case slot.Head:
		tail := int64(slot.Partner)
		if to >= tail {
			return fmt.Errorf("%w: hold head must stay before its tail at %d", game.ErrOutOfRange, tail)
		}
		lo, hi = to, tail
	default:
		head = int64(slot.Partner)
		if to <= head {
			return fmt.Errorf("%w: hold tail must stay after its head at %d", game.ErrOutOfRange, head)
		}
		if to+1 > e.Arena.End {
			return fmt.Errorf("%w: hold released at %d, end %d", game.ErrOutOfRange, to+1, e.Arena.End)
		}
		lo, hi = head, to
	}
	if err := e.clear(lane, lo, hi, head); nil != err {
		return err
	}
	if err := e.Arena.Swap(lane, from, to); nil != err {
		return err
	}
	if nil != e.selection && e.selection.Lane == lane && e.selection.Head == head {
		e.selection = e.find(lane, lo)
	}
	e.Dirty = true
	return nil
}

func (e *Editor) find(lane game.Lane, tick int64) *Selection {
	head, last, ok := e.Arena.Covering(lane, tick)
	if !ok {
		return nil
	}
	return &Selection{Lane: lane, Head: head, Tail: last}
}

// Select picks the note covering tick, reporting whether there was one.
func (e *Editor) Select(lane game.Lane, tick int64) bool {
	e.selection = e.find(lane, tick)
	return nil != e.selection
}

func (e *Editor) Selection() (Selection, bool) {
	if nil == e.selection {
		return Selection{}, false
	}
	return *e.selection, true
}

// Scroll moves the cursor, staying within the song.
func (e *Editor) Scroll(delta int64) {
	e.Cursor += delta
	if e.Cursor < 0 {
		e.Cursor = 0
	}
	if e.Cursor > e.Arena.End {
		e.Cursor = e.Arena.End
	}
}

// Visible is the tick range drawn on screen.
func (e *Editor) Visible() (int64, int64) {
	to := e.Cursor + VisibleTicks
	if to > e.Arena.End {
		to = e.Arena.End
	}
	return e.Cursor, to
}

func (e *Editor) SetEnd(end int64) error {
	if err := e.Arena.Resize(end); nil != err {
		return err
	}
	e.Scroll(0)
	if e.Start > end {
		e.Start = end
	}
	e.Dirty = true
	return nil
}

// Control applies a key press at the cursor.
func (e *Editor) Control(c input.Control) error {
	switch c {
	case input.ScrollUp:
		e.Scroll(CoarseStep)
	case input.ScrollDown:
		e.Scroll(-CoarseStep)
	case input.Plus:
		e.Scroll(FineStep)
	case input.Minus:
		e.Scroll(-FineStep)
	case input.CursorLeft:
		if e.Lane > game.Left {
			e.Lane--
		}
	case input.CursorRight:
		if e.Lane < game.Right {
			e.Lane++
		}
	case input.ToggleAdd:
		if e.Arena.Occupied(e.Lane, e.Cursor) {
			return e.Delete(e.Lane, e.Cursor)
		}
		return e.Insert(e.Lane, e.Cursor)
	case input.ToggleHold:
		// The first press marks where the hold starts, the second ends it
		if !e.holding {
			e.holding = true
			e.holdFrom = e.Cursor
			return nil
		}
		e.holding = false
		from, to := e.holdFrom, e.Cursor
		if to < from {
			from, to = to, from
		}
		return e.InsertHold(e.Lane, from, to-from)
	case input.Delete:
		return e.Delete(e.Lane, e.Cursor)
	case input.MarkStart:
		e.Start = e.Cursor
	case input.Confirm:
		// Pick a note up, then put it down at the cursor
		if sel, ok := e.Selection(); ok {
			e.selection = nil
			return e.Move(sel.Lane, sel.Head, e.Cursor)
		}
		if !e.Select(e.Lane, e.Cursor) {
			return fmt.Errorf("%w: %v lane at %d", ErrNoNote, e.Lane, e.Cursor)
		}
	}
	return nil
}

// HoldPending reports the start of a hold being marked.
func (e *Editor) HoldPending() (int64, bool) {
	return e.holdFrom, e.holding
}

// Song serialises the edits back to the persisted shape.
func (e *Editor) Song() *game.Song {
	return e.Arena.Song(e.base)
}
