package input

import (
	"sync"
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
)

// Control is a non-lane action bound to a key.
type Control uint8

const (
	None Control = iota
	Back
	Confirm
	Minus
	Plus
	Reset
	Save
	Delete
	ScrollUp
	ScrollDown
	CursorLeft
	CursorRight
	ToggleAdd
	ToggleHold
	MarkStart
	TestPlay
	Quit
)

// NoLane marks an event that is not a lane key.
const NoLane = game.Lane(0xff)

type Event struct {
	Pressed  bool
	Released bool
	Lane     game.Lane // NoLane for control keys
	Control  Control
	Code     int // The raw source key code
	Time     time.Time
}

// Source delivers key events from some device.
type Source interface {
	Events() <-chan *Event
	Close() error
}

// feed is the event channel of a source. Sends give up once the source is
// closed, so a reader goroutine never outlives a consumer that stopped
// draining.
type feed struct {
	events chan *Event
	done   chan struct{}
	once   sync.Once
}

func newFeed(size int) *feed {
	return &feed{events: make(chan *Event, size), done: make(chan struct{})}
}

// send reports false when the source was closed before ev was taken.
func (f *feed) send(ev *Event) bool {
	select {
	case f.events <- ev:
		return true
	case <-f.done:
		return false
	}
}

func (f *feed) stop() {
	f.once.Do(func() { close(f.done) })
}

func (f *feed) Events() <-chan *Event {
	return f.events
}

// Keymap maps raw key codes to lanes and controls. The engine never looks at
// raw codes beyond this lookup.
type Keymap struct {
	Lanes    [game.NLanes]int
	Controls map[int]Control
}

// DefaultLanes is the controller_array used when settings.json is missing:
// d f j k.
var DefaultLanes = [game.NLanes]int{100, 102, 106, 107}

// Lane returns the lane bound to a code.
func (k *Keymap) Lane(code int) (game.Lane, bool) {
	for i, c := range k.Lanes {
		if c == code {
			return game.Lane(i), true
		}
	}
	return NoLane, false
}

// Control returns the control bound to a code.
func (k *Keymap) Control(code int) Control {
	if nil == k.Controls {
		return None
	}
	return k.Controls[code]
}

// Resolve fills in the lane and control of an event from its code.
func (k *Keymap) Resolve(ev *Event) *Event {
	ev.Lane = NoLane
	if lane, ok := k.Lane(ev.Code); ok {
		ev.Lane = lane
		return ev
	}
	ev.Control = k.Control(ev.Code)
	return ev
}
