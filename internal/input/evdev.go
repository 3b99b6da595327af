package input

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"syscall"
	"time"
)

// From linux/input-event-codes.h
const (
	evKey = 0x01

	keyEsc       = 1
	keyMinus     = 12
	keyEqual     = 13
	keyBackspace = 14
	keyQ         = 16
	keyR         = 19
	keyP         = 25
	keyEnter     = 28
	keyA         = 30
	keyS         = 31
	keyD         = 32
	keyF         = 33
	keyH         = 35
	keyJ         = 36
	keyK         = 37
	keyM         = 50
	keySpace     = 57
	keyUp        = 103
	keyLeft      = 105
	keyRight     = 106
	keyDown      = 108
	keyDelete    = 111
)

// EvdevLanes binds d f j k by their evdev codes.
var EvdevLanes = [4]int{keyD, keyF, keyJ, keyK}

// qwerty is the evdev code of each key by the character it types.
var qwerty = map[rune]int{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
}

// EvdevCodes translates a controller_array of typed characters into evdev
// codes on a qwerty layout. A character with no key keeps the default lane.
func EvdevCodes(chars [4]int) [4]int {
	codes := EvdevLanes
	for i, c := range chars {
		r := rune(c)
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if code, ok := qwerty[r]; ok {
			codes[i] = code
		}
	}
	return codes
}

// EvdevKeymap binds controls by evdev codes around the given lanes.
func EvdevKeymap(lanes [4]int) *Keymap {
	return &Keymap{
		Lanes: lanes,
		Controls: map[int]Control{
			keyEsc:       Back,
			keyEnter:     Confirm,
			keyMinus:     Minus,
			keyEqual:     Plus,
			keySpace:     Reset,
			keyS:         Save,
			keyDelete:    Delete,
			keyBackspace: Delete,
			keyUp:        ScrollUp,
			keyDown:      ScrollDown,
			keyLeft:      CursorLeft,
			keyRight:     CursorRight,
			keyA:         ToggleAdd,
			keyH:         ToggleHold,
			keyM:         MarkStart,
			keyP:         TestPlay,
			keyQ:         Quit,
			keyR:         Reset,
		},
	}
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// EvdevSource reads a keyboard device under /dev/input. Unlike a terminal it
// reports real key releases, so hold notes can be judged exactly.
type EvdevSource struct {
	*feed
	file *os.File
}

func OpenEvdev(device string, keymap *Keymap) (*EvdevSource, error) {
	file, err := os.Open(device)
	if err != nil {
		return nil, fmt.Errorf("unable to open input device %v: %w", device, err)
	}
	s := &EvdevSource{feed: newFeed(128), file: file}
	go s.read(keymap)
	return s, nil
}

func (s *EvdevSource) read(keymap *Keymap) {
	defer close(s.events)

	var ev keyEvent
	for {
		err := binary.Read(s.file, binary.LittleEndian, &ev)
		if nil != err {
			log.Println(err, "unable to read keyboard input")
			return
		}
		// Value 2 is autorepeat, the latch would ignore it anyway
		if ev.Type != evKey || ev.Value == 2 {
			continue
		}
		sent := s.send(keymap.Resolve(&Event{
			Pressed:  ev.Value == 1,
			Released: ev.Value == 0,
			Code:     int(ev.Code),
			Time:     time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000),
		}))
		if !sent {
			return
		}
	}
}

func (s *EvdevSource) Close() error {
	s.stop()
	return s.file.Close()
}
