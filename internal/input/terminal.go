package input

import (
	"fmt"
	"sort"
	"time"

	"github.com/eiannone/keyboard"
)

// Terminal codes are runes for printable keys, special keys are moved above
// the unicode range so they never collide.
const specialBase = 0x110000

func special(k keyboard.Key) int {
	return specialBase + int(k)
}

// TerminalKeymap binds controls by terminal key codes around the given lanes.
func TerminalKeymap(lanes [4]int) *Keymap {
	return &Keymap{
		Lanes: lanes,
		Controls: map[int]Control{
			special(keyboard.KeyEsc):        Back,
			special(keyboard.KeyEnter):      Confirm,
			'-':                             Minus,
			'=':                             Plus,
			'+':                             Plus,
			special(keyboard.KeySpace):      Reset,
			' ':                             Reset,
			's':                             Save,
			special(keyboard.KeyDelete):     Delete,
			special(keyboard.KeyBackspace2): Delete,
			special(keyboard.KeyArrowUp):    ScrollUp,
			special(keyboard.KeyArrowDown):  ScrollDown,
			special(keyboard.KeyArrowLeft):  CursorLeft,
			special(keyboard.KeyArrowRight): CursorRight,
			'a':                             ToggleAdd,
			'h':                             ToggleHold,
			'm':                             MarkStart,
			'p':                             TestPlay,
			'q':                             Quit,
			special(keyboard.KeyCtrlC):      Quit,
		},
	}
}

// repeats turns a stream of key-downs and autorepeats into press and
// release edges. A key counts as released once it has been quiet for gap.
type repeats struct {
	gap  time.Duration
	seen map[int]time.Time
}

func newRepeats(gap time.Duration) *repeats {
	return &repeats{gap: gap, seen: map[int]time.Time{}}
}

// Seen records a key-down and reports whether it started a new press.
func (r *repeats) Seen(code int, now time.Time) bool {
	_, held := r.seen[code]
	r.seen[code] = now
	return !held
}

// Expired returns, in code order, the keys that went quiet before now and
// forgets them.
func (r *repeats) Expired(now time.Time) []int {
	codes := []int{}
	for code, last := range r.seen {
		if now.Sub(last) >= r.gap {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	for _, code := range codes {
		delete(r.seen, code)
	}
	return codes
}

// TerminalSource reads keys from the controlling terminal. Terminals only
// report key-down and autorepeat, so releases are synthesised.
type TerminalSource struct {
	*feed
}

func OpenTerminal(keymap *Keymap, releaseGap time.Duration) (*TerminalSource, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	s := &TerminalSource{newFeed(128)}
	go s.read(keys, keymap, releaseGap)
	return s, nil
}

func (s *TerminalSource) read(keys <-chan keyboard.KeyEvent, keymap *Keymap, gap time.Duration) {
	defer close(s.events)

	r := newRepeats(gap)
	ticker := time.NewTicker(gap / 4)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			for _, code := range r.Expired(now) {
				if !s.send(keymap.Resolve(&Event{Released: true, Code: code, Time: now})) {
					return
				}
			}
		case key, ok := <-keys:
			if !ok || nil != key.Err {
				return
			}
			code := int(key.Rune)
			if key.Rune == 0 {
				code = special(key.Key)
			}
			now := time.Now()
			if r.Seen(code, now) && !s.send(keymap.Resolve(&Event{Pressed: true, Code: code, Time: now})) {
				return
			}
		}
	}
}

func (s *TerminalSource) Close() error {
	s.stop()
	return keyboard.Close()
}
