package input

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.bug.st/serial"
)

const (
	SOF0         = 0xAA
	SOF1         = 0x55
	CmdPadState  = 0x20
	padFrameSize = 6 // SOF0 SOF1 LEN CMD mask CKS
)

var ErrChecksum = errors.New("pad frame checksum mismatch")

// SerialLanes are the pad codes: bit N of the state mask is code N. Bits 4
// to 7 are the pad's menu buttons.
var SerialLanes = [4]int{0, 1, 2, 3}

func SerialKeymap(lanes [4]int) *Keymap {
	return &Keymap{
		Lanes: lanes,
		Controls: map[int]Control{
			4: Back,
			5: Confirm,
			6: Minus,
			7: Plus,
		},
	}
}

// EncodePadFrame builds the on-wire pad state:
//
//	[SOF0][SOF1][LEN][CMD][mask][CKS]
func EncodePadFrame(mask byte) []byte {
	length := byte(2)
	return []byte{SOF0, SOF1, length, CmdPadState, mask, length ^ CmdPadState ^ mask}
}

// padDecoder pulls pad state frames out of a byte stream, resynchronising
// on the start bytes after garbage or a bad checksum.
type padDecoder struct {
	buf []byte
}

// Feed appends data and returns every complete state mask found.
func (d *padDecoder) Feed(data []byte) ([]byte, error) {
	d.buf = append(d.buf, data...)
	masks := []byte{}
	var bad error
	for {
		// Drop anything before a start of frame
		i := 0
		for ; i+1 < len(d.buf); i++ {
			if d.buf[i] == SOF0 && d.buf[i+1] == SOF1 {
				break
			}
		}
		if i+1 >= len(d.buf) {
			// Keep a trailing SOF0, it may start the next frame
			if len(d.buf) > 0 && d.buf[len(d.buf)-1] == SOF0 {
				d.buf = d.buf[len(d.buf)-1:]
			} else {
				d.buf = d.buf[:0]
			}
			return masks, bad
		}
		d.buf = d.buf[i:]
		if len(d.buf) < padFrameSize {
			return masks, bad
		}
		frame := d.buf[:padFrameSize]
		if frame[2] != 2 || frame[3] != CmdPadState || frame[2]^frame[3]^frame[4] != frame[5] {
			bad = fmt.Errorf("%w: % x", ErrChecksum, frame)
			d.buf = d.buf[2:]
			continue
		}
		masks = append(masks, frame[4])
		d.buf = d.buf[padFrameSize:]
	}
}

// maskEdges turns a change of pad state into press and release events.
func maskEdges(prev, next byte, now time.Time) []*Event {
	events := []*Event{}
	for bit := 0; bit < 8; bit++ {
		was, is := prev&(1<<bit) != 0, next&(1<<bit) != 0
		if was == is {
			continue
		}
		events = append(events, &Event{Pressed: is, Released: was, Code: bit, Time: now})
	}
	return events
}

// SerialSource reads a dance pad or arcade controller that reports its
// button state as framed bitmasks over a serial line.
type SerialSource struct {
	*feed
	port serial.Port
}

func OpenSerial(device string, baud int, keymap *Keymap) (*SerialSource, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if nil != err {
		return nil, fmt.Errorf("unable to open serial device %v: %w", device, err)
	}
	s := &SerialSource{feed: newFeed(128), port: port}
	go s.read(port, keymap)
	return s, nil
}

func (s *SerialSource) read(r io.Reader, keymap *Keymap) {
	defer close(s.events)

	var d padDecoder
	var state byte
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if nil != err {
			if err != io.EOF {
				log.Println(err, "unable to read serial input")
			}
			return
		}
		masks, err := d.Feed(buf[:n])
		if nil != err {
			log.Println(err)
		}
		now := time.Now()
		for _, mask := range masks {
			for _, ev := range maskEdges(state, mask, now) {
				if !s.send(keymap.Resolve(ev)) {
					return
				}
			}
			state = mask
		}
	}
}

func (s *SerialSource) Close() error {
	s.stop()
	return s.port.Close()
}
