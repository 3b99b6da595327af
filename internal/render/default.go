package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	// Out defaults to stdout
	Out io.Writer

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    uint16
	Content string
	Frames  int // remaining frames until removed
}

func (r *DefaultRenderer) out() io.Writer {
	if nil == r.Out {
		return os.Stdout
	}
	return r.Out
}

func (r *DefaultRenderer) Init() error {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if nil != err {
			return fmt.Errorf("unable to make terminal raw: %w", err)
		}
		r.restoreState = state
	}

	// Alternate buffer, hidden cursor, cleared screen
	io.WriteString(r.out(), "\033[?1049h\033[?25l\033[J")
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	io.WriteString(r.out(), "\033[?1049l\033[?25h")
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

// Size falls back to 80x24 when stdout is not a terminal.
func (r *DefaultRenderer) Size() (int, int) {
	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err || columns <= 0 || rows <= 0 {
		return 80, 24
	}
	return columns, rows
}

func (r *DefaultRenderer) AddDecoration(col, row uint16, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{X: col, Y: row, Content: content, Frames: frames})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	live := r.decorations[:0]
	for _, d := range r.decorations {
		if d.Frames <= 0 {
			r.Fill(d.Y, d.X, " ")
			continue
		}
		// Redrawn since the frame may have been cleared
		r.Fill(d.Y, d.X, d.Content)
		d.Frames--
		live = append(live, d)
	}
	r.decorations = live
}

func (r *DefaultRenderer) RenderLoop(
	period time.Duration,
	render func(now time.Time, frameTime time.Duration) bool,
) {
	var frameTime time.Duration
	for {
		start := time.Now()
		more := render(start, frameTime)
		r.tickDecorations()
		r.flush()
		if !more {
			return
		}
		frameTime = time.Since(start)
		if wait := period - frameTime; wait > 0 {
			time.Sleep(wait)
		}
	}
}

// Clear blanks the whole screen on the next flush.
func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[H\033[2J")
}

// moveTo positions the cursor, both coordinates counting from 1.
func (r *DefaultRenderer) moveTo(row, column uint16) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(int(row)))
	r.buffer.WriteByte(';')
	r.buffer.WriteString(strconv.Itoa(int(column)))
	r.buffer.WriteByte('H')
}

func (r *DefaultRenderer) Fill(row, column uint16, message string) {
	r.moveTo(row, column)
	r.buffer.WriteString(message)
}

// FillColor writes message in a 24 bit foreground colour and resets it after.
func (r *DefaultRenderer) FillColor(row, column uint16, c color.RGBA, message string) {
	r.moveTo(row, column)
	fmt.Fprintf(&r.buffer, "\033[38;2;%d;%d;%dm%s\033[0m", c.R, c.G, c.B, message)
}

func (r *DefaultRenderer) flush() {
	if r.buffer.Len() == 0 {
		return
	}
	io.WriteString(r.out(), r.buffer.String())
	r.buffer.Reset()
}
