package theme

import (
	"fmt"
	"image/color"
	"strings"

	"git.lost.host/meutraa/arrowner/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(key *game.GameKey) string {
	if !key.Lane.Playable() {
		return t.RenderGuide(key.Head, 1)
	}
	sym := syms[key.Lane]
	if key.Holding && !key.Head {
		sym = holdSym
	}
	return Paint(NoteColor(key), sym)
}

func (t *DefaultTheme) RenderHitField(lane game.Lane) string {
	if !lane.Playable() {
		return " "
	}
	return barSyms[lane]
}

func (t *DefaultTheme) RenderGuide(major bool, width int) string {
	sym, c := guideSyms[0], mutedColor
	if major {
		sym, c = guideSyms[1], guideColor
	}
	return Paint(c, strings.Repeat(sym, width))
}

const (
	holdSym = "┃"
)

var (
	syms       = [game.NLanes]string{"◀", "▲", "▼", "▶"}
	barSyms    = [game.NLanes]string{"-", "-", "-", "-"}
	guideSyms  = [...]string{"┄", "─"}
	laneColors = [game.NLanes]color.RGBA{
		game.Left:  {236, 30, 0, 255},  // red
		game.Up:    {0, 118, 236, 255}, // blue
		game.Down:  {0, 236, 128, 255}, // green
		game.Right: {236, 195, 0, 255}, // yellow
	}
	mutedColor = color.RGBA{106, 106, 106, 255}
	guideColor = color.RGBA{173, 236, 236, 255}
	hitColor   = color.RGBA{255, 255, 255, 255}
)

// NoteColor is grey once a key was missed and white once it was hit.
func NoteColor(key *game.GameKey) color.RGBA {
	switch {
	case key.Muted:
		return mutedColor
	case !key.Active:
		return hitColor
	case !key.Lane.Playable():
		return guideColor
	}
	return laneColors[key.Lane]
}

// Paint wraps s in a 24 bit foreground colour.
func Paint(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}
