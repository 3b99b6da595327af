package render

import (
	"fmt"
	"math"
	"strings"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/theme"
)

// View maps playfield pixels onto terminal cells. Row 1 is the top of the
// field and row Rows is its bottom edge.
type View struct {
	Field   game.Field
	Columns int
	Rows    int
	Spacing int // Columns between neighbouring lanes
}

// Row converts a y position into a terminal row.
func (v View) Row(y float64) (uint16, bool) {
	if y < 0 || y > v.Field.Height || v.Rows < 1 || v.Field.Height <= 0 {
		return 0, false
	}
	return uint16(math.Floor(y/v.Field.Height*float64(v.Rows-1))) + 1, true
}

// Column is the terminal column of a lane.
func (v View) Column(l game.Lane) uint16 {
	c := v.Columns/2 + l.Column()*v.Spacing
	if c < 1 {
		c = 1
	}
	return uint16(c)
}

// Width is the span of the field from the left to the right lane, inclusive.
func (v View) Width() int {
	return int(v.Column(game.Right)-v.Column(game.Left)) + 1
}

// Side is the column of the panel left of the field.
func (v View) Side() uint16 {
	c := int(v.Column(game.Left)) - 36
	if c < 2 {
		c = 2
	}
	return uint16(c)
}

// DrawWindow marks both edges of the judgment band under every lane.
func (v View) DrawWindow(r Renderer, th theme.Theme) {
	for _, y := range [...]float64{v.Field.EntryY, v.Field.ExitY} {
		row, ok := v.Row(y)
		if !ok {
			continue
		}
		for l := game.Lane(0); l < game.NLanes; l++ {
			r.Fill(row, v.Column(l), th.RenderHitField(l))
		}
	}
}

// DrawTimeline draws every key currently on the field, guide lines first
// so notes sit on top of them.
func (v View) DrawTimeline(r Renderer, th theme.Theme, t *game.Timeline) {
	for _, l := range game.Lanes {
		keys, _, _ := t.Active(l)
		for _, k := range keys {
			if !k.Visible() {
				continue
			}
			row, ok := v.Row(k.Y)
			if !ok {
				continue
			}
			if l == game.Guide {
				r.Fill(row, v.Column(game.Left), th.RenderGuide(k.Head, v.Width()))
				continue
			}
			r.Fill(row, v.Column(l), th.RenderNote(k))
		}
	}
}

// DrawKey draws a single key, as the calibration note.
func (v View) DrawKey(r Renderer, th theme.Theme, k *game.GameKey) {
	if row, ok := v.Row(k.Y); ok {
		r.Fill(row, v.Column(k.Lane), th.RenderNote(k))
	}
}

// DrawScore writes the running totals into the side panel from row.
func (v View) DrawScore(r Renderer, row uint16, s game.Score) {
	lines := [...]struct {
		name  string
		value uint64
	}{
		{"Points", s.Points},
		{"Combo", s.Combo},
		{"Max combo", s.MaxCombo},
		{"Hits", s.Hits},
		{"Hold ticks", s.HoldTicks},
		{"Misses", s.Misses},
	}
	for i, l := range lines {
		r.Fill(row+uint16(i), v.Side(), fmt.Sprintf("%12v:  %6v", l.name, l.value))
	}
}

var bars = [...]string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Bar picks the block glyph for a magnitude in [0, 1].
func Bar(m float64) string {
	if m <= 0 || math.IsNaN(m) {
		return bars[0]
	}
	i := int(math.Ceil(m * float64(len(bars)-1)))
	if i >= len(bars) {
		i = len(bars) - 1
	}
	return bars[i]
}

// DrawSpectrum draws band magnitudes as a row of bars, normalised to the
// loudest band.
func (v View) DrawSpectrum(r Renderer, row uint16, bands []float64) {
	peak := 0.0
	for _, b := range bands {
		peak = math.Max(peak, b)
	}
	var sb strings.Builder
	for _, b := range bands {
		if peak > 0 {
			b /= peak
		}
		sb.WriteString(Bar(b))
	}
	r.Fill(row, v.Side(), sb.String())
}
