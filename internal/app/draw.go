package app

import (
	"fmt"
	"strings"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/render"
	"git.lost.host/meutraa/arrowner/internal/theme"
)

func drawSpectrum(a *App, r render.Renderer, v render.View) {
	if nil == a.opts.Spectrum {
		return
	}
	bands := a.opts.Spectrum.Snapshot()
	v.DrawSpectrum(r, 2, bands[:])
}

func drawField(a *App, r render.Renderer, th theme.Theme, v render.View, t *game.Timeline, s game.Score) {
	v.DrawWindow(r, th)
	v.DrawTimeline(r, th, t)
	v.DrawScore(r, 10, s)
	drawSpectrum(a, r, v)
}

func (p *playState) draw(a *App, r render.Renderer, th theme.Theme, v render.View) {
	drawField(a, r, th, v, p.scorer.Timeline, p.scorer.Score())
	row := uint16(4)
	for _, j := range p.last {
		if j.Kind == game.Miss {
			r.Fill(row, v.Column(j.Lane), th.RenderNote(&game.GameKey{Lane: j.Lane, Head: true, Muted: true}))
		}
	}
	r.Fill(17, v.Side(), fmt.Sprintf("%12v:  %6v", "Time", a.Clock.ElapsedTicks()))
	if p.paused {
		r.Fill(uint16(v.Rows/2), v.Side(), "Paused: [Esc] resume, [Enter] restart")
	}
}

func (e *endState) draw(a *App, r render.Renderer, th theme.Theme, v render.View) {
	r.Fill(8, v.Side(), fmt.Sprintf("Congrats, you got %v points", a.Result.Points))
	v.DrawScore(r, 10, a.Result)
	r.Fill(17, v.Side(), "[Enter] again, [Esc] leave")
}

// editRow places a tick of the visible span, the earliest tick at the bottom.
func editRow(v render.View, from, to, tick int64) uint16 {
	span := to - from
	if span <= 0 {
		return uint16(v.Rows)
	}
	return uint16(int64(v.Rows) - (tick-from)*int64(v.Rows-1)/span)
}

func (e *editState) draw(a *App, r render.Renderer, th theme.Theme, v render.View) {
	ed := e.editor
	from, to := ed.Visible()
	for l := game.Lane(0); l < game.NLanes; l++ {
		for tick := from; tick <= to; tick++ {
			slot := ed.Arena.Slot(l, tick)
			if nil == slot || !slot.Active {
				continue
			}
			r.Fill(editRow(v, from, to, tick), v.Column(l), th.RenderNote(slot))
		}
	}
	cursor := editRow(v, from, to, ed.Cursor)
	r.Fill(cursor, v.Column(ed.Lane)-2, ">")
	if ed.Start >= from && ed.Start <= to {
		r.Fill(editRow(v, from, to, ed.Start), v.Column(game.Left)-4, "▶")
	}

	side := v.Side()
	r.Fill(2, side, fmt.Sprintf("%12v:  %v", "Song", a.Song.Name))
	r.Fill(3, side, fmt.Sprintf("%12v:  %6v", "Cursor", ed.Cursor))
	r.Fill(4, side, fmt.Sprintf("%12v:  %6v", "Start", ed.Start))
	r.Fill(5, side, fmt.Sprintf("%12v:  %6v", "End", ed.Arena.End))
	if head, ok := ed.HoldPending(); ok {
		r.Fill(6, side, fmt.Sprintf("%12v:  %6v", "Hold from", head))
	}
	if sel, ok := ed.Selection(); ok {
		r.Fill(7, side, fmt.Sprintf("%12v:  %v %v", "Moving", sel.Lane, sel.Head))
	}
	if ed.Dirty {
		r.Fill(8, side, "unsaved")
	}
}

func (s *recordState) draw(a *App, r render.Renderer, th theme.Theme, v render.View) {
	v.DrawWindow(r, th)
	for l := game.Lane(0); l < game.NLanes; l++ {
		if a.Latch.Pressed(l) {
			row, _ := v.Row(a.opts.Field.EntryY)
			r.Fill(row, v.Column(l), th.RenderNote(&game.GameKey{Lane: l, Head: true, Active: true}))
		}
	}
	r.Fill(2, v.Side(), fmt.Sprintf("%12v:  %6v", "Recording", a.Clock.ElapsedTicks()))
	r.Fill(3, v.Side(), "[Enter] save, [Esc] discard")
	drawSpectrum(a, r, v)
}

func (s *autoState) draw(a *App, r render.Renderer, th theme.Theme, v render.View) {
	v.DrawWindow(r, th)
	v.DrawKey(r, th, s.auto.Key())
	coord := s.auto.Coordination()
	r.Fill(2, v.Side(), fmt.Sprintf("%12v:  %v", "State", s.auto.State))
	r.Fill(3, v.Side(), fmt.Sprintf("%12v:  %6v", "Base time", coord.BaseTime))
	r.Fill(4, v.Side(), fmt.Sprintf("%12v:  %6v", "End time", coord.EndTime))
	if taps := s.auto.Taps(); len(taps) > 0 {
		r.Fill(5, v.Side(), fmt.Sprintf("%12v:  %6v", "Last tap", taps[len(taps)-1]))
	}
}

func (s *manualState) draw(a *App, r render.Renderer, th theme.Theme, v render.View) {
	drawField(a, r, th, v, s.manual.Scorer.Timeline, s.manual.Scorer.Score())
	r.Fill(2, v.Side(), fmt.Sprintf("%12v:  %6v", "Base time", s.manual.Coordination().BaseTime))
	r.Fill(3, v.Side(), "[-/+] nudge, [Enter] keep")
}

func (s *syncState) draw(a *App, r render.Renderer, th theme.Theme, v render.View) {
	drawField(a, r, th, v, s.sync.Scorer.Timeline, s.sync.Scorer.Score())
	r.Fill(2, v.Side(), fmt.Sprintf("%12v:  %6v", "Sync", s.sync.Coordination().Sync))
	r.Fill(3, v.Side(), "[-/+] nudge, [Space] reset, [Enter] keep")
}

func drawAlert(a *App, r render.Renderer, v render.View) {
	width := len(a.Message) + 4
	if width < 16 {
		width = 16
	}
	col := v.Columns/2 - width/2
	if col < 1 {
		col = 1
	}
	row := uint16(v.Rows / 2)
	r.Fill(row-1, uint16(col), "╭"+strings.Repeat("─", width-2)+"╮")
	r.Fill(row, uint16(col), "│ "+a.Message+strings.Repeat(" ", width-4-len(a.Message))+" │")
	r.Fill(row+1, uint16(col), "│"+strings.Repeat(" ", width-7)+"[OK] │")
	r.Fill(row+2, uint16(col), "╰"+strings.Repeat("─", width-2)+"╯")
}
