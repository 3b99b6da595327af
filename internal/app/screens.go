package app

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/arrowner/internal/audio"
	"git.lost.host/meutraa/arrowner/internal/calibration"
	"git.lost.host/meutraa/arrowner/internal/editor"
	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
	"git.lost.host/meutraa/arrowner/internal/score"
)

// track starts the song audio once song time reaches the lead in.
type track struct {
	started bool
}

// start reports whether playback began on this frame.
func (t *track) start(a *App, now int64) (bool, error) {
	if t.started || now < audio.Lead {
		return false, nil
	}
	t.started = true
	if err := a.Player.Play(); nil != err {
		return true, fmt.Errorf("unable to play audio: %w", err)
	}
	return true, nil
}

// Seconds converts song time to a position in the track.
func Seconds(songTime int64) float64 {
	return float64(songTime-audio.Lead) / game.TicksPerSecond
}

// From keeps the notes of song starting at or after tick. Everything
// earlier would only spawn already past the window.
func From(song *game.Song, tick int64) *game.Song {
	s := *song
	for l := game.Lane(0); l < game.NLanes; l++ {
		notes := []game.Note{}
		for _, n := range song.Notes(l) {
			if int64(n.Time) >= tick {
				notes = append(notes, n)
			}
		}
		s.SetNotes(l, notes)
	}
	return &s
}

type playState struct {
	track
	scorer *score.DefaultScorer
	paused bool // By the player, as opposed to by an alert
	last   []game.Judgement
}

func (p *playState) enter(a *App) error {
	a.Latch = input.NewLatch()
	song := a.Song
	coord := a.Coordination
	coord.Sync = song.SyncTicks()
	var startTick int64
	if nil != a.testing {
		song = From(song, a.testing.start)
		// Begin when the first kept note spawns so it arrives on time
		startTick = a.testing.start - coord.Offset()
		if startTick < 0 {
			startTick = 0
		}
	}
	p.scorer = score.NewScorer(game.NewTimeline(song, coord), a.opts.Field, a.Latch)
	a.Clock.Reset(startTick)
	return a.openAudio()
}

func (p *playState) frame(a *App, now int64, dt time.Duration) error {
	if p.paused {
		return nil
	}
	if js := p.scorer.Update(now, dt, a.Clock.ScrollSpeed); len(js) > 0 {
		p.last = js
	}
	started, err := p.start(a, now)
	if nil != err {
		return err
	}
	if started && nil != a.testing {
		if err := a.Player.SetPosition(Seconds(now)); nil != err {
			return fmt.Errorf("the song position wasn't loaded correctly: %w", err)
		}
	}
	if p.scorer.Ended(now) {
		a.Result = p.scorer.Score()
		a.Goto(End)
	}
	return nil
}

func (p *playState) pause(a *App, paused bool) {
	if p.paused == paused {
		return
	}
	p.paused = paused
	if paused {
		a.Clock.Pause()
		a.Latch.SetInert(true, a.Clock.ElapsedTicks())
		a.Player.Pause()
		return
	}
	a.Latch.SetInert(false, a.Clock.ElapsedTicks())
	a.Clock.Resume()
	a.Player.Resume()
}

func (p *playState) control(a *App, c input.Control) error {
	switch c {
	case input.Back:
		if nil != a.testing {
			a.Goto(Edit)
			return nil
		}
		p.pause(a, !p.paused)
	case input.Confirm:
		if p.paused {
			a.Goto(Play)
		}
	}
	return nil
}

func (p *playState) leave(a *App) {
	a.Player.Halt()
}

type endState struct{}

// enter freezes input and keeps the result. Test runs from the editor are
// not worth keeping.
func (e *endState) enter(a *App) error {
	a.Latch.SetInert(true, a.Clock.ElapsedTicks())
	a.Clock.Pause()
	if nil == a.opts.History || nil != a.testing {
		return nil
	}
	if err := a.opts.History.Save(a.Song, a.Result, a.Latch.Inputs()); nil != err {
		log.Println("unable to save score:", err)
	}
	return nil
}

func (e *endState) frame(a *App, now int64, dt time.Duration) error {
	return nil
}

func (e *endState) control(a *App, c input.Control) error {
	switch c {
	case input.Confirm:
		a.Goto(Play)
	case input.Back:
		if nil != a.testing {
			a.Goto(Edit)
			return nil
		}
		a.Goto(Exit)
	}
	return nil
}

func (e *endState) leave(a *App) {}

type editState struct {
	editor *editor.Editor
}

func (e *editState) enter(a *App) error {
	e.editor = editor.New(a.Song)
	if nil != a.testing {
		e.editor.Start = a.testing.start
		e.editor.Cursor = a.testing.start
		a.testing = nil
	}
	return nil
}

func (e *editState) frame(a *App, now int64, dt time.Duration) error {
	return nil
}

// save writes the edits. A failed save changes nothing on disk and the
// edits stay in memory for another try.
func (e *editState) save(a *App) {
	song := e.editor.Song()
	if err := a.parser.Save(a.opts.SongFile, song); nil != err {
		log.Println(err)
		a.Status = "unable to save, edits are kept"
		return
	}
	e.editor.Dirty = false
	a.Song = song
	a.Status = "saved"
}

func (e *editState) control(a *App, c input.Control) error {
	a.Status = ""
	switch c {
	case input.Save:
		e.save(a)
	case input.TestPlay:
		a.Song = e.editor.Song()
		a.testing = &testRun{start: e.editor.Start}
		a.Goto(Play)
	case input.Back:
		a.Goto(Exit)
	default:
		if err := e.editor.Control(c); nil != err {
			a.Status = err.Error()
		}
	}
	return nil
}

func (e *editState) leave(a *App) {
	if e.editor.Dirty {
		log.Println("leaving the editor with unsaved edits")
	}
}

// recordState authors a chart by playing along to the track.
type recordState struct {
	track
	recorder *input.Recorder
}

func (r *recordState) enter(a *App) error {
	r.recorder = input.NewRecorder(a.Clock.Now().UnixNano())
	a.Latch = input.NewLatch()
	a.Latch.Recorder = r.recorder
	a.Clock.Reset(0)
	return a.openAudio()
}

func (r *recordState) frame(a *App, now int64, dt time.Duration) error {
	_, err := r.start(a, now)
	return err
}

func (r *recordState) control(a *App, c input.Control) error {
	switch c {
	case input.Confirm:
		now := a.Clock.ElapsedTicks()
		a.Latch.Flush(now)
		song := r.recorder.Song(a.Song, now)
		if err := a.parser.Save(a.opts.SongFile, song); nil != err {
			log.Println("unable to save recording:", err)
		}
		a.Song = song
		a.Goto(Edit)
	case input.Back:
		a.Goto(Exit)
	}
	return nil
}

func (r *recordState) leave(a *App) {
	a.Player.Halt()
}

type autoState struct {
	auto *calibration.Auto
}

func (s *autoState) enter(a *App) error {
	a.Latch = input.NewLatch()
	a.Clock.Reset(0)
	s.auto = calibration.NewAuto(a.opts.Field)
	s.auto.Start(0)
	return nil
}

func (s *autoState) press(a *App, lane game.Lane, tick int64) {
	s.auto.Tap(tick)
}

func (s *autoState) frame(a *App, now int64, dt time.Duration) error {
	s.auto.Update(now, dt, a.Clock.ScrollSpeed)
	if !s.auto.Done() {
		return nil
	}
	if s.auto.Complete() {
		measured := s.auto.Coordination()
		a.Coordination.BaseTime = measured.BaseTime
		a.Coordination.EndTime = measured.EndTime
		a.saveCoordination()
	}
	a.Goto(Exit)
	return nil
}

func (s *autoState) control(a *App, c input.Control) error {
	s.auto.Control(c)
	return nil
}

func (s *autoState) leave(a *App) {}

type manualState struct {
	manual *calibration.Manual
}

func (s *manualState) enter(a *App) error {
	a.Latch = input.NewLatch()
	a.Clock.Reset(0)
	s.manual = calibration.NewManual(a.Coordination, a.opts.Field, a.Latch)
	a.Player.Halt()
	a.Player = &audio.Silent{}
	if nil != a.opts.Metronome {
		a.Player = a.opts.Metronome
	}
	return nil
}

func (s *manualState) frame(a *App, now int64, dt time.Duration) error {
	if s.manual.Update(now, dt, a.Clock.ScrollSpeed) {
		a.Player.Click()
	}
	if s.manual.Done() {
		s.finish(a)
	}
	return nil
}

// finish keeps the nudged base time. Sync belongs to songs, not to the
// calibration.
func (s *manualState) finish(a *App) {
	a.Coordination.BaseTime = s.manual.Coordination().BaseTime
	a.saveCoordination()
	a.Goto(Exit)
}

func (s *manualState) control(a *App, c input.Control) error {
	s.manual.Control(c)
	if s.manual.Done() {
		s.finish(a)
	}
	return nil
}

func (s *manualState) leave(a *App) {}

type syncState struct {
	track
	sync *calibration.Sync
}

func (s *syncState) enter(a *App) error {
	a.Latch = input.NewLatch()
	a.Clock.Reset(0)
	s.sync = calibration.NewSync(a.Song, a.Coordination, a.opts.Field, a.Latch)
	return a.openAudio()
}

func (s *syncState) frame(a *App, now int64, dt time.Duration) error {
	s.sync.Update(now, dt, a.Clock.ScrollSpeed)
	if _, err := s.start(a, now); nil != err {
		return err
	}
	if s.sync.Done() {
		s.finish(a)
	}
	return nil
}

// finish writes only the sync value back into the song file.
func (s *syncState) finish(a *App) {
	if err := s.sync.Save(a.parser, a.opts.SongFile); nil != err {
		log.Println(err)
	}
	a.Coordination.Sync = s.sync.Coordination().Sync
	a.Goto(Exit)
}

func (s *syncState) control(a *App, c input.Control) error {
	s.sync.Control(c)
	if s.sync.Done() {
		s.finish(a)
	}
	return nil
}

func (s *syncState) leave(a *App) {
	a.Player.Halt()
}
