package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"git.lost.host/meutraa/arrowner/internal/audio"
	"git.lost.host/meutraa/arrowner/internal/clock"
	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
	"git.lost.host/meutraa/arrowner/internal/parser"
	"git.lost.host/meutraa/arrowner/internal/render"
	"git.lost.host/meutraa/arrowner/internal/score"
	"git.lost.host/meutraa/arrowner/internal/theme"
)

// Screen is a state of the frame loop.
type Screen uint8

const (
	Play Screen = iota
	Edit
	Record
	Calibrate
	ManualCalibrate
	Sync
	Alert
	End
	Exit
)

var screenNames = map[Screen]string{
	Play:            "Play",
	Edit:            "Edit",
	Record:          "Record",
	Calibrate:       "Calibrate",
	ManualCalibrate: "ManualCalibrate",
	Sync:            "Sync",
	Alert:           "Alert",
	End:             "End",
	Exit:            "Exit",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Screen(%d)", uint8(s))
}

// Options is everything a session takes from outside the frame loop.
type Options struct {
	Name         string
	SongFile     string
	AudioFile    string
	SettingsFile string

	Field        game.Field
	Speed        float64 // Pixels per second
	Coordination game.CoordinationData

	// History keeps finished plays, nil keeps nothing.
	History *score.History
	// OpenAudio opens the song track. Without it the session is silent.
	OpenAudio func(file string) (audio.Player, error)
	// Metronome clicks for manual calibration, nil is silent.
	Metronome audio.Player
	// Spectrum, when set, is drawn beside the field.
	Spectrum *audio.Spectrum
	// Now is the wall clock, nil uses time.Now.
	Now func() time.Time
}

type testRun struct {
	start int64 // Editor tick the run began at
}

// state is one screen. A state is built fresh every time its screen is
// entered and torn down on leave.
type state interface {
	enter(a *App) error
	frame(a *App, now int64, dt time.Duration) error
	control(a *App, c input.Control) error
	draw(a *App, r render.Renderer, th theme.Theme, v render.View)
	leave(a *App)
}

// presser is a state that wants to see lane press edges.
type presser interface {
	press(a *App, lane game.Lane, tick int64)
}

// App owns the clock, latch and song of the session and switches between
// screens.
type App struct {
	Clock        *clock.Clock
	Latch        *input.Latch
	Player       audio.Player
	Song         *game.Song
	Coordination game.CoordinationData
	// Result is the score of the last finished play.
	Result game.Score
	// Message is the text of the alert being shown.
	Message string
	// Status is a one line note for the player, such as a refused edit.
	Status string

	opts    Options
	parser  *parser.DefaultParser
	screen  Screen
	under   Screen // Shown again once the alert is dismissed
	state   state
	testing *testRun
	quit    bool
}

func New(opts Options) *App {
	return &App{
		Clock:        clock.New(opts.Now, opts.Speed),
		Latch:        input.NewLatch(),
		Player:       &audio.Silent{},
		Song:         game.EmptySong(),
		Coordination: opts.Coordination,
		opts:         opts,
		parser:       &parser.DefaultParser{},
		screen:       Exit,
	}
}

func needsSong(s Screen) bool {
	return s == Play || s == Edit || s == Sync
}

// Start loads the song and enters the first screen. A song that cannot be
// loaded is replaced by an empty one and reported through an alert.
func (a *App) Start(first Screen) {
	var loadErr error
	if needsSong(first) || first == Record {
		song, err := a.parser.Parse(a.opts.SongFile)
		a.Song = song
		if nil != err && (first != Record || !errors.Is(err, os.ErrNotExist)) {
			loadErr = err
		}
	}
	if a.Song.Name == "" {
		a.Song.Name = a.opts.Name
	}
	a.Goto(first)
	if nil != loadErr && a.screen != Exit {
		a.Alert(loadErr.Error())
	}
}

// Goto leaves the current screen and enters a freshly built one.
func (a *App) Goto(s Screen) {
	if a.screen == Alert {
		a.dismiss()
	}
	if nil != a.state {
		a.state.leave(a)
	}
	a.Status = ""
	a.screen = s
	a.state = build(s)
	if nil == a.state {
		a.screen = Exit
		a.quit = true
		return
	}
	if err := a.state.enter(a); nil != err {
		a.Alert(fmt.Sprintf("unable to enter %v: %v", s, err))
	}
}

func build(s Screen) state {
	switch s {
	case Play:
		return &playState{}
	case Edit:
		return &editState{}
	case Record:
		return &recordState{}
	case Calibrate:
		return &autoState{}
	case ManualCalibrate:
		return &manualState{}
	case Sync:
		return &syncState{}
	case End:
		return &endState{}
	}
	return nil
}

func (a *App) Screen() Screen {
	return a.screen
}

func (a *App) Done() bool {
	return a.quit
}

// Alert shows a modal message. Song time stops, the latch goes inert and the
// audio pauses until the player acknowledges it.
func (a *App) Alert(msg string) {
	log.Println(msg)
	a.Message = msg
	if a.screen == Alert {
		return
	}
	a.under = a.screen
	a.screen = Alert
	a.Clock.Pause()
	a.Latch.SetInert(true, a.Clock.ElapsedTicks())
	a.Player.Pause()
}

func (a *App) dismiss() {
	a.screen = a.under
	a.Message = ""
	a.Latch.SetInert(false, a.Clock.ElapsedTicks())
	a.Clock.Resume()
	a.Player.Resume()
}

// lanesLive reports whether lane keys reach the latch on this screen.
func (a *App) lanesLive() bool {
	switch a.screen {
	case Play, Record, Calibrate, ManualCalibrate, Sync:
		return true
	}
	return false
}

// Handle applies one input event at the current song time.
func (a *App) Handle(ev *input.Event) {
	if a.quit || nil == a.state {
		return
	}
	if ev.Pressed && ev.Control == input.Quit {
		a.Goto(Exit)
		return
	}
	if a.screen == Alert {
		if ev.Pressed && (ev.Control == input.Confirm || ev.Control == input.Back) {
			a.dismiss()
		}
		return
	}

	tick := a.Clock.ElapsedTicks()
	if ev.Lane != input.NoLane {
		if !a.lanesLive() {
			return
		}
		if ev.Pressed && a.Latch.Press(ev.Lane, tick) {
			if p, ok := a.state.(presser); ok {
				p.press(a, ev.Lane, tick)
			}
		}
		if ev.Released {
			a.Latch.Release(ev.Lane, tick)
		}
		return
	}
	if ev.Pressed && ev.Control != input.None {
		if err := a.state.control(a, ev.Control); nil != err {
			a.Alert(err.Error())
		}
	}
}

// Frame advances the current screen by one frame. Nothing advances while
// an alert is shown.
func (a *App) Frame() {
	dt := a.Clock.Delta()
	if a.quit || nil == a.state || a.screen == Alert {
		return
	}
	now := a.Clock.ElapsedTicks()
	if err := a.state.frame(a, now, dt); nil != err {
		a.Alert(err.Error())
	}
}

// Draw renders the current screen, with the alert over it when one is up.
func (a *App) Draw(r render.Renderer, th theme.Theme, v render.View) {
	if a.quit || nil == a.state {
		return
	}
	r.Clear()
	a.state.draw(a, r, th, v)
	if a.screen == Alert {
		drawAlert(a, r, v)
	}
	if a.Status != "" {
		r.Fill(uint16(v.Rows), 1, a.Status)
	}
}

// openAudio replaces the player with a fresh one on the song track. The
// session stays silent when the track cannot be opened.
func (a *App) openAudio() error {
	a.Player.Halt()
	a.Player = &audio.Silent{}
	if nil == a.opts.OpenAudio {
		return nil
	}
	p, err := a.opts.OpenAudio(a.opts.AudioFile)
	if nil != err {
		return fmt.Errorf("unable to open audio: %w", err)
	}
	a.Player = p
	return nil
}

// saveCoordination keeps the calibration for later sessions. A failure is
// logged and the result still applies to this session.
func (a *App) saveCoordination() {
	if a.opts.SettingsFile == "" {
		return
	}
	s, err := parser.LoadSettings(a.opts.SettingsFile)
	if nil != err {
		log.Println(err)
	}
	coord := a.Coordination
	s.Coordination = &coord
	if err := parser.SaveSettings(a.opts.SettingsFile, s); nil != err {
		log.Println("unable to save calibration:", err)
	}
}
