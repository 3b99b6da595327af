package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"git.lost.host/meutraa/arrowner/internal/app"
	"git.lost.host/meutraa/arrowner/internal/audio"
	"git.lost.host/meutraa/arrowner/internal/config"
	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
	"git.lost.host/meutraa/arrowner/internal/parser"
	"git.lost.host/meutraa/arrowner/internal/render"
	"git.lost.host/meutraa/arrowner/internal/score"
	"git.lost.host/meutraa/arrowner/internal/theme"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

var screens = map[string]app.Screen{
	"play":             app.Play,
	"edit":             app.Edit,
	"record":           app.Record,
	"calibrate":        app.Calibrate,
	"calibrate-manual": app.ManualCalibrate,
	"sync":             app.Sync,
}

func openSource(settings *parser.Settings) (input.Source, error) {
	switch *config.Source {
	case "evdev":
		s, err := input.OpenEvdev(*config.Device, input.EvdevKeymap(input.EvdevCodes(settings.ControllerArray)))
		if nil != err {
			return nil, err
		}
		return s, nil
	case "serial":
		// Pad buttons are fixed by the frame bits, controller_array is for keyboards
		s, err := input.OpenSerial(*config.Device, *config.Baud, input.SerialKeymap(input.SerialLanes))
		if nil != err {
			return nil, err
		}
		return s, nil
	}
	s, err := input.OpenTerminal(input.TerminalKeymap(settings.ControllerArray), *config.ReleaseGap)
	if nil != err {
		return nil, err
	}
	return s, nil
}

func newID() *json.Number {
	id := json.Number(strconv.FormatInt(rand.New(rand.NewSource(time.Now().UnixNano())).Int63(), 10))
	return &id
}

func importMidi(c config.Command) error {
	song, err := parser.NewMidiParser().Parse(c.MidiFile)
	if nil != err {
		return err
	}
	song.Name = c.Song
	song.ID = newID()
	file := parser.SongFile(*config.Songs, c.Song)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); nil != err {
		return fmt.Errorf("unable to create song directory: %w", err)
	}
	if err := (&parser.DefaultParser{}).Save(file, song); nil != err {
		return err
	}
	fmt.Printf("imported %v notes into %v\n", song.NoteCount(), file)
	return nil
}

func printScores(c config.Command, history *score.History, field game.Field, coord game.CoordinationData) error {
	p := &parser.DefaultParser{}
	file := parser.SongFile(*config.Songs, c.Song)
	info, err := p.Peek(file)
	if nil != err {
		return err
	}
	song, err := p.Parse(file)
	if nil != err {
		return err
	}
	fmt.Printf("%v (id %v, sync %v)\n", info.Name, info.ID, info.Sync)
	records := history.Load(song)
	if len(records) == 0 {
		fmt.Println("no scores for", c.Song)
		return nil
	}
	for i, r := range records {
		// Replayed under the current calibration, so old plays may differ
		mark := ""
		if replayed, ok := r.Check(song, coord, field, *config.Speed); !ok {
			mark = fmt.Sprintf("  (replays to %v)", replayed.Points)
		}
		fmt.Printf("%3v) %7v  %5v  %4v hits  %5v holds  %4v misses  %v%v\n",
			i, r.Score.Points, r.Score.MaxCombo, r.Score.Hits, r.Score.HoldTicks, r.Score.Misses,
			r.Played.Format(time.RFC3339), mark)
	}
	if best, ok := history.Best(song); ok {
		fmt.Printf("best: %v points\n", best.Score.Points)
	}
	return nil
}

func run(args []string) error {
	cmd, err := config.Parse(args)
	if nil != err {
		return err
	}

	// The game owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(*config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	settings, err := parser.LoadSettings(*config.Settings)
	if nil != err {
		log.Println(err)
	}
	field, coord := config.Tuning(settings.Coordination)

	if cmd.Name == "import-midi" {
		return importMidi(cmd)
	}

	history := &score.History{}
	if err := history.Init(*config.Database); nil != err {
		if cmd.Name == "scores" {
			return err
		}
		log.Println(err)
		history = nil
	} else {
		defer history.Deinit()
	}
	if cmd.Name == "scores" {
		return printScores(cmd, history, field, coord)
	}

	screen, ok := screens[cmd.Name]
	if !ok {
		return errors.New("unknown command " + cmd.Name)
	}

	songFile := parser.SongFile(*config.Songs, cmd.Song)
	if screen == app.Record || screen == app.Edit {
		if err := os.MkdirAll(filepath.Dir(songFile), 0o755); nil != err {
			return fmt.Errorf("unable to create song directory: %w", err)
		}
	}

	var spectrum *audio.Spectrum
	if *config.Spectrum {
		spectrum = audio.NewSpectrum()
	}
	opts := app.Options{
		Name:         cmd.Song,
		SongFile:     songFile,
		AudioFile:    parser.AudioFile(*config.Songs, cmd.Song),
		SettingsFile: *config.Settings,
		Field:        field,
		Speed:        *config.Speed,
		Coordination: coord,
		History:      history,
		Spectrum:     spectrum,
		OpenAudio: func(file string) (audio.Player, error) {
			p, err := audio.Open(file, *config.Volume)
			if nil != err {
				return nil, err
			}
			p.Spectrum = spectrum
			return p, nil
		},
	}
	if screen == app.ManualCalibrate {
		if m, err := audio.OpenMetronome(); nil != err {
			log.Println(err)
		} else {
			opts.Metronome = m
		}
	}

	source, err := openSource(settings)
	if nil != err {
		return fmt.Errorf("unable to open input: %w", err)
	}
	defer func() {
		if err := source.Close(); nil != err {
			log.Println("unable to close input:", err)
		}
	}()

	var r render.Renderer = &render.DefaultRenderer{}
	var th theme.Theme = &theme.DefaultTheme{}

	if err := r.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			log.Println("unable to restore terminal:", err)
		}
	}()

	columns, rows := r.Size()
	view := render.View{
		Field:   field,
		Columns: columns,
		Rows:    rows,
		Spacing: int(*config.ColumnSpacing),
	}

	a := app.New(opts)
	a.Start(screen)
	events := source.Events()

	r.RenderLoop(*config.FramePeriod, func(now time.Time, frameTime time.Duration) bool {
		for drained := false; !drained; {
			select {
			case ev, ok := <-events:
				if !ok {
					return false
				}
				a.Handle(ev)
			default:
				drained = true
			}
		}
		a.Frame()
		a.Draw(r, th, view)
		return !a.Done()
	})

	log.Printf("left %v with %+v, calibration %+v", cmd.Name, a.Result, a.Coordination)
	return nil
}
