package config

import (
	"math"

	"git.lost.host/meutraa/arrowner/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("arrowner", "Terminal rhythm game with a chart editor").Version("0.1.0")

	Songs         = app.Flag("songs", "Song directory").Default("songs").Short('d').String()
	Settings      = app.Flag("settings", "Settings file").Default("settings.json").String()
	Database      = app.Flag("database", "Score history database").Default("scores.db").String()
	LogFile       = app.Flag("log", "Log file, the terminal belongs to the game").Default("arrowner.log").String()
	Source        = app.Flag("input", "Input source").Default("terminal").Enum("terminal", "evdev", "serial")
	Device        = app.Flag("device", "Input device for evdev or serial").Default("/dev/input/event0").String()
	Baud          = app.Flag("baud", "Serial baud rate").Default("115200").Int()
	ReleaseGap    = app.Flag("release-gap", "Quiet time after which a terminal key counts as released").Default("120ms").Duration()
	Speed         = app.Flag("scroll-speed", "Note speed in pixels per second").Default("700").Short('s').Float64()
	Height        = app.Flag("height", "Playfield height in pixels").Default("600").Float64()
	Entry         = app.Flag("window-entry", "Window entry edge in pixels above the bottom").Default("150").Float64()
	Exit          = app.Flag("window-exit", "Window exit edge in pixels above the bottom").Default("80").Float64()
	FramePeriod   = app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').Duration()
	ColumnSpacing = app.Flag("spacing", "Columns between lanes").Default("6").Short('S').Uint()
	BaseTime      = app.Flag("base-time", "Base time in ticks, negative uses the calibration").Default("-1").Int64()
	Volume        = app.Flag("volume", "Volume in halvings of loudness").Default("0").Float64()
	Spectrum      = app.Flag("spectrum", "Draw the spectrum of the track").Bool()

	playCmd  = app.Command("play", "Play a song")
	playSong = playCmd.Arg("song", "Song name").Required().String()

	editCmd  = app.Command("edit", "Edit a song")
	editSong = editCmd.Arg("song", "Song name").Required().String()

	recordCmd  = app.Command("record", "Author a song by playing along to its audio")
	recordSong = recordCmd.Arg("song", "Song name").Required().String()

	calibrateCmd = app.Command("calibrate", "Measure how long notes take to reach the window")
	manualCmd    = app.Command("calibrate-manual", "Adjust the base time by ear")

	syncCmd  = app.Command("sync", "Adjust the sync of a song")
	syncSong = syncCmd.Arg("song", "Song name").Required().String()

	importCmd  = app.Command("import-midi", "Create a song from a MIDI file")
	importFile = importCmd.Arg("file", "MIDI file").Required().ExistingFile()
	importSong = importCmd.Arg("song", "Song name").Required().String()

	scoresCmd  = app.Command("scores", "List the scores of a song")
	scoresSong = scoresCmd.Arg("song", "Song name").Required().String()
)

// Command is the chosen subcommand and its arguments.
type Command struct {
	Name     string
	Song     string
	MidiFile string
}

// Parse reads the command line. It is called once from main rather than
// from init so tests can parse their own arguments.
func Parse(args []string) (Command, error) {
	name, err := app.Parse(args)
	if nil != err {
		return Command{}, err
	}
	c := Command{Name: name}
	switch name {
	case playCmd.FullCommand():
		c.Song = *playSong
	case editCmd.FullCommand():
		c.Song = *editSong
	case recordCmd.FullCommand():
		c.Song = *recordSong
	case syncCmd.FullCommand():
		c.Song = *syncSong
	case importCmd.FullCommand():
		c.Song = *importSong
		c.MidiFile = *importFile
	case scoresCmd.FullCommand():
		c.Song = *scoresSong
	}
	return c, nil
}

// Tuning derives the playfield and the calibration from the flags. saved is
// the calibration kept in settings; without one the base time is how long a
// note takes to reach the window at the configured speed.
func Tuning(saved *game.CoordinationData) (game.Field, game.CoordinationData) {
	field := game.DefaultField(*Height, *Entry, *Exit)
	var coord game.CoordinationData
	if nil != saved {
		coord = *saved
	} else {
		coord.BaseTime = int64(math.Round(field.TravelTicks(*Speed)))
		coord.EndTime = coord.BaseTime + int64(math.Round(field.WindowTicks(*Speed)))
	}
	if *BaseTime >= 0 {
		coord.BaseTime = *BaseTime
	}
	// Sync comes from each song
	coord.Sync = 0
	return field, coord
}
