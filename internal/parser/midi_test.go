package parser

import (
	"bytes"
	"testing"

	"git.lost.host/meutraa/arrowner/internal/game"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// At 120 bpm and 480 ticks a beat, a beat is half a second: 50 game ticks.
func testMidi(t *testing.T) *bytes.Buffer {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(480, midi.NoteOn(0, 60, 100)) // Left at 50
	track.Add(240, midi.NoteOff(0, 60))     // short, so a tap
	track.Add(240, midi.NoteOn(1, 64, 100)) // Down at 100
	track.Add(960, midi.NoteOn(1, 64, 0))   // held for two beats
	track.Add(0, midi.NoteOn(0, 61, 100))   // not mapped
	track.Add(480, midi.NoteOff(0, 61))
	track.Add(0, midi.NoteOn(0, 65, 100)) // Right at 250
	track.Add(10, midi.NoteOff(0, 65))
	track.Close(0)
	if err := s.Add(track); nil != err {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); nil != err {
		t.Fatal(err)
	}
	return &buf
}

func TestMidiImport(t *testing.T) {
	p := NewMidiParser()
	song, err := p.Read(testMidi(t))
	if nil != err {
		t.Fatal(err)
	}
	expected := map[game.Lane][]game.Note{
		game.Left:  {{Time: 50}},
		game.Up:    {},
		game.Down:  {{Time: 100, Holding: 100}},
		game.Right: {{Time: 250}},
	}
	for lane, notes := range expected {
		got := song.Notes(lane)
		if len(got) != len(notes) {
			t.Log(lane, got)
			t.Fail()
			continue
		}
		for i := range notes {
			if got[i] != notes[i] {
				t.Log(lane, got)
				t.Fail()
			}
		}
	}
	if song.End != 350 || song.BeatsPerMinute() != 120 {
		t.Log(song.End, song.BeatsPerMinute())
		t.Fail()
	}
	if err := song.Validate(); nil != err {
		t.Error(err)
	}
}

func TestTempoMap(t *testing.T) {
	m := tempoMap{resolution: 100, tempos: []tempo{{0, 60}, {200, 120}}}
	// 200 ticks at 60 bpm is 2s, then 100 ticks at 120 is 0.5s
	if ticks := m.ticks(300); ticks != 250 {
		t.Errorf("expected 250, got %v", ticks)
	}
	empty := tempoMap{resolution: 480}
	if ticks := empty.ticks(480); ticks != 50 {
		t.Errorf("default tempo: expected 50, got %v", ticks)
	}
}

func TestDropOverlaps(t *testing.T) {
	notes := dropOverlaps([]game.Note{{Time: 40}, {Time: 10, Holding: 50}, {Time: 60}, {Time: 60}})
	if len(notes) != 2 || notes[0].Time != 10 || notes[1].Time != 60 {
		t.Log(notes)
		t.Fail()
	}
}
