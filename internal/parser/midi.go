package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.lost.host/meutraa/arrowner/internal/game"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MidiParser imports a Standard MIDI File as a chart. Four pitches, on any
// channel, are mapped to the lanes; everything else is ignored.
type MidiParser struct {
	Pitches [game.NLanes]uint8
	// Notes held for less than MinHold ticks become taps
	MinHold uint64
	// Ticks of silence kept after the last note
	Tail uint64
}

// DefaultPitches are C4, D4, E4 and F4.
var DefaultPitches = [game.NLanes]uint8{60, 62, 64, 65}

func NewMidiParser() *MidiParser {
	return &MidiParser{Pitches: DefaultPitches, MinHold: 50, Tail: 100}
}

func (p *MidiParser) Parse(file string) (*game.Song, error) {
	f, err := os.Open(file)
	if nil != err {
		return game.EmptySong(), fmt.Errorf("unable to open midi file %v: %w", file, err)
	}
	defer f.Close()
	song, err := p.Read(f)
	if nil != err {
		return game.EmptySong(), fmt.Errorf("unable to import %v: %w", file, err)
	}
	song.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return song, nil
}

type tempo struct {
	abs int64
	bpm float64
}

// tempoMap converts absolute midi ticks to game ticks.
type tempoMap struct {
	resolution float64
	tempos     []tempo
}

func (m *tempoMap) ticks(abs int64) uint64 {
	var micros float64
	last, bpm := int64(0), 120.0
	for _, t := range m.tempos {
		if t.abs >= abs {
			break
		}
		micros += float64(t.abs-last) * 60e6 / (bpm * m.resolution)
		last, bpm = t.abs, t.bpm
	}
	micros += float64(abs-last) * 60e6 / (bpm * m.resolution)
	return uint64(micros/10000 + 0.5)
}

func (p *MidiParser) Read(r io.Reader) (*game.Song, error) {
	s, err := smf.ReadFrom(r)
	if nil != err {
		return nil, err
	}
	resolution, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	m := &tempoMap{resolution: float64(resolution)}

	type span struct {
		lane       game.Lane
		start, end int64
	}
	spans := []span{}

	for _, track := range s.Tracks {
		var abs int64
		open := map[uint8]int64{}
		for _, ev := range track {
			abs += int64(ev.Delta)
			var bpm float64
			var ch, key, vel uint8
			switch {
			case ev.Message.GetMetaTempo(&bpm):
				m.tempos = append(m.tempos, tempo{abs: abs, bpm: bpm})
			case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				if _, held := open[key]; !held {
					open[key] = abs
				}
			case ev.Message.GetNoteOn(&ch, &key, &vel), ev.Message.GetNoteOff(&ch, &key, &vel):
				start, held := open[key]
				if !held {
					continue
				}
				delete(open, key)
				for lane, pitch := range p.Pitches {
					if pitch == key {
						spans = append(spans, span{lane: game.Lane(lane), start: start, end: abs})
					}
				}
			}
		}
	}
	sort.SliceStable(m.tempos, func(i, j int) bool { return m.tempos[i].abs < m.tempos[j].abs })

	song := game.EmptySong()
	song.ID = nil
	lanes := [game.NLanes][]game.Note{}
	for _, sp := range spans {
		start := m.ticks(sp.start)
		holding := m.ticks(sp.end) - start
		if holding < p.MinHold {
			holding = 0
		}
		lanes[sp.lane] = append(lanes[sp.lane], game.Note{Time: start, Holding: holding})
	}
	for l := game.Lane(0); l < game.NLanes; l++ {
		song.SetNotes(l, dropOverlaps(lanes[l]))
	}
	song.End = song.LastTick() + p.Tail
	if len(m.tempos) > 0 {
		bpm := uint64(m.tempos[0].bpm + 0.5)
		song.BPM = &bpm
	}
	return song, nil
}

// dropOverlaps keeps the earliest of any notes that overlap in a lane.
func dropOverlaps(notes []game.Note) []game.Note {
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Time < notes[j].Time })
	kept := []game.Note{}
	var free uint64
	for i, n := range notes {
		if i > 0 && n.Time < free {
			continue
		}
		kept = append(kept, n)
		free = n.End()
		if !n.IsHold() {
			free = n.Time + 1
		}
	}
	return kept
}
