package input

import (
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"strconv"

	"git.lost.host/meutraa/arrowner/internal/game"
)

// MinHold is the shortest press kept as a hold when authoring. Anything
// shorter is an ordinary tap.
const MinHold = 50

// Recorder collects notes authored by playing along to a song.
type Recorder struct {
	notes [game.NLanes][]game.Note
	rng   *rand.Rand
}

func NewRecorder(seed int64) *Recorder {
	return &Recorder{rng: rand.New(rand.NewSource(seed))}
}

// Add stores a finished press as a note.
func (r *Recorder) Add(lane game.Lane, note game.Note) {
	if !lane.Playable() {
		return
	}
	if note.Holding < MinHold {
		note.Holding = 0
	}
	r.notes[lane] = append(r.notes[lane], note)
}

// Notes returns what was recorded in a lane, in tick order.
func (r *Recorder) Notes(lane game.Lane) []game.Note {
	notes := append([]game.Note(nil), r.notes[lane]...)
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Time < notes[j].Time })
	return notes
}

// Song writes the recording into base, ending the song at end. The id is
// generated the first time a song is saved and kept afterwards.
func (r *Recorder) Song(base *game.Song, end int64) *game.Song {
	song := *base
	for lane := game.Lane(0); lane < game.NLanes; lane++ {
		song.SetNotes(lane, r.Notes(lane))
	}
	if end < 0 {
		end = 0
	}
	song.End = uint64(end)
	if last := song.LastTick(); song.End < last {
		song.End = last
	}
	if !song.HasID() {
		id := json.Number(strconv.FormatInt(r.rng.Int63n(math.MaxInt64)+1, 10))
		song.ID = &id
	}
	if nil == song.Sync {
		var sync int64
		song.Sync = &sync
	}
	return &song
}
