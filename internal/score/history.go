package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

// History keeps every finished performance in a sqlite database.
type History struct {
	db *sql.DB
}

type InputsCompact struct {
	Lane     game.Lane
	Times    []int64
	Releases []int64
}

func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if int(i.Lane) >= laneCount {
			laneCount = int(i.Lane) + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for l := range ins {
		ins[l] = InputsCompact{Lane: game.Lane(l), Times: []int64{}, Releases: []int64{}}
	}
	for _, i := range inputs {
		ins[i.Lane].Times = append(ins[i.Lane].Times, i.HitTime)
		ins[i.Lane].Releases = append(ins[i.Lane].Releases, i.ReleaseTime)
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for j, t := range i.Times {
			release := t
			if j < len(i.Releases) {
				release = i.Releases[j]
			}
			ins = append(ins, game.Input{Lane: i.Lane, HitTime: t, ReleaseTime: release})
		}
	}
	return ins
}

func (h *History) Init(file string) error {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text,
		  song text,
		  points integer,
		  max_combo integer,
		  hits integer,
		  hold_ticks integer,
		  misses integer,
		  played integer,
		  inputs bytearray
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create score table: %w", err)
	}

	h.db = db
	return nil
}

func (h *History) Deinit() {
	if nil != h.db {
		h.db.Close()
	}
}

// hashSong identifies a chart by its notes, so edits start a fresh history.
func hashSong(song *game.Song) string {
	notes := [game.NLanes][]game.Note{}
	for l := game.Lane(0); l < game.NLanes; l++ {
		notes[l] = song.Notes(l)
	}
	data, _ := json.Marshal(notes)
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (h *History) Save(song *game.Song, result game.Score, inputs []game.Input) error {
	data, err := json.Marshal(compactInputs(inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = h.db.Exec(
		"insert into scores(sum, song, points, max_combo, hits, hold_ticks, misses, played, inputs) values(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		hashSong(song), song.Name, result.Points, result.MaxCombo, result.Hits, result.HoldTicks, result.Misses, time.Now().Unix(), data,
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

// Load returns the stored performances of a song, oldest first.
func (h *History) Load(song *game.Song) []Record {
	records := []Record{}
	rows, err := h.db.Query(
		"select sum, points, max_combo, hits, hold_ticks, misses, played, inputs from scores where sum = ? order by id",
		hashSong(song),
	)
	if nil != err {
		log.Println("unable to load scores", err)
		return records
	}
	defer rows.Close()
	for rows.Next() {
		var r Record
		var played int64
		var data []byte
		err := rows.Scan(&r.Sum, &r.Score.Points, &r.Score.MaxCombo, &r.Score.Hits, &r.Score.HoldTicks, &r.Score.Misses, &played, &data)
		if nil != err {
			log.Println("unable to scan score", err)
			continue
		}
		var ins []InputsCompact
		if err := json.Unmarshal(data, &ins); nil != err {
			log.Println("unable to unmarshal input history", err)
			continue
		}
		r.Inputs = uncompactInputs(ins)
		r.Played = time.Unix(played, 0)
		records = append(records, r)
	}
	return records
}

// Best returns the highest scoring performance of a song.
func (h *History) Best(song *game.Song) (Record, bool) {
	var best Record
	found := false
	for _, r := range h.Load(song) {
		if !found || r.Score.Points > best.Score.Points {
			best = r
			found = true
		}
	}
	return best, found
}
