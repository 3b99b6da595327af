package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/arrowner/internal/game"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SongFile is where a song's chart lives under the songs directory.
func SongFile(songs, name string) string {
	return filepath.Join(songs, name, "data.json")
}

// AudioFile is the song's mp3.
func AudioFile(songs, name string) string {
	return filepath.Join(songs, name, "audio.mp3")
}

type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Song, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return game.EmptySong(), fmt.Errorf("unable to read song %v: %w", file, err)
	}
	song, err := p.Decode(data)
	if nil != err {
		return game.EmptySong(), fmt.Errorf("unable to parse song %v: %w", file, err)
	}
	if err := song.Validate(); nil != err {
		log.Println("song", file, "is inconsistent:", err)
	}
	return song, nil
}

func (p *DefaultParser) Decode(data []byte) (*game.Song, error) {
	var song game.Song
	if err := json.Unmarshal(data, &song); nil != err {
		return nil, err
	}
	for l := game.Lane(0); l < game.NLanes; l++ {
		song.SetNotes(l, song.Notes(l))
	}
	return &song, nil
}

// Encode writes the song in the compact form songs are stored in.
func (p *DefaultParser) Encode(song *game.Song) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(song); nil != err {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Save writes the fields the editor owns into file. Anything else already
// in the file is left as it is. A missing file is created from scratch.
func (p *DefaultParser) Save(file string, song *game.Song) error {
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) || (nil == err && !gjson.ValidBytes(data)) {
		data, err = p.Encode(song)
		if nil != err {
			return fmt.Errorf("unable to encode song: %w", err)
		}
		return p.write(file, data)
	}
	if nil != err {
		return fmt.Errorf("unable to read song %v: %w", file, err)
	}

	for l := game.Lane(0); l < game.NLanes; l++ {
		raw, err := json.Marshal(song.Notes(l))
		if nil != err {
			return fmt.Errorf("unable to encode %v: %w", l.Key(), err)
		}
		if data, err = sjson.SetRawBytes(data, l.Key(), raw); nil != err {
			return fmt.Errorf("unable to set %v: %w", l.Key(), err)
		}
	}
	if data, err = sjson.SetBytes(data, "end", song.End); nil != err {
		return fmt.Errorf("unable to set end: %w", err)
	}
	// A recorded song gets its id on the first save only
	if id := gjson.GetBytes(data, "id"); song.HasID() && (!id.Exists() || id.Type == gjson.Null || id.Raw == "0") {
		if data, err = sjson.SetRawBytes(data, "id", []byte(song.ID.String())); nil != err {
			return fmt.Errorf("unable to set id: %w", err)
		}
	}
	if !gjson.GetBytes(data, "sync").Exists() && nil != song.Sync {
		if data, err = sjson.SetBytes(data, "sync", *song.Sync); nil != err {
			return fmt.Errorf("unable to set sync: %w", err)
		}
	}
	return p.write(file, data)
}

// SetSync stores only the song's sync value.
func (p *DefaultParser) SetSync(file string, sync int64) error {
	data, err := os.ReadFile(file)
	if nil != err {
		return fmt.Errorf("unable to read song %v: %w", file, err)
	}
	if data, err = sjson.SetBytes(data, "sync", sync); nil != err {
		return fmt.Errorf("unable to set sync: %w", err)
	}
	return p.write(file, data)
}

// Peek reads a song's name, id and sync without decoding its notes.
func (p *DefaultParser) Peek(file string) (Info, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return Info{}, fmt.Errorf("unable to read song %v: %w", file, err)
	}
	if !gjson.ValidBytes(data) {
		return Info{}, fmt.Errorf("unable to parse song %v: invalid json", file)
	}
	results := gjson.GetManyBytes(data, "name", "id", "sync")
	info := Info{
		Name: results[0].String(),
		Sync: results[2].Int(),
	}
	if results[1].Type == gjson.Number {
		info.ID = results[1].Raw
	}
	return info, nil
}

// write replaces file through a temporary so a failed save leaves the old
// file in place.
func (p *DefaultParser) write(file string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); nil != err {
		return fmt.Errorf("unable to create song directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(file), ".data-*.json")
	if nil != err {
		return fmt.Errorf("unable to create temporary song file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); nil != err {
		tmp.Close()
		return fmt.Errorf("unable to write song: %w", err)
	}
	if _, err := tmp.Write(data); nil != err {
		tmp.Close()
		return fmt.Errorf("unable to write song: %w", err)
	}
	if err := tmp.Close(); nil != err {
		return fmt.Errorf("unable to write song: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); nil != err {
		return fmt.Errorf("unable to replace song %v: %w", file, err)
	}
	return nil
}
