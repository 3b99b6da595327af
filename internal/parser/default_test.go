package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/testdata"
	"github.com/tidwall/gjson"
)

func writeSong(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "song", "data.json")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); nil != err {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte(content), 0o644); nil != err {
		t.Fatal(err)
	}
	return file
}

func TestRoundTrip(t *testing.T) {
	p := DefaultParser{}
	for shape, content := range testdata.Songs {
		song, err := p.Decode([]byte(content))
		if nil != err {
			t.Fatal(shape, err)
		}
		out, err := p.Encode(song)
		if nil != err {
			t.Fatal(shape, err)
		}
		if string(out) != content {
			t.Log("shape   ", shape)
			t.Log("out     ", string(out))
			t.Log("expected", content)
			t.Fail()
		}
	}
}

func TestSaveUnchanged(t *testing.T) {
	p := DefaultParser{}
	for shape, content := range testdata.Songs {
		file := writeSong(t, content)
		song, err := p.Parse(file)
		if nil != err {
			t.Fatal(err)
		}
		if err := p.Save(file, song); nil != err {
			t.Fatal(err)
		}
		data, _ := os.ReadFile(file)
		if string(data) != content {
			t.Log("shape   ", shape)
			t.Log("out     ", string(data))
			t.Log("expected", content)
			t.Fail()
		}
	}
}

func TestSavePreservesUnknown(t *testing.T) {
	p := DefaultParser{}
	file := writeSong(t, `{
  "name": "extra",
  "artist": "someone",
  "id": 7,
  "left_keys": [],
  "up_keys": [],
  "bottom_keys": [],
  "right_keys": [],
  "end": 100,
  "sync": 3,
  "bpm": null
}`)
	song, err := p.Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	song.UpKeys = []game.Note{{Time: 50}}
	song.End = 200
	if err := p.Save(file, song); nil != err {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(file)
	if gjson.GetBytes(data, "artist").String() != "someone" || gjson.GetBytes(data, "sync").Int() != 3 {
		t.Log(string(data))
		t.Fail()
	}
	again, err := p.Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	if again.End != 200 || len(again.UpKeys) != 1 || again.UpKeys[0] != (game.Note{Time: 50}) {
		t.Log(again)
		t.Fail()
	}
}

func TestSaveNewFile(t *testing.T) {
	p := DefaultParser{}
	file := filepath.Join(t.TempDir(), "new", "data.json")
	song := game.EmptySong()
	song.Name = "new"
	song.End = 10
	if err := p.Save(file, song); nil != err {
		t.Fatal(err)
	}
	again, err := p.Parse(file)
	if nil != err || again.Name != "new" || again.End != 10 {
		t.Log(again, err)
		t.Fail()
	}
}

func TestParseFailure(t *testing.T) {
	p := DefaultParser{}
	tests := map[string]string{
		"missing": filepath.Join(t.TempDir(), "nothing.json"),
		"corrupt": writeSong(t, `{"name": "broken", "left_keys": [`),
	}
	for name, file := range tests {
		song, err := p.Parse(file)
		if nil == err {
			t.Error("expected an error for", name)
		}
		if nil == song || song.End != 0 || song.NoteCount() != 0 {
			t.Error("expected the empty song for", name)
		}
	}
}

func TestSetSyncAndPeek(t *testing.T) {
	p := DefaultParser{}
	file := writeSong(t, testdata.Songs["taps"])
	if err := p.SetSync(file, 15); nil != err {
		t.Fatal(err)
	}
	info, err := p.Peek(file)
	if nil != err {
		t.Fatal(err)
	}
	if info.Name != "taps" || info.ID != "277070409293037494340728272044087117748" || info.Sync != 15 {
		t.Log(info)
		t.Fail()
	}
	song, _ := p.Parse(file)
	if song.SyncTicks() != 15 || len(song.UpKeys) != 2 {
		t.Log(song)
		t.Fail()
	}
}

func TestEditorInsertSaved(t *testing.T) {
	p := DefaultParser{}
	file := writeSong(t, testdata.Songs["legacy"])
	song, _ := p.Parse(file)
	song.End = 600
	song.UpKeys = append(song.UpKeys, game.Note{Time: 500})
	if err := p.Save(file, song); nil != err {
		t.Fatal(err)
	}
	again, _ := p.Parse(file)
	count := 0
	for l := game.Lane(0); l < game.NLanes; l++ {
		for _, n := range again.Notes(l) {
			if n.Time == 500 {
				count++
				if l != game.Up || n.Holding != 0 {
					t.Error("note at 500 in the wrong place", l, n)
				}
			}
		}
	}
	if count != 1 {
		t.Errorf("expected one note at 500, got %v", count)
	}
	if nil != again.Sync || nil != again.BPM || nil != again.ID {
		t.Error("null fields were filled in")
	}
}

func TestSaveReplacesPlaceholderID(t *testing.T) {
	p := DefaultParser{}
	file := writeSong(t, `{"name": "rec", "id": 0, "left_keys": [], "up_keys": [], "bottom_keys": [], "right_keys": [], "end": 10, "sync": 0, "bpm": null}`)
	song, err := p.Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	if song.HasID() {
		t.Fatal("0 should read as no id")
	}
	id := json.Number("123456789")
	song.ID = &id
	if err := p.Save(file, song); nil != err {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(file)
	if raw := gjson.GetBytes(data, "id").Raw; raw != "123456789" {
		t.Log(string(data))
		t.Fail()
	}
}
